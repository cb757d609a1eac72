package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/DrSkyle/drifthound/pkg/engine/permissions"
)

var permissionsJSON bool

var permissionsCmd = &cobra.Command{
	Use:       "permissions [check ...]",
	Short:     "Generate the read-only IAM role the checks need",
	Long: `Prints the GCP permission set required to run drifthound, as a custom
role YAML stanza ready for gcloud iam roles create.

Pass check names to narrow the role to a subset of checks.

Example:
  drifthound permissions
  drifthound permissions org-iam dns-records
  drifthound permissions --json`,
	ValidArgs: permissions.CheckNames(),
	Args:      cobra.OnlyValidArgs,
	Run: func(cmd *cobra.Command, args []string) {
		var (
			out []byte
			err error
		)
		if permissionsJSON {
			out, err = permissions.GenerateList(args)
		} else {
			out, err = permissions.GenerateRole(args)
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error generating role: %v\n", err)
			os.Exit(1)
		}

		fmt.Println(string(out))
	},
}

func init() {
	rootCmd.AddCommand(permissionsCmd)
	permissionsCmd.Flags().BoolVar(&permissionsJSON, "json", false, "Flat JSON permission list instead of role YAML")
}
