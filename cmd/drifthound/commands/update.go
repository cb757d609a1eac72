package commands

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/DrSkyle/drifthound/pkg/version"
)

// updateCmd initiates a check for available updates.
var updateCmd = &cobra.Command{
	Use:   "check-update",
	Short: "Check for available updates",
	Run: func(cmd *cobra.Command, args []string) {
		latest, err := fetchLatestVersion()
		if err != nil {
			// Fail silently on update check errors.
			return
		}

		if latest != version.Current {
			fmt.Printf("\nUpdate available: %s -> %s\n", version.Current, latest)
			fmt.Println("   Run the following to upgrade:")
			fmt.Println("\n   brew upgrade drifthound")
		} else {
			fmt.Println("You are up to date.")
		}
	},
}

func init() {
	rootCmd.AddCommand(updateCmd)
}

func fetchLatestVersion() (string, error) {
	client := &http.Client{Timeout: 3 * time.Second}
	resp, err := client.Get(version.VersionURL)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(body)), nil
}
