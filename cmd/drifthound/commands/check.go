package commands

import (
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/DrSkyle/drifthound/pkg/engine"
	"github.com/DrSkyle/drifthound/pkg/engine/report"
	"github.com/DrSkyle/drifthound/pkg/tui"
)

var (
	failOnDrift bool
	interactive bool
)

var checkCmd = &cobra.Command{
	Use:   "check [terraform-dir]",
	Short: "Detect unmanaged drift against the terraform state",
	Long: `Pulls the terraform state snapshot, enumerates the live GCP estate and
reports every live resource the state does not account for.

The positional argument is the terraform working directory to pull state
from (default "."). Pass --state-file to skip the pull and read a
snapshot from disk, or --mock for a canned demo run.

Example:
  drifthound check ./infra
  drifthound check --state-file terraform.tfstate --rules rules.yaml
  drifthound check --mock --adopt-dir ./adopt`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) > 0 {
			config.TerraformDir = args[0]
		}

		eng, err := engine.New(cmd.Context(),
			engine.WithLogger(config.Logger),
			engine.WithConfig(config),
		)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		if interactive {
			model := tui.NewModel(eng)
			if _, err := tea.NewProgram(model).Run(); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			return
		}

		inv, err := eng.Run(cmd.Context())
		if err != nil && !errors.Is(err, engine.ErrPartialResult) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		renderer := &report.Renderer{W: os.Stdout}
		if renderErr := renderer.Render(inv); renderErr != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", renderErr)
			os.Exit(1)
		}

		// Partial coverage under --strict. The report above still shows
		// what the surviving checks found.
		if err != nil {
			os.Exit(1)
		}

		if failOnDrift && len(inv.Active()) > 0 {
			os.Exit(2)
		}
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().StringVar(&config.ExportPath, "export", "", "Write the JSON report to a path or gs://bucket/key")
	checkCmd.Flags().StringVar(&config.AdoptDir, "adopt-dir", "", "Generate terraform import artifacts into this directory")
	checkCmd.Flags().StringVar(&config.SlackWebhook, "slack-webhook", "", "Slack webhook URL for the drift summary")
	checkCmd.Flags().StringVar(&config.SlackChannel, "slack-channel", "", "Override the webhook's default channel")
	checkCmd.Flags().BoolVar(&config.NoHistory, "no-history", false, "Skip the run ledger")
	checkCmd.Flags().IntVar(&config.HistoryWindow, "history-window", 0, "Ledger snapshots to keep in the delta window (default 10)")
	checkCmd.Flags().BoolVar(&config.StrictMode, "strict", false, "Exit 1 when any check fails (partial coverage)")
	checkCmd.Flags().BoolVar(&failOnDrift, "fail-on-drift", false, "Exit 2 when unmanaged resources remain after rules")
	checkCmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "Browse findings in the TUI instead of printing")
}
