package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/DrSkyle/drifthound/pkg/engine"
	"github.com/DrSkyle/drifthound/pkg/version"
)

var (
	cfgFile string
	config  engine.Config
)

var rootCmd = &cobra.Command{
	Use:   "drifthound",
	Short: "Terraform drift detector for Google Cloud",
	Long: `Drifthound - Unmanaged Resource Detection for GCP

Compare. Attribute. Adopt.`,
	Version: version.Current,
	// Run: nil (Forces help output).
	Run: nil,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	// Persistent Flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default ~/.drifthound.yaml)")
	rootCmd.PersistentFlags().StringVar(&config.StateFile, "state-file", "", "Read the snapshot from a file instead of `terraform state pull`")
	rootCmd.PersistentFlags().StringVar(&config.RulesFile, "rules", "", "CEL policy rules file (YAML)")
	rootCmd.PersistentFlags().BoolVarP(&config.Verbose, "verbose", "v", false, "Debug-level logging")
	rootCmd.PersistentFlags().BoolVar(&config.JsonLogs, "json-logs", false, "JSON log output (for CI)")
	rootCmd.PersistentFlags().BoolVar(&config.MockMode, "mock", false, "Run against canned fixtures instead of GCP")

	// Hidden Flags
	rootCmd.PersistentFlags().StringVar(&config.GCPEndpoint, "gcp-endpoint", "", "Override the GCP API endpoint")
	rootCmd.PersistentFlags().MarkHidden("gcp-endpoint")
	rootCmd.PersistentFlags().StringVar(&config.OtelEndpoint, "otel-endpoint", "", "OTLP http endpoint for traces")
	rootCmd.PersistentFlags().MarkHidden("otel-endpoint")
	rootCmd.PersistentFlags().BoolVar(&config.SkipTelemetry, "skip-telemetry", false, "Disable OpenTelemetry init")
	rootCmd.PersistentFlags().MarkHidden("skip-telemetry")

	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		renderHelp(cmd)
	})

	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		applyFileConfig(cmd.Flags())

		config.Logger = engine.NewLogger(config.Verbose, config.JsonLogs)

		if cmd.Name() == "help" || cmd.Name() == "check" || cmd.Name() == "check-update" {
			checkUpdate()
		}
	}
}

func checkUpdate() {
	latest, err := fetchLatestVersion()
	if err == nil && strings.TrimSpace(latest) > version.Current {
		fmt.Fprintf(os.Stderr, "\n[UPDATE] Available: %s -> %s\nRun 'drifthound check-update' for instructions.\n\n", version.Current, latest)
	}
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.SetConfigFile(filepath.Join(home, ".drifthound.yaml"))
			viper.SetConfigType("yaml")
		}
	}
	viper.SetEnvPrefix("DRIFTHOUND")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
	viper.ReadInConfig()
}

// applyFileConfig backfills flags the user did not set from the viper
// layers (config file, DRIFTHOUND_* env). Explicit flags always win.
func applyFileConfig(fs *pflag.FlagSet) {
	fs.VisitAll(func(f *pflag.Flag) {
		if f.Changed || !viper.IsSet(f.Name) {
			return
		}
		fs.Set(f.Name, viper.GetString(f.Name))
	})
}

func renderHelp(cmd *cobra.Command) {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#00FF99")).
		MarginBottom(1)

	flagStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#AAAAAA"))

	fmt.Println(titleStyle.Render(fmt.Sprintf("DRIFTHOUND %s", version.Current)))
	fmt.Println("Terraform drift detection for Google Cloud organizations.")

	fmt.Println(titleStyle.Render("USAGE"))
	fmt.Printf("  %s\n\n", cmd.UseLine())

	fmt.Println(titleStyle.Render("COMMANDS"))
	for _, c := range cmd.Commands() {
		if c.IsAvailableCommand() {
			fmt.Printf("  %-12s %s\n", c.Name(), c.Short)
		}
	}
	fmt.Println("")

	fmt.Println(titleStyle.Render("EXAMPLES"))
	fmt.Println("  drifthound check ./infra                 # Pull state from ./infra, report drift")
	fmt.Println("  drifthound check --mock                  # Demo run against canned fixtures")
	fmt.Println("  drifthound check --fail-on-drift         # CI gate: exit 2 on drift")
	fmt.Println("")

	fmt.Println(titleStyle.Render("FLAGS"))
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if f.Hidden {
			return
		}
		output := fmt.Sprintf("  --%-15s %s", f.Name, f.Usage)
		if f.DefValue != "" && f.DefValue != "false" && f.DefValue != "0" {
			output += fmt.Sprintf(" (default %s)", f.DefValue)
		}
		fmt.Println(flagStyle.Render(output))
	})
	fmt.Println("")
}
