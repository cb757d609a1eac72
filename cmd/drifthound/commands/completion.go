package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate completion script",
	Long: `To load completions:

Bash:
  $ source <(drifthound completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ drifthound completion bash > /etc/bash_completion.d/drifthound
  # macOS:
  $ drifthound completion bash > /usr/local/etc/bash_completion.d/drifthound

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it.  You can execute the following once:

  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ drifthound completion zsh > "${fpath[1]}/_drifthound"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ drifthound completion fish | source

  # To load completions for each session, execute once:
  $ drifthound completion fish > ~/.config/fish/completions/drifthound.fish
`,
	DisableFlagsInUseLine: true,
	ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
	Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	Run: func(cmd *cobra.Command, args []string) {
		switch args[0] {
		case "bash":
			fmt.Print(humanBashCompletion)
		case "zsh":
			rootCmd.GenZshCompletion(os.Stdout)
		case "fish":
			rootCmd.GenFishCompletion(os.Stdout, true)
		case "powershell":
			rootCmd.GenPowerShellCompletion(os.Stdout)
		}
	},
}

func init() {
	rootCmd.AddCommand(completionCmd)
}

// humanBashCompletion is a handcrafted, minimal bash completion script
// that avoids the robotic verbosity of auto-generated ones.
const humanBashCompletion = `
# drifthound bash completion

_drifthound_completion() {
    local cur prev opts
    COMPREPLY=()
    cur="${COMP_WORDS[COMP_CWORD]}"
    prev="${COMP_WORDS[COMP_CWORD-1]}"
    opts="check permissions check-update completion help"

    case "${prev}" in
        check)
            COMPREPLY=( $(compgen -W "--mock --state-file --rules --export --adopt-dir --strict --fail-on-drift --interactive --help" -- ${cur}) )
            return 0
            ;;
        permissions)
            COMPREPLY=( $(compgen -W "org-iam folders folder-iam dns-records --json --help" -- ${cur}) )
            return 0
            ;;
        check-update)
             COMPREPLY=( $(compgen -W "--help" -- ${cur}) )
             return 0
             ;;
        completion)
             COMPREPLY=( $(compgen -W "bash zsh fish powershell" -- ${cur}) )
             return 0
             ;;
        --state-file|--rules|--export|--adopt-dir)
             COMPREPLY=( $(compgen -f -- ${cur}) )
             return 0
             ;;
        *)
            ;;
    esac

    # Global Flags
    if [[ ${cur} == -* ]] ; then
        COMPREPLY=( $(compgen -W "--help --version --state-file --rules --mock --verbose --json-logs" -- ${cur}) )
        return 0
    fi

    # Subcommands
    COMPREPLY=( $(compgen -W "${opts}" -- ${cur}) )
}

complete -F _drifthound_completion drifthound
`
