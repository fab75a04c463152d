package commands

import (
	"github.com/spf13/cobra"
)

// NewCompletionCommand creates the completion command for shell completions
func NewCompletionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion script",
		Long: `Generate shell completion script for Sylvre CLI.

To load completions:

Bash:

  $ source <(sylvre completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ sylvre completion bash > /etc/bash_completion.d/sylvre
  # macOS:
  $ sylvre completion bash > $(brew --prefix)/etc/bash_completion.d/sylvre

Zsh:

  # If shell completion is not already enabled in your environment,
  # you will need to enable it. You can execute the following once:

  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ sylvre completion zsh > "${fpath[1]}/_sylvre"

  # You will need to start a new shell for this setup to take effect.

Fish:

  $ sylvre completion fish | source

  # To load completions for each session, execute once:
  $ sylvre completion fish > ~/.config/fish/completions/sylvre.fish

PowerShell:

  PS> sylvre completion powershell | Out-String | Invoke-Expression

  # To load completions for every new session, run:
  PS> sylvre completion powershell > sylvre.ps1
  # and source this file from your PowerShell profile.
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			shell := args[0]
			root := cmd.Root()

			switch shell {
			case "bash":
				return root.GenBashCompletion(cmd.OutOrStdout())
			case "zsh":
				return root.GenZshCompletion(cmd.OutOrStdout())
			case "fish":
				return root.GenFishCompletion(cmd.OutOrStdout(), true)
			case "powershell":
				return root.GenPowerShellCompletionWithDesc(cmd.OutOrStdout())
			}
			return nil
		},
	}

	return cmd
}
