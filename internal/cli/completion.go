package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/gridboard/pkg/store"
)

// completeBackends completes values for --store.
func completeBackends(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return []string{
		store.BackendNone,
		store.BackendMemory,
		store.BackendFile,
		store.BackendRedis,
		store.BackendMongo,
	}, cobra.ShellCompDirectiveNoFileComp
}

// completionCommand prints shell completion scripts.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Print a completion script for the given shell to stdout.

Completions cover subcommands and flags, including --store backends:

  $ source <(gridboard completion bash)
  $ gridboard completion zsh > "${fpath[1]}/_gridboard"
  $ gridboard completion fish > ~/.config/fish/completions/gridboard.fish`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(out, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return nil
		},
	}

	return cmd
}
