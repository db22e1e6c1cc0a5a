package cli

import (
	"io"
	"maps"
	"slices"

	"github.com/spf13/cobra"
)

// shellCompletions maps a shell name to the cobra generator for it.
var shellCompletions = map[string]func(root *cobra.Command, w io.Writer) error{
	"bash":       func(r *cobra.Command, w io.Writer) error { return r.GenBashCompletionV2(w, true) },
	"zsh":        (*cobra.Command).GenZshCompletion,
	"fish":       func(r *cobra.Command, w io.Writer) error { return r.GenFishCompletion(w, true) },
	"powershell": (*cobra.Command).GenPowerShellCompletionWithDesc,
}

func (c *CLI) completionCommand() *cobra.Command {
	shells := slices.Sorted(maps.Keys(shellCompletions))
	return &cobra.Command{
		Use:   "completion SHELL",
		Short: "Print a shell completion script",
		Long: `Print a completion script for bash, zsh, fish or powershell.

  source <(tagcloud completion bash)
  tagcloud completion zsh > "${fpath[1]}/_tagcloud"
  tagcloud completion fish > ~/.config/fish/completions/tagcloud.fish`,
		DisableFlagsInUseLine: true,
		ValidArgs:             shells,
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return shellCompletions[args[0]](cmd.Root(), cmd.OutOrStdout())
		},
	}
}
