package cli

import (
	"sort"
	"strings"

	"github.com/spf13/cobra"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for gridshift.

Page arguments complete to .toml and .json files and to the IDs of pages in
the configured store.

  bash:        source <(gridshift completion bash)
  zsh:         gridshift completion zsh > "${fpath[1]}/_gridshift"
  fish:        gridshift completion fish | source
  powershell:  gridshift completion powershell | Out-String | Invoke-Expression`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(cmd.OutOrStdout())
			case "zsh":
				return cmd.Root().GenZshCompletion(cmd.OutOrStdout())
			case "fish":
				return cmd.Root().GenFishCompletion(cmd.OutOrStdout(), true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(cmd.OutOrStdout())
			}
			return nil
		},
	}

	return cmd
}

// completePages completes the first argument to stored page IDs. Files are
// left to the shell's default completion.
func (c *CLI) completePages(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	ctx := cmd.Context()
	if c.config == nil {
		if cfg, err := loadConfig(c.configPath); err == nil {
			c.config = cfg
		}
	}
	st, err := c.openStore(ctx)
	if err != nil {
		return nil, cobra.ShellCompDirectiveDefault
	}
	defer st.Close()

	ids, err := st.List(ctx)
	if err != nil {
		return nil, cobra.ShellCompDirectiveDefault
	}
	var out []string
	for _, id := range ids {
		if strings.HasPrefix(id, toComplete) {
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out, cobra.ShellCompDirectiveDefault
}
