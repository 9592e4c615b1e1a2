package cli

import (
	"strings"

	"github.com/spf13/cobra"
)

// completionCommand prints a completion script for bash, zsh or fish.
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion <bash|zsh|fish>",
		Short: "Print a shell completion script",
		Long: `Print a completion script for widgetshare to stdout.

  source <(widgetshare completion bash)
  widgetshare completion zsh > "${fpath[1]}/_widgetshare"
  widgetshare completion fish > ~/.config/fish/completions/widgetshare.fish

Widget IDs are completed from the active dashboard.`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := cmd.Root()
			switch args[0] {
			case "zsh":
				return root.GenZshCompletion(stdout)
			case "fish":
				return root.GenFishCompletion(stdout, true)
			default:
				return root.GenBashCompletionV2(stdout, true)
			}
		},
	}
}

// completeWidgetIDs offers the ids of the active dashboard for --widget.
func (c *CLI) completeWidgetIDs(_ *cobra.Command, _ []string, prefix string) ([]string, cobra.ShellCompDirective) {
	d, err := c.loadDashboard()
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	var ids []string
	for _, w := range d.Widgets {
		if strings.HasPrefix(w.ID, prefix) {
			ids = append(ids, w.ID+"\t"+w.Title)
		}
	}
	return ids, cobra.ShellCompDirectiveNoFileComp
}
