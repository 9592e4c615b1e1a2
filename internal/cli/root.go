package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/widgetshare/pkg/buildinfo"
)

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           appName,
		Short:         "Widgetshare exports and shares dashboard widgets",
		Long:          `Widgetshare exports dashboard tables as CSV or PDF and graphs as PDF, PNG or JPG, and shares them by email, WhatsApp or Telegram.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if c.verbose {
				c.SetLogLevel(LogDebug)
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	flags := root.PersistentFlags()
	flags.BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	flags.StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/widgetshare/config.toml)")
	flags.StringVarP(&c.dashboardPath, "dashboard", "d", "", "dashboard file (default: built-in sample)")

	root.AddCommand(c.widgetsCommand())
	root.AddCommand(c.exportCommand())
	root.AddCommand(c.shareCommand())
	root.AddCommand(c.linkCommand())
	root.AddCommand(c.tuiCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}
