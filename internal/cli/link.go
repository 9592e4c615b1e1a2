package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/matzehuels/widgetshare/pkg/errors"
	"github.com/matzehuels/widgetshare/pkg/host"
	"github.com/matzehuels/widgetshare/pkg/share"
	"github.com/matzehuels/widgetshare/pkg/widget"
)

// linkOptions holds flags for the link command.
type linkOptions struct {
	platform string
	url      string
	title    string
	text     string
	copy     bool
	open     bool
}

// linkCommand creates the link command, which builds a share link for a URL
// instead of a file.
func (c *CLI) linkCommand() *cobra.Command {
	opts := linkOptions{}

	cmd := &cobra.Command{
		Use:   "link",
		Short: "Build a share link for a URL",
		Example: `  widgetshare link --url https://example.com/report --platform telegram
  widgetshare link --url https://example.com/report -p email --copy`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLink(cmd.Context(), opts, host.SystemOpener())
		},
	}

	cmd.Flags().StringVarP(&opts.platform, "platform", "p", "whatsapp", "platform: "+platformList())
	cmd.Flags().StringVar(&opts.url, "url", "", "link to share (http or https)")
	cmd.Flags().StringVar(&opts.title, "title", share.DefaultTitle, "title sent with the link")
	cmd.Flags().StringVar(&opts.text, "text", share.DefaultText, "email body text placed before the link")
	cmd.Flags().BoolVar(&opts.copy, "copy", false, "copy the share link to the clipboard")
	cmd.Flags().BoolVar(&opts.open, "open", false, "open the share link in the browser")
	_ = cmd.MarkFlagRequired("url")

	return cmd
}

func (c *CLI) runLink(ctx context.Context, opts linkOptions, opener host.Opener) error {
	platform, err := widget.ParsePlatform(opts.platform)
	if err != nil {
		return err
	}
	if err := errors.ValidateURL(opts.url); err != nil {
		return err
	}

	link, err := share.LinkFor(platform, opts.url, opts.title, opts.text)
	if err != nil {
		return err
	}
	printLink(link)

	if opts.copy {
		if err := host.CopyToClipboard(link); err != nil {
			printWarning("Could not copy to clipboard: %s", errors.UserMessage(err))
		} else {
			printSuccess("Copied to clipboard")
		}
	}
	if opts.open {
		if err := opener.Open(ctx, link); err != nil {
			return errors.Wrap(errors.ErrCodeShare, err, "open %s link", platform.Label())
		}
		printSuccess("Opened %s", platform.Label())
	}
	return nil
}
