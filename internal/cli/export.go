package cli

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/widgetshare/pkg/coordinator"
	"github.com/matzehuels/widgetshare/pkg/errors"
	"github.com/matzehuels/widgetshare/pkg/share"
	"github.com/matzehuels/widgetshare/pkg/widget"
)

// exportOptions holds flags for the export command.
type exportOptions struct {
	widgetID string
	format   string
	filters  map[string]string
}

// exportCommand creates the export command.
func (c *CLI) exportCommand() *cobra.Command {
	opts := exportOptions{}

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a widget as CSV, PDF, PNG or JPG",
		Long: `Export a dashboard widget to a file.

Tables export as csv or pdf. Graphs export as pdf, png or jpg.`,
		Example: `  widgetshare export --widget employee-table --format csv
  widgetshare export -w employee-table -f pdf --filter department=engineering
  widgetshare export -w monthly-sales -f png -d dashboard.toml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runExport(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.widgetID, "widget", "w", "", "widget id (see 'widgets')")
	_ = cmd.RegisterFlagCompletionFunc("widget", c.completeWidgetIDs)
	cmd.Flags().StringVarP(&opts.format, "format", "f", "pdf", "output format: csv, pdf, png, jpg")
	cmd.Flags().StringToStringVar(&opts.filters, "filter", nil, "keep table rows whose column contains a value (column=value)")
	_ = cmd.MarkFlagRequired("widget")

	return cmd
}

func (c *CLI) runExport(ctx context.Context, opts exportOptions) error {
	format, err := widget.ParseFormat(opts.format)
	if err != nil {
		return err
	}

	a, err := c.newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	w, coord, err := a.widget(opts.widgetID)
	if err != nil {
		return err
	}
	if len(opts.filters) > 0 {
		if w, err = w.Filter(opts.filters); err != nil {
			return err
		}
		coord = w.Coordinator(a.deps)
	}
	if !w.WidgetKind().Supports(format) {
		return errors.New(errors.ErrCodeInvalidFormat, "%s widgets export as %s, not %s",
			w.WidgetKind(), formatList(w.WidgetKind().Formats()), format)
	}

	prog := newProgress(loggerFromContext(ctx))
	out := coord.Export(ctx, format)
	prog.done("export " + w.ID)

	if err := outcomeError(ctx, out); err != nil {
		return err
	}
	a.reportOutcome(out)
	return a.finish(ctx)
}

// shareOptions holds flags for the share command.
type shareOptions struct {
	widgetID string
	platform string
}

// shareCommand creates the share command.
func (c *CLI) shareCommand() *cobra.Command {
	opts := shareOptions{}

	cmd := &cobra.Command{
		Use:   "share",
		Short: "Share a widget by email, WhatsApp or Telegram",
		Long: `Share a dashboard widget.

Tables are shared as PDF, graphs as PNG. Without a native share sheet the
file is downloaded and the platform's compose page opens in the browser.`,
		Example: `  widgetshare share --widget employee-table --platform email
  widgetshare share -w monthly-sales -p telegram`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runShare(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.widgetID, "widget", "w", "", "widget id (see 'widgets')")
	_ = cmd.RegisterFlagCompletionFunc("widget", c.completeWidgetIDs)
	cmd.Flags().StringVarP(&opts.platform, "platform", "p", "email", "platform: "+platformList())
	_ = cmd.MarkFlagRequired("widget")

	return cmd
}

func (c *CLI) runShare(ctx context.Context, opts shareOptions) error {
	platform, err := widget.ParsePlatform(opts.platform)
	if err != nil {
		return err
	}

	a, err := c.newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	w, coord, err := a.widget(opts.widgetID)
	if err != nil {
		return err
	}

	prog := newProgress(loggerFromContext(ctx))
	out := coord.Share(ctx, platform)
	prog.done("share " + w.ID)

	if err := outcomeError(ctx, out); err != nil {
		return err
	}
	if out.Share.Method != share.MethodNone {
		printKeyValue("Method", out.Share.Method.String())
	}
	a.reportOutcome(out)
	return a.finish(ctx)
}

// outcomeError turns a failed outcome into the command's error. The notifier
// has already shown the user-facing message.
func outcomeError(ctx context.Context, out coordinator.Outcome) error {
	switch {
	case out.Cancelled && ctx.Err() != nil:
		return ctx.Err()
	case out.Cancelled:
		printWarning("Cancelled")
		return nil
	case out.Err != nil:
		return out.Err
	}
	return nil
}

func platformList() string {
	names := make([]string, len(widget.Platforms))
	for i, p := range widget.Platforms {
		names[i] = p.String()
	}
	return strings.Join(names, ", ")
}
