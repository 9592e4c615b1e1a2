package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/widgetshare/pkg/dashboard"
	"github.com/matzehuels/widgetshare/pkg/widget"
)

// widgetsCommand creates the widgets command.
func (c *CLI) widgetsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "widgets",
		Short: "List the dashboard's widgets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := c.loadDashboard()
			if err != nil {
				return err
			}
			fmt.Fprintln(stdout, StyleTitle.Render(d.Title))
			fmt.Fprintln(stdout, renderWidgetTable(d, -1))
			if ids := d.IDs(); len(ids) > 0 {
				printNextStep("Export one", appName+" export --widget "+ids[0]+" --format pdf")
			}
			return nil
		},
	}
}

// renderWidgetTable renders the widgets as a bordered table. The row at
// cursor is highlighted; pass -1 for none.
func renderWidgetTable(d *dashboard.Dashboard, cursor int) string {
	rows := make([][]string, 0, len(d.Widgets))
	for _, w := range d.Widgets {
		rows = append(rows, []string{w.ID, w.Title, w.WidgetKind().String(), formatList(w.WidgetKind().Formats()), dataSummary(w)})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("ID", "Title", "Kind", "Formats", "Data").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case row == cursor:
				return lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
			case col == 0:
				return StyleHighlight
			case col >= 3:
				return StyleDim
			default:
				return lipgloss.NewStyle()
			}
		})
	return t.Render()
}

func formatList(formats []widget.Format) string {
	names := make([]string, len(formats))
	for i, f := range formats {
		names[i] = f.String()
	}
	return strings.Join(names, ", ")
}

func dataSummary(w *dashboard.Widget) string {
	switch w.WidgetKind() {
	case widget.KindTable:
		return fmt.Sprintf("%d rows", len(w.Rows))
	case widget.KindGraph:
		return fmt.Sprintf("%d points", len(w.Points))
	default:
		return "—"
	}
}
