package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/widgetshare/pkg/coordinator"
	"github.com/matzehuels/widgetshare/pkg/dashboard"
	"github.com/matzehuels/widgetshare/pkg/errors"
	"github.com/matzehuels/widgetshare/pkg/widget"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// reloadMsg carries a dashboard reloaded from disk.
type reloadMsg struct {
	dashboard *dashboard.Dashboard
	err       error
}

// =============================================================================
// WidgetListModel - Interactive widget selection
// =============================================================================

// WidgetListModel is the bubbletea model for picking a dashboard widget.
type WidgetListModel struct {
	Dashboard *dashboard.Dashboard
	Cursor    int
	Selected  *dashboard.Widget
	Status    string
}

// NewWidgetListModel creates a widget list model for d.
func NewWidgetListModel(d *dashboard.Dashboard) WidgetListModel {
	return WidgetListModel{Dashboard: d}
}

func (m WidgetListModel) Init() tea.Cmd {
	return nil
}

func (m WidgetListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
			}
		case "down", "j":
			if m.Cursor < len(m.Dashboard.Widgets)-1 {
				m.Cursor++
			}
		case "enter":
			if len(m.Dashboard.Widgets) == 0 {
				return m, nil
			}
			m.Selected = m.Dashboard.Widgets[m.Cursor]
			return m, tea.Quit
		}
	case reloadMsg:
		if msg.err != nil {
			m.Status = styleIconError.Render(iconError) + " reload failed: " + errors.UserMessage(msg.err)
			return m, nil
		}
		m.Dashboard = msg.dashboard
		if m.Cursor >= len(m.Dashboard.Widgets) {
			m.Cursor = max(len(m.Dashboard.Widgets)-1, 0)
		}
		m.Status = styleIconSuccess.Render(iconSuccess) + " dashboard reloaded"
	}
	return m, nil
}

func (m WidgetListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.Dashboard.Title))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")
	b.WriteString(renderWidgetTable(m.Dashboard, m.Cursor))
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Dashboard.Widgets))))
	if m.Status != "" {
		b.WriteString("  ")
		b.WriteString(m.Status)
	}

	return b.String()
}

// =============================================================================
// ActionListModel - Export and share menu
// =============================================================================

// action is one entry of the action menu.
type action struct {
	widget.Option
	format   widget.Format
	platform widget.Platform
	share    bool
}

// actionsFor lists the export formats of kind followed by the share
// platforms.
func actionsFor(kind widget.Kind) []action {
	var actions []action
	for i, opt := range widget.ExportOptions(kind) {
		actions = append(actions, action{Option: opt, format: kind.Formats()[i]})
	}
	for i, opt := range widget.ShareOptions() {
		opt.Label = "Share via " + opt.Label
		actions = append(actions, action{Option: opt, platform: widget.Platforms[i], share: true})
	}
	return actions
}

// ActionListModel is the bubbletea model for the export and share menu of
// one widget.
type ActionListModel struct {
	Widget   *dashboard.Widget
	Actions  []action
	Cursor   int
	Selected *action
}

// NewActionListModel creates the action menu for w.
func NewActionListModel(w *dashboard.Widget) ActionListModel {
	return ActionListModel{Widget: w, Actions: actionsFor(w.WidgetKind())}
}

func (m ActionListModel) Init() tea.Cmd {
	return nil
}

func (m ActionListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
			}
		case "down", "j":
			if m.Cursor < len(m.Actions)-1 {
				m.Cursor++
			}
		case "enter":
			if len(m.Actions) == 0 {
				return m, nil
			}
			m.Selected = &m.Actions[m.Cursor]
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m ActionListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.Widget.Title))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("arrows: navigate  enter: select  q: back"))
	b.WriteString("\n\n")

	for i, a := range m.Actions {
		if i > 0 && a.share && !m.Actions[i-1].share {
			b.WriteString(listDimStyle.Render(strings.Repeat("-", 30)))
			b.WriteString("\n")
		}
		cursor := "  "
		if i == m.Cursor {
			cursor = "> "
		}
		line := cursor + a.Label
		if i == m.Cursor {
			b.WriteString(listSelectedStyle.Render(line))
		} else {
			b.WriteString(listNormalStyle.Render(line))
		}
		b.WriteString("\n")
	}

	return b.String()
}

// =============================================================================
// Command
// =============================================================================

// tuiCommand creates the interactive picker command.
func (c *CLI) tuiCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Pick widgets and actions interactively",
		Long: `Browse the dashboard's widgets and export or share them from a menu.

With --dashboard, the file is watched and the widget list reloads on save.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runTUI(cmd.Context())
		},
	}
}

func (c *CLI) runTUI(ctx context.Context) error {
	a, err := c.newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	current := a.dashboard
	for {
		picked, err := c.pickWidget(ctx, current)
		if err != nil {
			return err
		}
		current = picked.Dashboard
		if picked.Selected == nil {
			return a.finish(ctx)
		}

		w := picked.Selected
		m, err := tea.NewProgram(NewActionListModel(w), tea.WithContext(ctx)).Run()
		if err != nil {
			return err
		}
		choice := m.(ActionListModel).Selected
		if choice == nil {
			continue
		}

		if err := a.runAction(ctx, w, *choice); err != nil && ctx.Err() != nil {
			return ctx.Err()
		}
	}
}

// pickWidget runs the widget list. When the dashboard came from a file, the
// file is watched for the lifetime of the list.
func (c *CLI) pickWidget(ctx context.Context, d *dashboard.Dashboard) (WidgetListModel, error) {
	p := tea.NewProgram(NewWidgetListModel(d), tea.WithContext(ctx))

	if d.Path != "" {
		watchCtx, stop := context.WithCancel(ctx)
		defer stop()
		go func() {
			err := dashboard.Watch(watchCtx, d.Path, func(d *dashboard.Dashboard, err error) {
				p.Send(reloadMsg{dashboard: d, err: err})
			})
			if err != nil {
				loggerFromContext(ctx).Warn("watch dashboard", "path", d.Path, "err", err)
			}
		}()
	}

	m, err := p.Run()
	if err != nil {
		return WidgetListModel{}, err
	}
	return m.(WidgetListModel), nil
}

// runAction exports or shares w. The notifier reports progress and errors;
// failures add the underlying reason below.
func (a *app) runAction(ctx context.Context, w *dashboard.Widget, choice action) error {
	coord := w.Coordinator(a.deps)

	var out coordinator.Outcome
	if choice.share {
		out = coord.Share(ctx, choice.platform)
	} else {
		out = coord.Export(ctx, choice.format)
	}
	if err := outcomeError(ctx, out); err != nil {
		if !out.Cancelled {
			printDetail("%s %s: %s", out.Kind, w.ID, out.Message())
		}
		return err
	}
	a.reportOutcome(out)
	return nil
}
