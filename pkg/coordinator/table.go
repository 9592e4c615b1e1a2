package coordinator

import (
	"context"
	"sync"

	"github.com/matzehuels/widgetshare/pkg/errors"
	"github.com/matzehuels/widgetshare/pkg/export"
	"github.com/matzehuels/widgetshare/pkg/notify"
	"github.com/matzehuels/widgetshare/pkg/widget"
)

// Table coordinates CSV and PDF exports of a table widget and shares it as
// a PDF.
type Table struct {
	*core

	mu    sync.RWMutex
	table widget.Table
}

// NewTable creates a coordinator for t.
func NewTable(deps Deps, t widget.Table) *Table {
	return &Table{core: newCore(deps), table: t}
}

// Kind returns widget.KindTable.
func (c *Table) Kind() widget.Kind { return widget.KindTable }

// Enabled reports true.
func (c *Table) Enabled() bool { return true }

// Formats returns the table export formats.
func (c *Table) Formats() []widget.Format { return widget.KindTable.Formats() }

// SetData replaces the table, e.g. after the dashboard reloads. Operations
// already running keep the table they started with.
func (c *Table) SetData(t widget.Table) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.table = t
}

// Data returns the current table.
func (c *Table) Data() widget.Table {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.table
}

// guard returns the table if it has rows.
func (c *Table) guard() (widget.Table, *Outcome) {
	t := c.Data()
	if len(t.Rows) == 0 {
		out := c.guardFailed(widget.KindTable, errors.New(errors.ErrCodeValidation, notify.MsgNoData), notify.MsgNoData)
		return t, &out
	}
	return t, nil
}

// ExportCSV encodes the table as CSV and downloads it.
func (c *Table) ExportCSV(ctx context.Context) Outcome {
	t, stop := c.guard()
	if stop != nil {
		return *stop
	}
	return c.export(ctx, widget.KindTable, widget.FormatCSV, func(ctx context.Context) (*export.Artifact, error) {
		return c.deps.Encoder.TableCSV(ctx, t)
	})
}

// ExportPDF encodes the table as a PDF document and downloads it.
func (c *Table) ExportPDF(ctx context.Context) Outcome {
	t, stop := c.guard()
	if stop != nil {
		return *stop
	}
	return c.export(ctx, widget.KindTable, widget.FormatPDF, func(ctx context.Context) (*export.Artifact, error) {
		return c.deps.Encoder.TablePDF(ctx, t)
	})
}

// Export runs the export for f.
func (c *Table) Export(ctx context.Context, f widget.Format) Outcome {
	switch f {
	case widget.FormatCSV:
		return c.ExportCSV(ctx)
	case widget.FormatPDF:
		return c.ExportPDF(ctx)
	default:
		return c.unsupported(widget.KindTable, f)
	}
}

// Share renders the table as a PDF and shares it to p.
func (c *Table) Share(ctx context.Context, p widget.Platform) Outcome {
	t, stop := c.guard()
	if stop != nil {
		return *stop
	}
	return c.share(ctx, widget.KindTable, p, t.Title, func(ctx context.Context) (*export.Artifact, error) {
		return c.deps.Encoder.TablePDF(ctx, t)
	})
}
