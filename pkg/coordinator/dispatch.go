package coordinator

import (
	"context"

	"github.com/matzehuels/widgetshare/pkg/errors"
	"github.com/matzehuels/widgetshare/pkg/export"
	"github.com/matzehuels/widgetshare/pkg/notify"
	"github.com/matzehuels/widgetshare/pkg/widget"
)

// Widget is the export surface of one dashboard widget.
type Widget interface {
	Kind() widget.Kind
	Enabled() bool
	Formats() []widget.Format
	Export(ctx context.Context, f widget.Format) Outcome
	Share(ctx context.Context, p widget.Platform) Outcome
	IsExporting() bool
	Subscribe(fn func(bool)) (unsubscribe func())
}

var (
	_ Widget = (*Table)(nil)
	_ Widget = (*Graph)(nil)
	_ Widget = Disabled{}
)

// Handles are the data a widget exposes for export. Tables use Columns and
// Rows; graphs use Element.
type Handles struct {
	Title   string
	Columns []widget.Column
	Rows    []widget.Row
	Element *export.Ref
}

// ForKind builds both coordinators for h and returns the one matching kind.
// Unknown kinds get a [Disabled] widget.
func ForKind(kind widget.Kind, deps Deps, h Handles) Widget {
	table := NewTable(deps, widget.Table{Title: h.Title, Columns: h.Columns, Rows: h.Rows})
	graph := NewGraph(deps, h.Title, h.Element)

	switch kind {
	case widget.KindTable:
		return table
	case widget.KindGraph:
		return graph
	default:
		return Disabled{}
	}
}

// Disabled is the widget returned for kinds without export support. It is
// never busy and rejects every operation.
type Disabled struct{}

func (Disabled) Kind() widget.Kind           { return widget.KindUnknown }
func (Disabled) Enabled() bool               { return false }
func (Disabled) Formats() []widget.Format    { return nil }
func (Disabled) IsExporting() bool           { return false }
func (Disabled) Subscribe(func(bool)) func() { return func() {} }

func (Disabled) Export(context.Context, widget.Format) Outcome {
	return failed(widget.KindUnknown, errors.New(errors.ErrCodeUnsupported, notify.MsgWidgetNotEnabled))
}

func (Disabled) Share(context.Context, widget.Platform) Outcome {
	return failed(widget.KindUnknown, errors.New(errors.ErrCodeUnsupported, notify.MsgWidgetNotEnabled))
}
