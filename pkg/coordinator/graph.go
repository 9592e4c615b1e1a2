package coordinator

import (
	"context"

	"github.com/matzehuels/widgetshare/pkg/errors"
	"github.com/matzehuels/widgetshare/pkg/export"
	"github.com/matzehuels/widgetshare/pkg/notify"
	"github.com/matzehuels/widgetshare/pkg/widget"
)

// Graph coordinates PDF and image exports of a graph widget and shares it
// as a PNG.
type Graph struct {
	*core

	title string
	ref   *export.Ref
}

// NewGraph creates a coordinator for the element held by ref.
func NewGraph(deps Deps, title string, ref *export.Ref) *Graph {
	return &Graph{core: newCore(deps), title: title, ref: ref}
}

// Kind returns widget.KindGraph.
func (c *Graph) Kind() widget.Kind { return widget.KindGraph }

// Enabled reports true.
func (c *Graph) Enabled() bool { return true }

// Formats returns the graph export formats.
func (c *Graph) Formats() []widget.Format { return widget.KindGraph.Formats() }

// Title returns the graph title.
func (c *Graph) Title() string { return c.title }

func (c *Graph) guard() *Outcome {
	if c.ref.Current() == nil {
		out := c.guardFailed(widget.KindGraph, errors.New(errors.ErrCodeElementNotFound, notify.MsgElementNotFound), notify.MsgElementNotFound)
		return &out
	}
	return nil
}

// ExportPDF embeds the rendered graph in a PDF and downloads it.
func (c *Graph) ExportPDF(ctx context.Context) Outcome {
	if stop := c.guard(); stop != nil {
		return *stop
	}
	return c.export(ctx, widget.KindGraph, widget.FormatPDF, func(ctx context.Context) (*export.Artifact, error) {
		return c.deps.Encoder.GraphPDF(ctx, c.ref.Current(), c.title)
	})
}

// ExportImage rasterizes the graph as PNG or JPG and downloads it.
func (c *Graph) ExportImage(ctx context.Context, f widget.Format) Outcome {
	if stop := c.guard(); stop != nil {
		return *stop
	}
	return c.export(ctx, widget.KindGraph, f, func(ctx context.Context) (*export.Artifact, error) {
		return c.deps.Encoder.GraphImage(ctx, c.ref.Current(), f, c.title)
	})
}

// Export runs the export for f.
func (c *Graph) Export(ctx context.Context, f widget.Format) Outcome {
	switch {
	case f == widget.FormatPDF:
		return c.ExportPDF(ctx)
	case f.IsImage():
		return c.ExportImage(ctx, f)
	default:
		return c.unsupported(widget.KindGraph, f)
	}
}

// Share rasterizes the graph as PNG and shares it to p.
func (c *Graph) Share(ctx context.Context, p widget.Platform) Outcome {
	if stop := c.guard(); stop != nil {
		return *stop
	}
	return c.share(ctx, widget.KindGraph, p, c.title, func(ctx context.Context) (*export.Artifact, error) {
		return c.deps.Encoder.GraphImage(ctx, c.ref.Current(), widget.FormatPNG, c.title)
	})
}
