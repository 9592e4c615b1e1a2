// Package chart draws graph widgets as raster images.
//
// A [Chart] implements export.Element and export.Fingerprinter, so the
// export encoder can rasterize it at any scale and cache the result by
// content. Drawing uses fogleman/gg with its built-in bitmap face; no font
// files are required.
package chart

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/fogleman/gg"

	"github.com/matzehuels/widgetshare/pkg/cache"
	"github.com/matzehuels/widgetshare/pkg/export"
	"github.com/matzehuels/widgetshare/pkg/widget"
)

// Style selects how the series is drawn.
type Style string

const (
	StyleBar  Style = "bar"
	StyleLine Style = "line"
)

// Default dimensions and color, in unscaled pixels.
const (
	DefaultWidth  = 640
	DefaultHeight = 360
	DefaultColor  = "#1890ff"
)

// Plot margins in unscaled pixels.
const (
	marginTop    = 24
	marginRight  = 10
	marginBottom = 24
	marginLeft   = 40
)

// Chart is a single-series chart.
type Chart struct {
	Title  string
	Points []widget.Point
	Style  Style
	Width  int    // unscaled pixels, DefaultWidth when zero
	Height int    // unscaled pixels, DefaultHeight when zero
	Color  string // #rrggbb, DefaultColor when empty
}

var (
	_ export.Element       = (*Chart)(nil)
	_ export.Fingerprinter = (*Chart)(nil)
)

// Size returns the unscaled width and height.
func (c *Chart) Size() (int, int) {
	w, h := c.Width, c.Height
	if w <= 0 {
		w = DefaultWidth
	}
	if h <= 0 {
		h = DefaultHeight
	}
	return w, h
}

// Fingerprint digests everything that affects the drawing.
func (c *Chart) Fingerprint() string {
	w, h := c.Size()
	return cache.HashJSON(struct {
		Title  string         `json:"title"`
		Points []widget.Point `json:"points"`
		Style  Style          `json:"style"`
		W      int            `json:"w"`
		H      int            `json:"h"`
		Color  string         `json:"color"`
	}{c.Title, c.Points, c.style(), w, h, c.color()})
}

func (c *Chart) style() Style {
	if c.Style == "" {
		return StyleBar
	}
	return c.Style
}

func (c *Chart) color() string {
	if c.Color == "" {
		return DefaultColor
	}
	return c.Color
}

// Rasterize draws the chart at scale on a transparent canvas.
func (c *Chart) Rasterize(ctx context.Context, scale float64) (image.Image, error) {
	if scale <= 0 {
		return nil, fmt.Errorf("scale must be positive, got %v", scale)
	}
	fill, err := export.ParseHexColor(c.color())
	if err != nil {
		return nil, err
	}
	w, h := c.Size()
	if w <= marginLeft+marginRight || h <= marginTop+marginBottom {
		return nil, fmt.Errorf("chart %dx%d is smaller than its margins", w, h)
	}

	dc := gg.NewContext(int(math.Ceil(float64(w)*scale)), int(math.Ceil(float64(h)*scale)))
	dc.Scale(scale, scale)

	plot := rect{
		x: marginLeft,
		y: marginTop,
		w: float64(w - marginLeft - marginRight),
		h: float64(h - marginTop - marginBottom),
	}

	dc.SetColor(color.Black)
	if c.Title != "" {
		dc.DrawStringAnchored(c.Title, float64(w)/2, marginTop/2, 0.5, 0.5)
	}
	drawAxes(dc, plot, maxValue(c.Points))

	switch c.style() {
	case StyleLine:
		err = drawLine(ctx, dc, plot, c.Points, fill)
	case StyleBar:
		err = drawBars(ctx, dc, plot, c.Points, fill)
	default:
		err = fmt.Errorf("unknown chart style %q", c.Style)
	}
	if err != nil {
		return nil, err
	}
	return dc.Image(), nil
}

// =============================================================================
// Drawing
// =============================================================================

type rect struct{ x, y, w, h float64 }

func (r rect) bottom() float64 { return r.y + r.h }

// maxValue returns the largest point value, or 1 when no value is positive.
func maxValue(points []widget.Point) float64 {
	m := 0.0
	for _, p := range points {
		m = math.Max(m, p.Value)
	}
	if m <= 0 {
		return 1
	}
	return m
}

// barHeight maps v onto the plot height. Negative values draw nothing.
func barHeight(v, maxV, plotH float64) float64 {
	if v <= 0 {
		return 0
	}
	return v / maxV * plotH
}

func drawAxes(dc *gg.Context, plot rect, maxV float64) {
	dc.SetRGB(0.4, 0.4, 0.4)
	dc.SetLineWidth(1)
	dc.DrawLine(plot.x, plot.y, plot.x, plot.bottom())
	dc.DrawLine(plot.x, plot.bottom(), plot.x+plot.w, plot.bottom())
	dc.Stroke()

	dc.DrawStringAnchored(formatValue(maxV), plot.x-4, plot.y, 1, 0.5)
	dc.DrawStringAnchored("0", plot.x-4, plot.bottom(), 1, 0.5)
}

func drawBars(ctx context.Context, dc *gg.Context, plot rect, points []widget.Point, fill color.Color) error {
	if len(points) == 0 {
		return nil
	}
	maxV := maxValue(points)
	slot := plot.w / float64(len(points))
	gap := slot * 0.1

	for i, p := range points {
		if err := ctx.Err(); err != nil {
			return err
		}
		x := plot.x + float64(i)*slot
		bh := barHeight(p.Value, maxV, plot.h)

		dc.SetColor(fill)
		dc.DrawRectangle(x+gap, plot.bottom()-bh, slot-2*gap, bh)
		dc.Fill()

		dc.SetColor(color.Black)
		drawLabel(dc, p.Name, x+slot/2, plot.bottom()+marginBottom/2, slot)
	}
	return nil
}

func drawLine(ctx context.Context, dc *gg.Context, plot rect, points []widget.Point, stroke color.Color) error {
	if len(points) == 0 {
		return nil
	}
	maxV := maxValue(points)
	slot := plot.w / float64(len(points))

	dc.SetColor(stroke)
	dc.SetLineWidth(2)
	for i, p := range points {
		if err := ctx.Err(); err != nil {
			return err
		}
		x := plot.x + float64(i)*slot + slot/2
		y := plot.bottom() - barHeight(p.Value, maxV, plot.h)
		if i == 0 {
			dc.MoveTo(x, y)
		} else {
			dc.LineTo(x, y)
		}
	}
	dc.Stroke()

	for i, p := range points {
		x := plot.x + float64(i)*slot + slot/2
		y := plot.bottom() - barHeight(p.Value, maxV, plot.h)
		dc.SetColor(stroke)
		dc.DrawCircle(x, y, 3)
		dc.Fill()

		dc.SetColor(color.Black)
		drawLabel(dc, p.Name, x, plot.bottom()+marginBottom/2, slot)
	}
	return nil
}

// drawLabel centers s at (x, y), truncating it to fit width.
func drawLabel(dc *gg.Context, s string, x, y, width float64) {
	runes := []rune(s)
	for len(runes) > 1 {
		if w, _ := dc.MeasureString(string(runes)); w <= width {
			break
		}
		runes = runes[:len(runes)-1]
	}
	dc.DrawStringAnchored(string(runes), x, y, 0.5, 0.5)
}

func formatValue(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) < 1e9 {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%.2f", v)
}
