package chart

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/widgetshare/pkg/export"
	"github.com/matzehuels/widgetshare/pkg/widget"
)

func revenue() *Chart {
	return &Chart{
		Title:  "Revenue",
		Points: []widget.Point{{Name: "Jan", Value: 10}},
		Width:  200,
		Height: 100,
		Color:  "#ff0000",
	}
}

func rgba(img image.Image, x, y int) (r, g, b, a uint32) {
	r, g, b, a = img.At(x, y).RGBA()
	return r >> 8, g >> 8, b >> 8, a >> 8
}

func TestRasterizeBar(t *testing.T) {
	for _, scale := range []float64{1, 2} {
		img, err := revenue().Rasterize(context.Background(), scale)
		require.NoError(t, err)
		assert.Equal(t, int(200*scale), img.Bounds().Dx())
		assert.Equal(t, int(100*scale), img.Bounds().Dy())

		// Single bar spans x 55..175 and y 24..76 before scaling.
		r, g, b, a := rgba(img, int(115*scale), int(50*scale))
		assert.Equal(t, []uint32{255, 0, 0, 255}, []uint32{r, g, b, a}, "scale %v", scale)

		_, _, _, a = rgba(img, int(195*scale), int(5*scale))
		assert.Zero(t, a, "background stays transparent")
	}
}

func TestRasterizeLine(t *testing.T) {
	c := revenue()
	c.Style = StyleLine
	c.Points = append(c.Points, widget.Point{Name: "Feb", Value: 4})

	img, err := c.Rasterize(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 200, 100), img.Bounds())
}

func TestRasterizeErrors(t *testing.T) {
	ctx := context.Background()

	_, err := revenue().Rasterize(ctx, 0)
	assert.Error(t, err)

	c := revenue()
	c.Color = "red"
	_, err = c.Rasterize(ctx, 1)
	assert.Error(t, err)

	c = revenue()
	c.Style = "pie"
	_, err = c.Rasterize(ctx, 1)
	assert.Error(t, err)

	c = revenue()
	c.Width = 20
	_, err = c.Rasterize(ctx, 1)
	assert.Error(t, err)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = revenue().Rasterize(cancelled, 1)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRasterizeEmptySeries(t *testing.T) {
	c := revenue()
	c.Points = nil
	img, err := c.Rasterize(context.Background(), 1)
	require.NoError(t, err)
	assert.False(t, img.Bounds().Empty())
}

func TestDefaults(t *testing.T) {
	c := &Chart{}
	w, h := c.Size()
	assert.Equal(t, DefaultWidth, w)
	assert.Equal(t, DefaultHeight, h)
	assert.Equal(t, (&Chart{Style: StyleBar, Color: DefaultColor}).Fingerprint(), c.Fingerprint())
}

func TestFingerprint(t *testing.T) {
	a, b := revenue(), revenue()
	assert.Equal(t, a.Fingerprint(), b.Fingerprint())

	b.Points[0].Value = 11
	assert.NotEqual(t, a.Fingerprint(), b.Fingerprint())

	b = revenue()
	b.Style = StyleLine
	assert.NotEqual(t, a.Fingerprint(), b.Fingerprint())
}

func TestBarHeight(t *testing.T) {
	assert.Equal(t, 0.0, barHeight(-5, 10, 50))
	assert.Equal(t, 25.0, barHeight(5, 10, 50))
	assert.Equal(t, 1.0, maxValue(nil))
	assert.Equal(t, 1.0, maxValue([]widget.Point{{Value: -3}}))
	assert.Equal(t, "10", formatValue(10))
	assert.Equal(t, "2.50", formatValue(2.5))
}

func TestEncodesThroughExporter(t *testing.T) {
	enc := export.NewEncoder()
	art, err := enc.GraphImage(context.Background(), revenue(), widget.FormatPNG, "Revenue")
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(art.Data))
	require.NoError(t, err)
	assert.Equal(t, 400, img.Bounds().Dx())
	assert.Equal(t, 200, img.Bounds().Dy())
}
