package export

import (
	"bytes"
	"context"
	"image"

	"github.com/disintegration/imaging"

	"github.com/matzehuels/widgetshare/pkg/errors"
	"github.com/matzehuels/widgetshare/pkg/widget"
)

// GraphImage rasterizes el at the configured scale, flattens it onto the
// background color and encodes it as PNG or JPEG. JPEG output uses the
// configured quality.
func (e *Encoder) GraphImage(ctx context.Context, el Element, f widget.Format, title string) (*Artifact, error) {
	if !f.IsImage() {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "Invalid image format. Use PNG or JPG.")
	}
	if el == nil {
		return nil, errElementNotFound()
	}

	data, cached, err := e.memoize(ctx, e.elementKey(el, title, f), func() ([]byte, error) {
		img, err := e.rasterize(ctx, el)
		if err != nil {
			return nil, err
		}
		return encodeImage(img, f, e.image.jpegQuality())
	})
	if err != nil {
		return nil, err
	}
	return e.artifact(data, title, f, cached), nil
}

// rasterize draws el and composites it over an opaque background.
func (e *Encoder) rasterize(ctx context.Context, el Element) (*image.NRGBA, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	img, err := el.Rasterize(ctx, e.image.Scale)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, errors.Wrap(errors.ErrCodeEncoding, err, "rasterize element")
	}
	if img == nil || img.Bounds().Empty() {
		return nil, errors.New(errors.ErrCodeEncoding, "element has empty bounds")
	}

	bg, err := ParseHexColor(e.image.Background)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeEncoding, err, "background color")
	}

	b := img.Bounds()
	canvas := imaging.New(b.Dx(), b.Dy(), bg)
	return imaging.Overlay(canvas, imaging.Clone(img), image.Pt(0, 0), 1.0), nil
}

func encodeImage(img image.Image, f widget.Format, quality int) ([]byte, error) {
	var buf bytes.Buffer
	var err error
	switch f {
	case widget.FormatPNG:
		err = imaging.Encode(&buf, img, imaging.PNG)
	case widget.FormatJPG, widget.FormatJPEG:
		err = imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(quality))
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported image format %s", f)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeEncoding, err, "encode %s", f)
	}
	return buf.Bytes(), nil
}
