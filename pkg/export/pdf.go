package export

import (
	"bytes"
	"context"
	"strings"

	"github.com/go-pdf/fpdf"

	"github.com/matzehuels/widgetshare/pkg/errors"
	"github.com/matzehuels/widgetshare/pkg/widget"
)

const (
	pdfFont      = "Helvetica"
	lineSpacing  = 1.15
	ellipsis     = "..."
	defaultWidth = 100 // weight for columns without a declared width
)

// TablePDF encodes the table as a paginated document: the title at the top
// margin, then a table with a filled header row and banded body rows. The
// header row repeats on every page.
func (e *Encoder) TablePDF(ctx context.Context, t widget.Table) (*Artifact, error) {
	if err := ValidateData(t.Rows); err != nil {
		return nil, err
	}

	data, cached, err := e.memoize(ctx, e.tableKey(t, widget.FormatPDF), func() ([]byte, error) {
		return e.renderTablePDF(t)
	})
	if err != nil {
		return nil, err
	}
	return e.artifact(data, t.Title, widget.FormatPDF, cached), nil
}

func (e *Encoder) newDocument(orientation, title string) *fpdf.Fpdf {
	l := e.layout
	pdf := fpdf.New(orientation, l.Unit, l.PageSize, "")
	pdf.SetMargins(l.Margins.Left, l.Margins.Top, l.Margins.Right)
	pdf.SetAutoPageBreak(false, l.Margins.Bottom)
	pdf.SetCompression(e.compress)
	pdf.SetCreationDate(e.now())
	pdf.SetTitle(title, true)
	pdf.SetProducer("widgetshare", false)
	return pdf
}

// writeTitle draws the title with its baseline on the top margin.
func (e *Encoder) writeTitle(pdf *fpdf.Fpdf, tr func(string) string, title string) {
	pdf.SetFont(pdfFont, "", e.layout.TitleFontSize)
	pdf.SetTextColor(0, 0, 0)
	pdf.Text(e.layout.Margins.Left, e.layout.Margins.Top, tr(title))
}

func (e *Encoder) renderTablePDF(t widget.Table) ([]byte, error) {
	l := e.layout
	pdf := e.newDocument(orientationCode(l.Orientation), t.Title)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetCellMargin(l.CellPadding)

	pdf.AddPage()
	e.writeTitle(pdf, tr, t.Title)

	pageW, pageH := pdf.GetPageSize()
	widths := columnWidths(t.Columns, pageW-l.Margins.Left-l.Margins.Right)

	pdf.SetFont(pdfFont, "", l.BodyFontSize)
	_, fontH := pdf.GetFontSize()
	lineH := fontH * lineSpacing
	rowH := lineH + 2*l.CellPadding
	bottom := pageH - l.Margins.Bottom

	header := func() {
		pdf.SetFont(pdfFont, "B", l.BodyFontSize)
		pdf.SetFillColor(l.HeaderFill[0], l.HeaderFill[1], l.HeaderFill[2])
		pdf.SetTextColor(l.HeaderText[0], l.HeaderText[1], l.HeaderText[2])
		for i, col := range t.Columns {
			text := fitText(pdf, tr(col.Title), widths[i]-2*l.CellPadding)
			pdf.CellFormat(widths[i], rowH, text, "", 0, alignCode(col.Align), true, 0, "")
		}
		pdf.Ln(rowH)
		pdf.SetFont(pdfFont, "", l.BodyFontSize)
		pdf.SetTextColor(0, 0, 0)
	}

	pdf.SetY(l.Margins.Top + l.TitleGap)
	header()

	for r, rec := range tableCells(t.Columns, t.Rows) {
		lines := make([][]string, len(rec))
		n := 1
		for i, cell := range rec {
			lines[i] = wrapText(pdf, tr(cell), widths[i]-2*l.CellPadding)
			n = max(n, len(lines[i]))
		}
		h := float64(n)*lineH + 2*l.CellPadding

		if pdf.GetY()+h > bottom && pdf.GetY() > l.Margins.Top+l.TitleGap+rowH {
			pdf.AddPage()
			header()
		}
		banded := r%2 == 1
		if banded {
			pdf.SetFillColor(l.BandFill[0], l.BandFill[1], l.BandFill[2])
		}

		x, y := l.Margins.Left, pdf.GetY()
		for i := range rec {
			if banded {
				pdf.Rect(x, y, widths[i], h, "F")
			}
			for k, line := range lines[i] {
				pdf.SetXY(x, y+l.CellPadding+float64(k)*lineH)
				pdf.CellFormat(widths[i], lineH, line, "", 0, alignCode(t.Columns[i].Align), false, 0, "")
			}
			x += widths[i]
		}
		pdf.SetXY(l.Margins.Left, y+h)
	}

	return outputPDF(pdf)
}

// GraphPDF rasterizes el and embeds it below the title as a single image.
// The page is portrait when the scaled image is taller than wide and
// landscape otherwise; images taller than the page are shrunk to fit.
func (e *Encoder) GraphPDF(ctx context.Context, el Element, title string) (*Artifact, error) {
	if el == nil {
		return nil, errElementNotFound()
	}

	data, cached, err := e.memoize(ctx, e.elementKey(el, title, widget.FormatPDF), func() ([]byte, error) {
		return e.renderGraphPDF(ctx, el, title)
	})
	if err != nil {
		return nil, err
	}
	return e.artifact(data, title, widget.FormatPDF, cached), nil
}

func (e *Encoder) renderGraphPDF(ctx context.Context, el Element, title string) ([]byte, error) {
	img, err := e.rasterize(ctx, el)
	if err != nil {
		return nil, err
	}
	png, err := encodeImage(img, widget.FormatPNG, 0)
	if err != nil {
		return nil, err
	}

	l := e.layout
	b := img.Bounds()
	imgW := l.ImageWidth
	imgH := float64(b.Dy()) * imgW / float64(b.Dx())

	pdf := e.newDocument(graphOrientation(float64(b.Dx()), float64(b.Dy()), imgW), title)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()
	e.writeTitle(pdf, tr, title)

	y := l.Margins.Top + l.TitleGap
	_, pageH := pdf.GetPageSize()
	if maxH := pageH - y - l.Margins.Bottom; maxH > 0 && imgH > maxH {
		imgW, imgH = imgW*maxH/imgH, maxH
	}

	opts := fpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("graph", opts, bytes.NewReader(png))
	pdf.ImageOptions("graph", l.Margins.Left, y, imgW, imgH, false, opts, 0, "")

	return outputPDF(pdf)
}

// graphOrientation picks portrait when an image of pxW×pxH pixels scaled to
// width is taller than wide.
func graphOrientation(pxW, pxH, width float64) string {
	if pxH*width/pxW > width {
		return "P"
	}
	return "L"
}

func outputPDF(pdf *fpdf.Fpdf) ([]byte, error) {
	if err := pdf.Error(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeEncoding, err, "build PDF")
	}
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeEncoding, err, "write PDF")
	}
	return buf.Bytes(), nil
}

// columnWidths distributes total across columns proportionally to their
// declared widths. Columns without a width get a fixed default weight.
func columnWidths(columns []widget.Column, total float64) []float64 {
	weights := make([]float64, len(columns))
	sum := 0.0
	for i, col := range columns {
		w := float64(col.Width)
		if w <= 0 {
			w = defaultWidth
		}
		weights[i] = w
		sum += w
	}
	for i := range weights {
		weights[i] = weights[i] / sum * total
	}
	return weights
}

func alignCode(a widget.Align) string {
	switch a {
	case widget.AlignRight:
		return "RM"
	case widget.AlignCenter:
		return "CM"
	default:
		return "LM"
	}
}

// wrapText breaks s into lines no wider than maxW, breaking at spaces and
// inside words only when a single word does not fit. Newlines always break.
// Every character of s except the breaking spaces and newlines is kept.
func wrapText(pdf *fpdf.Fpdf, s string, maxW float64) []string {
	var lines []string
	for _, para := range strings.Split(s, "\n") {
		line := ""
		for i, word := range strings.Split(para, " ") {
			candidate := word
			if i > 0 {
				candidate = line + " " + word
			}
			if i == 0 || pdf.GetStringWidth(candidate) <= maxW {
				line = candidate
			} else {
				lines = append(lines, line)
				line = word
			}
			for pdf.GetStringWidth(line) > maxW && len(line) > 1 {
				cut := splitPoint(pdf, line, maxW)
				lines = append(lines, line[:cut])
				line = line[cut:]
			}
		}
		lines = append(lines, line)
	}
	return lines
}

// splitPoint returns the longest prefix length of s that fits in maxW, at
// least one byte.
func splitPoint(pdf *fpdf.Fpdf, s string, maxW float64) int {
	n := 1
	for n < len(s) && pdf.GetStringWidth(s[:n+1]) <= maxW {
		n++
	}
	return n
}

// fitText shortens a header label with a trailing ellipsis until it fits
// maxW. s is already translated to the single-byte PDF encoding.
func fitText(pdf *fpdf.Fpdf, s string, maxW float64) string {
	if pdf.GetStringWidth(s) <= maxW {
		return s
	}
	for n := len(s) - 1; n > 0; n-- {
		if cut := s[:n] + ellipsis; pdf.GetStringWidth(cut) <= maxW {
			return cut
		}
	}
	return ""
}

func errElementNotFound() error {
	return errors.New(errors.ErrCodeElementNotFound, "Graph element not found")
}
