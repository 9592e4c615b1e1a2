package export

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// =============================================================================
// PDF Layout
// =============================================================================

// Margins are page margins in layout units.
type Margins struct {
	Top    float64 `toml:"top"`
	Right  float64 `toml:"right"`
	Bottom float64 `toml:"bottom"`
	Left   float64 `toml:"left"`
}

// RGB is an 8-bit color.
type RGB [3]int

// PDFLayout fixes page geometry and table styling for PDF exports.
type PDFLayout struct {
	Orientation   string  `toml:"orientation"` // "portrait" or "landscape"
	Unit          string  `toml:"unit"`
	PageSize      string  `toml:"page_size"`
	Margins       Margins `toml:"margins"`
	TitleFontSize float64 `toml:"title_font_size"`
	BodyFontSize  float64 `toml:"body_font_size"`
	CellPadding   float64 `toml:"cell_padding"`
	HeaderFill    RGB     `toml:"header_fill"`
	HeaderText    RGB     `toml:"header_text"`
	BandFill      RGB     `toml:"band_fill"`
	TitleGap      float64 `toml:"title_gap"`   // distance from title baseline to table or image
	ImageWidth    float64 `toml:"image_width"` // graph image width on the page
}

// Default PDF layout values.
const (
	DefaultOrientation   = "portrait"
	DefaultUnit          = "mm"
	DefaultPageSize      = "A4"
	DefaultTitleFontSize = 16
	DefaultBodyFontSize  = 10
	DefaultCellPadding   = 3
	DefaultTitleGap      = 10
	DefaultImageWidth    = 190
)

// DefaultPDFLayout returns the standard A4 portrait layout.
func DefaultPDFLayout() PDFLayout {
	return PDFLayout{
		Orientation:   DefaultOrientation,
		Unit:          DefaultUnit,
		PageSize:      DefaultPageSize,
		Margins:       Margins{Top: 15, Right: 10, Bottom: 10, Left: 10},
		TitleFontSize: DefaultTitleFontSize,
		BodyFontSize:  DefaultBodyFontSize,
		CellPadding:   DefaultCellPadding,
		HeaderFill:    RGB{24, 144, 255},
		HeaderText:    RGB{255, 255, 255},
		BandFill:      RGB{245, 245, 245},
		TitleGap:      DefaultTitleGap,
		ImageWidth:    DefaultImageWidth,
	}
}

// Validate checks the layout for values fpdf cannot render.
func (l PDFLayout) Validate() error {
	switch l.Orientation {
	case "portrait", "landscape":
	default:
		return fmt.Errorf("orientation must be portrait or landscape, got %q", l.Orientation)
	}
	switch l.Unit {
	case "mm", "pt", "cm", "in":
	default:
		return fmt.Errorf("unsupported unit %q", l.Unit)
	}
	if l.TitleFontSize <= 0 || l.BodyFontSize <= 0 {
		return fmt.Errorf("font sizes must be positive")
	}
	if l.ImageWidth <= 0 {
		return fmt.Errorf("image width must be positive")
	}
	if l.CellPadding < 0 || l.TitleGap < 0 {
		return fmt.Errorf("padding and title gap cannot be negative")
	}
	return nil
}

// orientationCode maps the layout orientation to fpdf's "P"/"L".
func orientationCode(o string) string {
	if o == "landscape" {
		return "L"
	}
	return "P"
}

// =============================================================================
// Image Config
// =============================================================================

// ImageConfig fixes rasterization parameters.
type ImageConfig struct {
	Scale      float64 `toml:"scale"`      // pixel-density multiplier
	Quality    float64 `toml:"quality"`    // JPEG quality in (0, 1]
	Background string  `toml:"background"` // #rrggbb fill behind transparent pixels
}

// Default image values.
const (
	DefaultScale      = 2.0
	DefaultQuality    = 0.95
	DefaultBackground = "#ffffff"
)

// DefaultImageConfig returns scale 2, quality 0.95 on a white background.
func DefaultImageConfig() ImageConfig {
	return ImageConfig{Scale: DefaultScale, Quality: DefaultQuality, Background: DefaultBackground}
}

// Validate checks ranges and parses the background color.
func (c ImageConfig) Validate() error {
	if c.Scale <= 0 {
		return fmt.Errorf("scale must be positive, got %v", c.Scale)
	}
	if c.Quality <= 0 || c.Quality > 1 {
		return fmt.Errorf("quality must be in (0, 1], got %v", c.Quality)
	}
	if _, err := ParseHexColor(c.Background); err != nil {
		return err
	}
	return nil
}

// jpegQuality converts the (0, 1] factor to the 1..100 scale.
func (c ImageConfig) jpegQuality() int {
	q := int(c.Quality*100 + 0.5)
	if q < 1 {
		return 1
	}
	if q > 100 {
		return 100
	}
	return q
}

// ParseHexColor parses "#rgb" or "#rrggbb".
func ParseHexColor(s string) (color.NRGBA, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return color.NRGBA{}, fmt.Errorf("invalid color %q", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid color %q", s)
	}
	return color.NRGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
}
