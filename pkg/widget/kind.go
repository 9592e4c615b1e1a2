package widget

import (
	"strings"

	"github.com/matzehuels/widgetshare/pkg/errors"
)

// =============================================================================
// Kind
// =============================================================================

// Kind identifies what a widget renders. The zero value is KindUnknown.
type Kind int

const (
	KindUnknown Kind = iota
	KindTable
	KindGraph
)

// String returns the lowercase name used in dashboard files and on the CLI.
func (k Kind) String() string {
	switch k {
	case KindTable:
		return "table"
	case KindGraph:
		return "graph"
	default:
		return "unknown"
	}
}

// ParseKind parses a widget kind name (case-insensitive).
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "table":
		return KindTable, nil
	case "graph":
		return KindGraph, nil
	}
	return KindUnknown, errors.New(errors.ErrCodeInvalidKind, "unknown widget kind %q (valid: table, graph)", s)
}

// Formats returns the export formats legal for the kind, in menu order.
// Unknown kinds have no legal formats.
func (k Kind) Formats() []Format {
	switch k {
	case KindTable:
		return []Format{FormatCSV, FormatPDF}
	case KindGraph:
		return []Format{FormatPDF, FormatPNG, FormatJPG}
	default:
		return nil
	}
}

// Supports reports whether f is a legal export format for the kind.
// Graphs accept both jpg and jpeg spellings.
func (k Kind) Supports(f Format) bool {
	if k == KindGraph && f == FormatJPEG {
		return true
	}
	for _, legal := range k.Formats() {
		if legal == f {
			return true
		}
	}
	return false
}

// =============================================================================
// Format
// =============================================================================

// Format is an export artifact format. The zero value is FormatUnknown.
type Format int

const (
	FormatUnknown Format = iota
	FormatCSV
	FormatPDF
	FormatPNG
	FormatJPG
	FormatJPEG
)

// String returns the format name, which doubles as the file extension.
func (f Format) String() string {
	switch f {
	case FormatCSV:
		return "csv"
	case FormatPDF:
		return "pdf"
	case FormatPNG:
		return "png"
	case FormatJPG:
		return "jpg"
	case FormatJPEG:
		return "jpeg"
	default:
		return "unknown"
	}
}

// Extension returns the file extension without the leading dot.
func (f Format) Extension() string { return f.String() }

// IsImage reports whether f is a raster image format.
func (f Format) IsImage() bool {
	return f == FormatPNG || f == FormatJPG || f == FormatJPEG
}

// ContentType returns the content type stamped on artifacts of this format.
func (f Format) ContentType() string {
	switch f {
	case FormatCSV:
		return "text/csv"
	case FormatPDF:
		return "application/pdf"
	case FormatPNG:
		return "image/png"
	case FormatJPG, FormatJPEG:
		return "image/jpeg"
	default:
		return "application/octet-stream"
	}
}

// ParseFormat parses a format name (case-insensitive, optional leading dot).
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), ".")) {
	case "csv":
		return FormatCSV, nil
	case "pdf":
		return FormatPDF, nil
	case "png":
		return FormatPNG, nil
	case "jpg":
		return FormatJPG, nil
	case "jpeg":
		return FormatJPEG, nil
	}
	return FormatUnknown, errors.New(errors.ErrCodeInvalidFormat, "unknown export format %q (valid: csv, pdf, png, jpg)", s)
}

// =============================================================================
// Platform
// =============================================================================

// Platform is a share destination. The zero value is PlatformUnknown, which
// share dispatch treats as download-only.
type Platform int

const (
	PlatformUnknown Platform = iota
	PlatformWhatsApp
	PlatformEmail
	PlatformTelegram
)

// Platforms lists the known share destinations in menu order.
var Platforms = []Platform{PlatformWhatsApp, PlatformEmail, PlatformTelegram}

// String returns the lowercase platform name.
func (p Platform) String() string {
	switch p {
	case PlatformWhatsApp:
		return "whatsapp"
	case PlatformEmail:
		return "email"
	case PlatformTelegram:
		return "telegram"
	default:
		return "unknown"
	}
}

// Label returns the human-readable platform name.
func (p Platform) Label() string {
	switch p {
	case PlatformWhatsApp:
		return "WhatsApp"
	case PlatformEmail:
		return "Email"
	case PlatformTelegram:
		return "Telegram"
	default:
		return "Download"
	}
}

// ParsePlatform parses a platform name (case-insensitive).
func ParsePlatform(s string) (Platform, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "whatsapp":
		return PlatformWhatsApp, nil
	case "email", "mail":
		return PlatformEmail, nil
	case "telegram":
		return PlatformTelegram, nil
	}
	return PlatformUnknown, errors.New(errors.ErrCodeInvalidPlatform, "unknown share platform %q (valid: whatsapp, email, telegram)", s)
}
