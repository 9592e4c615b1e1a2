// Package widget defines the data model shared by exporters, share dispatch
// and coordinators: widget kinds, export formats, share platforms, table
// columns and rows, and graph data points.
//
// Kinds, formats and platforms are closed enumerations with Parse functions
// for the CLI and dashboard edges. Everything inside the module switches on
// the typed values.
package widget

import "strings"

// Align is the horizontal alignment of a table column.
type Align string

const (
	AlignLeft   Align = "left"
	AlignCenter Align = "center"
	AlignRight  Align = "right"
)

// Column describes one table column.
type Column struct {
	Key       string `json:"key" toml:"key"`
	Title     string `json:"title" toml:"title"`
	DataIndex string `json:"data_index" toml:"data_index"`
	Width     int    `json:"width,omitempty" toml:"width"`
	Align     Align  `json:"align,omitempty" toml:"align"`
}

// Row maps a column's DataIndex to a cell value.
// Values may be nil, scalars, or structured values.
type Row map[string]any

// Table is the data behind a table widget.
type Table struct {
	Title   string
	Columns []Column
	Rows    []Row
}

// Point is one named value of a graph series.
type Point struct {
	Name  string  `json:"name" toml:"name"`
	Value float64 `json:"value" toml:"value"`
}

// Option is an entry of an export or share menu.
type Option struct {
	Key   string
	Label string
}

// ExportOptions returns the export menu entries for a widget kind.
func ExportOptions(k Kind) []Option {
	formats := k.Formats()
	opts := make([]Option, 0, len(formats))
	for _, f := range formats {
		opts = append(opts, Option{Key: f.String(), Label: "Download " + strings.ToUpper(f.String())})
	}
	return opts
}

// ShareOptions returns the share menu entries.
func ShareOptions() []Option {
	opts := make([]Option, 0, len(Platforms))
	for _, p := range Platforms {
		opts = append(opts, Option{Key: p.String(), Label: p.Label()})
	}
	return opts
}
