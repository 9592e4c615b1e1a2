// Package dashboard loads dashboard definitions: a titled list of table and
// graph widgets whose data is inline or read from JSON, CSV or XLSX files.
//
// A dashboard file is TOML:
//
//	title = "Quarterly Review"
//
//	[[widgets]]
//	id     = "employees"
//	title  = "Employee Directory"
//	kind   = "table"
//	source = "employees.csv"
//
//	[[widgets]]
//	id     = "revenue"
//	title  = "Monthly Revenue"
//	kind   = "graph"
//	points = [{ name = "Jan", value = 12 }, { name = "Feb", value = 19 }]
//
// Source paths are relative to the dashboard file.
package dashboard

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/widgetshare/pkg/chart"
	"github.com/matzehuels/widgetshare/pkg/coordinator"
	"github.com/matzehuels/widgetshare/pkg/errors"
	"github.com/matzehuels/widgetshare/pkg/export"
	"github.com/matzehuels/widgetshare/pkg/widget"
)

// Dashboard is a loaded dashboard definition.
type Dashboard struct {
	Title   string    `toml:"title"`
	Widgets []*Widget `toml:"widgets"`

	// Path is the file the dashboard was loaded from; empty for Sample.
	Path string `toml:"-"`
}

// Widget is one widget definition with its data resolved.
type Widget struct {
	ID      string          `toml:"id"`
	Title   string          `toml:"title"`
	Kind    string          `toml:"kind"`
	Columns []widget.Column `toml:"columns"`
	Rows    []widget.Row    `toml:"rows"`
	Points  []widget.Point  `toml:"points"`
	Source  string          `toml:"source"` // .json, .csv or .xlsx
	Sheet   string          `toml:"sheet"`  // xlsx sheet, first sheet when empty
	Style   string          `toml:"style"`  // graph style: bar or line
	Width   int             `toml:"width"`
	Height  int             `toml:"height"`
	Color   string          `toml:"color"`

	kind widget.Kind
}

// WidgetKind returns the parsed kind. Widgets whose kind failed to parse are
// rejected by Load, so this is KindUnknown only for hand-built values.
// It never writes to w and is safe for concurrent use.
func (w *Widget) WidgetKind() widget.Kind {
	if w.kind != widget.KindUnknown {
		return w.kind
	}
	kind, _ := widget.ParseKind(w.Kind)
	return kind
}

// Table returns the table data of a table widget.
func (w *Widget) Table() widget.Table {
	return widget.Table{Title: w.Title, Columns: w.Columns, Rows: w.Rows}
}

// Filter returns a copy of a table widget keeping only rows whose cells
// contain every filter value, projected onto the declared columns. Filter
// keys must be column data indexes.
func (w *Widget) Filter(filters map[string]string) (*Widget, error) {
	if w.WidgetKind() != widget.KindTable {
		return nil, errors.New(errors.ErrCodeInvalidInput, "widget %q is not a table and cannot be filtered", w.ID)
	}
	for key := range filters {
		if !hasColumn(w.Columns, key) {
			return nil, errors.New(errors.ErrCodeInvalidInput, "widget %q has no column %q", w.ID, key)
		}
	}
	out := *w
	out.kind = widget.KindTable
	out.Rows = export.PrepareTable(w.Rows, w.Columns, filters)
	return &out, nil
}

func hasColumn(cols []widget.Column, dataIndex string) bool {
	for _, c := range cols {
		if c.DataIndex == dataIndex {
			return true
		}
	}
	return false
}

// Chart returns the chart element of a graph widget.
func (w *Widget) Chart() *chart.Chart {
	return &chart.Chart{
		Title:  w.Title,
		Points: w.Points,
		Style:  chart.Style(w.Style),
		Width:  w.Width,
		Height: w.Height,
		Color:  w.Color,
	}
}

// Handles returns the coordinator handles for the widget. Graph widgets get
// a fresh reference attached to their chart.
func (w *Widget) Handles() coordinator.Handles {
	h := coordinator.Handles{Title: w.Title}
	switch w.WidgetKind() {
	case widget.KindTable:
		h.Columns, h.Rows = w.Columns, w.Rows
	case widget.KindGraph:
		h.Element = export.NewRef(w.Chart())
	}
	return h
}

// Coordinator builds the export coordinator for the widget.
func (w *Widget) Coordinator(deps coordinator.Deps) coordinator.Widget {
	return coordinator.ForKind(w.WidgetKind(), deps, w.Handles())
}

// Find returns the widget with the given id.
func (d *Dashboard) Find(id string) (*Widget, error) {
	for _, w := range d.Widgets {
		if w.ID == id {
			return w, nil
		}
	}
	return nil, errors.New(errors.ErrCodeWidgetNotFound, "widget %q not found (available: %s)", id, strings.Join(d.IDs(), ", "))
}

// IDs returns the widget ids in file order.
func (d *Dashboard) IDs() []string {
	ids := make([]string, len(d.Widgets))
	for i, w := range d.Widgets {
		ids[i] = w.ID
	}
	return ids
}

// =============================================================================
// Loading
// =============================================================================

// Load reads the dashboard at path and resolves every widget's data.
func Load(path string) (*Dashboard, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "dashboard %s not found", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "open dashboard %s", path)
	}
	defer f.Close()

	d, err := Parse(f, filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	d.Path = path
	return d, nil
}

// Parse decodes a dashboard from r. Source paths resolve against dir.
func Parse(r io.Reader, dir string) (*Dashboard, error) {
	var d Dashboard
	md, err := toml.NewDecoder(r).Decode(&d)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode dashboard")
	}
	if keys := md.Undecoded(); len(keys) > 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "unknown dashboard keys: %v", keys)
	}

	seen := make(map[string]bool, len(d.Widgets))
	for i, w := range d.Widgets {
		if w.ID == "" {
			return nil, errors.New(errors.ErrCodeInvalidInput, "widget %d has no id", i+1)
		}
		if seen[w.ID] {
			return nil, errors.New(errors.ErrCodeInvalidInput, "duplicate widget id %q", w.ID)
		}
		seen[w.ID] = true

		if err := resolve(w, dir); err != nil {
			return nil, fmt.Errorf("widget %s: %w", w.ID, err)
		}
	}
	return &d, nil
}

// resolve parses the kind, loads the source and fills in defaults.
func resolve(w *Widget, dir string) error {
	kind, err := widget.ParseKind(w.Kind)
	if err != nil {
		return err
	}
	w.kind = kind
	if w.Title == "" {
		w.Title = w.ID
	}

	if w.Source != "" {
		if err := loadSource(w, dir); err != nil {
			return err
		}
	}

	switch kind {
	case widget.KindTable:
		if len(w.Columns) == 0 {
			w.Columns = inferColumns(w.Rows)
		}
		for i := range w.Columns {
			fillColumn(&w.Columns[i])
		}
	case widget.KindGraph:
		switch chart.Style(w.Style) {
		case "", chart.StyleBar, chart.StyleLine:
		default:
			return errors.New(errors.ErrCodeInvalidInput, "unknown graph style %q (valid: bar, line)", w.Style)
		}
		if w.Color != "" {
			if _, err := export.ParseHexColor(w.Color); err != nil {
				return errors.Wrap(errors.ErrCodeInvalidInput, err, "graph color")
			}
		}
	}
	return nil
}

// fillColumn defaults key, data index and title from each other.
func fillColumn(c *widget.Column) {
	if c.DataIndex == "" {
		c.DataIndex = c.Key
	}
	if c.Key == "" {
		c.Key = c.DataIndex
	}
	if c.Title == "" {
		c.Title = c.DataIndex
	}
}
