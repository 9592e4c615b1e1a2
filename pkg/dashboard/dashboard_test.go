package dashboard

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/matzehuels/widgetshare/pkg/coordinator"
	"github.com/matzehuels/widgetshare/pkg/errors"
	"github.com/matzehuels/widgetshare/pkg/export"
	"github.com/matzehuels/widgetshare/pkg/widget"
)

const inline = `
title = "Quarterly Review"

[[widgets]]
id    = "staff"
title = "Staff"
kind  = "table"
columns = [
  { key = "name", title = "Name" },
  { title = "Salary", data_index = "salary", align = "right" },
]
rows = [
  { name = "Alice", salary = 42 },
  { name = "Bob", salary = 7 },
]

[[widgets]]
id     = "revenue"
kind   = "graph"
style  = "line"
points = [{ name = "Jan", value = 12 }, { name = "Feb", value = 19.5 }]
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestSample(t *testing.T) {
	d := Sample()
	assert.Equal(t, []string{"employee-table", "monthly-sales"}, d.IDs())

	table, err := d.Find("employee-table")
	require.NoError(t, err)
	assert.Equal(t, widget.KindTable, table.WidgetKind())
	assert.Len(t, table.Rows, 8)
	assert.Len(t, table.Columns, 7)
	assert.Equal(t, "Fiona Green", table.Rows[7]["name"])

	graph, err := d.Find("monthly-sales")
	require.NoError(t, err)
	assert.Equal(t, widget.KindGraph, graph.WidgetKind())
	assert.Len(t, graph.Points, 10)

	_, err = d.Find("nope")
	assert.True(t, errors.Is(err, errors.ErrCodeWidgetNotFound))
}

func TestParseInline(t *testing.T) {
	d, err := Parse(strings.NewReader(inline), ".")
	require.NoError(t, err)
	assert.Equal(t, "Quarterly Review", d.Title)
	require.Len(t, d.Widgets, 2)

	staff := d.Widgets[0]
	assert.Equal(t, []widget.Column{
		{Key: "name", Title: "Name", DataIndex: "name"},
		{Key: "salary", Title: "Salary", DataIndex: "salary", Align: widget.AlignRight},
	}, staff.Columns)
	assert.Equal(t, "Alice", staff.Rows[0]["name"])
	assert.EqualValues(t, 42, staff.Rows[0]["salary"])

	revenue := d.Widgets[1]
	assert.Equal(t, "revenue", revenue.Title, "title defaults to id")
	assert.Equal(t, []widget.Point{{Name: "Jan", Value: 12}, {Name: "Feb", Value: 19.5}}, revenue.Points)
	assert.Equal(t, "line", string(revenue.Chart().Style))
}

func TestParseRejects(t *testing.T) {
	tests := map[string]string{
		"missing id":    "[[widgets]]\nkind = \"table\"\n",
		"duplicate id":  "[[widgets]]\nid = \"a\"\nkind = \"table\"\n[[widgets]]\nid = \"a\"\nkind = \"graph\"\n",
		"bad kind":      "[[widgets]]\nid = \"a\"\nkind = \"pie\"\n",
		"bad style":     "[[widgets]]\nid = \"a\"\nkind = \"graph\"\nstyle = \"area\"\n",
		"bad color":     "[[widgets]]\nid = \"a\"\nkind = \"graph\"\ncolor = \"blue\"\n",
		"unknown key":   "[[widgets]]\nid = \"a\"\nkind = \"table\"\nfilters = 1\n",
		"bad source":    "[[widgets]]\nid = \"a\"\nkind = \"table\"\nsource = \"data.parquet\"\n",
		"missing file":  "[[widgets]]\nid = \"a\"\nkind = \"table\"\nsource = \"absent.csv\"\n",
		"malformed doc": "[[widgets]\n",
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(doc), t.TempDir())
			assert.Error(t, err)
		})
	}

	_, err := Parse(strings.NewReader("[[widgets]]\nid = \"a\"\nkind = \"table\"\nsource = \"absent.csv\"\n"), t.TempDir())
	assert.True(t, errors.Is(err, errors.ErrCodeFileNotFound))
}

func TestLoadCSVSources(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "staff.csv", "Name,Salary\nAlice,42\nBob,7\n")
	writeFile(t, dir, "sales.csv", "month,total\nJan,4200\nFeb,5100\n")
	path := writeFile(t, dir, "board.toml", `
[[widgets]]
id = "staff"
kind = "table"
source = "staff.csv"

[[widgets]]
id = "sales"
kind = "graph"
source = "sales.csv"
`)

	d, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, path, d.Path)

	staff, err := d.Find("staff")
	require.NoError(t, err)
	assert.Equal(t, []widget.Column{
		{Key: "Name", Title: "Name", DataIndex: "Name"},
		{Key: "Salary", Title: "Salary", DataIndex: "Salary"},
	}, staff.Columns)
	assert.Equal(t, []widget.Row{
		{"Name": "Alice", "Salary": "42"},
		{"Name": "Bob", "Salary": "7"},
	}, staff.Rows)

	sales, err := d.Find("sales")
	require.NoError(t, err)
	assert.Equal(t, []widget.Point{{Name: "Jan", Value: 4200}, {Name: "Feb", Value: 5100}}, sales.Points)
}

func TestLoadXLSXSource(t *testing.T) {
	dir := t.TempDir()

	f := excelize.NewFile()
	_, err := f.NewSheet("People")
	require.NoError(t, err)
	require.NoError(t, f.SetSheetRow("People", "A1", &[]any{"Name", "Team"}))
	require.NoError(t, f.SetSheetRow("People", "A2", &[]any{"Alice", "Core"}))
	require.NoError(t, f.SaveAs(filepath.Join(dir, "people.xlsx")))
	require.NoError(t, f.Close())

	path := writeFile(t, dir, "board.toml", `
[[widgets]]
id = "people"
kind = "table"
source = "people.xlsx"
sheet = "People"
columns = [{ key = "Name", title = "Full name" }]
`)

	d, err := Load(path)
	require.NoError(t, err)
	people := d.Widgets[0]
	assert.Equal(t, []widget.Column{{Key: "Name", Title: "Full name", DataIndex: "Name"}}, people.Columns)
	assert.Equal(t, []widget.Row{{"Name": "Alice", "Team": "Core"}}, people.Rows)

	writeFile(t, dir, "bad.toml", "[[widgets]]\nid = \"p\"\nkind = \"table\"\nsource = \"people.xlsx\"\nsheet = \"Missing\"\n")
	_, err = Load(filepath.Join(dir, "bad.toml"))
	assert.Error(t, err)
}

func TestLoadJSONSource(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "rows.json", `[{"name": "Alice", "age": 30, "id": 9007199254740993}]`)
	writeFile(t, dir, "points.json", `[{"name": "Q1", "value": 3}]`)
	path := writeFile(t, dir, "board.toml", `
[[widgets]]
id = "rows"
kind = "table"
source = "rows.json"

[[widgets]]
id = "points"
kind = "graph"
source = "points.json"
`)

	d, err := Load(path)
	require.NoError(t, err)
	rows := d.Widgets[0]
	assert.Equal(t, []string{"age", "id", "name"}, []string{rows.Columns[0].Key, rows.Columns[1].Key, rows.Columns[2].Key})
	assert.Equal(t, json.Number("9007199254740993"), rows.Rows[0]["id"])
	assert.Equal(t, "9007199254740993", export.FormatValue(rows.Rows[0]["id"]))
	assert.Equal(t, widget.KindTable, rows.WidgetKind())
	assert.Equal(t, []widget.Point{{Name: "Q1", Value: 3}}, d.Widgets[1].Points)
	assert.Equal(t, widget.KindGraph, d.Widgets[1].WidgetKind())
}

func TestWidgetKindConcurrent(t *testing.T) {
	w := &Widget{ID: "hand", Kind: "graph"}
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.Equal(t, widget.KindGraph, w.WidgetKind())
		}()
	}
	wg.Wait()
	assert.Equal(t, widget.KindUnknown, w.kind)
}

func TestLoadMissingDashboard(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	assert.True(t, errors.Is(err, errors.ErrCodeFileNotFound))
}

func TestHandlesAndCoordinator(t *testing.T) {
	d := Sample()

	table := d.Widgets[0].Handles()
	assert.Len(t, table.Rows, 8)
	assert.Nil(t, table.Element)

	graph := d.Widgets[1].Handles()
	require.NotNil(t, graph.Element)
	assert.NotNil(t, graph.Element.Current())

	w := d.Widgets[1].Coordinator(coordinator.Deps{})
	assert.Equal(t, widget.KindGraph, w.Kind())
	assert.True(t, w.Enabled())
}

func TestFilter(t *testing.T) {
	d := Sample()
	table := d.Widgets[0]

	eng, err := table.Filter(map[string]string{"department": "engineer"})
	require.NoError(t, err)
	require.Len(t, eng.Rows, 3)
	assert.Equal(t, "EMP001", eng.Rows[0]["id"])
	assert.Len(t, table.Rows, 8, "source widget is unchanged")

	_, err = table.Filter(map[string]string{"salary_band": "x"})
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput))

	_, err = d.Widgets[1].Filter(map[string]string{"name": "Jan"})
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput))
}

func TestWatchReloads(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "board.toml", "title = \"v1\"\n")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reloads := make(chan *Dashboard, 16)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, path, func(d *Dashboard, err error) {
			if err == nil {
				reloads <- d
			}
		})
	}()

	deadline := time.After(5 * time.Second)
	for got := false; !got; {
		writeFile(t, dir, "board.toml", "title = \"v2\"\n")
		select {
		case d := <-reloads:
			assert.Equal(t, "v2", d.Title)
			got = true
		case <-time.After(300 * time.Millisecond):
		case <-deadline:
			t.Fatal("no reload within 5s")
		}
	}

	cancel()
	assert.NoError(t, <-done)
}
