package dashboard

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/domonda/go-retable/csvtable"
	"github.com/xuri/excelize/v2"

	"github.com/matzehuels/widgetshare/pkg/errors"
	"github.com/matzehuels/widgetshare/pkg/widget"
)

// loadSource reads w.Source into rows or points. Tabular sources use their
// first row as the header.
func loadSource(w *Widget, dir string) error {
	path := w.Source
	if !filepath.IsAbs(path) {
		path = filepath.Join(dir, path)
	}

	var (
		records [][]string
		err     error
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		return loadJSON(w, path)
	case ".csv":
		records, err = readCSV(path)
	case ".xlsx", ".xlsm":
		records, err = readXLSX(path, w.Sheet)
	default:
		return errors.New(errors.ErrCodeInvalidFormat, "unsupported source %q (valid: .json, .csv, .xlsx)", w.Source)
	}
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return errors.New(errors.ErrCodeValidation, "source %s is empty", w.Source)
	}

	if w.WidgetKind() == widget.KindGraph {
		w.Points, err = pointsFromRecords(records[1:])
		return err
	}
	w.Rows, w.Columns = rowsFromRecords(records, w.Columns)
	return nil
}

func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "source %s not found", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "read source %s", path)
	}
	return data, nil
}

// readCSV parses a CSV file, detecting its encoding and separator.
func readCSV(path string) ([][]string, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}
	rows, _, err := csvtable.ParseDetectFormat(data, nil)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse %s", path)
	}
	return dropBlank(rows), nil
}

// readXLSX returns the rows of sheet, or of the first sheet when sheet is
// empty.
func readXLSX(path, sheet string) (rows [][]string, err error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "source %s not found", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "open %s", path)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = errors.Wrap(errors.ErrCodeInvalidInput, cerr, "close %s", path)
		}
	}()

	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	if idx, _ := f.GetSheetIndex(sheet); idx < 0 || sheet == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "sheet %q not found in %s (available: %s)",
			sheet, path, strings.Join(f.GetSheetList(), ", "))
	}

	rows, err = f.GetRows(sheet)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read sheet %s", sheet)
	}
	return dropBlank(rows), nil
}

// dropBlank removes rows whose cells are all empty.
func dropBlank(rows [][]string) [][]string {
	out := rows[:0]
	for _, r := range rows {
		for _, c := range r {
			if strings.TrimSpace(c) != "" {
				out = append(out, r)
				break
			}
		}
	}
	return out
}

// rowsFromRecords maps records onto rows keyed by header. Declared columns
// are kept; otherwise every header becomes a column.
func rowsFromRecords(records [][]string, declared []widget.Column) ([]widget.Row, []widget.Column) {
	header := records[0]
	columns := declared
	if len(columns) == 0 {
		columns = make([]widget.Column, len(header))
		for i, h := range header {
			columns[i] = widget.Column{Key: h, Title: h, DataIndex: h}
		}
	}

	rows := make([]widget.Row, 0, len(records)-1)
	for _, rec := range records[1:] {
		row := make(widget.Row, len(header))
		for i, h := range header {
			if i < len(rec) {
				row[h] = rec[i]
			}
		}
		rows = append(rows, row)
	}
	return rows, columns
}

// pointsFromRecords reads name/value pairs from the first two columns.
func pointsFromRecords(records [][]string) ([]widget.Point, error) {
	points := make([]widget.Point, 0, len(records))
	for i, rec := range records {
		if len(rec) < 2 {
			return nil, errors.New(errors.ErrCodeValidation, "row %d: want name and value columns", i+2)
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(rec[1]), 64)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeValidation, err, "row %d: value %q is not a number", i+2, rec[1])
		}
		points = append(points, widget.Point{Name: rec[0], Value: v})
	}
	return points, nil
}

// loadJSON reads an array of objects (tables) or of {name, value} points
// (graphs). Table numbers stay json.Number so large integers keep every
// digit in exports.
func loadJSON(w *Widget, path string) error {
	data, err := readFile(path)
	if err != nil {
		return err
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var dst any = &w.Rows
	if w.WidgetKind() == widget.KindGraph {
		dst = &w.Points
	}
	if err := dec.Decode(dst); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "decode %s", path)
	}
	return nil
}

// inferColumns lists the keys of the first row, sorted.
func inferColumns(rows []widget.Row) []widget.Column {
	if len(rows) == 0 {
		return nil
	}
	keys := make([]string, 0, len(rows[0]))
	for k := range rows[0] {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	cols := make([]widget.Column, len(keys))
	for i, k := range keys {
		cols[i] = widget.Column{Key: k, Title: k, DataIndex: k}
	}
	return cols
}
