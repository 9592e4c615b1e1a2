package export

import (
	"bytes"
	"context"
	"encoding/csv"

	"github.com/matzehuels/widgetshare/pkg/errors"
	"github.com/matzehuels/widgetshare/pkg/widget"
)

// TableCSV encodes the table as CSV: a header row of column titles, then
// one record per row in order. Fields are quoted per RFC 4180 and records
// end with CRLF; the final record has no terminator.
func (e *Encoder) TableCSV(ctx context.Context, t widget.Table) (*Artifact, error) {
	if err := ValidateData(t.Rows); err != nil {
		return nil, err
	}

	data, cached, err := e.memoize(ctx, e.tableKey(t, widget.FormatCSV), func() ([]byte, error) {
		return encodeCSV(t.Columns, t.Rows)
	})
	if err != nil {
		return nil, err
	}
	return e.artifact(data, t.Title, widget.FormatCSV, cached), nil
}

func encodeCSV(columns []widget.Column, rows []widget.Row) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.UseCRLF = true

	header := make([]string, len(columns))
	for i, col := range columns {
		header[i] = col.Title
	}
	if err := w.Write(header); err != nil {
		return nil, errors.Wrap(errors.ErrCodeEncoding, err, "write CSV header")
	}

	for _, rec := range tableCells(columns, rows) {
		if err := w.Write(rec); err != nil {
			return nil, errors.Wrap(errors.ErrCodeEncoding, err, "write CSV record")
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeEncoding, err, "flush CSV")
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\r\n")), nil
}

// tableCells formats every cell with FormatValue in column order.
func tableCells(columns []widget.Column, rows []widget.Row) [][]string {
	out := make([][]string, len(rows))
	for i, row := range rows {
		rec := make([]string, len(columns))
		for j, col := range columns {
			rec[j] = FormatValue(row[col.DataIndex])
		}
		out[i] = rec
	}
	return out
}
