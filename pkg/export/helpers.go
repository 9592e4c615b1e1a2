package export

import (
	"encoding/json"
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/matzehuels/widgetshare/pkg/errors"
	"github.com/matzehuels/widgetshare/pkg/widget"
)

// Validation messages.
const (
	msgNoData     = "No data provided"
	msgEmptyArray = "Data array is empty"
)

var (
	invalidNameChars = regexp.MustCompile(`[^a-zA-Z0-9_-]`)
	underscoreRuns   = regexp.MustCompile(`_+`)
)

// SanitizeFileName reduces title to [a-z0-9_-]. Every other character
// becomes an underscore, runs of underscores collapse to one, and an empty
// title becomes "export".
func SanitizeFileName(title string) string {
	s := invalidNameChars.ReplaceAllString(title, "_")
	s = underscoreRuns.ReplaceAllString(s, "_")
	s = strings.ToLower(s)
	if s == "" {
		return "export"
	}
	return s
}

// GenerateFileName builds "<sanitized_title>_<YYYY-MM-DD>_<HH-MM-SS>.<ext>"
// from ts in UTC. The result is fully determined by its arguments.
func GenerateFileName(title string, format widget.Format, ts time.Time) string {
	ts = ts.UTC()
	return fmt.Sprintf("%s_%s_%s.%s",
		SanitizeFileName(title),
		ts.Format("2006-01-02"),
		ts.Format("15-04-05"),
		format.Extension())
}

// ValidateData checks that data is present and, when it is a sequence, not
// empty. Non-sequence values are valid. Failures carry ErrCodeValidation.
func ValidateData(data any) error {
	if data == nil {
		return errors.New(errors.ErrCodeValidation, msgNoData)
	}

	v := reflect.ValueOf(data)
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Func, reflect.Chan:
		if v.IsNil() {
			return errors.New(errors.ErrCodeValidation, msgNoData)
		}
	case reflect.Slice:
		if v.IsNil() {
			return errors.New(errors.ErrCodeValidation, msgNoData)
		}
		if v.Len() == 0 {
			return errors.New(errors.ErrCodeValidation, msgEmptyArray)
		}
	case reflect.Array:
		if v.Len() == 0 {
			return errors.New(errors.ErrCodeValidation, msgEmptyArray)
		}
	}
	return nil
}

// FormatValue renders a cell value as text. nil becomes "", structured
// values (maps, slices, structs) become JSON, and scalars use their natural
// string form. CSV and PDF encoders both use it, so identical values render
// identically in both formats.
func FormatValue(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case json.Number:
		return v.String()
	case time.Time:
		return v.Format(time.RFC3339)
	case fmt.Stringer:
		return v.String()
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return ""
		}
		return FormatValue(rv.Elem().Interface())
	case reflect.Map, reflect.Slice, reflect.Array, reflect.Struct:
		if (rv.Kind() == reflect.Map || rv.Kind() == reflect.Slice) && rv.IsNil() {
			return "null"
		}
		data, err := json.Marshal(value)
		if err != nil {
			return fmt.Sprint(value)
		}
		return string(data)
	}
	return fmt.Sprint(value)
}

// PrepareTable filters rows and projects them onto the visible columns.
//
// Each filter maps a DataIndex to a needle; a row is kept when every
// non-empty needle is a case-insensitive substring of the formatted cell.
// When columns is non-empty the returned rows contain only those columns'
// DataIndex keys. The input rows are never modified.
func PrepareTable(rows []widget.Row, columns []widget.Column, filters map[string]string) []widget.Row {
	out := make([]widget.Row, 0, len(rows))
	for _, row := range rows {
		if !matchesFilters(row, filters) {
			continue
		}
		if len(columns) == 0 {
			out = append(out, row)
			continue
		}
		projected := make(widget.Row, len(columns))
		for _, col := range columns {
			projected[col.DataIndex] = row[col.DataIndex]
		}
		out = append(out, projected)
	}
	return out
}

func matchesFilters(row widget.Row, filters map[string]string) bool {
	for key, needle := range filters {
		if needle == "" {
			continue
		}
		cell := strings.ToLower(FormatValue(row[key]))
		if !strings.Contains(cell, strings.ToLower(needle)) {
			return false
		}
	}
	return true
}

// Result is the outcome of an export as reported to callers.
type Result struct {
	Success  bool
	Artifact *Artifact
	Err      error
	Kind     widget.Kind
}

// ErrorResult shapes a failed export of the given widget kind.
func ErrorResult(err error, kind widget.Kind) Result {
	if err == nil {
		err = errors.New(errors.ErrCodeInternal, "Unknown export error")
	}
	return Result{Success: false, Err: err, Kind: kind}
}

// Message returns the user-facing error text of a failed result.
func (r Result) Message() string {
	if r.Err == nil {
		return ""
	}
	return errors.UserMessage(r.Err)
}
