package dbx

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrColumnMismatch is returned when a raw row cannot be aligned with the
// column list it was fetched under. Refusing the row beats silently handing
// a value back under the wrong column name.
var ErrColumnMismatch = errors.New("dbx: column count does not match value count")

// Row is the canonical result row shared by both backends. Values are
// addressable by column name (case-insensitive) or by position.
type Row struct {
	cols []string
	vals []any
	idx  map[string]int
}

// NewRow builds a Row from positional values and an ordered column list.
// An empty column list is allowed and leaves the row positional-only;
// a non-empty list whose length differs from the values fails fast.
func NewRow(vals []any, cols []string) (Row, error) {
	if len(cols) > 0 && len(cols) != len(vals) {
		return Row{}, fmt.Errorf("%w: %d columns for %d values", ErrColumnMismatch, len(cols), len(vals))
	}
	idx := make(map[string]int, len(cols))
	for i, c := range cols {
		idx[strings.ToLower(c)] = i
	}
	return Row{cols: cols, vals: vals, idx: idx}, nil
}

// Columns returns the ordered column names, if known.
func (r Row) Columns() []string { return r.cols }

// Values returns the raw values in column order.
func (r Row) Values() []any { return r.vals }

// Len returns the number of values in the row.
func (r Row) Len() int { return len(r.vals) }

// Get returns the value under the given column name, or nil when the
// column is not part of this row. Partial column lists are tolerated.
func (r Row) Get(name string) any {
	i, ok := r.idx[strings.ToLower(name)]
	if !ok {
		return nil
	}
	return r.vals[i]
}

// Index returns the value at the given position, or nil when out of range.
func (r Row) Index(i int) any {
	if i < 0 || i >= len(r.vals) {
		return nil
	}
	return r.vals[i]
}

// String returns the value under name as a string. Nil becomes "".
func (r Row) String(name string) string {
	return asString(r.Get(name))
}

// Int returns the value under name as an int, tolerating the numeric
// shapes the two drivers produce (int64, float64, textual digits).
func (r Row) Int(name string) int {
	return int(r.Int64(name))
}

func (r Row) Int64(name string) int64 {
	switch v := r.Get(name).(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case float64:
		return int64(v)
	case string:
		n, _ := strconv.ParseInt(v, 10, 64)
		return n
	case []byte:
		n, _ := strconv.ParseInt(string(v), 10, 64)
		return n
	default:
		return 0
	}
}

func (r Row) Float64(name string) float64 {
	switch v := r.Get(name).(type) {
	case float64:
		return v
	case int64:
		return float64(v)
	case int:
		return float64(v)
	case string:
		f, _ := strconv.ParseFloat(v, 64)
		return f
	case []byte:
		f, _ := strconv.ParseFloat(string(v), 64)
		return f
	default:
		return 0
	}
}

func asString(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case []byte:
		return string(s)
	default:
		return fmt.Sprint(s)
	}
}
