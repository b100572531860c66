package dataset

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Kind is the inferred primitive kind of a column.
type Kind int

const (
	KindUnknown Kind = iota
	KindNumeric
	KindText
	KindTemporal
)

func (k Kind) String() string {
	switch k {
	case KindNumeric:
		return "numeric"
	case KindText:
		return "text"
	case KindTemporal:
		return "temporal"
	default:
		return "unknown"
	}
}

// numericThreshold is the share of non-null values that must parse as numbers
// for a column to count as numeric. Real-world exports mix strings and numbers
// in the same column ("1,234", empty cells), so the threshold is deliberately
// tolerant.
const numericThreshold = 0.30

// temporalThreshold is the share of non-null values that must match a known
// date layout for a column to count as temporal.
const temporalThreshold = 0.80

// Dataset is an ordered, rectangular collection of named columns. Cell values
// are kept as strings; per-column kinds are inferred once at construction.
// Column names are unique and every row has exactly one cell per column.
type Dataset struct {
	cols  []string
	index map[string]int
	rows  [][]string
	kinds []Kind
}

// New builds a Dataset from a header and row-major cells. It rejects duplicate
// column names and ragged rows; ingestion is expected to normalize both before
// handing off.
func New(columns []string, rows [][]string) (*Dataset, error) {
	index := make(map[string]int, len(columns))
	for i, c := range columns {
		if _, dup := index[c]; dup {
			return nil, fmt.Errorf("duplicate column name %q", c)
		}
		index[c] = i
	}
	for i, row := range rows {
		if len(row) != len(columns) {
			return nil, fmt.Errorf("row %d has %d cells, want %d", i, len(row), len(columns))
		}
	}

	ds := &Dataset{
		cols:  append([]string(nil), columns...),
		index: index,
		rows:  rows,
		kinds: make([]Kind, len(columns)),
	}
	for i := range columns {
		ds.kinds[i] = inferKind(ds.columnValues(i))
	}
	return ds, nil
}

// Columns returns the column names in dataset order.
func (ds *Dataset) Columns() []string {
	return append([]string(nil), ds.cols...)
}

// RowCount returns the number of rows.
func (ds *Dataset) RowCount() int {
	return len(ds.rows)
}

// HasColumn reports whether a column with the given name exists.
func (ds *Dataset) HasColumn(name string) bool {
	_, ok := ds.index[name]
	return ok
}

// Kind returns the inferred kind of the named column, KindUnknown if absent.
func (ds *Dataset) Kind(name string) Kind {
	i, ok := ds.index[name]
	if !ok {
		return KindUnknown
	}
	return ds.kinds[i]
}

// Values returns the raw cell values of the named column in row order.
// Returns nil for unknown columns.
func (ds *Dataset) Values(name string) []string {
	i, ok := ds.index[name]
	if !ok {
		return nil
	}
	return ds.columnValues(i)
}

func (ds *Dataset) columnValues(i int) []string {
	out := make([]string, len(ds.rows))
	for r, row := range ds.rows {
		out[r] = row[i]
	}
	return out
}

// Row returns the cells of row r in column order.
func (ds *Dataset) Row(r int) []string {
	return append([]string(nil), ds.rows[r]...)
}

// NullCount returns the number of null cells in the named column.
func (ds *Dataset) NullCount(name string) int {
	n := 0
	for _, v := range ds.Values(name) {
		if IsNull(v) {
			n++
		}
	}
	return n
}

// Floats returns the parseable numeric values of the named column in row
// order. Null and unparsable cells are skipped, not substituted.
func (ds *Dataset) Floats(name string) []float64 {
	var out []float64
	for _, v := range ds.Values(name) {
		if f, ok := ParseNumber(v); ok {
			out = append(out, f)
		}
	}
	return out
}

// FloatPairs returns the row-aligned numeric values of two columns, keeping
// only rows where both cells parse. Used for correlation.
func (ds *Dataset) FloatPairs(a, b string) ([]float64, []float64) {
	ai, okA := ds.index[a]
	bi, okB := ds.index[b]
	if !okA || !okB {
		return nil, nil
	}
	var xs, ys []float64
	for _, row := range ds.rows {
		x, okX := ParseNumber(row[ai])
		y, okY := ParseNumber(row[bi])
		if okX && okY {
			xs = append(xs, x)
			ys = append(ys, y)
		}
	}
	return xs, ys
}

// NumericColumns returns column names of numeric kind in dataset order.
func (ds *Dataset) NumericColumns() []string {
	var out []string
	for i, c := range ds.cols {
		if ds.kinds[i] == KindNumeric {
			out = append(out, c)
		}
	}
	return out
}

// CategoricalColumns returns column names usable for grouping: text and
// temporal columns, in dataset order.
func (ds *Dataset) CategoricalColumns() []string {
	var out []string
	for i, c := range ds.cols {
		if ds.kinds[i] == KindText || ds.kinds[i] == KindTemporal {
			out = append(out, c)
		}
	}
	return out
}

// UniqueCount returns the number of distinct non-null values in the column.
func (ds *Dataset) UniqueCount(name string) int {
	seen := make(map[string]bool)
	for _, v := range ds.Values(name) {
		if !IsNull(v) {
			seen[v] = true
		}
	}
	return len(seen)
}

// IsNull reports whether a cell value represents a missing entry.
func IsNull(v string) bool {
	switch strings.TrimSpace(v) {
	case "", "null", "NULL", "N/A", "n/a", "NaN", "nan":
		return true
	}
	return false
}

// ParseNumber coerces a cell to a float. It tolerates thousands separators
// and leading currency symbols ("1,234.56", "$12", "€9").
func ParseNumber(v string) (float64, bool) {
	s := strings.TrimSpace(v)
	if IsNull(s) {
		return 0, false
	}
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimPrefix(s, "$")
	s = strings.TrimPrefix(s, "€")
	s = strings.TrimPrefix(s, "£")
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02T15:04:05Z",
	"2006-01-02 15:04:05",
	"01/02/2006",
	"02/01/2006",
	"Jan-2006",
	"January 2006",
	"Jan 2, 2006",
	"2 Jan 2006",
}

func isDate(v string) bool {
	s := strings.TrimSpace(v)
	for _, layout := range dateLayouts {
		if _, err := time.Parse(layout, s); err == nil {
			return true
		}
	}
	return false
}

// inferKind classifies a column from its values. Temporal wins over numeric
// only when the column is not overwhelmingly numeric, so year-like integer
// columns stay numeric.
func inferKind(values []string) Kind {
	nonNull := 0
	numCount := 0
	dateCount := 0
	for _, v := range values {
		if IsNull(v) {
			continue
		}
		nonNull++
		if _, ok := ParseNumber(v); ok {
			numCount++
		}
		if isDate(v) {
			dateCount++
		}
	}
	if nonNull == 0 {
		return KindUnknown
	}
	numShare := float64(numCount) / float64(nonNull)
	dateShare := float64(dateCount) / float64(nonNull)

	if dateShare >= temporalThreshold && numShare < temporalThreshold {
		return KindTemporal
	}
	if numShare >= numericThreshold {
		return KindNumeric
	}
	return KindText
}
