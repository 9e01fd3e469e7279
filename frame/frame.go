// Package frame adapts gota dataframes to the listing pipeline: loading raw
// string records with a single missing-value convention, reading typed
// columns back out, and rendering rows for output and duplicate detection.
package frame

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// MissingTokens are the raw cell values loaded as missing.
var MissingTokens = []string{
	"", "NA", "N/A", "n/a", "NaN", "nan", "-NaN", "-nan",
	"null", "NULL", "None", "<NA>", "#N/A", "<nil>",
}

// ErrEmptyInput is returned when there is not even a header row to load.
var ErrEmptyInput = errors.New("frame: no header row")

const keySep = "\x1f"
const missingKey = "\x00"

// FromRecords loads string records, the first being the header, into a
// DataFrame of string columns. Missing tokens become NA.
func FromRecords(records [][]string) (dataframe.DataFrame, error) {
	if len(records) == 0 || len(records[0]) == 0 {
		return dataframe.DataFrame{}, ErrEmptyInput
	}
	header := records[0]
	if len(records) == 1 {
		cols := make([]series.Series, len(header))
		for i, name := range header {
			cols[i] = series.New([]string{}, series.String, name)
		}
		df := dataframe.New(cols...)
		return df, df.Err
	}

	width := len(header)
	rows := make([][]string, len(records))
	rows[0] = header
	for i, rec := range records[1:] {
		row := make([]string, width)
		copy(row, rec)
		rows[i+1] = row
	}

	df := dataframe.LoadRecords(rows,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.NaNValues(MissingTokens),
	)
	if df.Err != nil {
		return df, fmt.Errorf("frame: load records: %w", df.Err)
	}
	return df, nil
}

// HasColumn reports whether df has a column with the given name.
func HasColumn(df dataframe.DataFrame, name string) bool {
	for _, n := range df.Names() {
		if n == name {
			return true
		}
	}
	return false
}

// Floats returns the column as float64 values; NA and unparseable cells are NaN.
func Floats(df dataframe.DataFrame, name string) []float64 {
	return df.Col(name).Float()
}

// Missing returns, for every row, whether the column's cell is missing.
func Missing(df dataframe.DataFrame, name string) []bool {
	s := df.Col(name)
	if s.Type() == series.Float {
		vals := s.Float()
		out := make([]bool, len(vals))
		for i, v := range vals {
			out[i] = math.IsNaN(v)
		}
		return out
	}
	return s.IsNaN()
}

// Values renders the column as strings. Missing cells are empty and floats
// use the shortest representation that round-trips.
func Values(df dataframe.DataFrame, name string) []string {
	s := df.Col(name)
	missing := Missing(df, name)
	out := make([]string, s.Len())
	if s.Type() == series.Float {
		for i, v := range s.Float() {
			if !missing[i] {
				out[i] = FormatFloat(v)
			}
		}
		return out
	}
	for i, v := range s.Records() {
		if !missing[i] {
			out[i] = v
		}
	}
	return out
}

// FormatFloat renders v without trailing zeros. Negative zero renders as "0".
func FormatFloat(v float64) string {
	if v == 0 {
		v = 0
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Records renders df as CSV records, header first.
func Records(df dataframe.DataFrame) [][]string {
	names := df.Names()
	cols := make([][]string, len(names))
	for j, name := range names {
		cols[j] = Values(df, name)
	}
	out := make([][]string, 0, df.Nrow()+1)
	out = append(out, append([]string(nil), names...))
	for i := 0; i < df.Nrow(); i++ {
		row := make([]string, len(names))
		for j := range names {
			row[j] = cols[j][i]
		}
		out = append(out, row)
	}
	return out
}

// RowKeys returns one key per row covering every column, so that two rows
// share a key exactly when all their fields are equal. Missing cells are kept
// distinct from empty strings.
func RowKeys(df dataframe.DataFrame) []string {
	names := df.Names()
	vals := make([][]string, len(names))
	miss := make([][]bool, len(names))
	for j, name := range names {
		vals[j] = Values(df, name)
		miss[j] = Missing(df, name)
	}
	keys := make([]string, df.Nrow())
	var b strings.Builder
	for i := range keys {
		b.Reset()
		for j := range names {
			if j > 0 {
				b.WriteString(keySep)
			}
			if miss[j][i] {
				b.WriteString(missingKey)
				continue
			}
			b.WriteString(vals[j][i])
		}
		keys[i] = b.String()
	}
	return keys
}

// Subset returns the rows at the given indices, in that order.
func Subset(df dataframe.DataFrame, rows []int) (dataframe.DataFrame, error) {
	if rows == nil {
		rows = []int{}
	}
	out := df.Subset(rows)
	if out.Err != nil {
		return out, fmt.Errorf("frame: subset: %w", out.Err)
	}
	return out, nil
}

// Select keeps the named columns, in the given order.
func Select(df dataframe.DataFrame, names []string) (dataframe.DataFrame, error) {
	out := df.Select(names)
	if out.Err != nil {
		return out, fmt.Errorf("frame: select: %w", out.Err)
	}
	return out, nil
}

// WithColumn adds s to df, replacing any column with the same name.
func WithColumn(df dataframe.DataFrame, s series.Series) (dataframe.DataFrame, error) {
	out := df.Mutate(s)
	if out.Err != nil {
		return out, fmt.Errorf("frame: mutate %q: %w", s.Name, out.Err)
	}
	return out, nil
}
