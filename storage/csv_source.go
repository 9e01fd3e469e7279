package storage

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"

	"github.com/go-gota/gota/dataframe"

	"rental-pipeline/frame"
)

// CSVSource reads a delimited raw listing file.
type CSVSource struct {
	path      string
	delimiter rune
}

// NewCSVSource creates a source for the file at path. A zero delimiter means
// a comma.
func NewCSVSource(path string, delimiter rune) *CSVSource {
	if delimiter == 0 {
		delimiter = ','
	}
	return &CSVSource{path: path, delimiter: delimiter}
}

// ReadRaw loads the whole file. Short rows are padded with missing cells.
func (s *CSVSource) ReadRaw(_ context.Context) (dataframe.DataFrame, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("csv: open %q: %w", s.path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.Comma = s.delimiter
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	records, err := r.ReadAll()
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("csv: read %q: %w", s.path, err)
	}
	df, err := frame.FromRecords(records)
	if err != nil {
		return df, fmt.Errorf("csv: %q: %w", s.path, err)
	}
	return df, nil
}

// Close is a no-op; the file is closed after every read.
func (s *CSVSource) Close() error { return nil }
