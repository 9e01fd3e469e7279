package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-gota/gota/dataframe"

	"rental-pipeline/frame"
)

// OutputDelimiter separates fields in every file CSVWriter produces,
// whatever delimiter the raw input used.
const OutputDelimiter = ','

// CSVWriter writes tables as CSV files into one output directory.
type CSVWriter struct {
	dir string
}

// NewCSVWriter creates the output directory if needed and returns a writer
// for it.
func NewCSVWriter(dir string) (*CSVWriter, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("csv: create output dir: %w", err)
	}
	return &CSVWriter{dir: dir}, nil
}

// Path returns where a file called name is written.
func (c *CSVWriter) Path(name string) string {
	return filepath.Join(c.dir, name)
}

// WriteFrame writes df with a header row. Missing cells are left empty.
func (c *CSVWriter) WriteFrame(name string, df dataframe.DataFrame) error {
	if df.Err != nil {
		return fmt.Errorf("csv: write %q: %w", name, df.Err)
	}
	return c.WriteRecords(name, frame.Records(df))
}

// WriteRecords creates (or truncates) the file and writes every record.
func (c *CSVWriter) WriteRecords(name string, records [][]string) error {
	path := c.Path(name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("csv: create dir for %q: %w", name, err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("csv: create file %q: %w", path, err)
	}

	w := csv.NewWriter(f)
	w.Comma = OutputDelimiter
	if err := w.WriteAll(records); err != nil {
		_ = f.Close()
		return fmt.Errorf("csv: write %q: %w", path, err)
	}
	return f.Close()
}

var _ FrameWriter = (*CSVWriter)(nil)
