package storage

import (
	"context"
	"fmt"

	"github.com/go-gota/gota/dataframe"
	"github.com/xuri/excelize/v2"

	"rental-pipeline/frame"
)

// XLSXSource reads raw listings from one sheet of an Excel workbook.
type XLSXSource struct {
	path  string
	sheet string
}

// NewXLSXSource creates a source for the workbook at path. An empty sheet
// name selects the first sheet.
func NewXLSXSource(path, sheet string) *XLSXSource {
	return &XLSXSource{path: path, sheet: sheet}
}

// ReadRaw loads every row of the sheet; the first row is the header.
func (s *XLSXSource) ReadRaw(_ context.Context) (dataframe.DataFrame, error) {
	f, err := excelize.OpenFile(s.path)
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("xlsx: open %q: %w", s.path, err)
	}
	defer f.Close()

	sheet := s.sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return dataframe.DataFrame{}, fmt.Errorf("xlsx: %q has no sheets", s.path)
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("xlsx: read sheet %q: %w", sheet, err)
	}
	// GetRows trims trailing empty cells; FromRecords pads them back.
	df, err := frame.FromRecords(rows)
	if err != nil {
		return df, fmt.Errorf("xlsx: %q: %w", s.path, err)
	}
	return df, nil
}

// Close is a no-op; the workbook is closed after every read.
func (s *XLSXSource) Close() error { return nil }
