package storage

import (
	"context"
	"path/filepath"
	"strings"

	"rental-pipeline/utils"
)

// SourceOptions carries what OpenSource needs beyond the input string.
type SourceOptions struct {
	Delimiter  rune
	Sheet      string
	Table      string
	MaxRetries int
	Logger     *utils.Logger
}

// OpenSource picks a RawSource for input: a postgres:// or postgresql://
// DSN reads from opts.Table, an .xlsx path reads a workbook, anything else
// is treated as a delimited file.
func OpenSource(ctx context.Context, input string, opts SourceOptions) (RawSource, error) {
	lower := strings.ToLower(input)
	switch {
	case strings.HasPrefix(lower, "postgres://"), strings.HasPrefix(lower, "postgresql://"):
		return NewPostgresSource(ctx, input, opts.Table, DefaultRetry(opts.MaxRetries, opts.Logger))
	case filepath.Ext(lower) == ".xlsx":
		return NewXLSXSource(input, opts.Sheet), nil
	default:
		return NewCSVSource(input, opts.Delimiter), nil
	}
}
