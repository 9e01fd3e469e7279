package storage

import (
	"context"

	"github.com/go-gota/gota/dataframe"
)

// RawSource is the interface any raw listing input must satisfy. ReadRaw
// returns every row as string columns with missing cells marked NA.
type RawSource interface {
	ReadRaw(ctx context.Context) (dataframe.DataFrame, error)
	Close() error
}

// FrameWriter persists a table under a file name.
type FrameWriter interface {
	WriteFrame(name string, df dataframe.DataFrame) error
	WriteRecords(name string, records [][]string) error
}
