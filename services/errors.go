package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrStructural marks input that cannot be processed at all: an unreadable
	// source or a missing required column. The run aborts without output.
	ErrStructural = errors.New("structural error")

	// ErrDegenerateData marks a table the downstream stages cannot work with,
	// such as a split with a missing label class.
	ErrDegenerateData = errors.New("degenerate data")

	// ErrValidationFailed is returned under the fail policy when the schema
	// validator reports any violation.
	ErrValidationFailed = errors.New("validation failed")
)

// MissingColumnError lists the required columns absent from a raw table.
type MissingColumnError struct {
	Columns []string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("missing required column(s): %s", strings.Join(e.Columns, ", "))
}

func (e *MissingColumnError) Unwrap() error {
	return ErrStructural
}

// missingColumns returns the names in want that are not in have, in order.
func missingColumns(have, want []string) []string {
	present := make(map[string]struct{}, len(have))
	for _, n := range have {
		present[n] = struct{}{}
	}
	var missing []string
	for _, n := range want {
		if _, ok := present[n]; !ok {
			missing = append(missing, n)
		}
	}
	return missing
}
