package services

import (
	"fmt"

	"github.com/go-gota/gota/dataframe"

	"rental-pipeline/utils"
)

// Cleaner turns a raw listing table into the cleaned, target-derived table.
type Cleaner struct {
	logger *utils.Logger
}

// NewCleaner creates a Cleaner with the given logger.
func NewCleaner(logger *utils.Logger) *Cleaner {
	return &Cleaner{logger: logger}
}

// Clean runs column selection, row filtering and target derivation in that
// order. Only structural problems are returned as errors.
func (c *Cleaner) Clean(raw dataframe.DataFrame) (dataframe.DataFrame, error) {
	selected, err := SelectAndCoerce(raw)
	if err != nil {
		return selected, fmt.Errorf("select columns: %w", err)
	}

	filtered, st := filterRows(selected)
	c.logger.Debug("[cleaner] Dropped %d non-positive, %d incomplete, %d duplicate row(s)",
		st.NonPositive, st.Incomplete, st.Duplicates)
	c.logger.Info("[cleaner] Cleaned %d → %d listings (dropped %d)",
		st.Input, st.Output, st.Input-st.Output)

	derived, err := DeriveTarget(filtered)
	if err != nil {
		return derived, fmt.Errorf("derive target: %w", err)
	}
	c.logger.Info("[cleaner] Derived state medians for %d state(s)", len(StateMedians(filtered)))
	return derived, nil
}
