package services

import (
	"github.com/go-gota/gota/dataframe"

	"rental-pipeline/frame"
	"rental-pipeline/models"
	"rental-pipeline/utils"
)

// FilterStats counts the rows removed by each filtering step.
type FilterStats struct {
	Input       int
	NonPositive int
	Incomplete  int
	Duplicates  int
	Output      int
}

// FilterRows keeps rows with a positive price and area, then drops rows with a
// missing required field, then drops exact duplicates keeping the first.
// The order matters: coercion failures only surface in the completeness step.
func FilterRows(df dataframe.DataFrame) dataframe.DataFrame {
	out, _ := filterRows(df)
	return out
}

func filterRows(df dataframe.DataFrame) (dataframe.DataFrame, FilterStats) {
	st := FilterStats{Input: df.Nrow()}

	prices := frame.Floats(df, models.ColPrice)
	areas := frame.Floats(df, models.ColSquareFeet)
	keep := make([]int, 0, df.Nrow())
	for i := range prices {
		// NaN compares false and is dropped here as well.
		if prices[i] > 0 && areas[i] > 0 {
			keep = append(keep, i)
		}
	}
	st.NonPositive = df.Nrow() - len(keep)
	df = mustSubset(df, keep)

	missing := make([][]bool, 0, len(models.RequiredColumns))
	for _, name := range models.RequiredColumns {
		missing = append(missing, frame.Missing(df, name))
	}
	keep = keep[:0]
	for i := 0; i < df.Nrow(); i++ {
		complete := true
		for _, col := range missing {
			if col[i] {
				complete = false
				break
			}
		}
		if complete {
			keep = append(keep, i)
		}
	}
	st.Incomplete = df.Nrow() - len(keep)
	df = mustSubset(df, keep)

	seen := utils.NewKeySet()
	keep = keep[:0]
	for i, key := range frame.RowKeys(df) {
		if seen.Add(key, i) {
			keep = append(keep, i)
		}
	}
	st.Duplicates = df.Nrow() - len(keep)
	df = mustSubset(df, keep)

	st.Output = df.Nrow()
	return df, st
}

// mustSubset subsets with indices produced from df itself, which are always
// in range.
func mustSubset(df dataframe.DataFrame, rows []int) dataframe.DataFrame {
	idx := make([]int, len(rows))
	copy(idx, rows)
	out, err := frame.Subset(df, idx)
	if err != nil {
		panic(err)
	}
	return out
}
