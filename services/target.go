package services

import (
	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"rental-pipeline/frame"
	"rental-pipeline/models"
	"rental-pipeline/stats"
)

// StateMedians returns the median price of every state present in df.
func StateMedians(df dataframe.DataFrame) map[string]float64 {
	states := frame.Values(df, models.ColState)
	prices := frame.Floats(df, models.ColPrice)

	groups := make(map[string][]float64)
	for i, s := range states {
		groups[s] = append(groups[s], prices[i])
	}
	medians := make(map[string]float64, len(groups))
	for s, p := range groups {
		medians[s] = stats.Median(p)
	}
	return medians
}

// DeriveTarget adds state_median_price and the high_price label. A row is
// labelled 1 only when its price is strictly above its state's median, so
// ties and single-listing states are always 0.
func DeriveTarget(df dataframe.DataFrame) (dataframe.DataFrame, error) {
	medians := StateMedians(df)
	states := frame.Values(df, models.ColState)
	prices := frame.Floats(df, models.ColPrice)

	rowMedian := make([]float64, len(states))
	labels := make([]int, len(states))
	for i, s := range states {
		rowMedian[i] = medians[s]
		if prices[i] > rowMedian[i] {
			labels[i] = 1
		}
	}

	out, err := frame.WithColumn(df, series.New(rowMedian, series.Float, models.ColStateMedianPrice))
	if err != nil {
		return out, err
	}
	return frame.WithColumn(out, series.New(labels, series.Int, models.ColHighPrice))
}
