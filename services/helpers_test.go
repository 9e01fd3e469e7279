package services

import (
	"strconv"
	"testing"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/stretchr/testify/require"

	"rental-pipeline/config"
	"rental-pipeline/frame"
	"rental-pipeline/models"
	"rental-pipeline/utils"
)

func newTestLogger() *utils.Logger { return utils.Discard() }

// row builds a raw listing record in RequiredColumns order.
func row(price, sqft, state string) []string {
	return []string{price, sqft, "1", "2", state, "Cats", "No", "Yes"}
}

func rawFrame(t *testing.T, rows ...[]string) dataframe.DataFrame {
	t.Helper()
	records := append([][]string{models.RequiredColumns}, rows...)
	df, err := frame.FromRecords(records)
	require.NoError(t, err)
	return df
}

// derivedFrame selects, coerces and labels rows without filtering them.
func derivedFrame(t *testing.T, rows ...[]string) dataframe.DataFrame {
	t.Helper()
	selected, err := SelectAndCoerce(rawFrame(t, rows...))
	require.NoError(t, err)
	derived, err := DeriveTarget(selected)
	require.NoError(t, err)
	return derived
}

// skewedRows returns 100 distinct CA listings of which exactly two are priced
// above the state median, giving a 2% positive label.
func skewedRows() [][]string {
	rows := make([][]string, 0, 100)
	for i := 0; i < 98; i++ {
		rows = append(rows, row("1000", strconv.Itoa(500+i), "CA"))
	}
	rows = append(rows, row("3000", "900", "CA"), row("3000", "901", "CA"))
	return rows
}

// labelledFrame builds an already-derived table of n rows whose first
// positives rows carry label 1. Square footage is a permutation of the price
// order, so no two numeric features are collinear.
func labelledFrame(n, positives int) dataframe.DataFrame {
	price := make([]float64, n)
	sqft := make([]float64, n)
	baths := make([]float64, n)
	beds := make([]float64, n)
	states := make([]string, n)
	pets := make([]string, n)
	fee := make([]string, n)
	photo := make([]string, n)
	median := make([]float64, n)
	label := make([]int, n)
	for i := 0; i < n; i++ {
		price[i] = float64(1000 + i)
		sqft[i] = float64(400 + 3*((7*i)%n))
		baths[i] = float64(1 + i%3)
		beds[i] = float64(1 + i%4)
		states[i] = []string{"CA", "TX", "NY"}[i%3]
		pets[i] = "Cats,Dogs"
		fee[i] = "No"
		photo[i] = "Yes"
		median[i] = 1500
		if i < positives {
			label[i] = 1
		}
	}
	return dataframe.New(
		series.New(price, series.Float, models.ColPrice),
		series.New(sqft, series.Float, models.ColSquareFeet),
		series.New(baths, series.Float, models.ColBathrooms),
		series.New(beds, series.Float, models.ColBedrooms),
		series.New(states, series.String, models.ColState),
		series.New(pets, series.String, models.ColPetsAllowed),
		series.New(fee, series.String, models.ColFee),
		series.New(photo, series.String, models.ColHasPhoto),
		series.New(median, series.Float, models.ColStateMedianPrice),
		series.New(label, series.Int, models.ColHighPrice),
	)
}

func testConfig() *config.Config {
	return &config.Config{
		TestSize:         0.2,
		Seed:             123,
		ValidationPolicy: config.PolicyWarn,
		CSVDelimiter:     ",",
		LogLevel:         "error",
		PlotSampleSize:   5000,
		SourceTable:      "raw_listings",
		MaxRetries:       1,
		MaxIterations:    1000,
		Outputs:          config.DefaultOutputNames(),
		Rules:            config.DefaultRules(),
	}
}
