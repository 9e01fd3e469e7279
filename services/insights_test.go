package services

import (
	"bytes"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rental-pipeline/models"
)

func TestDescribe(t *testing.T) {
	s := Describe("price", []float64{1, 2, math.NaN(), 3, 4})

	assert.Equal(t, 4, s.Count)
	assert.InDelta(t, 2.5, s.Mean, 1e-12)
	assert.InDelta(t, math.Sqrt(5.0/3), s.Std, 1e-12)
	assert.Equal(t, 1.0, s.Min)
	assert.InDelta(t, 1.75, s.Q25, 1e-12)
	assert.InDelta(t, 2.5, s.Median, 1e-12)
	assert.InDelta(t, 3.25, s.Q75, 1e-12)
	assert.Equal(t, 4.0, s.Max)
}

func TestLabelSharesOrdering(t *testing.T) {
	shares := LabelShares([]string{"0", "1", "0", "0"})

	require.Len(t, shares, 2)
	assert.Equal(t, models.LabelShare{Label: "0", Proportion: 0.75}, shares[0])
	assert.Equal(t, models.LabelShare{Label: "1", Proportion: 0.25}, shares[1])
}

func TestDescribeRecordsLayout(t *testing.T) {
	rows := DescribeRecords([]models.ColumnSummary{
		Describe("price", []float64{1000, 2000}),
		Describe("bathrooms", []float64{1}),
	})

	require.Len(t, rows, 9)
	assert.Equal(t, []string{"", "price", "bathrooms"}, rows[0])
	assert.Equal(t, []string{"count", "2", "1"}, rows[1])
	assert.Equal(t, []string{"mean", "1500", "1"}, rows[2])
	assert.Equal(t, "", rows[3][2], "std of one value is undefined")
	assert.Equal(t, []string{"50%", "1500", "1"}, rows[6])
	assert.Equal(t, "max", rows[8][0])
}

func TestLabelShareRecords(t *testing.T) {
	rows := LabelShareRecords([]models.LabelShare{{Label: "0", Proportion: 0.5}, {Label: "1", Proportion: 0.5}})

	assert.Equal(t, [][]string{{"high_price", "proportion"}, {"0", "0.5"}, {"1", "0.5"}}, rows)
}

func TestInsightGenerate(t *testing.T) {
	df := derivedFrame(t,
		row("1000", "500", "CA"),
		row("2000", "1000", "CA"),
		row("900", "450", "TX"),
	)
	svc := NewInsightService(newTestLogger())

	r := svc.Generate(df)

	assert.Equal(t, 3, r.TotalListings)
	require.Len(t, r.Columns, len(DescribeColumns))
	assert.Equal(t, "price", r.Columns[0].Column)
	assert.Equal(t, map[string]int{"CA": 2, "TX": 1}, r.ListingsByState)
	assert.Equal(t, 1500.0, r.MedianByState["CA"])
	require.Len(t, r.LabelShares, 2)
	assert.Equal(t, "0", r.LabelShares[0].Label)

	var buf bytes.Buffer
	svc.Print(&buf, r)
	assert.Contains(t, buf.String(), "RENTAL LISTING INSIGHTS")
	assert.Contains(t, buf.String(), "CA")
}

func TestInsightGenerateEmpty(t *testing.T) {
	r := NewInsightService(newTestLogger()).Generate(labelledFrame(0, 0))

	assert.Equal(t, 0, r.TotalListings)
	assert.Empty(t, r.LabelShares)
	for _, c := range r.Columns {
		assert.Equal(t, 0, c.Count)
	}
}
