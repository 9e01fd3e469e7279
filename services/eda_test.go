package services

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExplorerWritesArtifacts(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig()
	processed := filepath.Join(dir, "processed")
	_, err := NewPipeline(cfg, newTestLogger(), &bytes.Buffer{}).
		Run(context.Background(), writeRaw(t, dir, balancedRows()), processed)
	require.NoError(t, err)

	results := filepath.Join(dir, "results")
	var out bytes.Buffer
	report, files, err := NewExplorer(cfg, newTestLogger(), &out).
		Run(context.Background(), filepath.Join(processed, "full_cleaned_data.csv"), results)
	require.NoError(t, err)

	assert.Equal(t, 60, report.TotalListings)
	require.Len(t, files, 4)
	for _, f := range files {
		assert.FileExists(t, f)
	}
	assert.FileExists(t, filepath.Join(results, PriceHistogramPNG))
	assert.FileExists(t, filepath.Join(results, ScatterPNG))

	describe := readCSV(t, filepath.Join(results, DescribeTable))
	assert.Equal(t, []string{"", "price", "square_feet", "bathrooms"}, describe[0])
	assert.Equal(t, []string{"count", "60", "60", "60"}, describe[1])

	counts := readCSV(t, filepath.Join(results, TargetCountsTable))
	assert.Equal(t, [][]string{{"high_price", "proportion"}, {"0", "0.5"}, {"1", "0.5"}}, counts)
	assert.Contains(t, out.String(), "RENTAL LISTING INSIGHTS")
}

func TestExplorerRequiresLabel(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "table.csv")
	writeCSV(t, input, [][]string{{"price", "square_feet"}, {"1000", "500"}})

	_, _, err := NewExplorer(testConfig(), newTestLogger(), &bytes.Buffer{}).
		Run(context.Background(), input, filepath.Join(dir, "results"))

	var mc *MissingColumnError
	require.True(t, errors.As(err, &mc))
	assert.Equal(t, []string{"high_price"}, mc.Columns)
}
