package services

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"rental-pipeline/config"
	"rental-pipeline/frame"
	"rental-pipeline/models"
	"rental-pipeline/plots"
	"rental-pipeline/storage"
	"rental-pipeline/utils"
)

// Exploratory artifact names, relative to the results directory.
const (
	DescribeTable     = "tables/describe.csv"
	TargetCountsTable = "tables/target_counts.csv"
	PriceHistogramPNG = "figures/hist_price.png"
	ScatterPNG        = "figures/scatter.png"
)

const histogramBins = 50

// Explorer summarises a cleaned listing table and renders its figures.
type Explorer struct {
	cfg      *config.Config
	logger   *utils.Logger
	out      io.Writer
	insights *InsightService
}

// NewExplorer creates an Explorer. The insight summary is printed to out.
func NewExplorer(cfg *config.Config, logger *utils.Logger, out io.Writer) *Explorer {
	return &Explorer{cfg: cfg, logger: logger, out: out, insights: NewInsightService(logger)}
}

// Run reads the cleaned table at input and writes the summary tables and
// figures under resultsDir. It returns the insight report and the files
// written.
func (e *Explorer) Run(ctx context.Context, input, resultsDir string) (*models.InsightReport, []string, error) {
	e.logger.Info("[eda] Reading cleaned listings from %s", input)
	df, err := storage.NewCSVSource(input, storage.OutputDelimiter).ReadRaw(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrStructural, err)
	}
	if missing := missingColumns(df.Names(),
		[]string{models.ColPrice, models.ColSquareFeet, models.ColHighPrice}); len(missing) > 0 {
		return nil, nil, &MissingColumnError{Columns: missing}
	}

	report := e.insights.Generate(df)
	e.insights.Print(e.out, report)

	w, err := storage.NewCSVWriter(resultsDir)
	if err != nil {
		return report, nil, err
	}
	var files []string
	if err := w.WriteRecords(DescribeTable, DescribeRecords(report.Columns)); err != nil {
		return report, files, err
	}
	files = append(files, w.Path(DescribeTable))
	if err := w.WriteRecords(TargetCountsTable, LabelShareRecords(report.LabelShares)); err != nil {
		return report, files, err
	}
	files = append(files, w.Path(TargetCountsTable))

	prices := frame.Floats(df, models.ColPrice)
	hist := filepath.Join(resultsDir, PriceHistogramPNG)
	if err := plots.PriceHistogram(prices, histogramBins, hist); err != nil {
		return report, files, err
	}
	files = append(files, hist)

	scatter := filepath.Join(resultsDir, ScatterPNG)
	err = plots.SizePriceScatter(
		frame.Floats(df, models.ColSquareFeet),
		prices,
		frame.Values(df, models.ColHighPrice),
		e.cfg.PlotSampleSize,
		e.cfg.Seed,
		scatter,
	)
	if err != nil {
		return report, files, err
	}
	files = append(files, scatter)

	e.logger.Info("[eda] Wrote %d artifact(s) to %s", len(files), resultsDir)
	return report, files, nil
}
