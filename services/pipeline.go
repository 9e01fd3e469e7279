package services

import (
	"context"
	"fmt"
	"io"

	"github.com/go-gota/gota/dataframe"

	"rental-pipeline/config"
	"rental-pipeline/models"
	"rental-pipeline/storage"
	"rental-pipeline/utils"
)

// RunResult is everything a clean run produced.
type RunResult struct {
	Cleaned dataframe.DataFrame
	Report  *models.ValidationReport
	Split   *SplitResult
	Files   []string
}

// Pipeline drives a raw input through cleaning, validation and splitting and
// writes the artifacts.
type Pipeline struct {
	cfg    *config.Config
	logger *utils.Logger
	out    io.Writer
}

// NewPipeline creates a Pipeline. The validation report is printed to out.
func NewPipeline(cfg *config.Config, logger *utils.Logger, out io.Writer) *Pipeline {
	return &Pipeline{cfg: cfg, logger: logger, out: out}
}

// Run processes input and writes the split and the full cleaned table into
// outputDir. Nothing is written when the input is structurally unusable, the
// split is impossible, or validation fails under the fail policy.
func (p *Pipeline) Run(ctx context.Context, input, outputDir string) (*RunResult, error) {
	p.logger.Info("[pipeline] Reading raw listings from %s", input)
	src, err := storage.OpenSource(ctx, input, storage.SourceOptions{
		Delimiter:  p.cfg.Delimiter(),
		Sheet:      p.cfg.XLSXSheet,
		Table:      p.cfg.SourceTable,
		MaxRetries: p.cfg.MaxRetries,
		Logger:     p.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStructural, err)
	}
	defer src.Close()

	raw, err := src.ReadRaw(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStructural, err)
	}
	p.logger.Info("[pipeline] Loaded %d raw rows, %d columns", raw.Nrow(), raw.Ncol())

	cleaned, err := NewCleaner(p.logger).Clean(raw)
	if err != nil {
		return nil, err
	}

	report := NewValidator(p.cfg.Rules, p.logger).Validate(cleaned)
	PrintValidationReport(p.out, report)
	if !report.Passed() && p.cfg.FailOnViolations() {
		return &RunResult{Cleaned: cleaned, Report: report},
			fmt.Errorf("%w: %v", ErrValidationFailed, report.Failed())
	}

	split, err := StratifiedSplit(cleaned, SplitOptions{
		Label:    models.ColHighPrice,
		Features: models.FeatureColumns,
		TestSize: p.cfg.TestSize,
		Seed:     p.cfg.Seed,
	})
	if err != nil {
		return &RunResult{Cleaned: cleaned, Report: report}, err
	}
	p.logger.Info("[pipeline] Split %d rows → %d train / %d test",
		cleaned.Nrow(), len(split.TrainRows), len(split.TestRows))

	files, err := p.write(outputDir, cleaned, split)
	res := &RunResult{Cleaned: cleaned, Report: report, Split: split, Files: files}
	if err != nil {
		return res, err
	}
	p.logger.Info("[pipeline] Data cleaning and processing complete! Files saved in %s", outputDir)
	return res, nil
}

func (p *Pipeline) write(outputDir string, cleaned dataframe.DataFrame, split *SplitResult) ([]string, error) {
	w, err := storage.NewCSVWriter(outputDir)
	if err != nil {
		return nil, err
	}
	names := p.cfg.Outputs
	outputs := []struct {
		name string
		df   dataframe.DataFrame
	}{
		{names.XTrain, split.XTrain},
		{names.XTest, split.XTest},
		{names.YTrain, split.YTrain},
		{names.YTest, split.YTest},
		{names.FullClean, cleaned},
	}
	files := make([]string, 0, len(outputs))
	for _, o := range outputs {
		if err := w.WriteFrame(o.name, o.df); err != nil {
			return files, err
		}
		files = append(files, w.Path(o.name))
	}
	return files, nil
}
