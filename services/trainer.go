package services

import (
	"context"
	"fmt"
	"math"
	"path/filepath"

	"github.com/go-gota/gota/dataframe"

	"rental-pipeline/classifier"
	"rental-pipeline/config"
	"rental-pipeline/frame"
	"rental-pipeline/models"
	"rental-pipeline/plots"
	"rental-pipeline/storage"
	"rental-pipeline/utils"
)

// Model artifact names, relative to the results directory.
const (
	MetricsTable       = "logistic_regression_metrics.csv"
	ConfusionMatrixPNG = "confusion_matrix.png"
	modelName          = "Logistic Regression"
)

// TrainInputs are the four split files produced by the clean step.
type TrainInputs struct {
	XTrain string
	XTest  string
	YTrain string
	YTest  string
}

// TrainResult holds the fitted model's evaluation on the test split.
type TrainResult struct {
	Metrics   models.ClassificationMetrics
	Confusion [2][2]int
	Files     []string
}

// Trainer fits the high-price classifier on the training split and scores
// it on the test split.
type Trainer struct {
	cfg    *config.Config
	logger *utils.Logger
}

func NewTrainer(cfg *config.Config, logger *utils.Logger) *Trainer {
	return &Trainer{cfg: cfg, logger: logger}
}

// Run trains, evaluates and writes the metrics table and confusion matrix
// figure into resultsDir.
func (t *Trainer) Run(ctx context.Context, in TrainInputs, resultsDir string) (*TrainResult, error) {
	xTrain, err := t.read(ctx, in.XTrain)
	if err != nil {
		return nil, err
	}
	xTest, err := t.read(ctx, in.XTest)
	if err != nil {
		return nil, err
	}
	yTrain, err := t.readLabels(ctx, in.YTrain, xTrain.Nrow())
	if err != nil {
		return nil, err
	}
	yTest, err := t.readLabels(ctx, in.YTest, xTest.Nrow())
	if err != nil {
		return nil, err
	}
	t.logger.Info("[model] Loaded %d train / %d test rows", xTrain.Nrow(), xTest.Nrow())

	enc := classifier.NewEncoder(models.ModelNumericFeatures, models.ModelCategoricalFeatures)
	if err := enc.Fit(xTrain); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStructural, err)
	}
	trainX, err := enc.Transform(xTrain)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDegenerateData, err)
	}
	testX, err := enc.Transform(xTest)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDegenerateData, err)
	}
	t.logger.Debug("[model] Encoded %d feature(s)", enc.Width())

	trainY := make([]float64, len(yTrain))
	for i, v := range yTrain {
		trainY[i] = float64(v)
	}
	model := classifier.NewLogisticRegression(t.cfg.MaxIterations)
	if err := model.Fit(trainX, trainY); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDegenerateData, err)
	}
	if model.Iterations == t.cfg.MaxIterations {
		t.logger.Warn("[model] Gradient descent stopped at the %d iteration cap", model.Iterations)
	} else {
		t.logger.Info("[model] Converged after %d iteration(s)", model.Iterations)
	}

	pred, err := model.Predict(testX)
	if err != nil {
		return nil, err
	}
	res := &TrainResult{
		Metrics:   classifier.Evaluate(modelName, yTest, pred),
		Confusion: classifier.ConfusionMatrix(yTest, pred),
	}
	t.logger.Info("[model] accuracy=%.4f precision=%.4f recall=%.4f f1=%.4f",
		res.Metrics.Accuracy, res.Metrics.Precision, res.Metrics.Recall, res.Metrics.F1)

	w, err := storage.NewCSVWriter(resultsDir)
	if err != nil {
		return res, err
	}
	if err := w.WriteRecords(MetricsTable, classifier.MetricsRecords(res.Metrics)); err != nil {
		return res, err
	}
	res.Files = append(res.Files, w.Path(MetricsTable))

	png := filepath.Join(resultsDir, ConfusionMatrixPNG)
	if err := plots.ConfusionMatrix(res.Confusion, "Confusion Matrix", png); err != nil {
		return res, err
	}
	res.Files = append(res.Files, png)
	return res, nil
}

// read loads a file written by the clean step, which always uses
// storage.OutputDelimiter.
func (t *Trainer) read(ctx context.Context, path string) (dataframe.DataFrame, error) {
	df, err := storage.NewCSVSource(path, storage.OutputDelimiter).ReadRaw(ctx)
	if err != nil {
		return df, fmt.Errorf("%w: %w", ErrStructural, err)
	}
	return df, nil
}

// readLabels reads a single-column label file. The column is taken by
// position so files with any header name load.
func (t *Trainer) readLabels(ctx context.Context, path string, want int) ([]int, error) {
	df, err := t.read(ctx, path)
	if err != nil {
		return nil, err
	}
	if df.Ncol() == 0 {
		return nil, fmt.Errorf("%w: %s has no label column", ErrStructural, path)
	}
	if df.Nrow() != want {
		return nil, fmt.Errorf("%w: %s has %d label(s) for %d feature row(s)", ErrStructural, path, df.Nrow(), want)
	}
	name := df.Names()[0]
	vals := frame.Floats(df, name)
	out := make([]int, len(vals))
	for i, v := range vals {
		if math.IsNaN(v) || (v != 0 && v != 1) {
			return nil, fmt.Errorf("%w: %s row %d: label %v is not 0 or 1", ErrStructural, path, i, v)
		}
		out[i] = int(v)
	}
	return out, nil
}
