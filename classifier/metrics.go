package classifier

import (
	"rental-pipeline/frame"
	"rental-pipeline/models"
)

// ConfusionMatrix counts predictions by true label (row) and predicted label
// (column) for labels 0 and 1. Other values are ignored.
func ConfusionMatrix(yTrue, yPred []int) [2][2]int {
	var cm [2][2]int
	for i := range yTrue {
		t, p := yTrue[i], yPred[i]
		if t < 0 || t > 1 || p < 0 || p > 1 {
			continue
		}
		cm[t][p]++
	}
	return cm
}

// Evaluate computes accuracy, precision, recall and F1 for the positive
// class. Ratios with a zero denominator are 0.
func Evaluate(model string, yTrue, yPred []int) models.ClassificationMetrics {
	m := models.ClassificationMetrics{Model: model}
	if len(yTrue) == 0 {
		return m
	}
	cm := ConfusionMatrix(yTrue, yPred)
	tn, fp, fn, tp := cm[0][0], cm[0][1], cm[1][0], cm[1][1]

	m.Accuracy = ratio(tp+tn, len(yTrue))
	m.Precision = ratio(tp, tp+fp)
	m.Recall = ratio(tp, tp+fn)
	if m.Precision+m.Recall > 0 {
		m.F1 = 2 * m.Precision * m.Recall / (m.Precision + m.Recall)
	}
	return m
}

// MetricsRecords lays the metrics out as a CSV table, one row per model.
func MetricsRecords(ms ...models.ClassificationMetrics) [][]string {
	rows := [][]string{{"", "Accuracy", "Precision", "Recall", "F1-score"}}
	for _, m := range ms {
		rows = append(rows, []string{
			m.Model,
			frame.FormatFloat(m.Accuracy),
			frame.FormatFloat(m.Precision),
			frame.FormatFloat(m.Recall),
			frame.FormatFloat(m.F1),
		})
	}
	return rows
}

func ratio(num, den int) float64 {
	if den == 0 {
		return 0
	}
	return float64(num) / float64(den)
}
