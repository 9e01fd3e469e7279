package models

// ColumnSummary holds descriptive statistics of one numeric column.
type ColumnSummary struct {
	Column string
	Count  int
	Mean   float64
	Std    float64
	Min    float64
	Q25    float64
	Median float64
	Q75    float64
	Max    float64
}

// LabelShare is the normalized frequency of one label value.
type LabelShare struct {
	Label      string
	Proportion float64
}

// InsightReport holds the exploratory summary of the cleaned dataset.
type InsightReport struct {
	TotalListings   int
	Columns         []ColumnSummary
	LabelShares     []LabelShare
	ListingsByState map[string]int
	MedianByState   map[string]float64
}

// ClassificationMetrics summarises a binary classifier on a holdout set.
type ClassificationMetrics struct {
	Model     string
	Accuracy  float64
	Precision float64
	Recall    float64
	F1        float64
}
