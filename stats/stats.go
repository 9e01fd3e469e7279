// Package stats holds the small set of descriptive statistics the pipeline
// needs. Quantiles use linear interpolation between closest ranks, the same
// definition dataframe tools default to, so IQR fences line up with them.
package stats

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Median returns the median value of the slice (allocates a copy).
// Even-sized inputs average the two middle values. Empty input yields NaN.
func Median(x []float64) float64 {
	n := len(x)
	if n == 0 {
		return math.NaN()
	}
	cp := sorted(x)
	mid := n >> 1
	if n&1 == 0 {
		return (cp[mid-1] + cp[mid]) * 0.5
	}
	return cp[mid]
}

// Quantile returns the p-quantile (0 <= p <= 1) of x.
func Quantile(x []float64, p float64) float64 {
	if len(x) == 0 {
		return math.NaN()
	}
	return quantileSorted(sorted(x), p)
}

// Quartiles returns Q1 and Q3 of x with a single sort.
func Quartiles(x []float64) (q1, q3 float64) {
	if len(x) == 0 {
		return math.NaN(), math.NaN()
	}
	cp := sorted(x)
	return quantileSorted(cp, 0.25), quantileSorted(cp, 0.75)
}

// IQRFence returns the interval [Q1 - k*IQR, Q3 + k*IQR].
func IQRFence(x []float64, k float64) (lower, upper float64) {
	q1, q3 := Quartiles(x)
	iqr := q3 - q1
	return q1 - k*iqr, q3 + k*iqr
}

// MeanStd returns the mean and the sample (n-1) standard deviation.
func MeanStd(x []float64) (mean, std float64) {
	if len(x) == 0 {
		return math.NaN(), math.NaN()
	}
	return stat.MeanStdDev(x, nil)
}

// MinMax returns the minimum and maximum values in the slice.
func MinMax(x []float64) (float64, float64) {
	if len(x) == 0 {
		return math.NaN(), math.NaN()
	}
	return floats.Min(x), floats.Max(x)
}

// Correlation returns the Pearson correlation of x and y. ok is false when the
// coefficient is undefined: mismatched or too-short inputs, or zero variance.
func Correlation(x, y []float64) (r float64, ok bool) {
	if len(x) != len(y) || len(x) < 2 {
		return math.NaN(), false
	}
	r = stat.Correlation(x, y, nil)
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return math.NaN(), false
	}
	return r, true
}

// DropNaN returns the finite values of x.
func DropNaN(x []float64) []float64 {
	out := make([]float64, 0, len(x))
	for _, v := range x {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}

func sorted(x []float64) []float64 {
	cp := make([]float64, len(x))
	copy(cp, x)
	sort.Float64s(cp)
	return cp
}

func quantileSorted(cp []float64, p float64) float64 {
	n := len(cp)
	if p <= 0 {
		return cp[0]
	}
	if p >= 1 {
		return cp[n-1]
	}
	rank := p * float64(n-1)
	lower := int(rank)
	upper := lower + 1
	weight := rank - float64(lower)
	if upper >= n {
		return cp[lower]
	}
	return cp[lower]*(1-weight) + cp[upper]*weight
}
