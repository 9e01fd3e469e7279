// Package classifier trains and evaluates the high-price listing classifier:
// feature encoding, L2-regularised logistic regression and binary metrics.
package classifier

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/go-gota/gota/dataframe"
	"gonum.org/v1/gonum/mat"

	"rental-pipeline/frame"
	"rental-pipeline/stats"
)

// ErrNotFitted is returned when a transform or prediction runs before Fit.
var ErrNotFitted = errors.New("classifier: not fitted")

// Encoder turns feature tables into a numeric design matrix. Numeric columns
// are standardized with the training mean and standard deviation and
// categorical columns are one-hot encoded with the categories seen in
// training. Unknown categories and missing cells encode as all zeros.
type Encoder struct {
	Numeric     []string
	Categorical []string

	means      []float64
	stds       []float64
	categories [][]string
	index      []map[string]int
	fitted     bool
}

// NewEncoder creates an encoder for the given column groups.
func NewEncoder(numeric, categorical []string) *Encoder {
	return &Encoder{Numeric: numeric, Categorical: categorical}
}

// Fit learns the scaling statistics and category sets from df.
func (e *Encoder) Fit(df dataframe.DataFrame) error {
	if err := e.checkColumns(df); err != nil {
		return err
	}

	e.means = make([]float64, len(e.Numeric))
	e.stds = make([]float64, len(e.Numeric))
	for i, name := range e.Numeric {
		vals := stats.DropNaN(frame.Floats(df, name))
		mean, std := stats.MeanStd(vals)
		if math.IsNaN(mean) {
			mean = 0
		}
		if math.IsNaN(std) || std == 0 {
			std = 1
		}
		e.means[i], e.stds[i] = mean, std
	}

	e.categories = make([][]string, len(e.Categorical))
	e.index = make([]map[string]int, len(e.Categorical))
	for i, name := range e.Categorical {
		seen := make(map[string]struct{})
		missing := frame.Missing(df, name)
		for r, v := range frame.Values(df, name) {
			if !missing[r] {
				seen[v] = struct{}{}
			}
		}
		cats := make([]string, 0, len(seen))
		for v := range seen {
			cats = append(cats, v)
		}
		sort.Strings(cats)
		e.categories[i] = cats
		e.index[i] = make(map[string]int, len(cats))
		for j, c := range cats {
			e.index[i][c] = j
		}
	}
	e.fitted = true
	return nil
}

// Width is the number of encoded features.
func (e *Encoder) Width() int {
	w := len(e.Numeric)
	for _, cats := range e.categories {
		w += len(cats)
	}
	return w
}

// FeatureNames returns the encoded column names, numeric first, then
// "column=value" for every learned category.
func (e *Encoder) FeatureNames() []string {
	names := append([]string(nil), e.Numeric...)
	for i, col := range e.Categorical {
		for _, c := range e.categories[i] {
			names = append(names, col+"="+c)
		}
	}
	return names
}

// Transform encodes df into an Nrow×Width matrix.
func (e *Encoder) Transform(df dataframe.DataFrame) (*mat.Dense, error) {
	if !e.fitted {
		return nil, ErrNotFitted
	}
	if err := e.checkColumns(df); err != nil {
		return nil, err
	}
	n, width := df.Nrow(), e.Width()
	if n == 0 || width == 0 {
		return nil, fmt.Errorf("classifier: cannot encode %d row(s) into %d feature(s)", n, width)
	}

	x := mat.NewDense(n, width, nil)
	for j, name := range e.Numeric {
		for r, v := range frame.Floats(df, name) {
			if math.IsNaN(v) {
				continue
			}
			x.Set(r, j, (v-e.means[j])/e.stds[j])
		}
	}

	offset := len(e.Numeric)
	for i, name := range e.Categorical {
		missing := frame.Missing(df, name)
		for r, v := range frame.Values(df, name) {
			if missing[r] {
				continue
			}
			if j, ok := e.index[i][v]; ok {
				x.Set(r, offset+j, 1)
			}
		}
		offset += len(e.categories[i])
	}
	return x, nil
}

func (e *Encoder) checkColumns(df dataframe.DataFrame) error {
	var absent []string
	for _, name := range append(append([]string(nil), e.Numeric...), e.Categorical...) {
		if !frame.HasColumn(df, name) {
			absent = append(absent, name)
		}
	}
	if len(absent) > 0 {
		return fmt.Errorf("classifier: feature table lacks column(s) %v", absent)
	}
	return nil
}
