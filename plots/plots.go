// Package plots renders the exploratory and evaluation figures with gonum/plot.
package plots

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"math/rand"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"rental-pipeline/stats"
)

// ErrNoData is returned when there is nothing to draw.
var ErrNoData = errors.New("plots: no data")

var (
	colorLow  = color.RGBA{R: 31, G: 119, B: 180, A: 110}
	colorHigh = color.RGBA{R: 255, G: 127, B: 14, A: 110}
)

// PriceHistogram draws the distribution of prices in the given number of
// bins. Prices above the 99th percentile are left out so the tail does not
// flatten the plot.
func PriceHistogram(prices []float64, bins int, path string) error {
	vals := stats.DropNaN(prices)
	if len(vals) == 0 {
		return ErrNoData
	}
	limit := stats.Quantile(vals, 0.99)
	kept := make(plotter.Values, 0, len(vals))
	for _, v := range vals {
		if v >= 0 && v <= limit {
			kept = append(kept, v)
		}
	}
	if len(kept) == 0 {
		return ErrNoData
	}

	p := plot.New()
	p.Title.Text = "Distribution of Rental Prices"
	p.X.Label.Text = "Price (USD)"
	p.Y.Label.Text = "Frequency"

	h, err := plotter.NewHist(kept, bins)
	if err != nil {
		return fmt.Errorf("plots: histogram: %w", err)
	}
	h.FillColor = colorLow
	p.Add(h)

	return save(p, 8*vg.Inch, 5*vg.Inch, path)
}

// SizePriceScatter draws square feet against price, coloured by the label.
// At most sampleSize points are drawn, picked with the given seed, and both
// axes stop at the sample's 99th percentile.
func SizePriceScatter(squareFeet, prices []float64, labels []string, sampleSize int, seed int64, path string) error {
	n := len(squareFeet)
	if n == 0 || len(prices) != n || len(labels) != n {
		return ErrNoData
	}
	if sampleSize <= 0 || sampleSize > n {
		sampleSize = n
	}
	rows := rand.New(rand.NewSource(seed)).Perm(n)[:sampleSize]

	xs := make([]float64, len(rows))
	ys := make([]float64, len(rows))
	for i, r := range rows {
		xs[i], ys[i] = squareFeet[r], prices[r]
	}
	xMax := stats.Quantile(stats.DropNaN(xs), 0.99)
	yMax := stats.Quantile(stats.DropNaN(ys), 0.99)

	var low, high plotter.XYs
	for i, r := range rows {
		x, y := xs[i], ys[i]
		if math.IsNaN(x) || math.IsNaN(y) || x < 0 || y < 0 || x > xMax || y > yMax {
			continue
		}
		if labels[r] == "1" {
			high = append(high, plotter.XY{X: x, Y: y})
		} else {
			low = append(low, plotter.XY{X: x, Y: y})
		}
	}
	if len(low)+len(high) == 0 {
		return ErrNoData
	}

	p := plot.New()
	p.Title.Text = "Size vs Price (Colored by High-Price Label)"
	p.X.Label.Text = "Square Feet"
	p.Y.Label.Text = "Price"

	for _, group := range []struct {
		name string
		pts  plotter.XYs
		c    color.Color
	}{
		{"high_price = 0", low, colorLow},
		{"high_price = 1", high, colorHigh},
	} {
		if len(group.pts) == 0 {
			continue
		}
		s, err := plotter.NewScatter(group.pts)
		if err != nil {
			return fmt.Errorf("plots: scatter: %w", err)
		}
		s.GlyphStyle.Color = group.c
		s.GlyphStyle.Radius = vg.Points(2)
		s.GlyphStyle.Shape = draw.CircleGlyph{}
		p.Add(s)
		p.Legend.Add(group.name, s)
	}
	p.Legend.Top = true
	p.X.Min, p.Y.Min = 0, 0
	p.X.Max, p.Y.Max = xMax, yMax

	return save(p, 8*vg.Inch, 6*vg.Inch, path)
}

// confusionGrid adapts a 2x2 confusion matrix to plotter.GridXYZ. Columns
// are predicted labels, rows true labels.
type confusionGrid [2][2]int

func (g confusionGrid) Dims() (c, r int)   { return 2, 2 }
func (g confusionGrid) Z(c, r int) float64 { return float64(g[r][c]) }
func (g confusionGrid) X(c int) float64    { return float64(c) }
func (g confusionGrid) Y(r int) float64    { return float64(r) }

// ConfusionMatrix draws cm as an annotated heat map; cm[true][predicted].
func ConfusionMatrix(cm [2][2]int, title, path string) error {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Predicted label"
	p.Y.Label.Text = "True label"

	hm := plotter.NewHeatMap(confusionGrid(cm), palette.Heat(12, 1))
	if hm.Max == hm.Min {
		hm.Max = hm.Min + 1
	}
	p.Add(hm)

	var xys plotter.XYs
	var text []string
	for r := 0; r < 2; r++ {
		for c := 0; c < 2; c++ {
			xys = append(xys, plotter.XY{X: float64(c), Y: float64(r)})
			text = append(text, fmt.Sprint(cm[r][c]))
		}
	}
	labels, err := plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: text})
	if err != nil {
		return fmt.Errorf("plots: labels: %w", err)
	}
	p.Add(labels)

	ticks := plot.ConstantTicks([]plot.Tick{{Value: 0, Label: "0"}, {Value: 1, Label: "1"}})
	p.X.Tick.Marker = ticks
	p.Y.Tick.Marker = ticks

	return save(p, 5*vg.Inch, 5*vg.Inch, path)
}

func save(p *plot.Plot, w, h vg.Length, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("plots: create dir: %w", err)
	}
	if err := p.Save(w, h, path); err != nil {
		return fmt.Errorf("plots: save %q: %w", path, err)
	}
	return nil
}
