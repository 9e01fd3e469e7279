package classifier

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// LogisticRegression is a binary classifier trained by full-batch gradient
// descent on the mean log loss plus an L2 penalty on the weights. The bias
// is not penalised.
type LogisticRegression struct {
	LearningRate  float64
	Lambda        float64
	MaxIterations int
	Tolerance     float64

	Weights    []float64
	Bias       float64
	Iterations int
}

// NewLogisticRegression returns a model with a 0.5 step, unit regularisation
// strength (scaled by the sample count at fit time) and the given
// iteration cap.
func NewLogisticRegression(maxIterations int) *LogisticRegression {
	return &LogisticRegression{
		LearningRate:  0.5,
		Lambda:        1,
		MaxIterations: maxIterations,
		Tolerance:     1e-6,
	}
}

// Fit learns weights from x (n×d) and labels y in {0,1}. It stops early
// once the gradient's largest component drops below Tolerance.
func (m *LogisticRegression) Fit(x *mat.Dense, y []float64) error {
	n, d := x.Dims()
	if n == 0 || d == 0 {
		return errors.New("classifier: empty training matrix")
	}
	if len(y) != n {
		return fmt.Errorf("classifier: %d label(s) for %d row(s)", len(y), n)
	}
	for i, v := range y {
		if v != 0 && v != 1 {
			return fmt.Errorf("classifier: label %v at row %d is not 0 or 1", v, i)
		}
	}
	if m.MaxIterations <= 0 {
		return errors.New("classifier: MaxIterations must be positive")
	}

	m.Weights = make([]float64, d)
	m.Bias = 0
	m.Iterations = 0

	penalty := m.Lambda / float64(n)
	w := mat.NewVecDense(d, m.Weights)
	z := mat.NewVecDense(n, nil)
	resid := mat.NewVecDense(n, nil)
	grad := mat.NewVecDense(d, nil)

	for it := 0; it < m.MaxIterations; it++ {
		z.MulVec(x, w)
		var gb float64
		for i := 0; i < n; i++ {
			r := sigmoid(z.AtVec(i)+m.Bias) - y[i]
			resid.SetVec(i, r)
			gb += r
		}
		gb /= float64(n)

		grad.MulVec(x.T(), resid)
		grad.ScaleVec(1/float64(n), grad)
		grad.AddScaledVec(grad, penalty, w)

		w.AddScaledVec(w, -m.LearningRate, grad)
		m.Bias -= m.LearningRate * gb
		m.Iterations = it + 1

		if math.Max(floats.Norm(grad.RawVector().Data, math.Inf(1)), math.Abs(gb)) < m.Tolerance {
			break
		}
	}
	return nil
}

// PredictProba returns P(y=1) for every row of x.
func (m *LogisticRegression) PredictProba(x *mat.Dense) ([]float64, error) {
	if m.Weights == nil {
		return nil, ErrNotFitted
	}
	n, d := x.Dims()
	if d != len(m.Weights) {
		return nil, fmt.Errorf("classifier: %d feature(s), model expects %d", d, len(m.Weights))
	}
	z := mat.NewVecDense(n, nil)
	z.MulVec(x, mat.NewVecDense(d, m.Weights))
	out := make([]float64, n)
	for i := range out {
		out[i] = sigmoid(z.AtVec(i) + m.Bias)
	}
	return out, nil
}

// Predict returns the class of every row at a 0.5 threshold.
func (m *LogisticRegression) Predict(x *mat.Dense) ([]int, error) {
	proba, err := m.PredictProba(x)
	if err != nil {
		return nil, err
	}
	out := make([]int, len(proba))
	for i, p := range proba {
		if p >= 0.5 {
			out[i] = 1
		}
	}
	return out, nil
}

func sigmoid(z float64) float64 {
	if z >= 0 {
		return 1 / (1 + math.Exp(-z))
	}
	e := math.Exp(z)
	return e / (1 + e)
}
