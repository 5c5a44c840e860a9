package ml

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/optimize"
)

// LogisticRegression is a multinomial (softmax) classifier. It minimises
// 0.5*||W||^2 + C * sum of per-row cross-entropy; intercepts are not
// penalised.
type LogisticRegression struct {
	C         float64     `json:"c"`
	MaxIter   int         `json:"max_iter,omitempty"`
	Coef      [][]float64 `json:"coef"`
	Intercept []float64   `json:"intercept"`
	Classes   []string    `json:"classes"`
}

// NewLogisticRegression returns an unfitted multinomial logistic regression.
func NewLogisticRegression(c float64, maxIter int) *LogisticRegression {
	return &LogisticRegression{C: c, MaxIter: maxIter}
}

// Fit minimises the L2-penalised softmax loss with LBFGS.
func (m *LogisticRegression) Fit(x [][]float64, y []string) error {
	if m.C <= 0 {
		return fmt.Errorf("%w: C must be positive, got %v", ErrParam, m.C)
	}
	_, d, err := checkXY(x, y)
	if err != nil {
		return err
	}

	classes := classesOf(y)
	obj := &softmaxObjective{x: x, y: encode(y, classes), k: len(classes), d: d, c: m.C}
	problem := optimize.Problem{
		Func: func(theta []float64) float64 { return obj.eval(theta, nil) },
		Grad: func(grad, theta []float64) { obj.eval(theta, grad) },
	}

	theta, err := minimize(problem, make([]float64, obj.k*(d+1)), m.MaxIter)
	if err != nil {
		return fmt.Errorf("logistic regression: %w", err)
	}

	m.Classes = classes
	m.Coef = make([][]float64, obj.k)
	for c := range m.Coef {
		m.Coef[c] = append([]float64(nil), theta[c*d:(c+1)*d]...)
	}
	m.Intercept = append([]float64(nil), theta[obj.k*d:]...)
	return nil
}

// Predict returns the most probable class for each row.
func (m *LogisticRegression) Predict(x [][]float64) ([]string, error) {
	if len(m.Coef) == 0 {
		return nil, fmt.Errorf("logistic regression: %w", ErrNotFitted)
	}
	if err := checkWidth(x, len(m.Coef[0])); err != nil {
		return nil, err
	}

	out := make([]string, len(x))
	for i, row := range x {
		best, bestScore := 0, math.Inf(-1)
		for c, w := range m.Coef {
			if s := floats.Dot(w, row) + m.Intercept[c]; s > bestScore {
				best, bestScore = c, s
			}
		}
		out[i] = m.Classes[best]
	}
	return out, nil
}

// softmaxObjective packs the parameters as k weight rows of width d followed
// by k intercepts.
type softmaxObjective struct {
	x    [][]float64
	y    []int
	k, d int
	c    float64
}

func (o *softmaxObjective) eval(theta, grad []float64) float64 {
	k, d := o.k, o.d
	if grad != nil {
		clear(grad)
	}

	f := 0.0
	for c := 0; c < k; c++ {
		w := theta[c*d : (c+1)*d]
		f += 0.5 * floats.Dot(w, w)
		if grad != nil {
			copy(grad[c*d:(c+1)*d], w)
		}
	}

	bias := theta[k*d:]
	z := make([]float64, k)
	for i, row := range o.x {
		for c := 0; c < k; c++ {
			z[c] = floats.Dot(theta[c*d:(c+1)*d], row) + bias[c]
		}
		lse := floats.LogSumExp(z)
		f += o.c * (lse - z[o.y[i]])
		if grad == nil {
			continue
		}
		for c := 0; c < k; c++ {
			g := math.Exp(z[c] - lse)
			if c == o.y[i] {
				g--
			}
			g *= o.c
			floats.AddScaled(grad[c*d:(c+1)*d], g, row)
			grad[k*d+c] += g
		}
	}
	return f
}
