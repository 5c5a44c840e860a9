package ml

import (
	"fmt"
	"math"
	"slices"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize"
	"gonum.org/v1/gonum/stat"
)

// SVC is a one-vs-one support vector classifier with an RBF kernel. Each
// class pair is trained on the squared-hinge primal over kernel expansion
// coefficients. A non-positive Gamma means 1 / (features * variance of X).
type SVC struct {
	C       float64 `json:"c"`
	Gamma   float64 `json:"gamma"`
	MaxIter int     `json:"max_iter,omitempty"`

	KernelGamma float64 `json:"kernel_gamma"`
	Width       int     `json:"width"`
	// Support holds only the training rows some machine still references.
	Support  [][]float64   `json:"support"`
	Classes  []string      `json:"classes"`
	Machines []PairMachine `json:"machines"`
}

// supportTolerance drops expansion coefficients smaller than this fraction
// of the largest one in the same machine.
const supportTolerance = 1e-9

// PairMachine separates two classes. A positive decision votes for Positive.
// Index points into SVC.Support.
type PairMachine struct {
	Positive  int       `json:"positive"`
	Negative  int       `json:"negative"`
	Index     []int     `json:"index"`
	Coef      []float64 `json:"coef"`
	Intercept float64   `json:"intercept"`
}

// NewSVC returns an unfitted RBF support vector classifier.
func NewSVC(c, gamma float64, maxIter int) *SVC {
	return &SVC{C: c, Gamma: gamma, MaxIter: maxIter}
}

// Fit trains one machine per class pair. Fitting builds an n×n kernel matrix
// per pair, so time and memory grow quadratically with the rows of the two
// classes involved.
func (m *SVC) Fit(x [][]float64, y []string) error {
	if m.C <= 0 {
		return fmt.Errorf("%w: C must be positive, got %v", ErrParam, m.C)
	}
	_, d, err := checkXY(x, y)
	if err != nil {
		return err
	}

	gamma := m.Gamma
	if gamma <= 0 {
		gamma = scaleGamma(x, d)
	}
	classes := classesOf(y)
	labels := encode(y, classes)

	var machines []PairMachine
	for a := 0; a < len(classes); a++ {
		for b := a + 1; b < len(classes); b++ {
			var (
				index []int
				sign  []float64
			)
			for i, l := range labels {
				switch l {
				case a:
					index = append(index, i)
					sign = append(sign, 1)
				case b:
					index = append(index, i)
					sign = append(sign, -1)
				}
			}

			coef, intercept, err := fitPair(rbfGram(x, index, gamma), sign, m.C, m.MaxIter)
			if err != nil {
				return fmt.Errorf("svc %s vs %s: %w", classes[a], classes[b], err)
			}
			machines = append(machines, PairMachine{
				Positive:  a,
				Negative:  b,
				Index:     index,
				Coef:      coef,
				Intercept: intercept,
			})
		}
	}

	m.KernelGamma = gamma
	m.Width = d
	m.Support = compactSupport(x, machines)
	m.Classes = classes
	m.Machines = machines
	return nil
}

// compactSupport prunes negligible coefficients from every machine, then
// keeps only the rows still referenced and rewrites Index to point into the
// returned slice.
func compactSupport(x [][]float64, machines []PairMachine) [][]float64 {
	remap := make(map[int]int)
	var support [][]float64
	for mi := range machines {
		pm := &machines[mi]
		largest := floats.Norm(pm.Coef, math.Inf(1))
		var (
			index []int
			coef  []float64
		)
		for t, row := range pm.Index {
			if math.Abs(pm.Coef[t]) <= supportTolerance*largest {
				continue
			}
			j, ok := remap[row]
			if !ok {
				j = len(support)
				remap[row] = j
				support = append(support, slices.Clone(x[row]))
			}
			index = append(index, j)
			coef = append(coef, pm.Coef[t])
		}
		pm.Index = index
		pm.Coef = coef
	}
	return support
}

// Predict returns the class with the most pairwise votes for each row.
func (m *SVC) Predict(x [][]float64) ([]string, error) {
	if len(m.Classes) == 0 {
		return nil, fmt.Errorf("svc: %w", ErrNotFitted)
	}
	if err := checkWidth(x, m.Width); err != nil {
		return nil, err
	}

	kv := make([]float64, len(m.Support))
	votes := make([]int, len(m.Classes))
	out := make([]string, len(x))
	for i, row := range x {
		for j, s := range m.Support {
			kv[j] = rbf(row, s, m.KernelGamma)
		}
		clear(votes)
		for _, pm := range m.Machines {
			decision := pm.Intercept
			for t, j := range pm.Index {
				decision += pm.Coef[t] * kv[j]
			}
			if decision > 0 {
				votes[pm.Positive]++
			} else {
				votes[pm.Negative]++
			}
		}
		out[i] = m.Classes[argmaxInt(votes)]
	}
	return out, nil
}

func rbf(a, b []float64, gamma float64) float64 {
	dist := floats.Distance(a, b, 2)
	return math.Exp(-gamma * dist * dist)
}

func rbfGram(x [][]float64, index []int, gamma float64) *mat.SymDense {
	g := mat.NewSymDense(len(index), nil)
	for i, xi := range index {
		g.SetSym(i, i, 1)
		for j := i + 1; j < len(index); j++ {
			g.SetSym(i, j, rbf(x[xi], x[index[j]], gamma))
		}
	}
	return g
}

func scaleGamma(x [][]float64, d int) float64 {
	flat := make([]float64, 0, len(x)*d)
	for _, row := range x {
		flat = append(flat, row...)
	}
	_, variance := stat.PopMeanVariance(flat, nil)
	if variance == 0 {
		return 1
	}
	return 1 / (float64(d) * variance)
}

// hingeObjective is 0.5*b'Kb + C * sum(max(0, 1 - y_i f_i)^2) with
// f = Kb + intercept, over parameters [b..., intercept].
type hingeObjective struct {
	gram *mat.SymDense
	y    []float64
	c    float64
}

func (o *hingeObjective) eval(theta, grad []float64) float64 {
	n := len(o.y)
	beta := mat.NewVecDense(n, theta[:n])
	intercept := theta[n]

	var kb mat.VecDense
	kb.MulVec(o.gram, beta)
	f := 0.5 * mat.Dot(beta, &kb)

	slack := make([]float64, n)
	var slackSum float64
	for i := 0; i < n; i++ {
		margin := 1 - o.y[i]*(kb.AtVec(i)+intercept)
		if margin > 0 {
			f += o.c * margin * margin
			slack[i] = margin * o.y[i]
			slackSum += slack[i]
		}
	}

	if grad != nil {
		var ks mat.VecDense
		ks.MulVec(o.gram, mat.NewVecDense(n, slack))
		for i := 0; i < n; i++ {
			grad[i] = kb.AtVec(i) - 2*o.c*ks.AtVec(i)
		}
		grad[n] = -2 * o.c * slackSum
	}
	return f
}

func fitPair(gram *mat.SymDense, y []float64, c float64, maxIter int) ([]float64, float64, error) {
	obj := &hingeObjective{gram: gram, y: y, c: c}
	problem := optimize.Problem{
		Func: func(theta []float64) float64 { return obj.eval(theta, nil) },
		Grad: func(grad, theta []float64) { obj.eval(theta, grad) },
	}

	theta, err := minimize(problem, make([]float64, len(y)+1), maxIter)
	if err != nil {
		return nil, 0, err
	}
	n := len(y)
	return append([]float64(nil), theta[:n]...), theta[n], nil
}
