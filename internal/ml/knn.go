package ml

import (
	"cmp"
	"fmt"
	"slices"

	"gonum.org/v1/gonum/floats"
)

// KNN votes among the K training rows closest in Euclidean distance. Equal
// distances keep training order; equal vote counts go to the lowest class.
type KNN struct {
	K       int         `json:"k"`
	X       [][]float64 `json:"x"`
	Y       []int       `json:"y"`
	Classes []string    `json:"classes"`
}

// NewKNN returns an unfitted k-nearest-neighbour classifier.
func NewKNN(k int) *KNN {
	return &KNN{K: k}
}

// Fit memorises the training rows.
func (m *KNN) Fit(x [][]float64, y []string) error {
	if m.K < 1 {
		return fmt.Errorf("%w: k must be positive, got %d", ErrParam, m.K)
	}
	if _, _, err := checkXY(x, y); err != nil {
		return err
	}
	m.Classes = classesOf(y)
	m.Y = encode(y, m.Classes)
	m.X = cloneRows(x)
	return nil
}

// Predict votes among the K nearest training rows for each row of x.
func (m *KNN) Predict(x [][]float64) ([]string, error) {
	if len(m.X) == 0 {
		return nil, fmt.Errorf("knn: %w", ErrNotFitted)
	}
	if err := checkWidth(x, len(m.X[0])); err != nil {
		return nil, err
	}

	k := min(m.K, len(m.X))
	dist := make([]float64, len(m.X))
	order := make([]int, len(m.X))
	votes := make([]int, len(m.Classes))
	out := make([]string, len(x))
	for i, row := range x {
		for j, ref := range m.X {
			dist[j] = floats.Distance(row, ref, 2)
			order[j] = j
		}
		slices.SortStableFunc(order, func(a, b int) int {
			return cmp.Compare(dist[a], dist[b])
		})

		clear(votes)
		for _, j := range order[:k] {
			votes[m.Y[j]]++
		}
		out[i] = m.Classes[argmaxInt(votes)]
	}
	return out, nil
}
