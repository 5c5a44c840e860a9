package ml

import (
	"errors"
	"fmt"
	"slices"
)

var (
	// ErrNotFitted is returned when predicting with an estimator that has no
	// learned state.
	ErrNotFitted = errors.New("ml: model is not fitted")
	// ErrShape marks inputs whose dimensions do not line up.
	ErrShape = errors.New("ml: shape mismatch")
	// ErrParam marks an invalid hyperparameter or split setting.
	ErrParam = errors.New("ml: invalid parameter")
)

// Estimator is a classifier over dense rows.
type Estimator interface {
	Fit(x [][]float64, y []string) error
	Predict(x [][]float64) ([]string, error)
}

func dims(x [][]float64) (n, d int, err error) {
	if len(x) == 0 {
		return 0, 0, fmt.Errorf("%w: no rows", ErrShape)
	}
	d = len(x[0])
	if d == 0 {
		return 0, 0, fmt.Errorf("%w: rows have no columns", ErrShape)
	}
	for i, row := range x {
		if len(row) != d {
			return 0, 0, fmt.Errorf("%w: row %d has %d columns, want %d", ErrShape, i, len(row), d)
		}
	}
	return len(x), d, nil
}

func checkXY(x [][]float64, y []string) (n, d int, err error) {
	n, d, err = dims(x)
	if err != nil {
		return 0, 0, err
	}
	if len(y) != n {
		return 0, 0, fmt.Errorf("%w: %d rows but %d labels", ErrShape, n, len(y))
	}
	return n, d, nil
}

func checkWidth(x [][]float64, want int) error {
	_, d, err := dims(x)
	if err != nil {
		return err
	}
	if d != want {
		return fmt.Errorf("%w: got %d columns, model was fitted on %d", ErrShape, d, want)
	}
	return nil
}

// classesOf returns the sorted distinct labels.
func classesOf(y []string) []string {
	classes := slices.Clone(y)
	slices.Sort(classes)
	return slices.Compact(classes)
}

func encode(y []string, classes []string) []int {
	index := make(map[string]int, len(classes))
	for i, c := range classes {
		index[c] = i
	}
	out := make([]int, len(y))
	for i, label := range y {
		out[i] = index[label]
	}
	return out
}

// argmaxInt returns the first index holding the largest value, so ties go to
// the lowest class.
func argmaxInt(v []int) int {
	best := 0
	for i := 1; i < len(v); i++ {
		if v[i] > v[best] {
			best = i
		}
	}
	return best
}

func cloneRows(x [][]float64) [][]float64 {
	out := make([][]float64, len(x))
	for i, row := range x {
		out[i] = slices.Clone(row)
	}
	return out
}
