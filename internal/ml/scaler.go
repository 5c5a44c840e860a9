package ml

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
)

// StandardScaler centres each column on its mean and divides by its
// population standard deviation. Constant columns keep a scale of 1.
type StandardScaler struct {
	Mean  []float64 `json:"mean"`
	Scale []float64 `json:"scale"`
}

// Fit learns per-column mean and standard deviation.
func (s *StandardScaler) Fit(x [][]float64) error {
	n, d, err := dims(x)
	if err != nil {
		return err
	}

	s.Mean = make([]float64, d)
	s.Scale = make([]float64, d)
	col := make([]float64, n)
	for j := 0; j < d; j++ {
		for i := range x {
			col[i] = x[i][j]
		}
		mean, variance := stat.PopMeanVariance(col, nil)
		sd := math.Sqrt(variance)
		if sd < 1e-12*math.Max(1, math.Abs(mean)) {
			sd = 1
		}
		s.Mean[j] = mean
		s.Scale[j] = sd
	}
	return nil
}

// Transform centres and scales x with the learned statistics.
func (s *StandardScaler) Transform(x [][]float64) ([][]float64, error) {
	if len(s.Mean) == 0 {
		return nil, fmt.Errorf("scaler: %w", ErrNotFitted)
	}
	if err := checkWidth(x, len(s.Mean)); err != nil {
		return nil, err
	}

	out := make([][]float64, len(x))
	for i, row := range x {
		scaled := make([]float64, len(row))
		for j, v := range row {
			scaled[j] = (v - s.Mean[j]) / s.Scale[j]
		}
		out[i] = scaled
	}
	return out, nil
}
