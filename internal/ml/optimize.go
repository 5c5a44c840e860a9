package ml

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/optimize"
)

const (
	defaultMaxIter = 1000
	gradTolerance  = 1e-6
)

// minimize runs L-BFGS from init. A run that stops early on a line-search
// failure still yields its best location as long as it is finite.
func minimize(p optimize.Problem, init []float64, maxIter int) ([]float64, error) {
	if maxIter <= 0 {
		maxIter = defaultMaxIter
	}
	settings := &optimize.Settings{
		MajorIterations:   maxIter,
		GradientThreshold: gradTolerance,
	}

	result, err := optimize.Minimize(p, init, settings, &optimize.LBFGS{})
	if result == nil {
		return nil, fmt.Errorf("ml: optimize: %w", err)
	}
	for _, v := range result.X {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("ml: optimize diverged (status %v): %v", result.Status, err)
		}
	}
	return result.X, nil
}
