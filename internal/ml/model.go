package ml

import (
	"fmt"
	"maps"
	"math"
	"slices"
	"strconv"
	"strings"
)

// Kind names an estimator family.
type Kind string

const (
	// KindKNN is k-nearest neighbours.
	KindKNN Kind = "knn"
	// KindLogistic is multinomial logistic regression.
	KindLogistic Kind = "logistic"
	// KindSVC is an RBF support vector classifier.
	KindSVC Kind = "svc"
)

// Kinds lists the supported estimator families.
func Kinds() []Kind {
	return []Kind{KindKNN, KindLogistic, KindSVC}
}

// ModelSpec selects an estimator and its hyperparameters. Degree > 1 puts a
// polynomial expansion in front of the scaler.
type ModelSpec struct {
	Kind    Kind    `json:"kind"`
	Degree  int     `json:"degree,omitempty"`
	K       int     `json:"k,omitempty"`
	C       float64 `json:"c,omitempty"`
	Gamma   float64 `json:"gamma,omitempty"`
	MaxIter int     `json:"max_iter,omitempty"`
}

// DefaultSpec returns the stock hyperparameters for kind.
func DefaultSpec(kind Kind) ModelSpec {
	switch kind {
	case KindKNN:
		return ModelSpec{Kind: KindKNN, K: 5}
	case KindLogistic:
		return ModelSpec{Kind: KindLogistic, C: 1, MaxIter: defaultMaxIter}
	case KindSVC:
		return ModelSpec{Kind: KindSVC, C: 10, Gamma: 0.1, MaxIter: defaultMaxIter}
	default:
		return ModelSpec{Kind: kind}
	}
}

// Validate checks the hyperparameters of the spec's kind.
func (s ModelSpec) Validate() error {
	if s.Degree < 0 {
		return fmt.Errorf("%w: degree must not be negative, got %d", ErrParam, s.Degree)
	}
	switch s.Kind {
	case KindKNN:
		if s.K < 1 {
			return fmt.Errorf("%w: knn needs k >= 1, got %d", ErrParam, s.K)
		}
	case KindLogistic:
		if s.C <= 0 {
			return fmt.Errorf("%w: logistic needs c > 0, got %v", ErrParam, s.C)
		}
	case KindSVC:
		if s.C <= 0 {
			return fmt.Errorf("%w: svc needs c > 0, got %v", ErrParam, s.C)
		}
	default:
		return fmt.Errorf("%w: unknown model kind %q", ErrParam, s.Kind)
	}
	return nil
}

// Params returns the hyperparameters that matter for the spec's kind.
func (s ModelSpec) Params() map[string]float64 {
	params := map[string]float64{}
	if s.Degree > 1 {
		params["degree"] = float64(s.Degree)
	}
	switch s.Kind {
	case KindKNN:
		params["k"] = float64(s.K)
	case KindLogistic:
		params["c"] = s.C
	case KindSVC:
		params["c"] = s.C
		params["gamma"] = s.Gamma
	}
	return params
}

// With returns a copy of s with the named hyperparameter replaced.
func (s ModelSpec) With(name string, value float64) (ModelSpec, error) {
	integral := func() (int, error) {
		if value != math.Trunc(value) {
			return 0, fmt.Errorf("%w: %s must be an integer, got %v", ErrParam, name, value)
		}
		return int(value), nil
	}

	switch name {
	case "k":
		k, err := integral()
		if err != nil {
			return s, err
		}
		s.K = k
	case "degree":
		deg, err := integral()
		if err != nil {
			return s, err
		}
		s.Degree = deg
	case "max_iter":
		it, err := integral()
		if err != nil {
			return s, err
		}
		s.MaxIter = it
	case "c":
		s.C = value
	case "gamma":
		s.Gamma = value
	default:
		return s, fmt.Errorf("%w: unknown hyperparameter %q", ErrParam, name)
	}
	return s, nil
}

// String renders the spec as kind(param=value, ...).
func (s ModelSpec) String() string {
	params := s.Params()
	parts := make([]string, 0, len(params))
	for _, name := range slices.Sorted(maps.Keys(params)) {
		parts = append(parts, name+"="+strconv.FormatFloat(params[name], 'g', -1, 64))
	}
	return fmt.Sprintf("%s(%s)", s.Kind, strings.Join(parts, ", "))
}

func (s ModelSpec) newEstimator() Estimator {
	switch s.Kind {
	case KindKNN:
		return NewKNN(s.K)
	case KindLogistic:
		return NewLogisticRegression(s.C, s.MaxIter)
	default:
		return NewSVC(s.C, s.Gamma, s.MaxIter)
	}
}
