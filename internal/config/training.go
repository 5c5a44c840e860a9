package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/lucasbflopes/spotify-track-classifier/internal/ml"
)

// Training configures the trainer, tuner and learning curve.
type Training struct {
	Model     string  `toml:"model"`
	Seed      uint64  `toml:"seed"`
	TestRatio float64 `toml:"test_ratio"`
	Folds     int     `toml:"folds"`
	RefitFull bool    `toml:"refit_full"`

	KNN      KNN      `toml:"knn"`
	Logistic Logistic `toml:"logistic"`
	SVC      SVC      `toml:"svc"`
	Curve    Curve    `toml:"curve"`
}

// KNN holds k-nearest-neighbour settings.
type KNN struct {
	K    int                  `toml:"k"`
	Grid map[string][]float64 `toml:"grid"`
}

// Logistic holds logistic regression settings. Degree 2 adds the polynomial
// expansion.
type Logistic struct {
	C       float64              `toml:"c"`
	Degree  int                  `toml:"degree"`
	MaxIter int                  `toml:"max_iter"`
	Grid    map[string][]float64 `toml:"grid"`
}

// SVC holds RBF support vector settings.
type SVC struct {
	C       float64              `toml:"c"`
	Gamma   float64              `toml:"gamma"`
	MaxIter int                  `toml:"max_iter"`
	Grid    map[string][]float64 `toml:"grid"`
}

// Curve holds learning-curve settings.
type Curve struct {
	Fractions []float64 `toml:"fractions"`
}

// DefaultTraining returns the stock training settings.
func DefaultTraining() Training {
	return Training{
		Model:     string(ml.KindSVC),
		Seed:      42,
		TestRatio: 0.2,
		Folds:     5,
		RefitFull: true,
		KNN: KNN{
			K:    5,
			Grid: map[string][]float64{"k": {3, 5, 7, 9, 15}},
		},
		Logistic: Logistic{
			C:       1,
			Degree:  1,
			MaxIter: 1000,
			Grid:    map[string][]float64{"c": {50, 100, 200, 1000}},
		},
		SVC: SVC{
			C:       10,
			Gamma:   0.1,
			MaxIter: 1000,
			Grid: map[string][]float64{
				"c":     {0.01, 0.1, 1, 10},
				"gamma": {0.01, 0.1, 1, 10},
			},
		},
		Curve: Curve{Fractions: append([]float64(nil), ml.DefaultCurveFractions...)},
	}
}

// LoadTraining overlays the TOML file at path on the defaults. A grid table
// present in the file replaces that estimator's default grid as a whole.
// exists reports whether the file was found; a missing file yields the
// defaults.
func LoadTraining(path string) (Training, bool, error) {
	cfg := DefaultTraining()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, false, nil
		}
		return Training{}, false, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Training{}, true, fmt.Errorf("config: parse %s: %w", path, err)
	}
	// Decoding merges into the default grid maps; a grid given in the file
	// replaces the default one instead.
	var file Training
	if err := toml.Unmarshal(data, &file); err != nil {
		return Training{}, true, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if file.KNN.Grid != nil {
		cfg.KNN.Grid = file.KNN.Grid
	}
	if file.Logistic.Grid != nil {
		cfg.Logistic.Grid = file.Logistic.Grid
	}
	if file.SVC.Grid != nil {
		cfg.SVC.Grid = file.SVC.Grid
	}
	if err := cfg.Validate(); err != nil {
		return Training{}, true, err
	}
	return cfg, true, nil
}

// Validate checks ranges and that the selected model is usable.
func (t Training) Validate() error {
	if t.TestRatio <= 0 || t.TestRatio >= 1 {
		return fmt.Errorf("config: test_ratio must be in (0, 1), got %v", t.TestRatio)
	}
	if t.Folds < 2 {
		return fmt.Errorf("config: folds must be at least 2, got %d", t.Folds)
	}
	for _, f := range t.Curve.Fractions {
		if f <= 0 || f > 1 {
			return fmt.Errorf("config: curve fractions must be in (0, 1], got %v", f)
		}
	}
	spec, err := t.Spec()
	if err != nil {
		return err
	}
	if err := spec.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// Spec returns the model spec for the selected model.
func (t Training) Spec() (ml.ModelSpec, error) {
	return t.SpecFor(ml.Kind(t.Model))
}

// SpecFor returns the configured hyperparameters for kind.
func (t Training) SpecFor(kind ml.Kind) (ml.ModelSpec, error) {
	switch kind {
	case ml.KindKNN:
		return ml.ModelSpec{Kind: kind, K: t.KNN.K}, nil
	case ml.KindLogistic:
		return ml.ModelSpec{Kind: kind, C: t.Logistic.C, Degree: t.Logistic.Degree, MaxIter: t.Logistic.MaxIter}, nil
	case ml.KindSVC:
		return ml.ModelSpec{Kind: kind, C: t.SVC.C, Gamma: t.SVC.Gamma, MaxIter: t.SVC.MaxIter}, nil
	default:
		return ml.ModelSpec{}, fmt.Errorf("config: unknown model %q (want knn, logistic or svc)", kind)
	}
}

// GridFor returns the tuning grid configured for kind.
func (t Training) GridFor(kind ml.Kind) ml.Grid {
	switch kind {
	case ml.KindKNN:
		return t.KNN.Grid
	case ml.KindLogistic:
		return t.Logistic.Grid
	case ml.KindSVC:
		return t.SVC.Grid
	default:
		return nil
	}
}

// Encode renders t as TOML, for writing a starter pipeline file.
func (t Training) Encode() ([]byte, error) {
	return toml.Marshal(t)
}
