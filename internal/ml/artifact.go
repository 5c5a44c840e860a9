package ml

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ArtifactVersion is bumped whenever the persisted layout changes.
const ArtifactVersion = 1

// ErrArtifact marks a model file that cannot be turned back into a pipeline.
var ErrArtifact = errors.New("ml: invalid model artifact")

type artifact struct {
	Version  int                 `json:"version"`
	Features []string            `json:"features"`
	Spec     ModelSpec           `json:"spec"`
	Poly     *PolynomialFeatures `json:"poly,omitempty"`
	Scaler   *StandardScaler     `json:"scaler"`
	KNN      *KNN                `json:"knn,omitempty"`
	Logistic *LogisticRegression `json:"logistic,omitempty"`
	SVC      *SVC                `json:"svc,omitempty"`
}

// MarshalJSON encodes a fitted pipeline as a versioned artifact.
func (p *Pipeline) MarshalJSON() ([]byte, error) {
	if !p.fitted {
		return nil, fmt.Errorf("pipeline: %w", ErrNotFitted)
	}
	a := artifact{
		Version:  ArtifactVersion,
		Features: p.features,
		Spec:     p.spec,
		Poly:     p.poly,
		Scaler:   p.scaler,
	}
	switch est := p.estimator.(type) {
	case *KNN:
		a.KNN = est
	case *LogisticRegression:
		a.Logistic = est
	case *SVC:
		a.SVC = est
	default:
		return nil, fmt.Errorf("pipeline: cannot persist estimator %T", est)
	}
	return json.Marshal(a)
}

// UnmarshalJSON decodes and validates an artifact written by MarshalJSON.
func (p *Pipeline) UnmarshalJSON(data []byte) error {
	var a artifact
	if err := json.Unmarshal(data, &a); err != nil {
		return fmt.Errorf("%w: %v", ErrArtifact, err)
	}
	if a.Version != ArtifactVersion {
		return fmt.Errorf("%w: version %d, want %d", ErrArtifact, a.Version, ArtifactVersion)
	}
	if len(a.Features) == 0 {
		return fmt.Errorf("%w: no feature columns", ErrArtifact)
	}
	if err := a.Spec.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrArtifact, err)
	}
	if a.Scaler == nil || len(a.Scaler.Mean) == 0 || len(a.Scaler.Mean) != len(a.Scaler.Scale) {
		return fmt.Errorf("%w: scaler is missing", ErrArtifact)
	}
	if (a.Spec.Degree > 1) != (a.Poly != nil) {
		return fmt.Errorf("%w: polynomial stage does not match degree %d", ErrArtifact, a.Spec.Degree)
	}

	var est Estimator
	switch a.Spec.Kind {
	case KindKNN:
		if a.KNN == nil || len(a.KNN.X) == 0 {
			return fmt.Errorf("%w: knn state is missing", ErrArtifact)
		}
		est = a.KNN
	case KindLogistic:
		if a.Logistic == nil || len(a.Logistic.Coef) == 0 {
			return fmt.Errorf("%w: logistic state is missing", ErrArtifact)
		}
		est = a.Logistic
	case KindSVC:
		if a.SVC == nil || len(a.SVC.Classes) == 0 || a.SVC.Width == 0 {
			return fmt.Errorf("%w: svc state is missing", ErrArtifact)
		}
		est = a.SVC
	}

	*p = Pipeline{
		features:  a.Features,
		spec:      a.Spec,
		poly:      a.Poly,
		scaler:    a.Scaler,
		estimator: est,
		fitted:    true,
	}
	return nil
}

// Save writes the fitted pipeline to path, creating parent directories.
func Save(path string, p *Pipeline) error {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create model dir: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write model: %w", err)
	}
	return nil
}

// Load reads a pipeline written by Save.
func Load(path string) (*Pipeline, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model: %w", err)
	}
	var p Pipeline
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, err
	}
	return &p, nil
}
