package ml

import (
	"fmt"
	"slices"

	"github.com/lucasbflopes/spotify-track-classifier/internal/core/domain"
)

// Pipeline chains an optional polynomial expansion, a standard scaler and an
// estimator over a fixed feature column order.
type Pipeline struct {
	features  []string
	spec      ModelSpec
	poly      *PolynomialFeatures
	scaler    *StandardScaler
	estimator Estimator
	fitted    bool
}

// NewPipeline returns an unfitted pipeline over the named feature columns.
func NewPipeline(features []string, spec ModelSpec) (*Pipeline, error) {
	if len(features) == 0 {
		return nil, fmt.Errorf("%w: pipeline needs at least one feature", ErrParam)
	}
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	p := &Pipeline{
		features:  slices.Clone(features),
		spec:      spec,
		scaler:    &StandardScaler{},
		estimator: spec.newEstimator(),
	}
	if spec.Degree > 1 {
		p.poly = &PolynomialFeatures{Degree: spec.Degree}
	}
	return p, nil
}

// Features returns the column order the pipeline expects.
func (p *Pipeline) Features() []string {
	return slices.Clone(p.features)
}

// Spec returns the estimator settings.
func (p *Pipeline) Spec() ModelSpec {
	return p.spec
}

// Fit fits the expansion, the scaler and the estimator in order.
func (p *Pipeline) Fit(x [][]float64, y []string) error {
	if _, _, err := checkXY(x, y); err != nil {
		return err
	}
	if err := checkWidth(x, len(p.features)); err != nil {
		return err
	}

	xt := x
	if p.poly != nil {
		if err := p.poly.Fit(xt); err != nil {
			return err
		}
		expanded, err := p.poly.Transform(xt)
		if err != nil {
			return err
		}
		xt = expanded
	}
	if err := p.scaler.Fit(xt); err != nil {
		return err
	}
	scaled, err := p.scaler.Transform(xt)
	if err != nil {
		return err
	}
	if err := p.estimator.Fit(scaled, y); err != nil {
		return err
	}
	p.fitted = true
	return nil
}

// Predict transforms x and returns one label per row.
func (p *Pipeline) Predict(x [][]float64) ([]string, error) {
	if !p.fitted {
		return nil, fmt.Errorf("pipeline: %w", ErrNotFitted)
	}
	xt, err := p.transform(x)
	if err != nil {
		return nil, err
	}
	return p.estimator.Predict(xt)
}

// PredictOne classifies a single vector laid out in Features order. Vectors
// with missing values are refused.
func (p *Pipeline) PredictOne(v domain.FeatureVector) (string, error) {
	if len(v) != len(p.features) {
		return "", fmt.Errorf("%w: got %d features, model expects %d", ErrShape, len(v), len(p.features))
	}
	if !v.Complete() {
		return "", domain.ErrMissingFeatures
	}
	labels, err := p.Predict([][]float64{v})
	if err != nil {
		return "", err
	}
	return labels[0], nil
}

// Score returns the accuracy of the pipeline on x against y.
func (p *Pipeline) Score(x [][]float64, y []string) (float64, error) {
	pred, err := p.Predict(x)
	if err != nil {
		return 0, err
	}
	return Accuracy(y, pred)
}

func (p *Pipeline) transform(x [][]float64) ([][]float64, error) {
	if err := checkWidth(x, len(p.features)); err != nil {
		return nil, err
	}
	xt := x
	if p.poly != nil {
		expanded, err := p.poly.Transform(xt)
		if err != nil {
			return nil, err
		}
		xt = expanded
	}
	return p.scaler.Transform(xt)
}
