package ml

import (
	"encoding/json"
	"errors"
	"math"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/lucasbflopes/spotify-track-classifier/internal/core/domain"
)

func TestPipeline_LearnsSeparableClusters(t *testing.T) {
	x, y := blobs(20, 1)
	xTest, yTest := blobs(10, 2)

	for _, spec := range specsUnderTest() {
		t.Run(spec.String(), func(t *testing.T) {
			p := mustFit(t, spec, x, y)
			acc, err := p.Score(xTest, yTest)
			if err != nil {
				t.Fatalf("score: %v", err)
			}
			if acc < 0.95 {
				t.Fatalf("accuracy %.3f below 0.95", acc)
			}
		})
	}
}

func TestPipeline_RoundTripIsDeterministic(t *testing.T) {
	x, y := blobs(15, 7)
	probe, _ := blobs(8, 99)
	dir := t.TempDir()

	for _, spec := range specsUnderTest() {
		t.Run(spec.String(), func(t *testing.T) {
			p := mustFit(t, spec, x, y)
			before, err := p.Predict(probe)
			if err != nil {
				t.Fatalf("predict: %v", err)
			}

			path := filepath.Join(dir, string(spec.Kind)+".json")
			if err := Save(path, p); err != nil {
				t.Fatalf("save: %v", err)
			}
			loaded, err := Load(path)
			if err != nil {
				t.Fatalf("load: %v", err)
			}
			after, err := loaded.Predict(probe)
			if err != nil {
				t.Fatalf("predict after load: %v", err)
			}
			if !slices.Equal(before, after) {
				t.Fatalf("predictions changed after reload:\nbefore %v\nafter  %v", before, after)
			}
			if loaded.Spec() != spec {
				t.Fatalf("spec: got %+v, want %+v", loaded.Spec(), spec)
			}
			if !slices.Equal(loaded.Features(), blobFeatures) {
				t.Fatalf("features: got %v", loaded.Features())
			}

			again := mustFit(t, spec, x, y)
			refit, _ := again.Predict(probe)
			if !slices.Equal(before, refit) {
				t.Fatalf("refitting on the same rows changed predictions")
			}
		})
	}
}

func TestPipeline_PredictOne(t *testing.T) {
	x, y := blobs(10, 5)
	p := mustFit(t, DefaultSpec(KindKNN), x, y)

	got, err := p.PredictOne(domain.FeatureVector{6, 6})
	if err != nil {
		t.Fatalf("predict: %v", err)
	}
	if got != "metal" {
		t.Fatalf("got %q, want metal", got)
	}

	if _, err := p.PredictOne(domain.FeatureVector{6, math.NaN()}); !errors.Is(err, domain.ErrMissingFeatures) {
		t.Fatalf("expected ErrMissingFeatures, got %v", err)
	}
	if _, err := p.PredictOne(domain.FeatureVector{6}); !errors.Is(err, ErrShape) {
		t.Fatalf("expected ErrShape for wrong width, got %v", err)
	}
}

func TestPipeline_Errors(t *testing.T) {
	if _, err := NewPipeline(nil, DefaultSpec(KindSVC)); !errors.Is(err, ErrParam) {
		t.Fatalf("expected ErrParam for no features, got %v", err)
	}
	if _, err := NewPipeline(blobFeatures, ModelSpec{Kind: "forest"}); !errors.Is(err, ErrParam) {
		t.Fatalf("expected ErrParam for unknown kind, got %v", err)
	}

	p, _ := NewPipeline(blobFeatures, DefaultSpec(KindKNN))
	if _, err := p.Predict([][]float64{{1, 2}}); !errors.Is(err, ErrNotFitted) {
		t.Fatalf("expected ErrNotFitted, got %v", err)
	}
	if err := Save(filepath.Join(t.TempDir(), "m.json"), p); !errors.Is(err, ErrNotFitted) {
		t.Fatalf("expected ErrNotFitted on save, got %v", err)
	}
	if err := p.Fit([][]float64{{1, 2, 3}}, []string{"a"}); !errors.Is(err, ErrShape) {
		t.Fatalf("expected ErrShape for wrong width, got %v", err)
	}
}

func TestLoad_RejectsBadArtifacts(t *testing.T) {
	x, y := blobs(5, 1)
	p := mustFit(t, DefaultSpec(KindLogistic), x, y)
	data, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(map[string]any)
	}{
		{name: "future version", mutate: func(m map[string]any) { m["version"] = ArtifactVersion + 1 }},
		{name: "missing estimator", mutate: func(m map[string]any) { delete(m, "logistic") }},
		{name: "missing scaler", mutate: func(m map[string]any) { delete(m, "scaler") }},
		{name: "no features", mutate: func(m map[string]any) { m["features"] = []string{} }},
	}

	dir := t.TempDir()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clone := make(map[string]any, len(raw))
			for k, v := range raw {
				clone[k] = v
			}
			tt.mutate(clone)
			body, _ := json.Marshal(clone)
			path := filepath.Join(dir, "bad.json")
			if err := os.WriteFile(path, body, 0o644); err != nil {
				t.Fatalf("write: %v", err)
			}
			if _, err := Load(path); !errors.Is(err, ErrArtifact) {
				t.Fatalf("expected ErrArtifact, got %v", err)
			}
		})
	}

	if _, err := Load(filepath.Join(dir, "absent.json")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}

func TestModelSpec(t *testing.T) {
	spec := DefaultSpec(KindSVC)
	if got := spec.String(); got != "svc(c=10, gamma=0.1)" {
		t.Fatalf("String: got %q", got)
	}

	tuned, err := spec.With("gamma", 1)
	if err != nil || tuned.Gamma != 1 || spec.Gamma != 0.1 {
		t.Fatalf("With gamma: %+v, %v", tuned, err)
	}
	if _, err := spec.With("k", 2.5); !errors.Is(err, ErrParam) {
		t.Fatalf("expected ErrParam for fractional k, got %v", err)
	}
	if _, err := spec.With("depth", 3); !errors.Is(err, ErrParam) {
		t.Fatalf("expected ErrParam for unknown name, got %v", err)
	}

	poly := DefaultSpec(KindLogistic)
	poly.Degree = 2
	params := poly.Params()
	if params["degree"] != 2 || params["c"] != 1 {
		t.Fatalf("Params: got %v", params)
	}
}
