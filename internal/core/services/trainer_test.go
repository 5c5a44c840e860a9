package services

import (
	"context"
	"errors"
	"math"
	"path/filepath"
	"testing"
	"time"

	"github.com/lucasbflopes/spotify-track-classifier/internal/core/domain"
	"github.com/lucasbflopes/spotify-track-classifier/internal/ml"
)

// separableDataset returns perGenre quiet pop rows and loud rock rows plus
// one incomplete row per genre.
func separableDataset(t *testing.T, perGenre int) *domain.Dataset {
	t.Helper()
	d, err := domain.NewDataset(twoFeatures)
	if err != nil {
		t.Fatalf("new dataset: %v", err)
	}
	for i := 0; i < perGenre; i++ {
		step := float64(i) / float64(perGenre)
		_ = d.Append("pop", "pop", domain.FeatureVector{0.2 + 0.1*step, 100 + 5*step})
		_ = d.Append("rock", "rock", domain.FeatureVector{0.8 + 0.1*step, 150 + 5*step})
	}
	_ = d.Append("no tempo", "pop", domain.FeatureVector{0.3, math.NaN()})
	_ = d.Append("no energy", "rock", domain.FeatureVector{math.NaN(), 155})
	return d
}

func TestTrainer_Train(t *testing.T) {
	runs := &mockRuns{}
	trainer := NewTrainer(runs, nil)
	fixed := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	trainer.now = func() time.Time { return fixed }

	path := filepath.Join(t.TempDir(), "model_trained.json")
	report, err := trainer.Train(context.Background(), separableDataset(t, 20), TrainOptions{
		Spec:         ml.DefaultSpec(ml.KindKNN),
		Seed:         42,
		TestRatio:    0.2,
		Folds:        5,
		RefitFull:    true,
		ArtifactPath: path,
	})
	if err != nil {
		t.Fatalf("train: %v", err)
	}

	if report.Dropped != 2 {
		t.Fatalf("expected 2 dropped rows, got %d", report.Dropped)
	}
	if report.TestRows != 8 || report.TrainRows != 32 {
		t.Fatalf("split: got train=%d test=%d", report.TrainRows, report.TestRows)
	}
	if len(report.CVScores) != 5 {
		t.Fatalf("expected 5 fold scores, got %v", report.CVScores)
	}
	if report.CVMean < 0.95 || report.TestAccuracy < 0.95 {
		t.Fatalf("accuracy too low: cv=%v test=%v", report.CVMean, report.TestAccuracy)
	}

	if len(runs.saved) != 1 {
		t.Fatalf("expected run to be recorded, got %d", len(runs.saved))
	}
	run := runs.saved[0]
	if run.ID == "" || run.Model != "knn" || run.Rows != 40 || run.Params["k"] != 5 {
		t.Fatalf("unexpected run: %+v", run)
	}
	if !run.CreatedAt.Equal(fixed) || run.ArtifactPath != path {
		t.Fatalf("unexpected run metadata: %+v", run)
	}

	loaded, err := ml.Load(path)
	if err != nil {
		t.Fatalf("load artifact: %v", err)
	}
	genre, err := loaded.PredictOne(domain.FeatureVector{0.85, 152})
	if err != nil || genre != "rock" {
		t.Fatalf("loaded model predicted %q, %v", genre, err)
	}
}

func TestTrainer_TrainWithoutRegistry(t *testing.T) {
	trainer := NewTrainer(nil, nil)
	report, err := trainer.Train(context.Background(), separableDataset(t, 10), TrainOptions{
		Spec:      ml.DefaultSpec(ml.KindLogistic),
		Seed:      1,
		TestRatio: 0.25,
		Folds:     3,
	})
	if err != nil {
		t.Fatalf("train: %v", err)
	}
	if report.Pipeline == nil || report.Run.ID == "" {
		t.Fatalf("expected pipeline and run id in report: %+v", report)
	}
}

func TestTrainer_TrainErrors(t *testing.T) {
	onlyIncomplete, _ := domain.NewDataset(twoFeatures)
	_ = onlyIncomplete.Append("x", "pop", domain.FeatureVector{math.NaN(), 1})

	saveErr := errors.New("disk full")

	tests := []struct {
		name    string
		dataset *domain.Dataset
		runs    *mockRuns
		opts    TrainOptions
		wantErr error
	}{
		{
			name:    "nil dataset",
			dataset: nil,
			opts:    TrainOptions{Spec: ml.DefaultSpec(ml.KindKNN), TestRatio: 0.2, Folds: 2},
			wantErr: domain.ErrEmptyDataset,
		},
		{
			name:    "no complete rows",
			dataset: onlyIncomplete,
			opts:    TrainOptions{Spec: ml.DefaultSpec(ml.KindKNN), TestRatio: 0.2, Folds: 2},
			wantErr: domain.ErrEmptyDataset,
		},
		{
			name:    "bad ratio",
			dataset: separableDataset(t, 5),
			opts:    TrainOptions{Spec: ml.DefaultSpec(ml.KindKNN), TestRatio: 1.5, Folds: 2},
			wantErr: ml.ErrParam,
		},
		{
			name:    "registry failure",
			dataset: separableDataset(t, 5),
			runs:    &mockRuns{saveErr: saveErr},
			opts:    TrainOptions{Spec: ml.DefaultSpec(ml.KindKNN), TestRatio: 0.2, Folds: 2},
			wantErr: saveErr,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var trainer *Trainer
			if tt.runs != nil {
				trainer = NewTrainer(tt.runs, nil)
			} else {
				trainer = NewTrainer(nil, nil)
			}
			if _, err := trainer.Train(context.Background(), tt.dataset, tt.opts); !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestTrainer_Tune(t *testing.T) {
	trainer := NewTrainer(nil, nil)
	res, err := trainer.Tune(context.Background(), separableDataset(t, 15), TuneOptions{
		Base:      ml.DefaultSpec(ml.KindKNN),
		Grid:      ml.Grid{"k": {1, 3}},
		Seed:      42,
		TestRatio: 0.2,
		Folds:     3,
	})
	if err != nil {
		t.Fatalf("tune: %v", err)
	}
	if len(res.Scores) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(res.Scores))
	}
	if res.Best.Mean < 0.95 {
		t.Fatalf("best cv accuracy %v too low", res.Best.Mean)
	}
}

func TestTrainer_LearningCurve(t *testing.T) {
	trainer := NewTrainer(nil, nil)
	points, err := trainer.LearningCurve(context.Background(), separableDataset(t, 15), CurveOptions{
		Spec:      ml.DefaultSpec(ml.KindKNN),
		Seed:      42,
		Fractions: []float64{0.5, 1},
		Folds:     3,
	})
	if err != nil {
		t.Fatalf("learning curve: %v", err)
	}
	// 30 complete rows in 3 folds leave 20 training rows.
	if len(points) != 2 || points[0].TrainSize != 10 || points[1].TrainSize != 20 {
		t.Fatalf("unexpected points: %+v", points)
	}
}
