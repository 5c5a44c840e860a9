package ml

import (
	"context"
	"errors"
	"slices"
	"testing"
)

func TestAccuracy(t *testing.T) {
	acc, err := Accuracy([]string{"a", "b", "c", "d"}, []string{"a", "x", "c", "d"})
	if err != nil || acc != 0.75 {
		t.Fatalf("got %v, %v", acc, err)
	}
	if _, err := Accuracy(nil, nil); !errors.Is(err, ErrShape) {
		t.Fatalf("expected ErrShape for empty input, got %v", err)
	}
	if _, err := Accuracy([]string{"a"}, []string{"a", "b"}); !errors.Is(err, ErrShape) {
		t.Fatalf("expected ErrShape for length mismatch, got %v", err)
	}
}

func TestShuffle_IsSeeded(t *testing.T) {
	x, y := blobs(4, 1)
	x1, y1, err := Shuffle(x, y, 42)
	if err != nil {
		t.Fatalf("shuffle: %v", err)
	}
	_, y2, _ := Shuffle(x, y, 42)
	x3, _, _ := Shuffle(x, y, 43)

	if !slices.Equal(y1, y2) {
		t.Fatalf("same seed produced different orders")
	}
	if slices.EqualFunc(x1, x3, func(a, b []float64) bool { return slices.Equal(a, b) }) {
		t.Fatalf("expected a different order for another seed")
	}
	for i := range x1 {
		if !slices.ContainsFunc(x, func(r []float64) bool { return slices.Equal(r, x1[i]) }) {
			t.Fatalf("row %v not from input", x1[i])
		}
	}
}

func TestTrainTestSplit(t *testing.T) {
	x, y := blobs(4, 1)

	tests := []struct {
		name     string
		ratio    float64
		wantTest int
		wantErr  error
	}{
		{name: "default ratio", ratio: 0.2, wantTest: 3},
		{name: "half", ratio: 0.5, wantTest: 6},
		{name: "zero ratio", ratio: 0, wantErr: ErrParam},
		{name: "whole set", ratio: 1, wantErr: ErrParam},
		{name: "leaves no training rows", ratio: 0.99, wantErr: ErrParam},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			split, err := TrainTestSplit(x, y, tt.ratio, 42)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("split: %v", err)
			}
			if len(split.XTest) != tt.wantTest || len(split.YTest) != tt.wantTest {
				t.Fatalf("test rows: got %d, want %d", len(split.XTest), tt.wantTest)
			}
			if len(split.XTrain)+len(split.XTest) != len(x) {
				t.Fatalf("rows lost in split")
			}

			again, _ := TrainTestSplit(x, y, tt.ratio, 42)
			if !slices.Equal(split.YTest, again.YTest) {
				t.Fatalf("split is not reproducible")
			}
		})
	}
}

func TestStratifiedFolds(t *testing.T) {
	y := []string{"rock", "pop", "rock", "pop", "rock", "pop", "rock", "pop", "jazz", "jazz"}
	folds, err := StratifiedFolds(y, 2)
	if err != nil {
		t.Fatalf("folds: %v", err)
	}

	seen := map[int]bool{}
	for _, fold := range folds {
		counts := map[string]int{}
		for _, i := range fold {
			if seen[i] {
				t.Fatalf("index %d in two folds", i)
			}
			seen[i] = true
			counts[y[i]]++
		}
		if counts["rock"] != 2 || counts["pop"] != 2 || counts["jazz"] != 1 {
			t.Fatalf("fold is not stratified: %v", counts)
		}
		if !slices.IsSorted(fold) {
			t.Fatalf("fold indices not sorted: %v", fold)
		}
	}
	if len(seen) != len(y) {
		t.Fatalf("folds cover %d of %d rows", len(seen), len(y))
	}

	if _, err := StratifiedFolds(y, 1); !errors.Is(err, ErrParam) {
		t.Fatalf("expected ErrParam for one fold, got %v", err)
	}
	if _, err := StratifiedFolds(y[:3], 5); !errors.Is(err, ErrParam) {
		t.Fatalf("expected ErrParam for too few rows, got %v", err)
	}
}

func TestCrossValScore(t *testing.T) {
	x, y := blobs(10, 3)
	scores, err := CrossValScore(context.Background(), blobFeatures, DefaultSpec(KindKNN), x, y, 5)
	if err != nil {
		t.Fatalf("cross val: %v", err)
	}
	if len(scores) != 5 {
		t.Fatalf("expected 5 scores, got %d", len(scores))
	}
	mean, _ := MeanStd(scores)
	if mean < 0.95 {
		t.Fatalf("mean accuracy %.3f below 0.95", mean)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := CrossValScore(ctx, blobFeatures, DefaultSpec(KindKNN), x, y, 5); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestGrid_Specs(t *testing.T) {
	specs, err := Grid{"gamma": {0.1, 1}, "c": {1, 10}}.Specs(DefaultSpec(KindSVC))
	if err != nil {
		t.Fatalf("specs: %v", err)
	}
	var got [][2]float64
	for _, s := range specs {
		got = append(got, [2]float64{s.C, s.Gamma})
	}
	want := [][2]float64{{1, 0.1}, {1, 1}, {10, 0.1}, {10, 1}}
	if !slices.Equal(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}

	if _, err := (Grid{"c": nil}).Specs(DefaultSpec(KindSVC)); !errors.Is(err, ErrParam) {
		t.Fatalf("expected ErrParam for empty values, got %v", err)
	}
}

func TestGridSearch(t *testing.T) {
	x, y := blobs(10, 4)
	res, err := GridSearch(context.Background(), blobFeatures, DefaultSpec(KindKNN), Grid{"k": {1, 3, 5}}, x, y, 3)
	if err != nil {
		t.Fatalf("grid search: %v", err)
	}
	if len(res.Scores) != 3 {
		t.Fatalf("expected 3 candidates, got %d", len(res.Scores))
	}
	for _, s := range res.Scores {
		if s.Mean > res.Best.Mean {
			t.Fatalf("best %v is not the top score (%v)", res.Best, s)
		}
	}
	if res.Best.Spec.K != 1 && res.Scores[0].Mean == res.Best.Mean {
		t.Fatalf("ties must go to the earliest candidate, got k=%d", res.Best.Spec.K)
	}
}

func TestLearningCurve(t *testing.T) {
	x, y := blobs(10, 6)
	points, err := LearningCurve(context.Background(), blobFeatures, DefaultSpec(KindKNN), x, y, []float64{0.5, 0.1, 1, 1}, 3)
	if err != nil {
		t.Fatalf("learning curve: %v", err)
	}
	// 30 rows in 3 folds leave 20 training rows.
	wantSizes := []int{2, 10, 20}
	if len(points) != len(wantSizes) {
		t.Fatalf("expected %d points, got %d", len(wantSizes), len(points))
	}
	for i, p := range points {
		if p.TrainSize != wantSizes[i] {
			t.Fatalf("point %d size: got %d, want %d", i, p.TrainSize, wantSizes[i])
		}
		if p.TrainScore < 0 || p.TrainScore > 1 || p.CVScore < 0 || p.CVScore > 1 {
			t.Fatalf("scores out of range: %+v", p)
		}
	}
	if points[2].CVScore < 0.95 {
		t.Fatalf("full-size cv accuracy %.3f below 0.95", points[2].CVScore)
	}

	if _, err := LearningCurve(context.Background(), blobFeatures, DefaultSpec(KindKNN), x, y, []float64{1.5}, 3); !errors.Is(err, ErrParam) {
		t.Fatalf("expected ErrParam for fraction > 1, got %v", err)
	}
}
