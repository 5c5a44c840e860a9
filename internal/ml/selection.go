package ml

import (
	"context"
	"fmt"
	"maps"
	"math"
	"math/rand/v2"
	"slices"

	"gonum.org/v1/gonum/stat"
)

func newRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Accuracy is the fraction of positions where pred equals truth.
func Accuracy(truth, pred []string) (float64, error) {
	if len(truth) == 0 {
		return 0, fmt.Errorf("%w: no labels to score", ErrShape)
	}
	if len(truth) != len(pred) {
		return 0, fmt.Errorf("%w: %d labels but %d predictions", ErrShape, len(truth), len(pred))
	}
	hits := 0
	for i := range truth {
		if truth[i] == pred[i] {
			hits++
		}
	}
	return float64(hits) / float64(len(truth)), nil
}

// Shuffle returns x and y reordered by the same seeded permutation.
func Shuffle(x [][]float64, y []string, seed uint64) ([][]float64, []string, error) {
	if len(x) != len(y) {
		return nil, nil, fmt.Errorf("%w: %d rows but %d labels", ErrShape, len(x), len(y))
	}
	perm := newRand(seed).Perm(len(x))
	return pickRows(x, perm), pickLabels(y, perm), nil
}

// Split is a train/test partition.
type Split struct {
	XTrain [][]float64
	YTrain []string
	XTest  [][]float64
	YTest  []string
}

// TrainTestSplit permutes the rows with seed and holds out
// ceil(testRatio * n) of them for testing.
func TrainTestSplit(x [][]float64, y []string, testRatio float64, seed uint64) (Split, error) {
	if testRatio <= 0 || testRatio >= 1 {
		return Split{}, fmt.Errorf("%w: test ratio must be in (0, 1), got %v", ErrParam, testRatio)
	}
	if len(x) != len(y) {
		return Split{}, fmt.Errorf("%w: %d rows but %d labels", ErrShape, len(x), len(y))
	}
	n := len(x)
	nTest := int(math.Ceil(testRatio * float64(n)))
	if nTest < 1 || nTest >= n {
		return Split{}, fmt.Errorf("%w: cannot hold out %d of %d rows", ErrParam, nTest, n)
	}

	perm := newRand(seed).Perm(n)
	test, train := perm[:nTest], perm[nTest:]
	return Split{
		XTrain: pickRows(x, train),
		YTrain: pickLabels(y, train),
		XTest:  pickRows(x, test),
		YTest:  pickLabels(y, test),
	}, nil
}

// StratifiedFolds partitions row indices into folds with class proportions
// preserved: rows are ordered by class (then position) and dealt to the
// folds in turn. Each returned slice is one test fold in ascending order.
func StratifiedFolds(y []string, folds int) ([][]int, error) {
	if folds < 2 {
		return nil, fmt.Errorf("%w: need at least 2 folds, got %d", ErrParam, folds)
	}
	if len(y) < folds {
		return nil, fmt.Errorf("%w: %d rows cannot fill %d folds", ErrParam, len(y), folds)
	}

	classes := classesOf(y)
	labels := encode(y, classes)
	order := make([]int, len(y))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int { return labels[a] - labels[b] })

	out := make([][]int, folds)
	for pos, i := range order {
		out[pos%folds] = append(out[pos%folds], i)
	}
	for _, fold := range out {
		slices.Sort(fold)
	}
	return out, nil
}

// CrossValScore fits a fresh pipeline per stratified fold and returns each
// fold's held-out accuracy.
func CrossValScore(ctx context.Context, features []string, spec ModelSpec, x [][]float64, y []string, folds int) ([]float64, error) {
	parts, err := StratifiedFolds(y, folds)
	if err != nil {
		return nil, err
	}

	scores := make([]float64, 0, len(parts))
	for _, test := range parts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		train := complement(test, len(y))
		p, err := NewPipeline(features, spec)
		if err != nil {
			return nil, err
		}
		if err := p.Fit(pickRows(x, train), pickLabels(y, train)); err != nil {
			return nil, err
		}
		score, err := p.Score(pickRows(x, test), pickLabels(y, test))
		if err != nil {
			return nil, err
		}
		scores = append(scores, score)
	}
	return scores, nil
}

// MeanStd returns the mean and population standard deviation of scores.
func MeanStd(scores []float64) (float64, float64) {
	if len(scores) == 0 {
		return 0, 0
	}
	mean, variance := stat.PopMeanVariance(scores, nil)
	return mean, math.Sqrt(variance)
}

// Grid maps hyperparameter names to candidate values.
type Grid map[string][]float64

// Specs expands the grid over base. Names are iterated in sorted order with
// the last name varying fastest.
func (g Grid) Specs(base ModelSpec) ([]ModelSpec, error) {
	specs := []ModelSpec{base}
	for _, name := range slices.Sorted(maps.Keys(g)) {
		values := g[name]
		if len(values) == 0 {
			return nil, fmt.Errorf("%w: grid entry %q has no values", ErrParam, name)
		}
		next := make([]ModelSpec, 0, len(specs)*len(values))
		for _, s := range specs {
			for _, v := range values {
				ns, err := s.With(name, v)
				if err != nil {
					return nil, err
				}
				next = append(next, ns)
			}
		}
		specs = next
	}
	return specs, nil
}

// GridScore is the cross-validated accuracy of one grid candidate.
type GridScore struct {
	Spec ModelSpec
	Mean float64
	Std  float64
}

// GridResult lists every candidate in grid order plus the best one. Ties go
// to the earlier candidate.
type GridResult struct {
	Scores []GridScore
	Best   GridScore
}

// GridSearch cross-validates every candidate of grid over base.
func GridSearch(ctx context.Context, features []string, base ModelSpec, grid Grid, x [][]float64, y []string, folds int) (GridResult, error) {
	specs, err := grid.Specs(base)
	if err != nil {
		return GridResult{}, err
	}

	var res GridResult
	for i, spec := range specs {
		scores, err := CrossValScore(ctx, features, spec, x, y, folds)
		if err != nil {
			return GridResult{}, fmt.Errorf("grid candidate %s: %w", spec, err)
		}
		mean, std := MeanStd(scores)
		gs := GridScore{Spec: spec, Mean: mean, Std: std}
		res.Scores = append(res.Scores, gs)
		if i == 0 || gs.Mean > res.Best.Mean {
			res.Best = gs
		}
	}
	return res, nil
}

// DefaultCurveFractions are five evenly spaced training sizes from 10% to
// 100% of the largest training fold.
var DefaultCurveFractions = []float64{0.1, 0.325, 0.55, 0.775, 1}

// CurvePoint is the mean train and held-out accuracy at one training size.
type CurvePoint struct {
	TrainSize  int
	TrainScore float64
	CVScore    float64
}

// LearningCurve fits the pipeline on growing prefixes of each training fold
// and averages the train and held-out accuracy across folds.
func LearningCurve(ctx context.Context, features []string, spec ModelSpec, x [][]float64, y []string, fractions []float64, folds int) ([]CurvePoint, error) {
	parts, err := StratifiedFolds(y, folds)
	if err != nil {
		return nil, err
	}

	largestTest := 0
	for _, p := range parts {
		largestTest = max(largestTest, len(p))
	}
	sizes, err := curveSizes(fractions, len(y)-largestTest)
	if err != nil {
		return nil, err
	}

	points := make([]CurvePoint, len(sizes))
	for si, size := range sizes {
		var trainScores, cvScores []float64
		for _, test := range parts {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			train := complement(test, len(y))[:size]
			p, err := NewPipeline(features, spec)
			if err != nil {
				return nil, err
			}
			xTrain, yTrain := pickRows(x, train), pickLabels(y, train)
			if err := p.Fit(xTrain, yTrain); err != nil {
				return nil, fmt.Errorf("learning curve at %d rows: %w", size, err)
			}
			trainScore, err := p.Score(xTrain, yTrain)
			if err != nil {
				return nil, err
			}
			cvScore, err := p.Score(pickRows(x, test), pickLabels(y, test))
			if err != nil {
				return nil, err
			}
			trainScores = append(trainScores, trainScore)
			cvScores = append(cvScores, cvScore)
		}
		trainMean, _ := MeanStd(trainScores)
		cvMean, _ := MeanStd(cvScores)
		points[si] = CurvePoint{TrainSize: size, TrainScore: trainMean, CVScore: cvMean}
	}
	return points, nil
}

func curveSizes(fractions []float64, maxTrain int) ([]int, error) {
	if len(fractions) == 0 {
		fractions = DefaultCurveFractions
	}
	sizes := make([]int, 0, len(fractions))
	for _, f := range fractions {
		if f <= 0 || f > 1 {
			return nil, fmt.Errorf("%w: curve fraction must be in (0, 1], got %v", ErrParam, f)
		}
		sizes = append(sizes, max(1, int(f*float64(maxTrain))))
	}
	slices.Sort(sizes)
	return slices.Compact(sizes), nil
}

func complement(sorted []int, n int) []int {
	out := make([]int, 0, n-len(sorted))
	j := 0
	for i := 0; i < n; i++ {
		if j < len(sorted) && sorted[j] == i {
			j++
			continue
		}
		out = append(out, i)
	}
	return out
}

func pickRows(x [][]float64, idx []int) [][]float64 {
	out := make([][]float64, len(idx))
	for i, j := range idx {
		out[i] = x[j]
	}
	return out
}

func pickLabels(y []string, idx []int) []string {
	out := make([]string, len(idx))
	for i, j := range idx {
		out[i] = y[j]
	}
	return out
}
