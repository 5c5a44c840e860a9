package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lucasbflopes/spotify-track-classifier/internal/core/domain"
	"github.com/lucasbflopes/spotify-track-classifier/internal/core/ports"
	"github.com/lucasbflopes/spotify-track-classifier/internal/ml"
)

// TrainOptions configures one training run.
type TrainOptions struct {
	Spec      ml.ModelSpec
	Seed      uint64
	TestRatio float64
	Folds     int
	// RefitFull fits the persisted pipeline on every complete row instead of
	// only the training split.
	RefitFull    bool
	ArtifactPath string
}

// TrainingReport summarises a training run.
type TrainingReport struct {
	Run          domain.TrainingRun
	Dropped      int
	TrainRows    int
	TestRows     int
	CVScores     []float64
	CVMean       float64
	CVStd        float64
	TestAccuracy float64
	Pipeline     *ml.Pipeline
}

// TuneOptions configures a grid search over the training split.
type TuneOptions struct {
	Base      ml.ModelSpec
	Grid      ml.Grid
	Seed      uint64
	TestRatio float64
	Folds     int
}

// CurveOptions configures a learning curve over all complete rows.
type CurveOptions struct {
	Spec      ml.ModelSpec
	Seed      uint64
	Fractions []float64
	Folds     int
}

// Trainer fits, evaluates and persists genre classifiers.
type Trainer struct {
	runs ports.RunRepository
	log  *zap.Logger
	now  func() time.Time
}

// NewTrainer constructs a Trainer. runs may be nil, in which case runs are
// not recorded.
func NewTrainer(runs ports.RunRepository, log *zap.Logger) *Trainer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Trainer{runs: runs, log: log.Named("trainer"), now: time.Now}
}

type preparedData struct {
	features []string
	x        [][]float64
	y        []string
	dropped  int
}

// prepare drops incomplete rows and shuffles the rest with seed.
func (t *Trainer) prepare(d *domain.Dataset, seed uint64) (preparedData, error) {
	if d == nil {
		return preparedData{}, fmt.Errorf("service: %w", domain.ErrEmptyDataset)
	}
	complete := d.DropIncomplete()
	if complete.Len() == 0 {
		return preparedData{}, fmt.Errorf("service: %w: no complete rows out of %d", domain.ErrEmptyDataset, d.Len())
	}

	x, y := complete.Matrix()
	x, y, err := ml.Shuffle(x, y, seed)
	if err != nil {
		return preparedData{}, fmt.Errorf("service: %w", err)
	}

	dropped := d.Len() - complete.Len()
	if dropped > 0 {
		t.log.Info("dropped incomplete rows", zap.Int("dropped", dropped), zap.Int("kept", complete.Len()))
	}
	return preparedData{features: complete.Features, x: x, y: y, dropped: dropped}, nil
}

// Train runs the full evaluation: cross-validation on the training split, a
// held-out test score, then persists the pipeline and records the run.
func (t *Trainer) Train(ctx context.Context, d *domain.Dataset, opts TrainOptions) (TrainingReport, error) {
	data, err := t.prepare(d, opts.Seed)
	if err != nil {
		return TrainingReport{}, err
	}

	split, err := ml.TrainTestSplit(data.x, data.y, opts.TestRatio, opts.Seed)
	if err != nil {
		return TrainingReport{}, fmt.Errorf("service: split: %w", err)
	}

	t.log.Info("cross validating",
		zap.Stringer("model", opts.Spec),
		zap.Int("train_rows", len(split.XTrain)),
		zap.Int("folds", opts.Folds),
	)
	scores, err := ml.CrossValScore(ctx, data.features, opts.Spec, split.XTrain, split.YTrain, opts.Folds)
	if err != nil {
		return TrainingReport{}, fmt.Errorf("service: cross validation: %w", err)
	}
	cvMean, cvStd := ml.MeanStd(scores)

	pipeline, err := ml.NewPipeline(data.features, opts.Spec)
	if err != nil {
		return TrainingReport{}, fmt.Errorf("service: %w", err)
	}
	if err := pipeline.Fit(split.XTrain, split.YTrain); err != nil {
		return TrainingReport{}, fmt.Errorf("service: fit: %w", err)
	}
	testAcc, err := pipeline.Score(split.XTest, split.YTest)
	if err != nil {
		return TrainingReport{}, fmt.Errorf("service: score: %w", err)
	}

	if opts.RefitFull {
		if err := ctx.Err(); err != nil {
			return TrainingReport{}, err
		}
		full, err := ml.NewPipeline(data.features, opts.Spec)
		if err != nil {
			return TrainingReport{}, fmt.Errorf("service: %w", err)
		}
		if err := full.Fit(data.x, data.y); err != nil {
			return TrainingReport{}, fmt.Errorf("service: refit: %w", err)
		}
		pipeline = full
	}

	if opts.ArtifactPath != "" {
		if err := ml.Save(opts.ArtifactPath, pipeline); err != nil {
			return TrainingReport{}, fmt.Errorf("service: save model: %w", err)
		}
		t.log.Info("model saved", zap.String("path", opts.ArtifactPath))
	}

	run := domain.TrainingRun{
		ID:           uuid.NewString(),
		Model:        string(opts.Spec.Kind),
		Params:       opts.Spec.Params(),
		Rows:         len(data.x),
		CVAccuracy:   cvMean,
		TestAccuracy: testAcc,
		ArtifactPath: opts.ArtifactPath,
		CreatedAt:    t.now(),
	}
	if t.runs != nil {
		if err := t.runs.Save(ctx, run); err != nil {
			return TrainingReport{}, fmt.Errorf("service: record run: %w", err)
		}
	}

	t.log.Info("training finished",
		zap.String("run_id", run.ID),
		zap.Float64("cv_accuracy", cvMean),
		zap.Float64("test_accuracy", testAcc),
	)

	return TrainingReport{
		Run:          run,
		Dropped:      data.dropped,
		TrainRows:    len(split.XTrain),
		TestRows:     len(split.XTest),
		CVScores:     scores,
		CVMean:       cvMean,
		CVStd:        cvStd,
		TestAccuracy: testAcc,
		Pipeline:     pipeline,
	}, nil
}

// Tune grid-searches hyperparameters with cross-validation on the training
// split, leaving the test split untouched.
func (t *Trainer) Tune(ctx context.Context, d *domain.Dataset, opts TuneOptions) (ml.GridResult, error) {
	data, err := t.prepare(d, opts.Seed)
	if err != nil {
		return ml.GridResult{}, err
	}
	split, err := ml.TrainTestSplit(data.x, data.y, opts.TestRatio, opts.Seed)
	if err != nil {
		return ml.GridResult{}, fmt.Errorf("service: split: %w", err)
	}

	t.log.Info("grid search", zap.Stringer("base", opts.Base), zap.Any("grid", opts.Grid))
	res, err := ml.GridSearch(ctx, data.features, opts.Base, opts.Grid, split.XTrain, split.YTrain, opts.Folds)
	if err != nil {
		return ml.GridResult{}, fmt.Errorf("service: grid search: %w", err)
	}
	t.log.Info("grid search finished", zap.Stringer("best", res.Best.Spec), zap.Float64("cv_accuracy", res.Best.Mean))
	return res, nil
}

// LearningCurve reports train and cross-validated accuracy at growing
// training sizes.
func (t *Trainer) LearningCurve(ctx context.Context, d *domain.Dataset, opts CurveOptions) ([]ml.CurvePoint, error) {
	data, err := t.prepare(d, opts.Seed)
	if err != nil {
		return nil, err
	}
	points, err := ml.LearningCurve(ctx, data.features, opts.Spec, data.x, data.y, opts.Fractions, opts.Folds)
	if err != nil {
		return nil, fmt.Errorf("service: learning curve: %w", err)
	}
	return points, nil
}
