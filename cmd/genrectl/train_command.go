package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lucasbflopes/spotify-track-classifier/internal/adapters/csvfile"
	"github.com/lucasbflopes/spotify-track-classifier/internal/adapters/sqlite"
	"github.com/lucasbflopes/spotify-track-classifier/internal/config"
	"github.com/lucasbflopes/spotify-track-classifier/internal/core/domain"
	"github.com/lucasbflopes/spotify-track-classifier/internal/core/ports"
	"github.com/lucasbflopes/spotify-track-classifier/internal/core/services"
	"github.com/lucasbflopes/spotify-track-classifier/internal/ml"
)

// modelFlags are shared by the commands that pick an estimator and a dataset.
type modelFlags struct {
	model   string
	dataset string
}

func (f *modelFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.model, "model", "m", "", "Estimator to use: knn, logistic or svc (default from the training file)")
	cmd.Flags().StringVarP(&f.dataset, "dataset", "d", "", "Dataset CSV path (default $GENRECLF_DATASET_PATH)")
}

// resolve loads the training settings and the dataset and returns the spec
// of the selected estimator.
func (f *modelFlags) resolve(ctx *commandContext) (config.Training, ml.ModelSpec, *domain.Dataset, error) {
	training, err := ctx.training()
	if err != nil {
		return config.Training{}, ml.ModelSpec{}, nil, err
	}
	kind := ml.Kind(training.Model)
	if f.model != "" {
		kind = ml.Kind(strings.ToLower(strings.TrimSpace(f.model)))
	}
	spec, err := training.SpecFor(kind)
	if err != nil {
		return config.Training{}, ml.ModelSpec{}, nil, err
	}
	if err := spec.Validate(); err != nil {
		return config.Training{}, ml.ModelSpec{}, nil, err
	}

	path := f.dataset
	if path == "" {
		path = ctx.config.DatasetPath
	}
	dataset, err := csvfile.ReadDataset(path)
	if err != nil {
		return config.Training{}, ml.ModelSpec{}, nil, err
	}
	return training, spec, dataset, nil
}

func newTrainCommand(ctx *commandContext) *cobra.Command {
	var (
		flags    modelFlags
		output   string
		noRecord bool
	)

	cmd := &cobra.Command{
		Use:   "train",
		Short: "Train a classifier on the dataset and save the model",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			training, spec, dataset, err := flags.resolve(ctx)
			if err != nil {
				return err
			}
			if output == "" {
				output = ctx.config.ModelPath
			}
			opts := services.TrainOptions{
				Spec:         spec,
				Seed:         training.Seed,
				TestRatio:    training.TestRatio,
				Folds:        training.Folds,
				RefitFull:    training.RefitFull,
				ArtifactPath: output,
			}

			var report services.TrainingReport
			train := func(runs ports.RunRepository) error {
				report, err = services.NewTrainer(runs, ctx.logger).Train(cmd.Context(), dataset, opts)
				return err
			}
			if noRecord {
				err = train(nil)
			} else {
				err = ctx.withRegistry(func(runs *sqlite.Adapter) error { return train(runs) })
			}
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), reportTable(report, spec, noRecord))
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "Model artifact path (default $GENRECLF_MODEL_PATH)")
	cmd.Flags().BoolVar(&noRecord, "no-record", false, "Do not record the run in the registry")

	return cmd
}

func reportTable(r services.TrainingReport, spec ml.ModelSpec, noRecord bool) string {
	folds := make([]string, len(r.CVScores))
	for i, s := range r.CVScores {
		folds[i] = formatScore(s)
	}
	rows := [][]string{
		{"Model", spec.String()},
		{"Rows", fmt.Sprintf("%d (%d dropped)", r.Run.Rows, r.Dropped)},
		{"Train / test", fmt.Sprintf("%d / %d", r.TrainRows, r.TestRows)},
		{"CV folds", strings.Join(folds, " ")},
		{"CV accuracy", fmt.Sprintf("%s ± %s", formatScore(r.CVMean), formatScore(r.CVStd))},
		{"Test accuracy", formatScore(r.TestAccuracy)},
		{"Artifact", r.Run.ArtifactPath},
	}
	if !noRecord {
		rows = append(rows, []string{"Run", r.Run.ID})
	}
	return renderTable([]string{"Field", "Value"}, rows, nil)
}
