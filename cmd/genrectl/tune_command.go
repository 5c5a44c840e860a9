package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/lucasbflopes/spotify-track-classifier/internal/core/services"
)

func newTuneCommand(ctx *commandContext) *cobra.Command {
	var flags modelFlags

	cmd := &cobra.Command{
		Use:   "tune",
		Short: "Grid-search hyperparameters with cross-validation",
		Long: "Grid-search the selected estimator's hyperparameters over the grid in the\n" +
			"training file, scoring each candidate by cross-validation on the training split.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			training, spec, dataset, err := flags.resolve(ctx)
			if err != nil {
				return err
			}
			grid := training.GridFor(spec.Kind)
			if len(grid) == 0 {
				return fmt.Errorf("no tuning grid configured for %s", spec.Kind)
			}

			res, err := services.NewTrainer(nil, ctx.logger).Tune(cmd.Context(), dataset, services.TuneOptions{
				Base:      spec,
				Grid:      grid,
				Seed:      training.Seed,
				TestRatio: training.TestRatio,
				Folds:     training.Folds,
			})
			if err != nil {
				return err
			}

			rows := make([][]string, 0, len(res.Scores))
			for i, s := range res.Scores {
				mark := ""
				if s.Spec == res.Best.Spec {
					mark = "*"
				}
				rows = append(rows, []string{strconv.Itoa(i + 1), s.Spec.String(), formatScore(s.Mean), formatScore(s.Std), mark})
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable(
				[]string{"#", "Candidate", "CV mean", "CV std", "Best"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignRight, alignRight, alignLeft},
			))
			fmt.Fprintf(out, "Best: %s with CV accuracy %s\n", res.Best.Spec, formatScore(res.Best.Mean))
			return nil
		},
	}
	flags.register(cmd)

	return cmd
}
