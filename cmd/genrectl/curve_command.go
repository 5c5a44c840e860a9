package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/lucasbflopes/spotify-track-classifier/internal/core/services"
)

func newCurveCommand(ctx *commandContext) *cobra.Command {
	var flags modelFlags

	cmd := &cobra.Command{
		Use:   "curve",
		Short: "Report train and cross-validated accuracy at growing training sizes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			training, spec, dataset, err := flags.resolve(ctx)
			if err != nil {
				return err
			}

			points, err := services.NewTrainer(nil, ctx.logger).LearningCurve(cmd.Context(), dataset, services.CurveOptions{
				Spec:      spec,
				Seed:      training.Seed,
				Fractions: training.Curve.Fractions,
				Folds:     training.Folds,
			})
			if err != nil {
				return err
			}

			rows := make([][]string, 0, len(points))
			for _, p := range points {
				rows = append(rows, []string{strconv.Itoa(p.TrainSize), formatScore(p.TrainScore), formatScore(p.CVScore)})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Learning curve for %s\n", spec)
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Train size", "Train accuracy", "CV accuracy"},
				rows,
				[]columnAlignment{alignRight, alignRight, alignRight},
			))
			return nil
		},
	}
	flags.register(cmd)

	return cmd
}
