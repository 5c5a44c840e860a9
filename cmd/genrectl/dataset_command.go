package main

import (
	"fmt"
	"maps"
	"slices"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lucasbflopes/spotify-track-classifier/internal/adapters/csvfile"
	"github.com/lucasbflopes/spotify-track-classifier/internal/core/domain"
	"github.com/lucasbflopes/spotify-track-classifier/internal/core/services"
)

func newDatasetCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dataset",
		Short: "Build and inspect the labelled track dataset",
	}
	cmd.AddCommand(newDatasetBuildCommand(ctx))
	cmd.AddCommand(newDatasetStatsCommand(ctx))
	return cmd
}

func newDatasetBuildCommand(ctx *commandContext) *cobra.Command {
	var (
		categories    []string
		output        string
		playlistLimit int
		trackLimit    int
	)

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Fetch category playlists from Spotify and write the dataset CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if output == "" {
				output = ctx.config.DatasetPath
			}

			client, err := ctx.catalog(cmd.Context())
			if err != nil {
				return err
			}
			builder := services.NewDatasetBuilder(client, ctx.logger, services.BuilderOptions{
				PlaylistLimit: playlistLimit,
				TrackLimit:    trackLimit,
			})
			dataset, err := builder.Build(cmd.Context(), categories)
			if err != nil {
				return err
			}
			if err := csvfile.WriteDataset(output, dataset); err != nil {
				return err
			}
			ctx.logger.Info("dataset written", zap.String("path", output), zap.Int("rows", dataset.Len()))

			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d rows to %s\n", dataset.Len(), output)
			fmt.Fprintln(cmd.OutOrStdout(), genreTable(dataset))
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&categories, "category", domain.DefaultCategories(), "Browse category to label tracks with (repeatable)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Dataset CSV path (default $GENRECLF_DATASET_PATH)")
	cmd.Flags().IntVar(&playlistLimit, "playlist-limit", 50, "Playlists fetched per category (max 50)")
	cmd.Flags().IntVar(&trackLimit, "track-limit", 100, "Tracks fetched per playlist (max 100)")

	return cmd
}

func newDatasetStatsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stats [path]",
		Short: "Show per-genre row counts of a dataset CSV",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ctx.config.DatasetPath
			if len(args) == 1 {
				path = args[0]
			}
			dataset, err := csvfile.ReadDataset(path)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), genreTable(dataset))
			return nil
		},
	}
}

// genreTable counts rows per genre, split into complete and total.
func genreTable(d *domain.Dataset) string {
	total := d.GenreCounts()
	complete := d.DropIncomplete().GenreCounts()

	rows := make([][]string, 0, len(total)+1)
	var sumTotal, sumComplete int
	for _, genre := range slices.Sorted(maps.Keys(total)) {
		rows = append(rows, []string{genre, strconv.Itoa(total[genre]), strconv.Itoa(complete[genre])})
		sumTotal += total[genre]
		sumComplete += complete[genre]
	}
	rows = append(rows, []string{"total", strconv.Itoa(sumTotal), strconv.Itoa(sumComplete)})

	return renderTable(
		[]string{"Genre", "Rows", "Complete"},
		rows,
		[]columnAlignment{alignLeft, alignRight, alignRight},
	)
}
