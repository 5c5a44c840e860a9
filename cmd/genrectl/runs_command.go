package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/lucasbflopes/spotify-track-classifier/internal/adapters/sqlite"
	"github.com/lucasbflopes/spotify-track-classifier/internal/core/domain"
)

const timeLayout = "2006-01-02 15:04:05"

func newRunsCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Inspect the training run registry",
	}
	cmd.AddCommand(newRunsListCommand(ctx))
	cmd.AddCommand(newRunsShowCommand(ctx))
	return cmd
}

func newRunsListCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recorded training runs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withRegistry(func(runs *sqlite.Adapter) error {
				list, err := runs.List(cmd.Context(), limit)
				if err != nil {
					return err
				}
				if len(list) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No training runs recorded")
					return nil
				}
				rows := make([][]string, 0, len(list))
				for _, run := range list {
					rows = append(rows, []string{
						run.ID,
						run.CreatedAt.Local().Format(timeLayout),
						run.Model,
						formatParams(run.Params),
						strconv.Itoa(run.Rows),
						formatScore(run.CVAccuracy),
						formatScore(run.TestAccuracy),
					})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]string{"ID", "Created", "Model", "Params", "Rows", "CV", "Test"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight},
				))
				return nil
			})
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum runs to show (0 for all)")

	return cmd
}

func newRunsShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one training run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withRegistry(func(runs *sqlite.Adapter) error {
				run, err := runs.GetByID(cmd.Context(), args[0])
				if errors.Is(err, domain.ErrNotFound) {
					return fmt.Errorf("no training run with id %q", args[0])
				}
				if err != nil {
					return err
				}
				rows := [][]string{
					{"ID", run.ID},
					{"Created", run.CreatedAt.Local().Format(timeLayout)},
					{"Model", run.Model},
					{"Params", formatParams(run.Params)},
					{"Rows", strconv.Itoa(run.Rows)},
					{"CV accuracy", formatScore(run.CVAccuracy)},
					{"Test accuracy", formatScore(run.TestAccuracy)},
					{"Artifact", run.ArtifactPath},
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Field", "Value"}, rows, nil))
				return nil
			})
		},
	}
}
