package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var envFile string
	var trainingFile string

	ctx := newCommandContext(&envFile, &trainingFile)

	rootCmd := &cobra.Command{
		Use:           "genrectl",
		Short:         "Build datasets and train Spotify genre classifiers",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return ctx.ensure()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			ctx.close()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "Dotenv file to load before reading GENRECLF_* variables (default .env)")
	rootCmd.PersistentFlags().StringVarP(&trainingFile, "training", "t", "", "Training settings file (default $GENRECLF_TRAINING_FILE or pipeline.toml)")

	rootCmd.AddCommand(newDatasetCommand(ctx))
	rootCmd.AddCommand(newTrainCommand(ctx))
	rootCmd.AddCommand(newTuneCommand(ctx))
	rootCmd.AddCommand(newCurveCommand(ctx))
	rootCmd.AddCommand(newRunsCommand(ctx))
	rootCmd.AddCommand(newConfigCommand(ctx))

	return rootCmd
}
