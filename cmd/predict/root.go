package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/lucasbflopes/spotify-track-classifier/internal/adapters/spotify"
	"github.com/lucasbflopes/spotify-track-classifier/internal/config"
	"github.com/lucasbflopes/spotify-track-classifier/internal/core/domain"
	"github.com/lucasbflopes/spotify-track-classifier/internal/core/services"
	"github.com/lucasbflopes/spotify-track-classifier/internal/logging"
	"github.com/lucasbflopes/spotify-track-classifier/internal/ml"
)

func newRootCommand() *cobra.Command {
	var envFile string

	cmd := &cobra.Command{
		Use:           `predict "track name"`,
		Short:         "Predict the genre of a Spotify track",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return fmt.Errorf(`usage: %s "track_name"`, cmd.Name())
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPredict(cmd.Context(), cmd.OutOrStdout(), envFile, args[0])
		},
	}
	cmd.Flags().StringVar(&envFile, "env-file", "", "Dotenv file to load before reading GENRECLF_* variables (default .env)")

	return cmd
}

func runPredict(ctx context.Context, out io.Writer, envFile, query string) error {
	cfg, err := config.Load(envFile)
	if err != nil {
		return err
	}
	logger, err := logging.New(logging.Options{
		Level:  cfg.LogLevel,
		Format: logging.Format(cfg.LogFormat),
		Output: os.Stderr,
	})
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	model, err := ml.Load(cfg.ModelPath)
	if err != nil {
		return fmt.Errorf("load model %s: %w", cfg.ModelPath, err)
	}

	creds, err := cfg.Credentials()
	if err != nil {
		return err
	}
	client, err := spotify.New(ctx, spotify.Options{
		BaseURL:     cfg.APIBaseURL,
		TokenURL:    cfg.TokenURL,
		Credentials: spotify.Credentials(creds),
		Logger:      logger,
	})
	if err != nil {
		return describe(err, query)
	}

	prediction, err := services.NewPredictor(client, model, logger).Predict(ctx, query)
	if err != nil {
		return describe(err, query)
	}

	return writePrediction(out, prediction)
}

// describe turns domain failures into messages for the terminal.
func describe(err error, query string) error {
	switch {
	case errors.Is(err, domain.ErrAuthentication):
		return fmt.Errorf("authentication failed, check the client credentials: %w", err)
	case errors.Is(err, domain.ErrNotFound):
		return fmt.Errorf("track not found: %q", query)
	case errors.Is(err, domain.ErrMissingFeatures):
		return fmt.Errorf("no complete audio features for %q, cannot predict: %w", query, err)
	default:
		return err
	}
}
