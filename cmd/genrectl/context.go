package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/lucasbflopes/spotify-track-classifier/internal/adapters/spotify"
	"github.com/lucasbflopes/spotify-track-classifier/internal/adapters/sqlite"
	"github.com/lucasbflopes/spotify-track-classifier/internal/config"
	"github.com/lucasbflopes/spotify-track-classifier/internal/logging"
)

type commandContext struct {
	envFlag      *string
	trainingFlag *string

	once   sync.Once
	config config.Config
	logger *zap.Logger
	err    error
}

func newCommandContext(envFlag, trainingFlag *string) *commandContext {
	return &commandContext{
		envFlag:      envFlag,
		trainingFlag: trainingFlag,
	}
}

// ensure loads the runtime config and builds the logger once per process.
func (c *commandContext) ensure() error {
	c.once.Do(func() {
		cfg, err := config.Load(strings.TrimSpace(*c.envFlag))
		if err != nil {
			c.err = err
			return
		}
		logger, err := logging.New(logging.Options{
			Level:  cfg.LogLevel,
			Format: logging.Format(cfg.LogFormat),
			Output: os.Stderr,
		})
		if err != nil {
			c.err = err
			return
		}
		c.config = cfg
		c.logger = logger
	})
	return c.err
}

func (c *commandContext) close() {
	if c.logger != nil {
		_ = c.logger.Sync()
	}
}

func (c *commandContext) trainingPath() string {
	if path := strings.TrimSpace(*c.trainingFlag); path != "" {
		return path
	}
	return c.config.TrainingFile
}

func (c *commandContext) training() (config.Training, error) {
	path := c.trainingPath()
	training, exists, err := config.LoadTraining(path)
	if err != nil {
		return config.Training{}, err
	}
	if !exists {
		c.logger.Debug("training file not found, using defaults", zap.String("path", path))
	}
	return training, nil
}

func (c *commandContext) catalog(ctx context.Context) (*spotify.Client, error) {
	creds, err := c.config.Credentials()
	if err != nil {
		return nil, err
	}
	client, err := spotify.New(ctx, spotify.Options{
		BaseURL:     c.config.APIBaseURL,
		TokenURL:    c.config.TokenURL,
		Credentials: spotify.Credentials(creds),
		Logger:      c.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("connect to spotify: %w", err)
	}
	return client, nil
}

func (c *commandContext) withRegistry(fn func(*sqlite.Adapter) error) error {
	registry, err := sqlite.NewAdapter(c.config.RegistryPath)
	if err != nil {
		return fmt.Errorf("open run registry %s: %w", c.config.RegistryPath, err)
	}
	defer registry.Close()
	return fn(registry)
}
