// Package config loads runtime settings from the environment and the training
// settings from a TOML file.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "GENRECLF"

// Config holds runtime settings shared by the binaries.
type Config struct {
	ClientID     string `envconfig:"CLIENT_ID"`
	ClientSecret string `envconfig:"CLIENT_SECRET"`
	KeysFile     string `envconfig:"KEYS_FILE" default:"api/client_keys.json"`

	APIBaseURL string `envconfig:"API_BASE_URL" default:"https://api.spotify.com/v1"`
	TokenURL   string `envconfig:"TOKEN_URL" default:"https://accounts.spotify.com/api/token"`

	ModelPath    string `envconfig:"MODEL_PATH" default:"model_trained.json"`
	DatasetPath  string `envconfig:"DATASET_PATH" default:"dataset/dataset.csv"`
	RegistryPath string `envconfig:"REGISTRY_PATH" default:"training_runs.db"`
	TrainingFile string `envconfig:"TRAINING_FILE" default:"pipeline.toml"`

	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"auto"`
}

// Credentials are the application keys for the token exchange.
type Credentials struct {
	ClientID     string `json:"clientID"`
	ClientSecret string `json:"clientSecret"`
}

// Load reads an optional dotenv file, then the GENRECLF_* environment.
// Variables already set in the environment win over the dotenv file. An
// empty envFile means ".env"; a missing file is not an error.
func Load(envFile string) (Config, error) {
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("config: load %s: %w", envFile, err)
	}

	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// Credentials returns the keys from the environment when both are set,
// otherwise from the JSON keys file.
func (c Config) Credentials() (Credentials, error) {
	if c.ClientID != "" && c.ClientSecret != "" {
		return Credentials{ClientID: c.ClientID, ClientSecret: c.ClientSecret}, nil
	}

	data, err := os.ReadFile(c.KeysFile)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Credentials{}, fmt.Errorf("config: no credentials: set %s_CLIENT_ID and %s_CLIENT_SECRET or create %s", EnvPrefix, EnvPrefix, c.KeysFile)
		}
		return Credentials{}, fmt.Errorf("config: read keys file: %w", err)
	}

	var creds Credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return Credentials{}, fmt.Errorf("config: parse keys file %s: %w", c.KeysFile, err)
	}
	if creds.ClientID == "" || creds.ClientSecret == "" {
		return Credentials{}, fmt.Errorf("config: keys file %s must set clientID and clientSecret", c.KeysFile)
	}
	return creds, nil
}
