// Package config loads the YAML application configuration and applies
// environment variable overrides.
package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config is the top-level configuration for strategylab.
type Config struct {
	Data    Data    `yaml:"data"`
	Logging Logging `yaml:"logging"`
	Engine  Engine  `yaml:"engine"`
}

// Data selects and configures the price data source.
type Data struct {
	// Provider picks where daily closes come from.
	Provider string `yaml:"provider" validate:"oneof=yahoo postgres"`

	// DatabaseURL is required when Provider is postgres.
	DatabaseURL string `yaml:"database_url" validate:"required_if=Provider postgres"`

	// CachePath is the SQLite cache file for fetched series. Empty keeps
	// the cache in memory only.
	CachePath string `yaml:"cache_path"`
}

// Logging configures the application logger.
type Logging struct {
	Level string `yaml:"level" validate:"omitempty,oneof=debug info warn error"`
}

// Engine bounds the batch runner.
type Engine struct {
	// MaxParallel caps concurrent simulations; zero means one per CPU.
	MaxParallel int `yaml:"max_parallel" validate:"gte=0"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Data:    Data{Provider: "yahoo"},
		Logging: Logging{Level: "info"},
	}
}

// Load reads the YAML configuration at path, applies environment overrides,
// and validates the result.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}

		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	applyEnvOverrides(cfg)

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

// applyEnvOverrides checks well-known environment variables and overrides
// the corresponding configuration fields when they are set.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("STRATEGYLAB_PROVIDER"); v != "" {
		cfg.Data.Provider = v
	}

	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Data.DatabaseURL = v
	}

	if v := os.Getenv("STRATEGYLAB_CACHE_PATH"); v != "" {
		cfg.Data.CachePath = v
	}

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}
