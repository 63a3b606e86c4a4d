// Package config loads process settings for the strata command from the environment.
package config

import (
	"fmt"
	"log/slog"

	"github.com/aretw0/strata"
	"github.com/aretw0/strata/internal/logging"
	"github.com/caarlos0/env/v11"
)

// Config holds the settings shared by the CLI commands.
// Every field can be overridden by the matching command-line flag.
type Config struct {
	LogLevel    string `env:"STRATA_LOG_LEVEL" envDefault:"info"`
	MaxNesting  int    `env:"STRATA_MAX_NESTING" envDefault:"64"`
	PopPolicy   string `env:"STRATA_POP_POLICY" envDefault:"allow-empty"`
	MetricsAddr string `env:"STRATA_METRICS_ADDR"`
	RedisAddr   string `env:"STRATA_REDIS_ADDR"`
	RedisStream string `env:"STRATA_REDIS_STREAM" envDefault:"strata:events"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load returns a validated Config read from the environment.
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that enumerated fields hold known values.
func (c Config) Validate() error {
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	if _, err := strata.ParsePopPolicy(c.PopPolicy); err != nil {
		return err
	}
	if c.MaxNesting < 1 {
		return fmt.Errorf("max nesting must be positive, got %d", c.MaxNesting)
	}
	return nil
}

// Level returns the parsed log level.
func (c Config) Level() slog.Level {
	lvl, _ := logging.ParseLevel(c.LogLevel)
	return lvl
}

// Policy returns the parsed pop policy.
func (c Config) Policy() strata.PopPolicy {
	p, _ := strata.ParsePopPolicy(c.PopPolicy)
	return p
}
