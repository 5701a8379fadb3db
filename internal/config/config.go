// Package config loads compiler settings from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// DefaultDotenv is the dotenv file read by Load when present.
const DefaultDotenv = ".env"

// Config holds the settings shared by every command.
type Config struct {
	// TrackInterval is the tracker polling period in milliseconds.
	TrackInterval int `env:"MARS_TRACK_INTERVAL" envDefault:"1000"`
	// DrillingReport appends a drilling report read to drilling sequences.
	DrillingReport bool   `env:"MARS_DRILLING_REPORT" envDefault:"false"`
	LogLevel       string `env:"MARS_LOG_LEVEL" envDefault:"info"`
	LogFile        string `env:"MARS_LOG_FILE"`
	// Database is the sqlite file compiled sequences are stored in. Empty disables storage.
	Database string `env:"MARS_DATABASE"`
}

// Load reads the dotenv file (if it exists) into the process environment,
// then parses Config from MARS_* variables. Variables already set in the
// environment take precedence over the dotenv file.
func Load(dotenv string) (Config, error) {
	if dotenv != "" {
		if err := godotenv.Load(dotenv); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", dotenv, err)
		}
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c Config) Validate() error {
	if c.TrackInterval <= 0 {
		return fmt.Errorf("MARS_TRACK_INTERVAL must be positive, got %d", c.TrackInterval)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level returns LogLevel as a slog.Level.
func (c Config) Level() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(c.LogLevel))); err != nil {
		return 0, fmt.Errorf("MARS_LOG_LEVEL: %w", err)
	}
	return lvl, nil
}
