// Package config loads process-level settings from CHIT_* environment
// variables. Command-line flags override whatever the environment
// provides; the CLI layer applies that precedence.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds the settings shared by every CLI command.
type Config struct {
	// Database is the SQLite path holding the journal and projection.
	Database string `env:"CHIT_DB"   envDefault:"chit.db"`
	// MenuDir is the directory containing the CUE menu definition.
	MenuDir string `env:"CHIT_MENU" envDefault:"."`
	// Paused stops intake: submissions are rejected while set.
	Paused bool `env:"CHIT_PAUSED"`
	// Verbose enables debug logging.
	Verbose bool `env:"CHIT_VERBOSE"`
}

// FromEnv loads configuration from the environment, applying defaults
// for anything unset.
func FromEnv() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
