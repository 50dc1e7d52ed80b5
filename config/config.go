// Package config loads runtime settings from the environment and the
// optional keymap file.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Prefix is prepended to every environment variable name.
const Prefix = "BEATQUEST_"

// Config holds runtime settings. Command-line flags override these.
type Config struct {
	// Seed overrides the scenario seed when non-zero.
	Seed int64 `env:"SEED"`
	// TickRate is the number of engine ticks per second.
	TickRate int    `env:"TICK_RATE" envDefault:"60"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	// LogFile is where the TUI writes its log. Empty discards it.
	LogFile string `env:"LOG_FILE"`
	// Scenario is a directory of .lua files. Empty uses the built-in one.
	Scenario string `env:"SCENARIO"`
	// Keymap is an optional YAML file of key rebinds.
	Keymap string `env:"KEYMAP"`
}

// Parse loads configuration from the process environment.
func Parse() (Config, error) {
	return parse(env.Options{Prefix: Prefix})
}

// ParseFrom loads configuration from the given variables instead of the
// process environment.
func ParseFrom(environ map[string]string) (Config, error) {
	return parse(env.Options{Prefix: Prefix, Environment: environ})
}

func parse(opts env.Options) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings the engine cannot run with.
func (c Config) Validate() error {
	if c.TickRate <= 0 || c.TickRate > 1000 {
		return fmt.Errorf("tick rate must be in 1..1000, got %d", c.TickRate)
	}
	return nil
}
