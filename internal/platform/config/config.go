// Package config loads the server configuration from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds the server configuration.
type Config struct {
	// Addr is the HTTP/WebSocket listen address.
	Addr string `env:"FRACTURED_ADDR" envDefault:":8080"`

	// DBPath is the SQLite database file.
	DBPath string `env:"FRACTURED_DB" envDefault:"fractured.db"`

	// SessionID keys the persisted session and meta blobs.
	SessionID string `env:"FRACTURED_SESSION" envDefault:"SESSION_1"`

	// StoryPath overrides the embedded storyline when set.
	StoryPath string `env:"FRACTURED_STORY"`

	// PulseInterval is how often the derived signal is republished.
	PulseInterval time.Duration `env:"FRACTURED_PULSE_INTERVAL" envDefault:"2s"`
}

// Load parses the configuration from environment variables.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
