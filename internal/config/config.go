// ABOUTME: Environment-driven configuration for the siteseo CLI
// ABOUTME: Loads an optional .env file, then parses SITESEO_* variables

package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds the runtime configuration. Every field can be set from the
// environment; flags may override at the command layer.
type Config struct {
	// APIURL is the base URL of the siteseo backend.
	APIURL string `env:"SITESEO_API_URL" envDefault:"http://localhost:8000"`

	// ConfigDir overrides where the session record and debug log live.
	// Empty means the XDG default.
	ConfigDir string `env:"SITESEO_CONFIG_DIR"`

	// Debug enables the file debug log for TUI sessions.
	Debug bool `env:"SITESEO_DEBUG" envDefault:"false"`
}

// Load reads an optional .env file, then the environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		var pathErr *os.PathError
		if !errors.As(err, &pathErr) {
			return Config{}, fmt.Errorf("load .env file: %w", err)
		}
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}

	cfg.Sanitize()
	return cfg, nil
}

// Sanitize applies guardrails to values loaded from the environment.
func (c *Config) Sanitize() {
	c.APIURL = strings.TrimRight(strings.TrimSpace(c.APIURL), "/")
	if c.APIURL == "" {
		c.APIURL = "http://localhost:8000"
	}
}
