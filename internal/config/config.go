// Package config loads process configuration from the environment and
// ruleset overrides from YAML.
package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"
)

// Config is the process configuration. cobra flags override it after parsing.
type Config struct {
	Seed        int64  `env:"UFOSIM_SEED" envDefault:"42"`
	DBPath      string `env:"UFOSIM_DB_PATH" envDefault:"data/ufosim.db"`
	APIPort     int    `env:"UFOSIM_API_PORT" envDefault:"8080"`
	Policy      string `env:"UFOSIM_POLICY" envDefault:"basic"`
	Turns       int    `env:"UFOSIM_TURNS" envDefault:"0"`
	RulesetFile string `env:"UFOSIM_RULESET_FILE"`
	LogLevel    string `env:"UFOSIM_LOG_LEVEL" envDefault:"info"`
	AdminKey    string `env:"UFOSIM_ADMIN_KEY"`
}

// Load reads the configuration from the environment.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if _, err := cfg.Level(); err != nil {
		return Config{}, err
	}
	if cfg.Turns < 0 {
		return Config{}, fmt.Errorf("parse env: UFOSIM_TURNS must not be negative, got %d", cfg.Turns)
	}
	return cfg, nil
}

// Level parses LogLevel: debug, info, warn or error.
func (c Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(c.LogLevel))); err != nil {
		return slog.LevelInfo, fmt.Errorf("log level %q: %w", c.LogLevel, err)
	}
	return level, nil
}
