// Package config reads session settings from the environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"go.uber.org/zap/zapcore"
)

// Config holds the settings a session starts with. Command-line flags may
// override individual fields after Load.
type Config struct {
	DBPath            string        `env:"JAGARANA_DB"`
	StrictOrder       bool          `env:"JAGARANA_STRICT_ORDER"       envDefault:"true"`
	MeditationMinutes int           `env:"JAGARANA_MEDITATION_MINUTES" envDefault:"11"`
	MidnightPoll      time.Duration `env:"JAGARANA_MIDNIGHT_POLL"      envDefault:"30s"`
	LogLevel          zapcore.Level `env:"JAGARANA_LOG_LEVEL"          envDefault:"warn"`
	StorageQuota      int           `env:"JAGARANA_STORAGE_QUOTA"`
}

// Load parses the environment. An unset JAGARANA_DB resolves to
// ~/.jagarana/progress.db.
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if cfg.DBPath == "" {
		cfg.DBPath = DefaultDBPath()
	}
	if cfg.MidnightPoll <= 0 {
		return Config{}, fmt.Errorf("JAGARANA_MIDNIGHT_POLL must be positive, got %s", cfg.MidnightPoll)
	}
	if cfg.StorageQuota < 0 {
		return Config{}, fmt.Errorf("JAGARANA_STORAGE_QUOTA must not be negative, got %d", cfg.StorageQuota)
	}
	return cfg, nil
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// DefaultDBPath is where progress lives when nothing else is configured.
func DefaultDBPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".jagarana", "progress.db")
}
