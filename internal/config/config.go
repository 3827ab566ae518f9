// Package config loads game settings from a YAML file with environment overrides.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Config holds the configuration settings.
type Config struct {
	Round    RoundConfig   `yaml:"round" envPrefix:"ROUND_"`
	Assets   AssetsConfig  `yaml:"assets" envPrefix:"ASSETS_"`
	Storage  StorageConfig `yaml:"storage" envPrefix:"STORAGE_"`
	Log      LogConfig     `yaml:"log" envPrefix:"LOG_"`
	Metrics  MetricsConfig `yaml:"metrics" envPrefix:"METRICS_"`
	HardMode bool          `yaml:"hard_mode" env:"HARD_MODE"`
}

// RoundConfig holds timer and sampling settings.
type RoundConfig struct {
	Duration time.Duration `yaml:"duration" env:"DURATION"`
	Seed     int64         `yaml:"seed" env:"SEED"` // 0 picks a random seed
}

// AssetsConfig locates the images and the name table.
type AssetsConfig struct {
	Root      string `yaml:"root" env:"ROOT"`
	ImageDir  string `yaml:"image_dir" env:"IMAGE_DIR"`
	NamesFile string `yaml:"names_file" env:"NAMES_FILE"`
}

// StorageConfig selects the high score backend.
type StorageConfig struct {
	Backend string `yaml:"backend" env:"BACKEND"` // file|sqlite
	Path    string `yaml:"path" env:"PATH"`       // empty uses the per-user default
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `yaml:"level" env:"LEVEL"`
}

// MetricsConfig holds the optional Prometheus listener.
type MetricsConfig struct {
	Address string `yaml:"address" env:"ADDRESS"` // empty disables the listener
}

// EnvPrefix prefixes every environment override.
const EnvPrefix = "POKEQUIZ_"

// Default returns the settings used when nothing is configured.
func Default() Config {
	return Config{
		Round: RoundConfig{
			Duration: 60 * time.Second,
		},
		Assets: AssetsConfig{
			Root:      ".",
			ImageDir:  "img",
			NamesFile: "pokemon_names.csv",
		},
		Storage: StorageConfig{
			Backend: "file",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads filename over the defaults and then applies POKEQUIZ_* environment
// variables. A missing file is not an error.
func Load(filename string) (*Config, error) {
	cfg := Default()

	if strings.TrimSpace(filename) != "" {
		data, err := os.ReadFile(filename)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("failed to unmarshal config: %w", err)
			}
		case errors.Is(err, fs.ErrNotExist):
			// fall through to env only
		default:
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings the game cannot run with.
func (c *Config) Validate() error {
	if c.Round.Duration < time.Second {
		return fmt.Errorf("round duration must be at least 1s, got %s", c.Round.Duration)
	}
	switch strings.ToLower(c.Storage.Backend) {
	case "file", "sqlite":
	default:
		return fmt.Errorf("unknown storage backend %q", c.Storage.Backend)
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		return err
	}
	return nil
}

// ParseLevel maps a level name to a slog.Level.
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", level)
	}
}

// NewLogger builds the text logger every package receives.
func (c *Config) NewLogger() *slog.Logger {
	level, _ := ParseLevel(c.Log.Level)
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
