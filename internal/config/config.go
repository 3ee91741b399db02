// Package config loads telsuite settings from a config.toml next to the
// executable. Missing file means defaults; CLI flags override loaded values.
package config

import (
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// Config is the application configuration.
type Config struct {
	Data DataConfig `toml:"data"`
	Sum  SumConfig  `toml:"sum"`
}

// DataConfig configures the organizer.
type DataConfig struct {
	// BaseDir is the root of the year/month directory tree.
	BaseDir string `toml:"base_dir"`
}

// SumConfig configures aggregation defaults.
type SumConfig struct {
	// PrefixLength is the default sheet-name prefix length.
	PrefixLength int `toml:"prefix_length"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Data: DataConfig{BaseDir: "data"},
		Sum:  SumConfig{PrefixLength: 6},
	}
}

// Load reads config.toml from the executable's directory, falling back to
// defaults when the file is absent. The TELSUITE_BASE_DIR environment
// variable overrides the configured base directory.
func Load() (*Config, error) {
	cfg := Default()

	path := filepath.Join(exeDir(), "config.toml")
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			applyEnv(cfg)
			return cfg, nil
		}
		return nil, err
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	applyEnv(cfg)

	if cfg.Sum.PrefixLength <= 0 {
		cfg.Sum.PrefixLength = 6
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("TELSUITE_BASE_DIR"); v != "" {
		cfg.Data.BaseDir = v
	}
}

func exeDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}
