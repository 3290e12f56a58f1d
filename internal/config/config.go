// Package config holds the engine's process-wide tunables: the
// default completion sentinel, the default iteration bound, and the
// timeouts the loop engine falls back to when a project's TaskConfig
// leaves them unset. Values load from an optional YAML file with
// environment overrides always taking precedence, matching the
// teacher's event-retention config's documented precedence.
//
// Grounded on internal/config/event_retention.go's shape (typed
// struct of tunables, a Default*Config constructor, a Validate
// method) generalized to also read an optional YAML file via
// gopkg.in/yaml.v3.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds every tunable the loop engine and store consult when a
// project doesn't specify its own value.
type Config struct {
	// DefaultSentinel is used when a project's TaskConfig.Sentinel is
	// empty.
	// Default: "<done>COMPLETE</done>"
	DefaultSentinel string `yaml:"default_sentinel"`

	// DefaultIterationBound caps iterations when a project's
	// TaskConfig.MaxIterations is zero.
	// Default: 50, Range: 1-1000
	DefaultIterationBound int `yaml:"default_iteration_bound"`

	// DefaultIterationTimeout bounds a single iteration's wall clock
	// when a project leaves IterationTimeout unset. Zero disables it.
	// Default: 0 (disabled)
	DefaultIterationTimeout time.Duration `yaml:"default_iteration_timeout"`

	// DefaultIdleTimeout bounds the gap since the last line of output
	// when a project leaves IdleTimeout unset. Zero disables it.
	// Default: 10m
	DefaultIdleTimeout time.Duration `yaml:"default_idle_timeout"`

	// DefaultAutoCommit is the auto-commit default for newly created
	// projects.
	// Default: true
	DefaultAutoCommit bool `yaml:"default_auto_commit"`

	// StoreRoot is the directory holding projects.json and the
	// per-project state files.
	// Default: "~/.ralph"
	StoreRoot string `yaml:"store_root"`
}

// Default returns the built-in configuration before any file or
// environment overrides are applied.
func Default() Config {
	home, _ := os.UserHomeDir()
	root := ".ralph"
	if home != "" {
		root = home + "/.ralph"
	}
	return Config{
		DefaultSentinel:         "<done>COMPLETE</done>",
		DefaultIterationBound:   50,
		DefaultIterationTimeout: 0,
		DefaultIdleTimeout:      10 * time.Minute,
		DefaultAutoCommit:       true,
		StoreRoot:               root,
	}
}

// Load builds a Config starting from Default, layering an optional
// YAML file on top (path may be empty, in which case the file step is
// skipped), then applying environment overrides, which always win.
func Load(yamlPath string) (Config, error) {
	cfg := Default()

	if yamlPath != "" {
		data, err := os.ReadFile(yamlPath)
		if err != nil {
			if !os.IsNotExist(err) {
				return Config{}, fmt.Errorf("config: reading %s: %w", yamlPath, err)
			}
		} else if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parsing %s: %w", yamlPath, err)
		}
	}

	applyEnvOverrides(&cfg)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// applyEnvOverrides reads RALPH_* environment variables on top of
// whatever Default/Load produced so far. Environment always wins over
// the file, per spec.md §9's ambient-state precedence.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("RALPH_DEFAULT_SENTINEL"); v != "" {
		cfg.DefaultSentinel = v
	}
	if v := os.Getenv("RALPH_DEFAULT_ITERATION_BOUND"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.DefaultIterationBound = n
		}
	}
	if v := os.Getenv("RALPH_DEFAULT_ITERATION_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.DefaultIterationTimeout = d
		}
	}
	if v := os.Getenv("RALPH_DEFAULT_IDLE_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.DefaultIdleTimeout = d
		}
	}
	if v := os.Getenv("RALPH_DEFAULT_AUTO_COMMIT"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.DefaultAutoCommit = b
		}
	}
	if v := os.Getenv("RALPH_STORE_ROOT"); v != "" {
		cfg.StoreRoot = v
	}
}

// Validate checks the configuration has sane values.
func (c Config) Validate() error {
	if c.DefaultSentinel == "" {
		return fmt.Errorf("config: default_sentinel cannot be empty")
	}
	if c.DefaultIterationBound < 1 || c.DefaultIterationBound > 1000 {
		return fmt.Errorf("config: default_iteration_bound must be between 1 and 1000 (got %d)", c.DefaultIterationBound)
	}
	if c.DefaultIterationTimeout < 0 {
		return fmt.Errorf("config: default_iteration_timeout cannot be negative")
	}
	if c.DefaultIdleTimeout < 0 {
		return fmt.Errorf("config: default_idle_timeout cannot be negative")
	}
	if c.StoreRoot == "" {
		return fmt.Errorf("config: store_root cannot be empty")
	}
	return nil
}
