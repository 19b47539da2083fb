package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// LoadConfig loads configuration from the YAML file at path, applies
// defaults and environment overrides, and validates the result.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	return finish(&cfg)
}

// LoadOptionalConfig behaves like LoadConfig but falls back to the defaults
// when the file does not exist.
func LoadOptionalConfig(path string) (*Config, error) {
	if path == "" {
		return finish(&Config{})
	}
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return finish(&Config{})
	}
	return LoadConfig(path)
}

func finish(cfg *Config) (*Config, error) {
	ApplyDefaults(cfg)
	ApplyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// ApplyEnvOverrides applies CANONGUARD_* environment variables to cfg.
// Values that fail to parse are ignored.
func ApplyEnvOverrides(cfg *Config) {
	if val := os.Getenv("CANONGUARD_RULESET"); val != "" {
		cfg.Ruleset = val
	}
	if val := os.Getenv("CANONGUARD_PHASE"); val != "" {
		cfg.Phase = val
	}
	if val := os.Getenv("CANONGUARD_STRICT"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Strict = b
		}
	}

	if val := os.Getenv("CANONGUARD_REPO"); val != "" {
		cfg.Repository.Root = val
	}
	if val := os.Getenv("CANONGUARD_MODE"); val != "" {
		cfg.Repository.Mode = val
	}

	if val := os.Getenv("CANONGUARD_OUTPUT_FORMAT"); val != "" {
		cfg.Output.Format = val
	}

	if val := os.Getenv("CANONGUARD_LOG_LEVEL"); val != "" {
		cfg.Logging.Level = val
	}
	if val := os.Getenv("CANONGUARD_LOG_FORMAT"); val != "" {
		cfg.Logging.Format = val
	}

	if val := os.Getenv("CANONGUARD_METRICS_FILE"); val != "" {
		cfg.Metrics.TextfilePath = val
	}

	if val := os.Getenv("CANONGUARD_WATCH_DEBOUNCE"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Watch.Debounce = d
		}
	}
}
