package config

import "time"

// Default values for configuration fields.
const (
	DefaultConfigFile = ".canonguard.yaml"

	DefaultRuleset = "canon/canon_rules.json"
	DefaultPhase   = "UI_SHELL_ONLY"
	DefaultStrict  = false

	DefaultRepositoryRoot = "."
	DefaultRepositoryMode = "worktree"
	DefaultRangeEnd       = "HEAD"

	DefaultOutputFormat = "text"

	DefaultLoggingLevel  = "warn"
	DefaultLoggingFormat = "text"

	DefaultMetricsNamespace = "canonguard"

	DefaultWatchDebounce = 300 * time.Millisecond
)

// NewDefaultConfig returns a configuration with every default applied.
func NewDefaultConfig() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults fills zero-valued fields with their defaults.
func ApplyDefaults(cfg *Config) {
	if cfg.Ruleset == "" {
		cfg.Ruleset = DefaultRuleset
	}
	if cfg.Phase == "" {
		cfg.Phase = DefaultPhase
	}

	if cfg.Repository.Root == "" {
		cfg.Repository.Root = DefaultRepositoryRoot
	}
	if cfg.Repository.Mode == "" {
		cfg.Repository.Mode = DefaultRepositoryMode
	}
	if cfg.Repository.From != "" && cfg.Repository.To == "" {
		cfg.Repository.To = DefaultRangeEnd
	}

	if cfg.Output.Format == "" {
		cfg.Output.Format = DefaultOutputFormat
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = DefaultLoggingLevel
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = DefaultLoggingFormat
	}

	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = DefaultMetricsNamespace
	}

	if cfg.Watch.Debounce == 0 {
		cfg.Watch.Debounce = DefaultWatchDebounce
	}
}
