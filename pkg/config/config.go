package config

import "time"

// Config is the root configuration structure for canonguard.
type Config struct {
	// Ruleset is the path of the canon ruleset, relative to the working
	// directory.
	// Default: "canon/canon_rules.json"
	Ruleset string `yaml:"ruleset"`

	// Phase is evaluated when no phase argument is given.
	// Default: "UI_SHELL_ONLY"
	Phase string `yaml:"phase"`

	// Strict rejects rulesets with incomplete phase or prohibition entries.
	// Default: false
	Strict bool `yaml:"strict"`

	// Repository selects where changed files come from.
	Repository RepositoryConfig `yaml:"repository"`

	// Output controls the report written to stdout.
	Output OutputConfig `yaml:"output"`

	// Logging controls diagnostic logs written to stderr.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics controls the optional Prometheus textfile export.
	Metrics MetricsConfig `yaml:"metrics"`

	// Watch configures the watch command.
	Watch WatchConfig `yaml:"watch"`
}

// RepositoryConfig selects the git repository and which changes count.
type RepositoryConfig struct {
	// Root is a directory inside the repository.
	// Default: "."
	Root string `yaml:"root"`

	// Mode is one of "worktree", "staged" or "all".
	// Default: "worktree"
	Mode string `yaml:"mode"`

	// From, when set, diffs the revision range From..To instead of local
	// changes.
	From string `yaml:"from"`

	// To ends the revision range.
	// Default: "HEAD" when From is set
	To string `yaml:"to"`
}

// OutputConfig controls the report format.
type OutputConfig struct {
	// Format is "text" or "json".
	// Default: "text"
	Format string `yaml:"format"`
}

// LoggingConfig contains configuration for structured logging.
type LoggingConfig struct {
	// Level is the minimum log level to emit.
	// Options: "debug", "info", "warn", "error"
	// Default: "warn"
	Level string `yaml:"level"`

	// Format controls the log output format.
	// Options: "json", "text", "console"
	// Default: "text"
	Format string `yaml:"format"`

	// AddSource includes file and line number in log entries.
	// Default: false
	AddSource bool `yaml:"add_source"`
}

// MetricsConfig contains configuration for run metrics.
type MetricsConfig struct {
	// TextfilePath, when set, receives the metrics of each run in the
	// Prometheus text format (for the node exporter textfile collector).
	TextfilePath string `yaml:"textfile_path"`

	// Namespace is the metric name prefix.
	// Default: "canonguard"
	Namespace string `yaml:"namespace"`
}

// WatchConfig configures watch mode.
type WatchConfig struct {
	// Debounce is the quiet period after file events before re-running.
	// Default: 300ms
	Debounce time.Duration `yaml:"debounce"`
}
