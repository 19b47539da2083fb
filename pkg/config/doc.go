// Package config provides configuration management for canonguard.
//
// The tool runs fine without a configuration file; every field has a
// default. A YAML file (conventionally .canonguard.yaml at the repository
// root) and environment variables can change them.
//
// # Configuration Loading
//
//	cfg, err := config.LoadConfig(".canonguard.yaml")          // file must exist
//	cfg, err := config.LoadOptionalConfig(".canonguard.yaml")  // defaults if absent
//
// # Environment Variable Overrides
//
// Environment variables follow the naming convention CANONGUARD_FIELD:
//
//   - CANONGUARD_RULESET overrides ruleset
//   - CANONGUARD_PHASE overrides phase
//   - CANONGUARD_REPO overrides repository.root
//   - CANONGUARD_MODE overrides repository.mode
//   - CANONGUARD_STRICT overrides strict
//   - CANONGUARD_LOG_LEVEL and CANONGUARD_LOG_FORMAT override logging
//   - CANONGUARD_OUTPUT_FORMAT overrides output.format
//   - CANONGUARD_METRICS_FILE overrides metrics.textfile_path
//   - CANONGUARD_WATCH_DEBOUNCE overrides watch.debounce (Go duration syntax)
//
// Values that fail to parse (a non-boolean STRICT, a malformed duration)
// are ignored.
//
// # Configuration Precedence
//
// Values are applied in the following order (later overrides earlier):
//
//  1. Default values (defined in defaults.go)
//  2. Values from the YAML file
//  3. Environment variable overrides
//  4. Command-line flags (applied by the caller)
//  5. Validation
//
// There is no package-level configuration instance; callers pass the
// *Config they loaded.
package config
