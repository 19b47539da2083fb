package config

import (
	"fmt"
	"strings"
)

// FieldError represents a validation error for a specific configuration field.
type FieldError struct {
	// Field is the dotted path to the configuration field (e.g., "logging.level").
	Field string

	// Message is a human-readable error message.
	Message string
}

// Error returns the error message for this field error.
func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError represents one or more validation errors in a configuration.
type ValidationError struct {
	// Errors contains all validation errors found in the configuration.
	Errors []FieldError
}

// Error returns a formatted string containing all validation errors.
func (e ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "configuration validation failed"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("configuration validation failed: %s", e.Errors[0].Error())
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("configuration validation failed with %d errors:\n", len(e.Errors)))
	for _, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  - %s\n", err.Error()))
	}
	return sb.String()
}

// Validate checks the configuration and returns a ValidationError listing
// every problem, or nil.
func Validate(cfg *Config) error {
	var errs []FieldError

	if cfg.Ruleset == "" {
		errs = append(errs, FieldError{Field: "ruleset", Message: "ruleset path is required"})
	}
	if cfg.Phase == "" {
		errs = append(errs, FieldError{Field: "phase", Message: "default phase is required"})
	}

	errs = append(errs, validateRepository(&cfg.Repository)...)
	errs = append(errs, oneOf("output.format", cfg.Output.Format, "text", "json")...)
	errs = append(errs, oneOf("logging.level", cfg.Logging.Level, "debug", "info", "warn", "error")...)
	errs = append(errs, oneOf("logging.format", cfg.Logging.Format, "json", "text", "console")...)

	if cfg.Metrics.Namespace == "" {
		errs = append(errs, FieldError{Field: "metrics.namespace", Message: "metrics namespace is required"})
	}
	if cfg.Watch.Debounce <= 0 {
		errs = append(errs, FieldError{
			Field:   "watch.debounce",
			Message: fmt.Sprintf("debounce must be positive, got %v", cfg.Watch.Debounce),
		})
	}

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}
	return nil
}

func validateRepository(cfg *RepositoryConfig) []FieldError {
	var errs []FieldError

	if cfg.Root == "" {
		errs = append(errs, FieldError{Field: "repository.root", Message: "repository root is required"})
	}
	errs = append(errs, oneOf("repository.mode", cfg.Mode, "worktree", "staged", "all")...)

	if cfg.To != "" && cfg.From == "" {
		errs = append(errs, FieldError{
			Field:   "repository.to",
			Message: "a range end requires repository.from",
		})
	}
	return errs
}

func oneOf(field, value string, allowed ...string) []FieldError {
	for _, a := range allowed {
		if value == a {
			return nil
		}
	}
	return []FieldError{{
		Field:   field,
		Message: fmt.Sprintf("invalid value %q: must be one of %s", value, strings.Join(allowed, ", ")),
	}}
}
