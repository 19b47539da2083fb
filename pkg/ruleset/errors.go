package ruleset

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownPhase indicates the requested phase is not defined in the ruleset.
var ErrUnknownPhase = errors.New("unknown phase")

// ConfigError reports a ruleset that cannot be used: missing, unreadable,
// malformed, or asked for a phase it does not define. It is always fatal.
type ConfigError struct {
	// Path is the ruleset location, if known.
	Path string

	// Message is a human-readable description.
	Message string

	// Cause is the underlying error, if any.
	Cause error
}

// Error returns the error message.
func (e *ConfigError) Error() string {
	prefix := "ruleset"
	if e.Path != "" {
		prefix = fmt.Sprintf("ruleset %s", e.Path)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.Message)
}

// Unwrap returns the underlying cause.
func (e *ConfigError) Unwrap() error {
	return e.Cause
}

// FieldError is a single schema problem at a dotted field path
// (e.g. "phases.UI_SHELL_ONLY.allowed_paths").
type FieldError struct {
	Field   string
	Message string
}

// Error returns the error message for this field error.
func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError collects every FieldError found in one document.
type ValidationError struct {
	Errors []FieldError
}

// Error returns a formatted string containing all validation errors.
func (e ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "validation failed"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%d validation errors:\n", len(e.Errors))
	for _, err := range e.Errors {
		fmt.Fprintf(&sb, "  - %s\n", err.Error())
	}
	return strings.TrimSuffix(sb.String(), "\n")
}

func newConfigError(path, message string, cause error) *ConfigError {
	return &ConfigError{Path: path, Message: message, Cause: cause}
}

// UnknownPhaseError builds the ConfigError returned when phase is not
// defined in r. The message lists the valid phase names.
func UnknownPhaseError(r *Ruleset, phase string) *ConfigError {
	valid := "(none)"
	if names := r.PhaseNames(); len(names) > 0 {
		valid = strings.Join(names, ", ")
	}
	return newConfigError(r.Source(),
		fmt.Sprintf("phase %q is not defined (valid phases: %s)", phase, valid),
		ErrUnknownPhase)
}
