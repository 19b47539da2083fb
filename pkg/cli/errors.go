package cli

import (
	"errors"
	"fmt"

	"viholabs/canonguard/pkg/guard"
	"viholabs/canonguard/pkg/ruleset"
)

// Process exit codes.
const (
	ExitPass  = 0
	ExitUsage = 1
	ExitFail  = 2
)

// ErrGateFailed is returned by commands after a failing verdict has been
// reported.
var ErrGateFailed = errors.New("canon guard failed")

// ExitError carries an explicit exit code. If Reported is set the message
// has already been shown to the user.
type ExitError struct {
	Code     int
	Err      error
	Reported bool
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit status %d", e.Code)
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates a new ExitError.
func NewExitError(code int, err error) *ExitError {
	return &ExitError{Code: code, Err: err}
}

// Reported wraps err as an already-reported failure with exit code 2.
func Reported(err error) *ExitError {
	return &ExitError{Code: ExitFail, Err: err, Reported: true}
}

// CommandError represents an error from a command execution.
type CommandError struct {
	Command string
	Err     error
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("command %s failed: %v", e.Command, e.Err)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// NewCommandError creates a new CommandError.
func NewCommandError(command string, err error) *CommandError {
	return &CommandError{
		Command: command,
		Err:     err,
	}
}

// ExitCode maps err to a process exit code. Gate failures and ruleset
// errors exit with ExitFail; anything else is a usage error.
func ExitCode(err error) int {
	if err == nil {
		return ExitPass
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}

	var cfgErr *ruleset.ConfigError
	var violation *guard.Violation
	switch {
	case errors.As(err, &cfgErr), errors.As(err, &violation), errors.Is(err, ErrGateFailed):
		return ExitFail
	default:
		return ExitUsage
	}
}

// IsReported reports whether err has already been rendered to the user.
func IsReported(err error) bool {
	var exitErr *ExitError
	return errors.As(err, &exitErr) && exitErr.Reported
}
