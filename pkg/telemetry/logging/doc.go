// Package logging builds the structured logger used across canonguard.
//
// The logger is a plain *slog.Logger configured from a level and a format
// string. Logs go to stderr by default so they never mix with gate output
// on stdout.
//
//	logger, err := logging.New(logging.Config{
//	    Level:  "info",
//	    Format: "json",
//	})
//	if err != nil {
//	    return err
//	}
//	logger.Info("evaluating", "phase", "UI_SHELL_ONLY")
//
// Formats:
//   - json: one JSON object per line
//   - text: key=value pairs
//   - console: short human-readable lines without timestamps
package logging
