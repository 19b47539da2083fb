// Package telemetry groups canonguard's observability packages.
//
// # Components
//
//   - logging: slog logger construction (level and format parsing)
//   - metrics: per-run Prometheus metrics with textfile export
//
// Both are optional for library users: guard.Engine falls back to
// slog.Default() and records nothing unless given a Recorder.
package telemetry
