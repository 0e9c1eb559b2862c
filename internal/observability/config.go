// Package observability provides OpenTelemetry-based metrics and
// structured logging for the pipemux CLI.
package observability

import "log/slog"

// defaultServiceName is the default OTel instrumentation scope name.
const defaultServiceName = "pipemux"

// Config holds all observability configuration.
type Config struct {
	// ServiceName is the OTel instrumentation scope name.
	ServiceName string

	// DiagnosticsAddr is the listen address for the diagnostics HTTP
	// server. Empty disables the listener.
	DiagnosticsAddr string

	// LogLevel controls the minimum slog severity.
	LogLevel slog.Level

	// LogJSON enables JSON-formatted log output.
	LogJSON bool
}

// DefaultConfig returns a Config with sensible defaults for zero-config startup.
func DefaultConfig() Config {
	return Config{
		ServiceName: defaultServiceName,
		LogLevel:    slog.LevelInfo,
	}
}
