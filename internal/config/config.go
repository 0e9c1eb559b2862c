// Package config loads and validates pipemux configuration from file,
// environment, and defaults.
package config

import "errors"

// Color mode values for report.color.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Config is the top-level configuration struct for pipemux.
// Field tags use mapstructure for viper unmarshalling.
type Config struct {
	Policy        PolicyConfig        `mapstructure:"policy" yaml:"policy"`
	Input         InputConfig         `mapstructure:"input" yaml:"input"`
	Report        ReportConfig        `mapstructure:"report" yaml:"report"`
	Observability ObservabilityConfig `mapstructure:"observability" yaml:"observability"`
}

// PolicyConfig holds the record admission policy.
type PolicyConfig struct {
	DiscardInvalidSequence bool `mapstructure:"discard_invalid_sequence" yaml:"discard_invalid_sequence"`
}

// InputConfig holds stream reading knobs.
type InputConfig struct {
	MaxLineBytes int `mapstructure:"max_line_bytes" yaml:"max_line_bytes"`
}

// ReportConfig holds report output settings.
type ReportConfig struct {
	Summary bool   `mapstructure:"summary" yaml:"summary"`
	Color   string `mapstructure:"color" yaml:"color"`
}

// ObservabilityConfig holds diagnostics and logging settings.
type ObservabilityConfig struct {
	// DiagnosticsAddr is the listen address for the /metrics and /healthz
	// HTTP endpoints. Empty disables the listener.
	DiagnosticsAddr string `mapstructure:"diagnostics_addr" yaml:"diagnostics_addr"`
	LogJSON         bool   `mapstructure:"log_json" yaml:"log_json"`
}

// Sentinel errors for configuration validation.
var (
	// ErrInvalidMaxLineBytes indicates a non-positive scanner buffer cap.
	ErrInvalidMaxLineBytes = errors.New("input.max_line_bytes must be positive")
	// ErrInvalidColorMode indicates an unrecognized report.color value.
	ErrInvalidColorMode = errors.New("report.color must be auto, always, or never")
)

// Validate checks cross-field constraints after unmarshalling.
func (c *Config) Validate() error {
	if c.Input.MaxLineBytes <= 0 {
		return ErrInvalidMaxLineBytes
	}

	switch c.Report.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return ErrInvalidColorMode
	}

	return nil
}
