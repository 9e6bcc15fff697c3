// Package logging builds the slog loggers used throughout aircheck.
//
// Two output formats are supported: a compact console format for interactive
// use and JSON for machine consumption. Standardized field keys live here so
// every component tags records the same way, and WithContext derives those
// fields from context values set by internal/services.
package logging
