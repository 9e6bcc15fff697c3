package logging

import (
	"context"
	"log/slog"

	"aircheck/internal/services"
)

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldStation is the standardized structured logging key for station names.
	FieldStation = "station"
	// FieldRunID is the standardized structured logging key for recording run identifiers.
	FieldRunID = "run_id"
	// FieldAttempt is the standardized structured logging key for capture attempt numbers.
	FieldAttempt = "attempt"
	// FieldSegment is the standardized structured logging key for segment file paths.
	FieldSegment = "segment"
	// FieldOutcome is the standardized structured logging key for segment outcomes.
	FieldOutcome = "outcome"
)

// ContextFields extracts standardized slog attributes from the provided context.
func ContextFields(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	fields := make([]slog.Attr, 0, 4)
	if component, ok := services.ComponentFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldComponent, component))
	}
	if station, ok := services.StationFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldStation, station))
	}
	if id, ok := services.RunIDFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldRunID, id))
	}
	if attempt, ok := services.AttemptFromContext(ctx); ok {
		fields = append(fields, slog.Int(FieldAttempt, attempt))
	}
	return fields
}

// WithContext returns a logger augmented with structured fields derived from
// the supplied context.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	fields := ContextFields(ctx)
	if len(fields) == 0 {
		return logger
	}
	return logger.With(attrsToArgs(fields)...)
}
