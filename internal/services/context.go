package services

import "context"

type contextKey string

const (
	stationKey   contextKey = "station"
	runIDKey     contextKey = "run_id"
	attemptKey   contextKey = "attempt"
	componentKey contextKey = "component"
)

// WithStation annotates context with the station being recorded.
func WithStation(ctx context.Context, station string) context.Context {
	if station == "" {
		return ctx
	}
	return context.WithValue(ctx, stationKey, station)
}

// StationFromContext returns the station name if present.
func StationFromContext(ctx context.Context) (string, bool) {
	v := ctx.Value(stationKey)
	if str, ok := v.(string); ok && str != "" {
		return str, true
	}
	return "", false
}

// WithRunID annotates context with the recording run identifier.
func WithRunID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, runIDKey, id)
}

// RunIDFromContext returns the recording run identifier if present.
func RunIDFromContext(ctx context.Context) (string, bool) {
	v := ctx.Value(runIDKey)
	if str, ok := v.(string); ok && str != "" {
		return str, true
	}
	return "", false
}

// WithAttempt annotates context with the capture attempt number.
func WithAttempt(ctx context.Context, attempt int) context.Context {
	if attempt <= 0 {
		return ctx
	}
	return context.WithValue(ctx, attemptKey, attempt)
}

// AttemptFromContext returns the capture attempt number if present.
func AttemptFromContext(ctx context.Context) (int, bool) {
	v := ctx.Value(attemptKey)
	switch val := v.(type) {
	case int:
		return val, true
	case int64:
		return int(val), true
	default:
		return 0, false
	}
}

// WithComponent annotates context with the owning component name.
func WithComponent(ctx context.Context, component string) context.Context {
	if component == "" {
		return ctx
	}
	return context.WithValue(ctx, componentKey, component)
}

// ComponentFromContext returns the component name if present.
func ComponentFromContext(ctx context.Context) (string, bool) {
	v := ctx.Value(componentKey)
	if str, ok := v.(string); ok && str != "" {
		return str, true
	}
	return "", false
}
