package loggy

import (
	"context"
)

type contextKey string

const (
	loggerKey  contextKey = "logger"
	cycleIDKey contextKey = "cycle_id"
)

// FromContext retrieves the logger from the context, falling back to the global logger
func FromContext(ctx context.Context) *Logger {
	if ctx == nil {
		return globalLogger
	}
	if logger, ok := ctx.Value(loggerKey).(*Logger); ok && logger != nil {
		return logger
	}
	return globalLogger
}

// WithLogger returns a new context with the logger attached
func WithLogger(ctx context.Context, logger *Logger) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, loggerKey, logger)
}

// CycleID retrieves the review cycle id from the context
func CycleID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(cycleIDKey).(string)
	return id
}

// WithCycleID attaches a review cycle id to the context and to the context's logger,
// so every record logged through FromContext carries it.
func WithCycleID(ctx context.Context, cycleID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = context.WithValue(ctx, cycleIDKey, cycleID)
	if logger := FromContext(ctx); logger != nil {
		ctx = WithLogger(ctx, logger.With("cycle_id", cycleID))
	}
	return ctx
}
