package logger

import (
	"context"
	"log/slog"
)

// contextKey is a private type for context keys defined in this package.
type contextKey struct{}

// loggerKey is the context key under which a request-scoped logger is stored.
var loggerKey = contextKey{}

// WithContext returns a new context carrying the given logger.
// Handlers and middleware use this to attach request-scoped attributes
// (such as the trace ID) that downstream code picks up transparently.
func WithContext(ctx context.Context, log *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, log)
}

// FromContext retrieves the logger stored in the context.
// Falls back to slog.Default() when the context carries no logger.
func FromContext(ctx context.Context) *slog.Logger {
	if ctx != nil {
		if log, ok := ctx.Value(loggerKey).(*slog.Logger); ok && log != nil {
			return log
		}
	}
	return slog.Default()
}

// FromContextOrDefault retrieves the logger stored in the context,
// falling back to the provided default rather than slog.Default().
// Components pass their component-scoped logger as the fallback so log
// lines stay attributable even outside a request.
func FromContextOrDefault(ctx context.Context, def *slog.Logger) *slog.Logger {
	if ctx != nil {
		if log, ok := ctx.Value(loggerKey).(*slog.Logger); ok && log != nil {
			return log
		}
	}
	if def != nil {
		return def
	}
	return slog.Default()
}
