package logger

import (
	"context"
	"log/slog"
)

type contextKey struct{}

var loggerContextKey contextKey

// With derives a context whose logger carries the extra fields. Request
// middleware uses it to stamp the trace id and admin login once instead of
// repeating them at every call site.
func With(ctx context.Context, fields ...any) context.Context {
	return context.WithValue(ctx, loggerContextKey, From(ctx).With(fields...))
}

// From extracts the context-scoped logger, falling back to the process-wide
// one when the context carries none.
func From(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerContextKey).(*slog.Logger); ok {
		return l
	}
	return LoggerWrapper()
}
