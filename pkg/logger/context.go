package logger

import (
	"context"
	"log/slog"
)

type contextKey struct{}

// ToContext stores a request-scoped logger.
func ToContext(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, logger)
}

// FromContext never returns nil; without a stored logger it falls back to
// slog.Default.
func FromContext(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(contextKey{}).(*slog.Logger); ok {
		return logger
	}
	return slog.Default()
}

// With adds attributes to the context logger and stores the result, so
// later calls on the same request carry them too:
//
//	log, ctx := logger.With(ctx, "dataset_id", ds.ID)
func With(ctx context.Context, args ...any) (*slog.Logger, context.Context) {
	logger := FromContext(ctx).With(args...)
	return logger, ToContext(ctx, logger)
}
