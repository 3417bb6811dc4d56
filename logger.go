package abcsmc

import (
	"context"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with calibration-specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	return NewLogger(slog.DiscardHandler)
}

// WithGeneration adds a generation field to the logger.
func (l *Logger) WithGeneration(t int) *Logger {
	return &Logger{
		Logger: l.Logger.With("t", t),
	}
}

// WithDistance adds the distance name to the logger.
func (l *Logger) WithDistance(name string) *Logger {
	return &Logger{
		Logger: l.Logger.With("distance", name),
	}
}

// LogInitialize logs the first calibration of a distance.
func (l *Logger) LogInitialize(ctx context.Context, t, samples int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "distance initialization failed",
			"t", t,
			"samples", samples,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "distance initialized",
			"t", t,
			"samples", samples,
		)
	}
}

// LogUpdate logs a per-generation recalibration.
func (l *Logger) LogUpdate(ctx context.Context, t, samples int, changed bool, err error) {
	if err != nil {
		l.ErrorContext(ctx, "distance update failed",
			"t", t,
			"samples", samples,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "distance updated",
			"t", t,
			"samples", samples,
			"changed", changed,
		)
	}
}

// LogNormalize logs population normalization.
func (l *Logger) LogNormalize(ctx context.Context, t, particles, skipped int, err error) {
	switch {
	case err != nil:
		l.ErrorContext(ctx, "normalization failed",
			"t", t,
			"particles", particles,
			"error", err,
		)
	case skipped > 0:
		l.WarnContext(ctx, "normalization skipped empty particles",
			"t", t,
			"particles", particles,
			"skipped", skipped,
		)
	default:
		l.DebugContext(ctx, "population normalized",
			"t", t,
			"particles", particles,
		)
	}
}

// LogSnapshot logs a snapshot write.
func (l *Logger) LogSnapshot(ctx context.Context, t int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "snapshot failed",
			"t", t,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "snapshot saved",
			"t", t,
		)
	}
}
