package log

import (
	"context"
	"log/slog"
	"os"
)

// DefaultContextProvider returns the context used by the context-unaware
// logging functions. It can be replaced to thread a process-wide context
// through logging calls.
var DefaultContextProvider = context.TODO

// defaultLog is the package-level logger used by the free functions.
var defaultLog = Make(os.Stderr)

// Config replaces the package-level logger with one configured by the given
// options, applied over the current configuration.
func Config(opts ...Option) {
	defaultLog = defaultLog.Wrap(opts...)
}

// Default returns the package-level logger.
func Default() Logger { return defaultLog }

// With returns a copy of the package-level logger that includes the given
// attributes in each log message.
func With(attrs ...slog.Attr) Logger { return defaultLog.With(attrs...) }

// Trace logs a message at Trace level using the package-level logger.
func Trace(msg string, attrs ...slog.Attr) { defaultLog.Trace(msg, attrs...) }

// Debug logs a message at Debug level using the package-level logger.
func Debug(msg string, attrs ...slog.Attr) { defaultLog.Debug(msg, attrs...) }

// Info logs a message at Info level using the package-level logger.
func Info(msg string, attrs ...slog.Attr) { defaultLog.Info(msg, attrs...) }

// Warn logs a message at Warn level using the package-level logger.
func Warn(msg string, attrs ...slog.Attr) { defaultLog.Warn(msg, attrs...) }

// Error logs a message at Error level using the package-level logger.
func Error(msg string, attrs ...slog.Attr) { defaultLog.Error(msg, attrs...) }

// TraceContext logs a message at Trace level with the provided context.
func TraceContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	defaultLog.TraceContext(ctx, msg, attrs...)
}

// DebugContext logs a message at Debug level with the provided context.
func DebugContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	defaultLog.DebugContext(ctx, msg, attrs...)
}

// InfoContext logs a message at Info level with the provided context.
func InfoContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	defaultLog.InfoContext(ctx, msg, attrs...)
}

// WarnContext logs a message at Warn level with the provided context.
func WarnContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	defaultLog.WarnContext(ctx, msg, attrs...)
}

// ErrorContext logs a message at Error level with the provided context.
func ErrorContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	defaultLog.ErrorContext(ctx, msg, attrs...)
}
