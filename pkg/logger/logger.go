// Package logger provides the structured logger used across timemap.
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/cockroachdb/errors"
)

// LogFilePermissions is the mode for log files created by NewFileLogger.
const LogFilePermissions = 0o600

// Logger provides structured logging with key-value pairs.
type Logger interface {
	// Debug logs verbose diagnostics, such as every instrumented callable.
	Debug(msg string, keysAndValues ...any)

	// Info logs lifecycle events.
	Info(msg string, keysAndValues ...any)

	// Error logs failures.
	Error(msg string, keysAndValues ...any)

	// With returns a logger that prepends keysAndValues to every entry.
	With(keysAndValues ...any) Logger
}

// SlogAdapter implements Logger on top of a slog.Logger.
type SlogAdapter struct {
	logger  *slog.Logger
	handler *CustomHandler
}

// NewFileLogger opens (or creates) path for appending and logs to it at level.
func NewFileLogger(path string, level Level) (*SlogAdapter, error) {
	//nolint:gosec // path comes from the user's own configuration
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, LogFilePermissions)
	if err != nil {
		return nil, errors.Wrapf(err, "opening log file %s", path)
	}

	return newAdapter(NewHandler(file, level)), nil
}

// NewWriterLogger logs to w at level.
func NewWriterLogger(w io.Writer, level Level) *SlogAdapter {
	return newAdapter(NewHandler(w, level))
}

func newAdapter(h *CustomHandler) *SlogAdapter {
	return &SlogAdapter{logger: slog.New(h), handler: h}
}

// Debug logs at debug level.
func (a *SlogAdapter) Debug(msg string, keysAndValues ...any) {
	a.logger.Log(context.Background(), slog.LevelDebug, msg, keysAndValues...)
}

// Info logs at info level.
func (a *SlogAdapter) Info(msg string, keysAndValues ...any) {
	a.logger.Log(context.Background(), slog.LevelInfo, msg, keysAndValues...)
}

// Error logs at error level.
func (a *SlogAdapter) Error(msg string, keysAndValues ...any) {
	a.logger.Log(context.Background(), slog.LevelError, msg, keysAndValues...)
}

// With returns a child logger carrying keysAndValues.
//
//nolint:ireturn // With is intended to return an interface for chaining
func (a *SlogAdapter) With(keysAndValues ...any) Logger {
	return &SlogAdapter{logger: a.logger.With(keysAndValues...), handler: a.handler}
}

// Slog exposes the underlying slog.Logger.
func (a *SlogAdapter) Slog() *slog.Logger {
	return a.logger
}

// Close closes the destination when it is a file.
func (a *SlogAdapter) Close() error {
	return a.handler.Close()
}

// NoOpLogger discards everything.
type NoOpLogger struct{}

// NewNoOpLogger creates a new NoOpLogger.
func NewNoOpLogger() *NoOpLogger {
	return &NoOpLogger{}
}

// Debug does nothing.
func (*NoOpLogger) Debug(string, ...any) {}

// Info does nothing.
func (*NoOpLogger) Info(string, ...any) {}

// Error does nothing.
func (*NoOpLogger) Error(string, ...any) {}

// With returns the same NoOpLogger.
//
//nolint:ireturn // With is intended to return an interface for chaining
func (n *NoOpLogger) With(...any) Logger {
	return n
}
