// Package log provides a leveled logger built on the standard library's slog package.
//
// By default it writes JSON (or text when LOG_FORMAT=text) to os.Stderr. The
// level is controlled globally via SetLevel and is typically initialized from
// the --log-level flag or the LOG_LEVEL environment variable in main.
//
// SetOutput redirects log output, primarily for tests; it returns a function
// that restores the previous writer.
package log

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

var (
	logger        *slog.Logger
	globalLeveler           = &slog.LevelVar{}
	outputWriter  io.Writer = os.Stderr

	// ErrInvalidLogLevel indicates an invalid log level string was provided.
	ErrInvalidLogLevel = fmt.Errorf("invalid log level")
)

func init() {
	globalLeveler.Set(slog.LevelInfo)
	configureLogger()
}

// configureLogger rebuilds the logger from the current global state
// (outputWriter and globalLeveler).
func configureLogger() {
	opts := &slog.HandlerOptions{Level: globalLeveler}

	var handler slog.Handler
	if strings.ToLower(os.Getenv("LOG_FORMAT")) == "text" {
		handler = slog.NewTextHandler(outputWriter, opts)
	} else {
		handler = slog.NewJSONHandler(outputWriter, opts)
	}
	logger = slog.New(handler)
}

// SetOutput changes the output destination for the logger and returns a
// function that restores the original writer. Intended for testing.
func SetOutput(w io.Writer) (restore func()) {
	originalWriter := outputWriter
	outputWriter = w
	configureLogger()
	return func() {
		outputWriter = originalWriter
		configureLogger()
	}
}

// Debug logs a debug message with optional key-value pairs.
func Debug(msg string, args ...any) {
	logger.Debug(msg, args...)
}

// Info logs an info message with optional key-value pairs.
func Info(msg string, args ...any) {
	logger.Info(msg, args...)
}

// Warn logs a warning message with optional key-value pairs.
func Warn(msg string, args ...any) {
	logger.Warn(msg, args...)
}

// Error logs an error message with optional key-value pairs.
func Error(msg string, args ...any) {
	logger.Error(msg, args...)
}

// Debugf logs a formatted debug message.
func Debugf(format string, args ...any) {
	logger.Debug(fmt.Sprintf(format, args...))
}

// Infof logs a formatted info message.
func Infof(format string, args ...any) {
	logger.Info(fmt.Sprintf(format, args...))
}

// Warnf logs a formatted warning message.
func Warnf(format string, args ...any) {
	logger.Warn(fmt.Sprintf(format, args...))
}

// Errorf logs a formatted error message.
func Errorf(format string, args ...any) {
	logger.Error(fmt.Sprintf(format, args...))
}

// Logger returns the underlying slog.Logger.
func Logger() *slog.Logger {
	return logger
}

// SetLevel changes the log level at runtime.
func SetLevel(level slog.Level) {
	globalLeveler.Set(level)
}

// CurrentLevel returns the currently configured level.
func CurrentLevel() slog.Level {
	return globalLeveler.Level()
}

// IsDebugEnabled reports whether debug logging is active.
func IsDebugEnabled() bool {
	return globalLeveler.Level() <= slog.LevelDebug
}

// ParseLevel parses a level string ("debug", "info", "warn", "error").
// On failure it returns slog.LevelInfo along with ErrInvalidLogLevel.
func ParseLevel(levelStr string) (slog.Level, error) {
	switch strings.ToUpper(levelStr) {
	case "DEBUG":
		return slog.LevelDebug, nil
	case "INFO":
		return slog.LevelInfo, nil
	case "WARN", "WARNING":
		return slog.LevelWarn, nil
	case "ERROR":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("%w: %s", ErrInvalidLogLevel, levelStr)
	}
}
