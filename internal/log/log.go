// Package log provides structured logging for go-teleop. It wraps slog
// with process-wide defaults so packages can log without carrying a
// logger around.
package log

import (
	"log/slog"
	"os"
	"sync"
)

var (
	logger *slog.Logger
	once   sync.Once
)

// Init initializes the global logger. Level is one of "debug", "info",
// "warn", "error" (case insensitive); anything else falls back to info.
func Init(level string) {
	once.Do(func() {
		var lvl slog.Level
		if err := lvl.UnmarshalText([]byte(level)); err != nil {
			lvl = slog.LevelInfo
		}

		opts := &slog.HandlerOptions{
			Level: lvl,
		}

		// JSON in production, text for local runs
		out := os.Stdout
		if os.Getenv("GO_ENV") == "production" {
			logger = slog.New(slog.NewJSONHandler(out, opts))
		} else {
			logger = slog.New(slog.NewTextHandler(out, opts))
		}

		slog.SetDefault(logger)
	})
}

// L returns the global logger, initializing at info level if needed.
func L() *slog.Logger {
	if logger == nil {
		Init("info")
	}
	return logger
}

// Debug logs at debug level.
func Debug(msg string, args ...any) {
	L().Debug(msg, args...)
}

// Info logs at info level.
func Info(msg string, args ...any) {
	L().Info(msg, args...)
}

// Warn logs at warn level.
func Warn(msg string, args ...any) {
	L().Warn(msg, args...)
}

// Error logs at error level.
func Error(msg string, args ...any) {
	L().Error(msg, args...)
}

// With returns a logger carrying the given attributes.
func With(args ...any) *slog.Logger {
	return L().With(args...)
}
