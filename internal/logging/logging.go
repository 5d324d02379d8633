// Package logging initializes the application-wide structured loggers.
package logging

import (
	"log/slog"
	"os"
	"sync"
)

var (
	structuredLogger *slog.Logger
	levelVar         slog.LevelVar
	initOnce         sync.Once
)

// Init initializes the logging system with a structured JSON logger on stdout.
// When debug is true the minimum level is lowered to Debug.
func Init(debug bool) {
	initOnce.Do(func() {
		levelVar.Set(slog.LevelInfo)
		if debug {
			levelVar.Set(slog.LevelDebug)
		}

		handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: &levelVar,
		})
		structuredLogger = slog.New(handler)
		slog.SetDefault(structuredLogger)
	})
}

// SetLevel adjusts the minimum logging level at runtime.
func SetLevel(level slog.Level) {
	levelVar.Set(level)
}

// ForService returns a child logger tagged with the given service name.
// Safe to call before Init; falls back to the default logger.
func ForService(service string) *slog.Logger {
	logger := structuredLogger
	if logger == nil {
		logger = slog.Default()
	}
	return logger.With("service", service)
}
