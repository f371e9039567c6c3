// Package logger configures the service-wide structured logger.
package logger

import (
	"log/slog"
	"os"
	"strings"
)

// New builds a text logger on stderr at the given level. Verbose mode
// overrides the level to DEBUG.
func New(level string, verbose bool) *slog.Logger {
	lvl := ParseLevel(level)
	if verbose {
		lvl = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})
	return slog.New(handler)
}

// ParseLevel converts a level name to a slog.Level, defaulting to INFO for
// anything it does not recognise.
func ParseLevel(level string) slog.Level {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
