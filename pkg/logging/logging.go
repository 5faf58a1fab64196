// Package logging configures the process-wide log/slog default logger.
//
// CLI invocations log human-readable text to stderr; the HTTP server logs
// JSON so that log collectors can parse it. The level is taken from the
// LOG_LEVEL environment variable unless a caller passes one explicitly.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// EnvLogLevel is the environment variable consulted for the default level.
const EnvLogLevel = "LOG_LEVEL"

// ParseLevel converts a level name (debug, info, warn, error) into a slog.Level.
// Unknown or empty values map to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// LevelFromEnv returns the level configured in LOG_LEVEL.
func LevelFromEnv() slog.Level {
	return ParseLevel(os.Getenv(EnvLogLevel))
}

// New builds a logger writing to w.
func New(w io.Writer, level slog.Level, json bool) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	if json {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// SetDefaultCLILogger installs a logger for command-line use writing to w,
// or to stderr when w is nil.
func SetDefaultCLILogger(w io.Writer, level slog.Level, json bool) {
	if w == nil {
		w = os.Stderr
	}
	slog.SetDefault(New(w, level, json))
}

// SetDefaultStructuredLogger installs a JSON logger tagged with the service
// name and version, for long-running processes.
func SetDefaultStructuredLogger(name, version string) {
	logger := New(os.Stderr, LevelFromEnv(), true).With(
		slog.String("service", name),
		slog.String("version", version),
	)
	slog.SetDefault(logger)
}
