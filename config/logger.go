package config

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// NewLogger returns the process logger for the given environment, writing to stdout.
// Production uses a JSON handler; otherwise a text handler.
// LOG_LEVEL may be: debug, info, warn, error (default: info).
func NewLogger(env string) *slog.Logger {
	return newLogger(os.Stdout, env, os.Getenv("LOG_LEVEL"))
}

func newLogger(w io.Writer, env, levelName string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(levelName)}
	if env == "production" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
