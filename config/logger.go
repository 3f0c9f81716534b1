package config

import (
	"io"
	"log/slog"
	"os"
)

// NewLogger builds the JSON logger used across the service and installs it as the slog default
func NewLogger(cfg *Config) *slog.Logger {
	logger := newLogger(os.Stdout, cfg.LogLevel, cfg.ServiceName)
	slog.SetDefault(logger)
	return logger
}

func newLogger(w io.Writer, level, service string) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: parseLevel(level)})).
		With(slog.String("service", service))
}

func parseLevel(level string) slog.Level {
	switch level {
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
