package config

import (
	"io"
	"log/slog"
	"strings"
)

// ServiceName tags every log record.
const ServiceName = "formflow"

// NewLogger builds the service logger: text in development, JSON when the
// format says so or in production.
func NewLogger(cfg Config, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(cfg.Log.Level)}

	var handler slog.Handler = slog.NewTextHandler(w, opts)
	if cfg.Log.Format == "json" || cfg.IsProduction() {
		handler = slog.NewJSONHandler(w, opts)
	}
	return slog.New(handler).With("service", ServiceName)
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
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
