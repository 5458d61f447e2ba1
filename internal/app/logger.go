package app

import (
	"io"
	"log/slog"
)

// newLogger builds the app instance's own logger from the host-level
// flags. The global default logger is never touched, so concurrent App
// instances (the integration harness runs many) log independently.
func newLogger(level, format string, outW io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(level)}
	if format == "json" {
		return slog.New(slog.NewJSONHandler(outW, opts))
	}
	return slog.New(slog.NewTextHandler(outW, opts))
}

// parseLevel maps the cli-validated level strings to slog levels. An
// unrecognized value degrades to the cli default rather than failing a
// running app.
func parseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}
