package log

import (
	"io"
	"log/slog"
	"strings"
)

// SlogLevelFromString maps a configured level name to a slog level.
// Unknown names fall back to info.
func SlogLevelFromString(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// New returns a text logger writing to w, tagged with the component name.
func New(w io.Writer, level string, component string) *slog.Logger {
	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: SlogLevelFromString(level),
	}))

	if component == "" {
		return logger
	}
	return logger.With("component", component)
}
