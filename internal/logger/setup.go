package logger

import (
	"io"
	"log/slog"
	"strings"
)

// Options configures the process-wide slog logger.
type Options struct {
	// Verbose enables debug-level output.
	Verbose bool
	// JSON switches the handler to JSON lines.
	JSON bool
	// Level overrides the level derived from Verbose when set (debug, info, warn, error).
	Level string
}

// Setup installs the default slog logger writing to w and returns it.
func Setup(w io.Writer, opts Options) *slog.Logger {
	level := slog.LevelWarn
	if opts.Verbose {
		level = slog.LevelDebug
	}
	if opts.Level != "" {
		level = ParseLevel(opts.Level)
	}

	hopts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if opts.JSON {
		handler = slog.NewJSONHandler(w, hopts)
	} else {
		handler = slog.NewTextHandler(w, hopts)
	}

	l := slog.New(handler)
	slog.SetDefault(l)
	return l
}

// ParseLevel converts a level name to slog.Level. Unknown names map to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
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
