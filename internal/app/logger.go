package app

import (
	"io"
	"log/slog"
)

// newLogger creates an isolated slog.Logger writing to w. Unknown levels
// fall back to info and unknown formats to text; the CLI has already
// rejected both by the time a real run gets here.
func newLogger(levelStr, formatStr string, w io.Writer) *slog.Logger {
	level := slog.LevelInfo
	if err := level.UnmarshalText([]byte(levelStr)); err != nil {
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	switch formatStr {
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts))
	default:
		return slog.New(slog.NewTextHandler(w, opts))
	}
}
