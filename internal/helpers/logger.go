package helpers

import (
	"io"
	"log/slog"
	"strings"

	"github.com/golang-cz/devslog"
)

// Log formats accepted by NewLogger.
const (
	LogFormatJSON = "json"
	LogFormatText = "text"
	LogFormatDev  = "dev"
)

func NewNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// NewLogger returns a logger writing to w in the given format. Unknown formats fall back to JSON.
func NewLogger(w io.Writer, format string, level slog.Leveler, addSource bool) *slog.Logger {
	opts := &slog.HandlerOptions{
		AddSource: addSource,
		Level:     level,
	}

	var handler slog.Handler
	switch strings.ToLower(strings.TrimSpace(format)) {
	case LogFormatText:
		handler = slog.NewTextHandler(w, opts)
	case LogFormatDev:
		handler = devslog.NewHandler(w, &devslog.Options{
			HandlerOptions: opts,
		})
	default:
		handler = slog.NewJSONHandler(w, opts)
	}
	return slog.New(handler)
}
