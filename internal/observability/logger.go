package observability

import (
	"log/slog"
	"os"
)

// NewLogger builds the process logger: JSON records, debug level in dev,
// wrapped so records carry trace ids whenever a span is active.
func NewLogger(env string) *slog.Logger {
	level := slog.LevelInfo

	if env == "dev" {
		level = slog.LevelDebug
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	})

	return slog.New(NewTraceHandler(handler))
}
