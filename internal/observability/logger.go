package observability

import (
	"io"
	"log/slog"
)

// runIDKey is the log attribute carrying the unique id of one ingest run.
const runIDKey = "run_id"

// NewLogger builds the process logger writing to w, tagged with the run id.
func NewLogger(w io.Writer, cfg Config, runID string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.LogLevel}

	var handler slog.Handler
	if cfg.LogJSON {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	return slog.New(handler).With(runIDKey, runID)
}
