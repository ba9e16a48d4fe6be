// Package obs contains observability utilities such as logging.
package obs

import (
	"io"
	"log/slog"
	"strings"

	"github.com/google/uuid"
)

// NewLogger builds a structured logger writing to w. format is "json" or
// "text"; anything else falls back to text. Every record carries the run id
// so output from one invocation can be grouped.
func NewLogger(w io.Writer, level slog.Level, format string, runID string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}

	var h slog.Handler
	if strings.EqualFold(format, "json") {
		h = slog.NewJSONHandler(w, opts)
	} else {
		h = slog.NewTextHandler(w, opts)
	}
	return slog.New(h).With("run_id", runID)
}

// NewRunID returns a fresh identifier for one CLI invocation.
func NewRunID() string {
	return uuid.NewString()
}
