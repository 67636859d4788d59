package logger

import (
	"log/slog"
	"os"
	"strings"
)

// New returns the process-wide structured logger. JSON on stdout; level from
// CASEFLOW_LOG_LEVEL (debug|info|warn|error), defaulting to info.
func New() *slog.Logger {
	level := slog.LevelInfo
	switch strings.ToLower(os.Getenv("CASEFLOW_LOG_LEVEL")) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
}
