package app

import (
	"log/slog"
	"os"
)

const logFormatJSON = "json"

// NewLogger builds the process logger. LOG_FORMAT=json selects structured
// output for aggregated sinks; anything else gets the readable text handler.
// Every record carries the service name so primary and replica connection
// logs stay attributable in shared log streams.
func NewLogger(cfg *Config) *slog.Logger {
	opts := &slog.HandlerOptions{AddSource: true}

	var handler slog.Handler = slog.NewTextHandler(os.Stdout, opts)
	if cfg != nil && cfg.LogFormat == logFormatJSON {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	return slog.New(handler).With(slog.String("service", "roster"))
}
