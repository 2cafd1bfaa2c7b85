package app

import (
	"log/slog"
	"os"
)

// NewLogger builds the process logger. The JSON handler is meant for
// production log shipping; the text handler reads better on a terminal.
func NewLogger(cfg *Config) *slog.Logger {
	var handler slog.Handler
	if cfg != nil && cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{AddSource: true})
	} else {
		handler = slog.NewTextHandler(os.Stdout, nil)
	}
	return slog.New(handler).With(slog.String("service", "posada"))
}
