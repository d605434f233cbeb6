// Package logging configures the process-wide slog default handler,
// grounded on sqldef's util.InitSlog: a level name from either the
// FASTQX_LOG_LEVEL environment variable or an explicit Config takes
// effect the same way, defaulting to info when unset or unrecognised.
package logging

import (
	"log/slog"
	"os"
	"strings"
)

// Init configures the default slog handler from FASTQX_LOG_LEVEL, falling
// back to level when the environment variable is unset.
func Init(level string) {
	if envLevel, ok := os.LookupEnv("FASTQX_LOG_LEVEL"); ok {
		level = envLevel
	}
	opts := &slog.HandlerOptions{Level: parseLevel(level)}
	handler := slog.NewTextHandler(os.Stderr, opts)
	slog.SetDefault(slog.New(handler))
}

func parseLevel(name string) slog.Level {
	switch strings.ToLower(name) {
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
