// Package logging configures colored structured logging with tint.
//
// Usage:
//
//	logging.SetupWithLevel(slog.LevelDebug)
//	logging.SetupWithLevel(logging.ParseLevel(cfg.LogLevel))
//
// The server reads the level from the LOG_LEVEL setting of its config.
package logging

import (
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

// SetupWithLevel configures colored logging at the given level.
func SetupWithLevel(level slog.Level) {
	slog.SetDefault(slog.New(
		tint.NewHandler(os.Stderr, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
			AddSource:  true,
		}),
	))
}

// ParseLevel maps debug, warn and error to their slog levels.
// Anything else is INFO.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
