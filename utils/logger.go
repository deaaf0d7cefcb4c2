package utils

import (
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
)

// NewLogger builds the process logger and installs it as the slog default. Development gets
// colored debug output, everything else plain info-level text.
func NewLogger(debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}

	logger := slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: time.DateTime,
		NoColor:    !debug,
	}))
	slog.SetDefault(logger)
	return logger
}
