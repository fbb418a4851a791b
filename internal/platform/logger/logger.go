package logger

import (
	"log/slog"
	"os"
)

// New returns the process logger. Handlers and services receive it by
// injection; nothing logs through a package global.
func New() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
}
