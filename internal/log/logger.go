// Package log configures the process-wide slog logger and names the
// structured fields and components shared across the codebase, so log
// lines stay greppable no matter which package emits them.
package log

import (
	"log/slog"
	"os"
)

// Init builds the process logger writing to stdout and installs it as
// the slog default. Both binaries call it first thing in main.
func Init(level slog.Level) *slog.Logger {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)
	return logger
}

// ForComponent returns the default logger tagged with a component name.
func ForComponent(component string) *slog.Logger {
	return slog.Default().With(FieldComponent, component)
}
