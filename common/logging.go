package common

import (
	"io"
	"log/slog"
	"os"

	"github.com/charmbracelet/log"
)

// SetupLogging assigns a charmbracelet/log handler, writing to STDERR, as the default slog logger.
// If verbose is true debug messages, timestamps and callers are reported.
func SetupLogging(verbose bool) *slog.Logger {
	return SetupLoggingWithWriter(os.Stderr, verbose)
}

// SetupLoggingWithWriter assigns a charmbracelet/log handler, writing to wr, as the default slog logger.
func SetupLoggingWithWriter(wr io.Writer, verbose bool) *slog.Logger {

	level := log.InfoLevel

	if verbose {
		level = log.DebugLevel
	}

	h := log.NewWithOptions(wr, log.Options{
		Level:           level,
		ReportTimestamp: verbose,
		ReportCaller:    verbose,
	})

	logger := slog.New(h)
	slog.SetDefault(logger)

	return logger
}
