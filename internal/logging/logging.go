package logging

import (
	"io"
	"os"

	"github.com/phuslu/log"
)

// Console returns a logger writing human-readable lines to stderr, used
// by the headless subcommands.
func Console(level string) *log.Logger {
	return &log.Logger{
		Level: log.ParseLevel(level),
		Writer: &log.ConsoleWriter{
			ColorOutput: true,
			Writer:      os.Stderr,
		},
	}
}

// File returns a logger appending JSON lines to the given path. The TUI
// routes all logging here so nothing corrupts the alternate screen.
func File(level, path string) *log.Logger {
	return &log.Logger{
		Level: log.ParseLevel(level),
		Writer: &log.FileWriter{
			Filename:  path,
			LocalTime: true,
		},
	}
}

// Discard drops everything; used in tests.
func Discard() *log.Logger {
	return &log.Logger{
		Level:  log.ErrorLevel,
		Writer: &log.IOWriter{Writer: io.Discard},
	}
}
