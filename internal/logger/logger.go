// Package logger builds the zerolog loggers used by the CLI and the server.
package logger

import (
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Format names accepted by Setup.
const (
	FormatJSON   = "json"
	FormatPretty = "pretty"
)

// Setup returns a logger writing to w.
//   - level: trace, debug, info, warn, error (anything else is info)
//   - format: "json" for production, "pretty" for human-readable output
//
// The level is set on the returned logger, not globally, so several
// loggers can coexist in tests.
func Setup(w io.Writer, level, format string) zerolog.Logger {
	writer := w
	if strings.EqualFold(format, FormatPretty) {
		writer = zerolog.ConsoleWriter{
			Out:        w,
			TimeFormat: time.RFC3339,
		}
	}

	return zerolog.New(writer).
		Level(ParseLevel(level)).
		With().
		Timestamp().
		Logger()
}

// ParseLevel parses level, defaulting to info.
func ParseLevel(level string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || level == "" {
		return zerolog.InfoLevel
	}
	return lvl
}

// CLI returns the console logger for command-line runs: warnings only,
// debug when verbose, nothing when quiet.
func CLI(w io.Writer, verbose, quiet bool) zerolog.Logger {
	switch {
	case quiet:
		return zerolog.Nop()
	case verbose:
		return Setup(w, "debug", FormatPretty)
	default:
		return Setup(w, "warn", FormatPretty)
	}
}
