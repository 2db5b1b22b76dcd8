// Package logx bootstraps zerolog loggers with console-friendly defaults.
//
// Library packages in this module take a zerolog.Logger and default to a
// no-op one; logx is for the binaries (and tests) that want real output
// without repeating the setup dance.
package logx

import (
	"os"
	"strings"

	"github.com/rs/zerolog"
)

const timeFormat = "2006-01-02T15:04:05.000Z07:00"

// New returns a console logger at the given level. Unknown level strings
// mean info.
func New(level string) zerolog.Logger {
	zerolog.TimeFieldFormat = timeFormat
	cw := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: timeFormat}
	return zerolog.New(cw).Level(ParseLevel(level)).With().Timestamp().Logger()
}

// Nop returns a logger that never writes.
func Nop() zerolog.Logger { return zerolog.Nop() }

// ParseLevel maps a level name to a zerolog level, defaulting to info.
func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "info", "":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
