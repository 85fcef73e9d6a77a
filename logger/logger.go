// Package logger configures the process-wide zerolog logger.
package logger

import (
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// New builds a logger writing to out. Pretty selects the human-readable
// console format; otherwise each entry is one JSON object. Unknown
// levels fall back to info.
func New(level string, pretty bool, out io.Writer) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	if pretty {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}
	return zerolog.New(out).Level(lvl).With().Timestamp().Logger()
}

// Initialize replaces the global logger and returns it.
func Initialize(level string, pretty bool, out io.Writer) *zerolog.Logger {
	log.Logger = New(level, pretty, out)
	return &log.Logger
}
