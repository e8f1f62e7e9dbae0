// Package logtrace configures structured logging for the Chorify client and carries
// request identifiers through contexts.
package logtrace

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// DefaultLevel keeps command output free of diagnostics unless asked for.
const DefaultLevel = "warn"

// InitLogger initializes the global logger with Unix timestamps on stderr.
// When pretty is set the human readable console writer is used instead of JSON.
// Unknown levels fall back to DefaultLevel.
func InitLogger(level string, pretty bool) {
	InitLoggerWithWriter(os.Stderr, level, pretty)
}

// InitLoggerWithWriter is InitLogger with an explicit destination.
func InitLoggerWithWriter(w io.Writer, level string, pretty bool) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(ParseLevel(level))
	if pretty {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05"}
	}
	log.Logger = zerolog.New(w).With().Timestamp().Logger()
}

// ParseLevel converts a level name to a zerolog level.
func ParseLevel(level string) zerolog.Level {
	level = strings.ToLower(strings.TrimSpace(level))
	l, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		l, _ = zerolog.ParseLevel(DefaultLevel)
	}
	return l
}

// Component returns a child of the global logger tagged with the component name.
func Component(name string) zerolog.Logger {
	return log.With().Str("component", name).Logger()
}
