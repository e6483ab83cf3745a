package config

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// DefaultLogLevel is used when the configured level is empty or invalid
const DefaultLogLevel = zerolog.InfoLevel

// NewLogger creates a human-readable console logger writing to out.
// An empty or invalid level falls back to info.
func NewLogger(out io.Writer, level string) zerolog.Logger {
	if out == nil {
		out = os.Stderr
	}

	logger := zerolog.New(zerolog.ConsoleWriter{
		Out:     out,
		NoColor: true,
	}).With().Timestamp().Logger()

	lvl := DefaultLogLevel
	if level = strings.TrimSpace(level); level != "" {
		if parsed, err := zerolog.ParseLevel(strings.ToLower(level)); err == nil && parsed != zerolog.NoLevel {
			lvl = parsed
		} else {
			logger.Warn().Str("invalid_level", level).Msg("Invalid log level, using default 'info'")
		}
	}

	return logger.Level(lvl)
}
