package config

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// NewLogger builds the root logger described by the settings.
func NewLogger(s *Settings, out io.Writer) zerolog.Logger {
	if out == nil {
		out = os.Stdout
	}
	if s.LogFormat == "console" {
		out = zerolog.ConsoleWriter{Out: out}
	}

	level, err := zerolog.ParseLevel(s.LogLevel)
	if err != nil || s.LogLevel == "" {
		level = zerolog.InfoLevel
	}

	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}
