// Package logger wraps zerolog with the small amount of setup the
// services share: level parsing, console vs JSON output, and a
// per-component child logger helper.
package logger

import (
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Config controls logger construction.
type Config struct {
	Level  string `json:"level"`  // trace, debug, info, warn, error
	Format string `json:"format"` // "console" or "json"
}

// Logger wraps zerolog.Logger.
type Logger struct {
	zerolog.Logger
}

// New builds a logger from cfg. Unknown levels fall back to info.
func New(cfg Config) *Logger {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}

	var l zerolog.Logger

	if cfg.Format == "console" {
		out := zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
		}
		l = zerolog.New(out).Level(level).With().Timestamp().Logger()
	} else {
		l = zerolog.New(os.Stdout).Level(level).With().Timestamp().Logger()
	}

	return &Logger{l}
}

// Component returns a child logger tagged with a component name.
func (l *Logger) Component(name string) *Logger {
	child := l.With().Str("component", name).Logger()
	return &Logger{child}
}

// Nop returns a logger that discards everything. Used in tests.
func Nop() *Logger {
	return &Logger{zerolog.Nop()}
}
