// Package logging adapts zerolog to the structured logger interface the
// client accepts.
package logging

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// Logger emits structured log lines through zerolog.
type Logger struct {
	log zerolog.Logger
}

// New creates a logger writing JSON lines to w at the given level.
func New(w io.Writer, level zerolog.Level) *Logger {
	if w == nil {
		w = os.Stderr
	}

	return &Logger{
		log: zerolog.New(w).Level(level).With().Timestamp().Logger(),
	}
}

// NewDefault creates a logger writing to stderr at info level.
func NewDefault() *Logger {
	return New(os.Stderr, zerolog.InfoLevel)
}

// NewDebug creates a logger writing to stderr at debug level.
func NewDebug() *Logger {
	return New(os.Stderr, zerolog.DebugLevel)
}

// Debug logs at debug level.
func (l *Logger) Debug(msg string, fields map[string]interface{}) {
	l.log.Debug().Fields(fields).Msg(msg)
}

// Info logs at info level.
func (l *Logger) Info(msg string, fields map[string]interface{}) {
	l.log.Info().Fields(fields).Msg(msg)
}

// Warn logs at warn level.
func (l *Logger) Warn(msg string, fields map[string]interface{}) {
	l.log.Warn().Fields(fields).Msg(msg)
}

// Error logs at error level.
func (l *Logger) Error(msg string, fields map[string]interface{}) {
	l.log.Error().Fields(fields).Msg(msg)
}
