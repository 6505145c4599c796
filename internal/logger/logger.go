package logger

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// New builds a zerolog logger writing to stdout at level
func New(level string) zerolog.Logger {
	return NewWithWriter(os.Stdout, level)
}

// NewWithWriter builds a zerolog logger writing to w at level
func NewWithWriter(w io.Writer, level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}

	return zerolog.New(w).
		Level(lvl).
		With().
		Timestamp().
		Caller().
		Logger()
}

// Adapter exposes a zerolog logger through the key/value Logger interface
// used by the services.
type Adapter struct {
	log zerolog.Logger
}

// NewAdapter wraps log
func NewAdapter(log zerolog.Logger) *Adapter {
	return &Adapter{log: log}
}

func (a *Adapter) Debug(msg string, keysAndValues ...interface{}) {
	a.log.Debug().CallerSkipFrame(1).Fields(keysAndValues).Msg(msg)
}

func (a *Adapter) Info(msg string, keysAndValues ...interface{}) {
	a.log.Info().CallerSkipFrame(1).Fields(keysAndValues).Msg(msg)
}

func (a *Adapter) Error(msg string, keysAndValues ...interface{}) {
	a.log.Error().CallerSkipFrame(1).Fields(keysAndValues).Msg(msg)
}
