// Package logpkg builds the application logger.
package logpkg

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/pkgerrors"

	"github.com/go-petr/pet-ledger/pkg/configpkg"
)

// New returns logger configured for the given environment.
//
// Logs go to stderr so they never mix with the interactive output on stdout.
func New(config configpkg.Config) zerolog.Logger {
	return newLogger(config, os.Stderr)
}

func newLogger(config configpkg.Config, output io.Writer) zerolog.Logger {
	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack

	logLevel, err := zerolog.ParseLevel(config.LogLevel)
	if err != nil || config.LogLevel == "" {
		logLevel = zerolog.WarnLevel
	}

	log := zerolog.New(output).
		Level(logLevel).
		With().
		Timestamp().
		Logger()

	if config.Environment == "development" {
		log = log.
			Output(zerolog.ConsoleWriter{Out: output, TimeFormat: time.RFC3339}).
			Level(zerolog.TraceLevel).
			With().
			Caller().
			Logger()
	}

	return log
}

// WithSession tags logger with a fresh session id and stores it in ctx.
func WithSession(ctx context.Context, logger zerolog.Logger) (context.Context, string) {
	sessionID := uuid.NewString()

	logger = logger.With().Str("session_id", sessionID).Logger()

	return logger.WithContext(ctx), sessionID
}
