// Package main runs the interactive bank ledger menu.
package main

import (
	"context"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/go-petr/pet-ledger/internal/cli"
	"github.com/go-petr/pet-ledger/internal/ledger"
	"github.com/go-petr/pet-ledger/pkg/configpkg"
	"github.com/go-petr/pet-ledger/pkg/logpkg"
)

func main() {
	config, err := configpkg.Load("./configs")
	if err != nil {
		log.Fatal().Err(err).Msg("cannot load config")
	}

	logger := logpkg.New(config)

	ctx, sessionID := logpkg.WithSession(context.Background(), logger)

	handler, err := cli.NewHandler(ledger.New(), config.BankName, os.Stdin, os.Stdout)
	if err != nil {
		logger.Fatal().Err(err).Msg("cannot create menu handler")
	}

	logger.Info().Str("session_id", sessionID).Msg("LEDGER SESSION HAS STARTED")

	if err := handler.Run(ctx); err != nil {
		logger.Fatal().Err(err).Str("session_id", sessionID).Msg("session ended abnormally")
	}
}
