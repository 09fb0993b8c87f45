package main

import (
	"context"
	"database/sql"
	"net/http"

	"github.com/rs/zerolog/log"

	_ "github.com/lib/pq"

	"github.com/ceobank/ceo-bank/cmd/httpserver"
	"github.com/ceobank/ceo-bank/internal/accountrepo"
	"github.com/ceobank/ceo-bank/internal/middleware"
	"github.com/ceobank/ceo-bank/internal/seed"
	"github.com/ceobank/ceo-bank/pkg/configpkg"
)

func main() {
	config, err := configpkg.Load("./configs")
	if err != nil {
		log.Fatal().Err(err).Msg("cannot load config")
	}

	logger := middleware.CreateLogger(config)

	conn, err := sql.Open(config.DBDriver, config.DBSource)
	if err != nil {
		logger.Fatal().Err(err).Msg("cannot connect to db")
	}

	ctx := logger.WithContext(context.Background())

	if err := seed.Run(ctx, accountrepo.NewRepoPGS(conn), config, seed.DefaultUsers); err != nil {
		logger.Fatal().Err(err).Msg("cannot seed accounts")
	}

	server, err := httpserver.New(conn, logger, config)
	if err != nil {
		logger.Fatal().Err(err).Msg("cannot create server")
	}

	logger.Info().Str("address", config.ServerAddress).Msg("starting server")

	if err := http.ListenAndServe(config.ServerAddress, server); err != nil {
		logger.Fatal().Err(err).Msg("cannot start server")
	}
}
