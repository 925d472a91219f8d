package main

import (
	"context"
	"net/http"

	"portwatch/internal/api/router"
	"portwatch/internal/cache"
	"portwatch/internal/config"
	"portwatch/internal/core/repository"
	"portwatch/internal/logging"
)

// The server exposes the read-only queries dashboards need over the tables
// the pipeline maintains.
func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to load configuration")
	}
	logging.Init(cfg.LogLevel, cfg.LogFormat)

	ctx := context.Background()
	db, err := config.ConnectMongo(ctx, cfg)
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to connect to MongoDB")
	}

	positionRepo := repository.NewMongoPositionRepository(db)
	shipRepo := repository.NewMongoShipRepository(db)
	callRepo := repository.NewMongoPortCallRepository(db)

	latest := cache.New(cfg.RedisURL)
	defer latest.Close()

	r := router.NewRouter(positionRepo, shipRepo, callRepo, latest, cfg.JWTSecret)

	logging.Info().Str("addr", cfg.HTTPAddr).Msg("server starting")
	if err := http.ListenAndServe(cfg.HTTPAddr, r); err != nil {
		logging.Fatal().Err(err).Msg("server failed")
	}
}
