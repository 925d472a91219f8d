package main

import (
	"context"

	"portwatch/internal/cache"
	"portwatch/internal/config"
	"portwatch/internal/core/repository"
	"portwatch/internal/core/service"
	"portwatch/internal/feed"
	"portwatch/internal/logging"
)

// The ingest worker keeps a filtered AIS subscription flowing into storage
// for a bounded window, then exits cleanly so an external scheduler can
// restart it without runs overlapping.
func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to load configuration")
	}
	logging.Init(cfg.LogLevel, cfg.LogFormat)

	if cfg.AISSAPIKey == "" {
		logging.Fatal().Msg("AISS_API_KEY is required")
	}
	bbox, err := cfg.BoundingBox()
	if err != nil {
		logging.Fatal().Err(err).Msg("invalid bounding box")
	}

	ctx := context.Background()
	db, err := config.ConnectMongo(ctx, cfg)
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to connect to MongoDB")
	}

	positionRepo := repository.NewMongoPositionRepository(db)
	if err := positionRepo.EnsureIndexes(ctx); err != nil {
		logging.Fatal().Err(err).Msg("failed to ensure position indexes")
	}
	shipRepo := repository.NewMongoShipRepository(db)

	latest := cache.New(cfg.RedisURL)
	defer latest.Close()

	ingest := service.NewIngestService(positionRepo, shipRepo, latest)
	client := feed.NewClient(cfg.FeedURL, feed.NewSubscription(cfg.AISSAPIKey, bbox), cfg.QuietTimeout())

	runCtx, cancel := context.WithTimeout(ctx, cfg.RunWindow())
	defer cancel()

	logging.Info().
		Str("feed", cfg.FeedURL).
		Str("bbox", cfg.BBox).
		Dur("window", cfg.RunWindow()).
		Msg("starting ingest run")

	if err := client.Run(runCtx, ingest.HandleRaw); err != nil {
		logging.Fatal().Err(err).Msg("ingest run aborted")
	}
	logging.Info().Msg("ingest window complete")
}
