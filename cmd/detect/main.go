package main

import (
	"context"

	"portwatch/internal/config"
	"portwatch/internal/core/repository"
	"portwatch/internal/core/service"
	"portwatch/internal/geo"
	"portwatch/internal/logging"
)

// The detect worker runs one idempotent port-call lifecycle pass and exits.
// It is meant to be invoked on a schedule.
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
	callRepo := repository.NewMongoPortCallRepository(db)
	if err := callRepo.EnsureIndexes(ctx); err != nil {
		logging.Fatal().Err(err).Msg("failed to ensure port-call indexes")
	}
	geofenceRepo := repository.NewMongoGeofenceRepository(db)

	port := mustZone(ctx, geofenceRepo, cfg.PortZoneID)
	anchorage := mustZone(ctx, geofenceRepo, cfg.AnchorageZoneID)

	detect := service.NewDetectService(positionRepo, callRepo, port, anchorage, cfg.StoppedSpeedKnots)
	summary, err := detect.Run(ctx)
	if err != nil {
		logging.Fatal().Err(err).Msg("detect cycle failed")
	}

	logging.Info().
		Int("vessels", summary.Vessels).
		Int("opened", summary.Opened).
		Int("closed", summary.Closed).
		Int("failed", summary.Failed).
		Msg("detect cycle complete")
}

func mustZone(ctx context.Context, geofences repository.GeofenceRepository, id string) geo.Zone {
	geofence, err := geofences.FindByID(ctx, id)
	if err != nil {
		logging.Fatal().Err(err).Str("zone", id).Msg("failed to load geofence")
	}
	if geofence == nil {
		logging.Fatal().Str("zone", id).Msg("geofence not loaded, run loadgeofences first")
	}

	zone, err := geo.FromGeoJSON(geofence.ID, []byte(geofence.Geometry))
	if err != nil {
		logging.Fatal().Err(err).Str("zone", id).Msg("invalid geofence geometry")
	}
	return zone
}
