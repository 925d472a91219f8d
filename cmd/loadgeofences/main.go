package main

import (
	"context"
	"os"
	"strings"

	"portwatch/internal/config"
	"portwatch/internal/core/model"
	"portwatch/internal/core/repository"
	"portwatch/internal/geo"
	"portwatch/internal/logging"
)

// loadgeofences upserts zone geometries into the geofence store. It is the
// out-of-band loader; the pipeline treats geofences as read-only.
//
// Usage: loadgeofences id=path.geojson [id=path.geojson ...]
func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to load configuration")
	}
	logging.Init(cfg.LogLevel, cfg.LogFormat)

	args := os.Args[1:]
	if len(args) == 0 {
		logging.Fatal().Msg("usage: loadgeofences id=path.geojson [id=path.geojson ...]")
	}

	ctx := context.Background()
	db, err := config.ConnectMongo(ctx, cfg)
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to connect to MongoDB")
	}
	geofenceRepo := repository.NewMongoGeofenceRepository(db)

	for _, arg := range args {
		id, path, found := strings.Cut(arg, "=")
		if !found || id == "" || path == "" {
			logging.Fatal().Str("arg", arg).Msg("argument must be id=path.geojson")
		}

		data, err := os.ReadFile(path)
		if err != nil {
			logging.Fatal().Err(err).Str("path", path).Msg("failed to read geofence file")
		}

		// Reject files the detector would choke on before they reach the store.
		if _, err := geo.FromGeoJSON(id, data); err != nil {
			logging.Fatal().Err(err).Str("zone", id).Msg("invalid geofence geometry")
		}

		geofence := &model.Geofence{ID: id, Geometry: string(data)}
		if err := geofenceRepo.Upsert(ctx, geofence); err != nil {
			logging.Fatal().Err(err).Str("zone", id).Msg("failed to store geofence")
		}
		logging.Info().Str("zone", id).Str("path", path).Msg("geofence loaded")
	}
}
