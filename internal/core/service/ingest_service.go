package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"portwatch/internal/cache"
	"portwatch/internal/core/model"
	"portwatch/internal/core/repository"
	"portwatch/internal/feed"
	"portwatch/internal/logging"
)

// IngestService turns raw feed messages into stored records. HandleRaw is the
// per-message pipeline behind feed.Client.Run: it swallows feed noise and
// returns an error only when storage fails, which aborts the run. Dropping
// storage errors would punch silent holes in the position history.
type IngestService interface {
	HandleRaw(ctx context.Context, raw []byte) error
}

type ingestService struct {
	positions repository.PositionRepository
	ships     repository.ShipRepository
	latest    *cache.Cache
	now       func() time.Time
}

func NewIngestService(positions repository.PositionRepository, ships repository.ShipRepository, latest *cache.Cache) IngestService {
	return &ingestService{
		positions: positions,
		ships:     ships,
		latest:    latest,
		now:       time.Now,
	}
}

func (s *ingestService) HandleRaw(ctx context.Context, raw []byte) error {
	report, err := feed.Decode(raw)
	if err != nil {
		if errors.Is(err, feed.ErrUnknownMessageType) {
			logging.Debug().Err(err).Msg("skipping unhandled feed message")
			return nil
		}
		logging.Warn().Err(err).Int("bytes", len(raw)).Msg("dropping malformed feed message")
		return nil
	}

	switch r := report.(type) {
	case *feed.PositionReport:
		return s.handlePosition(ctx, r)
	case *feed.StaticReport:
		return s.handleStatic(ctx, r)
	}
	return nil
}

func (s *ingestService) handlePosition(ctx context.Context, report *feed.PositionReport) error {
	// Incomplete reports are normal feed noise, not errors.
	if report.UserID == nil || report.Latitude == nil || report.Longitude == nil {
		return nil
	}

	// Receipt time is our clock, not the feed's.
	position := model.NewPosition(*report.UserID, *report.Latitude, *report.Longitude, s.now().UTC())
	position.SOG = report.SOG
	position.COG = report.COG
	position.NavStatus = report.NavStatus

	if err := s.positions.Create(ctx, position); err != nil {
		return fmt.Errorf("store position for %d: %w", position.MMSI, err)
	}

	if err := s.latest.SetLatestPosition(ctx, position); err != nil {
		logging.Warn().Err(err).Int64("mmsi", position.MMSI).Msg("latest-position cache update failed")
	}
	return nil
}

func (s *ingestService) handleStatic(ctx context.Context, report *feed.StaticReport) error {
	if report.UserID == nil {
		return nil
	}

	ship := &model.Ship{
		MMSI:        *report.UserID,
		Name:        report.Name,
		CallSign:    report.CallSign,
		IMONumber:   report.IMONumber,
		ShipType:    report.ShipType,
		Destination: report.Destination,
		UpdatedAt:   s.now().UTC(),
	}

	if err := s.ships.Upsert(ctx, ship); err != nil {
		return fmt.Errorf("upsert ship %d: %w", ship.MMSI, err)
	}
	return nil
}
