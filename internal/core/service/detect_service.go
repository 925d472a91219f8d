package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"portwatch/internal/core/model"
	"portwatch/internal/core/repository"
	"portwatch/internal/geo"
	"portwatch/internal/logging"
)

const defaultStoppedSpeedKnots = 1.0

// Summary reports what one detector pass did.
type Summary struct {
	Vessels int
	Opened  int
	Closed  int
	Failed  int
}

// DetectService runs the port-call lifecycle pass: latest position per
// vessel, zone containment, motion classification, and the open/close
// transition table. A pass is idempotent: re-running on unchanged positions
// writes nothing.
type DetectService interface {
	Run(ctx context.Context) (Summary, error)
}

type detectService struct {
	positions    repository.PositionRepository
	calls        repository.PortCallRepository
	port         geo.Zone
	anchorage    geo.Zone
	stoppedSpeed float64
	now          func() time.Time
}

func NewDetectService(
	positions repository.PositionRepository,
	calls repository.PortCallRepository,
	port, anchorage geo.Zone,
	stoppedSpeedKnots float64,
) DetectService {
	if stoppedSpeedKnots <= 0 {
		stoppedSpeedKnots = defaultStoppedSpeedKnots
	}
	return &detectService{
		positions:    positions,
		calls:        calls,
		port:         port,
		anchorage:    anchorage,
		stoppedSpeed: stoppedSpeedKnots,
		now:          time.Now,
	}
}

func (s *detectService) Run(ctx context.Context) (Summary, error) {
	latest, err := s.positions.FindLatestPerVessel(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("load latest positions: %w", err)
	}

	summary := Summary{Vessels: len(latest)}
	for _, position := range latest {
		opened, closed, err := s.evaluate(ctx, position)
		if err != nil {
			// One vessel must not take down the batch; the next run
			// re-evaluates it with fresh data.
			summary.Failed++
			logging.Error().Err(err).Int64("mmsi", position.MMSI).Msg("vessel evaluation failed")
			continue
		}
		if opened {
			summary.Opened++
		}
		if closed {
			summary.Closed++
		}
	}
	return summary, nil
}

func (s *detectService) evaluate(ctx context.Context, position *model.Position) (opened, closed bool, err error) {
	inPort := s.port.Contains(position.Latitude, position.Longitude)
	stopped := s.isStopped(position)

	open, err := s.calls.FindOpenByMMSI(ctx, position.MMSI)
	if err != nil {
		return false, false, err
	}

	switch {
	case open == nil && inPort && stopped:
		waiting, err := s.waitingMinutes(ctx, position.MMSI)
		if err != nil {
			return false, false, err
		}
		call := model.NewPortCall(position.MMSI, s.now().UTC(), waiting)
		if err := s.calls.Open(ctx, call); err != nil {
			if errors.Is(err, repository.ErrOpenCallExists) {
				// An overlapping run opened the same call first.
				return false, false, nil
			}
			return false, false, err
		}
		return true, false, nil

	case open != nil && !inPort && !stopped:
		if err := s.calls.Close(ctx, open.ID, s.now().UTC()); err != nil {
			if errors.Is(err, repository.ErrCallNotOpen) {
				// An overlapping run closed it first.
				return false, false, nil
			}
			return false, false, err
		}
		return false, true, nil
	}

	// Remaining combinations change nothing: still in port, still away, or
	// stopped outside the port with a call open (ambiguous, left open).
	return false, false, nil
}

// isStopped classifies motion: speed under the threshold or a mooring
// navigational status. Missing speed counts as underway.
func (s *detectService) isStopped(position *model.Position) bool {
	if position.SOG != nil && *position.SOG < s.stoppedSpeed {
		return true
	}
	return strings.Contains(strings.ToLower(position.NavStatus), "moor")
}

// waitingMinutes is the whole minutes since the vessel was last seen inside
// the anchorage zone, or 0 if it never was.
func (s *detectService) waitingMinutes(ctx context.Context, mmsi int64) (int, error) {
	history, err := s.positions.FindByMMSI(ctx, mmsi)
	if err != nil {
		return 0, err
	}

	now := s.now().UTC()
	for _, position := range history { // newest first
		if s.anchorage.Contains(position.Latitude, position.Longitude) {
			minutes := int(now.Sub(position.ReceivedAt).Minutes())
			if minutes < 0 {
				minutes = 0
			}
			return minutes, nil
		}
	}
	return 0, nil
}
