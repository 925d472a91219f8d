package repository

import (
	"context"
	"sort"
	"sync"

	"portwatch/internal/core/model"
)

type inMemoryPositionRepository struct {
	positions []*model.Position
	mutex     sync.RWMutex
}

func NewInMemoryPositionRepository() PositionRepository {
	return &inMemoryPositionRepository{}
}

func (r *inMemoryPositionRepository) Create(_ context.Context, position *model.Position) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.positions = append(r.positions, position)
	return nil
}

func (r *inMemoryPositionRepository) FindByMMSI(_ context.Context, mmsi int64) ([]*model.Position, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	var result []*model.Position
	for _, position := range r.positions {
		if position.MMSI == mmsi {
			result = append(result, position)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].ReceivedAt.After(result[j].ReceivedAt)
	})
	return result, nil
}

func (r *inMemoryPositionRepository) FindLatestByMMSI(_ context.Context, mmsi int64) (*model.Position, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	var latest *model.Position
	for _, position := range r.positions {
		if position.MMSI != mmsi {
			continue
		}
		if latest == nil || position.ReceivedAt.After(latest.ReceivedAt) {
			latest = position
		}
	}
	return latest, nil
}

func (r *inMemoryPositionRepository) FindLatestPerVessel(_ context.Context) ([]*model.Position, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	latest := make(map[int64]*model.Position)
	for _, position := range r.positions {
		current, ok := latest[position.MMSI]
		if !ok || position.ReceivedAt.After(current.ReceivedAt) {
			latest[position.MMSI] = position
		}
	}

	result := make([]*model.Position, 0, len(latest))
	for _, position := range latest {
		result = append(result, position)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].MMSI < result[j].MMSI
	})
	return result, nil
}
