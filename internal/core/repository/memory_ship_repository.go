package repository

import (
	"context"
	"sync"

	"portwatch/internal/core/model"
)

type inMemoryShipRepository struct {
	ships map[int64]*model.Ship
	mutex sync.RWMutex
}

func NewInMemoryShipRepository() ShipRepository {
	return &inMemoryShipRepository{
		ships: make(map[int64]*model.Ship),
	}
}

func (r *inMemoryShipRepository) Upsert(_ context.Context, ship *model.Ship) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	stored := *ship
	if existing, exists := r.ships[ship.MMSI]; exists && ship.Destination == "" {
		stored.Destination = existing.Destination
	}
	r.ships[ship.MMSI] = &stored
	return nil
}

func (r *inMemoryShipRepository) FindByMMSI(_ context.Context, mmsi int64) (*model.Ship, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	if ship, exists := r.ships[mmsi]; exists {
		copied := *ship
		return &copied, nil
	}
	return nil, nil
}
