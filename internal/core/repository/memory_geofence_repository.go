package repository

import (
	"context"
	"sync"

	"portwatch/internal/core/model"
)

type inMemoryGeofenceRepository struct {
	geofences map[string]*model.Geofence
	mutex     sync.RWMutex
}

func NewInMemoryGeofenceRepository() GeofenceRepository {
	return &inMemoryGeofenceRepository{
		geofences: make(map[string]*model.Geofence),
	}
}

func (r *inMemoryGeofenceRepository) Upsert(_ context.Context, geofence *model.Geofence) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	copied := *geofence
	r.geofences[geofence.ID] = &copied
	return nil
}

func (r *inMemoryGeofenceRepository) FindByID(_ context.Context, id string) (*model.Geofence, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	if geofence, exists := r.geofences[id]; exists {
		copied := *geofence
		return &copied, nil
	}
	return nil, nil
}
