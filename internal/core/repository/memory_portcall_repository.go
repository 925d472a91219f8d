package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"portwatch/internal/core/model"
)

// inMemoryPortCallRepository mirrors the Mongo repository's conditional-write
// semantics so the detector behaves identically under test.
type inMemoryPortCallRepository struct {
	calls map[string]*model.PortCall
	mutex sync.RWMutex
}

func NewInMemoryPortCallRepository() PortCallRepository {
	return &inMemoryPortCallRepository{
		calls: make(map[string]*model.PortCall),
	}
}

func (r *inMemoryPortCallRepository) Open(_ context.Context, call *model.PortCall) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	for _, existing := range r.calls {
		if existing.MMSI == call.MMSI && existing.IsOpen() {
			return ErrOpenCallExists
		}
	}

	stored := *call
	stored.Open = true
	r.calls[stored.ID] = &stored
	return nil
}

func (r *inMemoryPortCallRepository) Close(_ context.Context, id string, departureAt time.Time) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	call, exists := r.calls[id]
	if !exists || !call.IsOpen() {
		return ErrCallNotOpen
	}

	t := departureAt
	call.DepartureAt = &t
	call.Open = false
	return nil
}

func (r *inMemoryPortCallRepository) FindOpenByMMSI(_ context.Context, mmsi int64) (*model.PortCall, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	for _, call := range r.calls {
		if call.MMSI == mmsi && call.IsOpen() {
			copied := *call
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *inMemoryPortCallRepository) FindOpen(_ context.Context) ([]*model.PortCall, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	var result []*model.PortCall
	for _, call := range r.calls {
		if call.IsOpen() {
			copied := *call
			result = append(result, &copied)
		}
	}
	sortByArrival(result)
	return result, nil
}

func (r *inMemoryPortCallRepository) FindAll(_ context.Context, limit int64) ([]*model.PortCall, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	result := make([]*model.PortCall, 0, len(r.calls))
	for _, call := range r.calls {
		copied := *call
		result = append(result, &copied)
	}
	sortByArrival(result)
	if limit > 0 && int64(len(result)) > limit {
		result = result[:limit]
	}
	return result, nil
}

func sortByArrival(calls []*model.PortCall) {
	sort.Slice(calls, func(i, j int) bool {
		return calls[i].ArrivalAt.After(calls[j].ArrivalAt)
	})
}
