package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"portwatch/internal/cache"
	"portwatch/internal/core/repository"
	"portwatch/internal/logging"
)

type PositionHandler struct {
	positions repository.PositionRepository
	latest    *cache.Cache
}

func NewPositionHandler(positions repository.PositionRepository, latest *cache.Cache) *PositionHandler {
	return &PositionHandler{
		positions: positions,
		latest:    latest,
	}
}

func parseMMSI(r *http.Request) (int64, bool) {
	raw := r.URL.Query().Get("mmsi")
	if raw == "" {
		return 0, false
	}
	mmsi, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || mmsi <= 0 {
		return 0, false
	}
	return mmsi, true
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func (h *PositionHandler) GetLatest(w http.ResponseWriter, r *http.Request) {
	mmsi, ok := parseMMSI(r)
	if !ok {
		http.Error(w, "Valid mmsi required", http.StatusBadRequest)
		return
	}

	// Cache first, store as fallback.
	position, err := h.latest.GetLatestPosition(r.Context(), mmsi)
	if err != nil {
		logging.Warn().Err(err).Int64("mmsi", mmsi).Msg("latest-position cache read failed")
	}
	if position == nil {
		position, err = h.positions.FindLatestByMMSI(r.Context(), mmsi)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	}

	if position == nil {
		http.Error(w, "No position found", http.StatusNotFound)
		return
	}
	writeJSON(w, position)
}

func (h *PositionHandler) List(w http.ResponseWriter, r *http.Request) {
	mmsi, ok := parseMMSI(r)
	if !ok {
		http.Error(w, "Valid mmsi required", http.StatusBadRequest)
		return
	}

	positions, err := h.positions.FindByMMSI(r.Context(), mmsi)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, positions)
}
