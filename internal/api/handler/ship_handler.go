package handler

import (
	"net/http"

	"portwatch/internal/core/repository"
)

type ShipHandler struct {
	ships repository.ShipRepository
}

func NewShipHandler(ships repository.ShipRepository) *ShipHandler {
	return &ShipHandler{ships: ships}
}

func (h *ShipHandler) Get(w http.ResponseWriter, r *http.Request) {
	mmsi, ok := parseMMSI(r)
	if !ok {
		http.Error(w, "Valid mmsi required", http.StatusBadRequest)
		return
	}

	ship, err := h.ships.FindByMMSI(r.Context(), mmsi)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if ship == nil {
		http.Error(w, "Ship not found", http.StatusNotFound)
		return
	}
	writeJSON(w, ship)
}
