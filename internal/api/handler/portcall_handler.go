package handler

import (
	"net/http"
	"strconv"

	"portwatch/internal/core/repository"
)

const defaultCallListLimit = 200

type PortCallHandler struct {
	calls repository.PortCallRepository
}

func NewPortCallHandler(calls repository.PortCallRepository) *PortCallHandler {
	return &PortCallHandler{calls: calls}
}

// List returns recent port calls, newest arrivals first.
func (h *PortCallHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := int64(defaultCallListLimit)
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed <= 0 {
			http.Error(w, "Invalid limit", http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	calls, err := h.calls.FindAll(r.Context(), limit)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, calls)
}

// ListOpen returns the vessels currently in the port.
func (h *PortCallHandler) ListOpen(w http.ResponseWriter, r *http.Request) {
	calls, err := h.calls.FindOpen(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, calls)
}
