package handlers

import (
	"encoding/json"
	"net/http"

	"skill-backend/internal/services"
	"skill-backend/internal/timeutil"
)

type RoomHandler struct {
	Service *services.RoomService
}

func NewRoomHandler(s *services.RoomService) *RoomHandler {
	return &RoomHandler{Service: s}
}

func (h *RoomHandler) ListRooms(w http.ResponseWriter, r *http.Request) {
	rooms, err := h.Service.Rooms(r.Context())
	if err != nil {
		writeUpstreamError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(rooms)
}

// GetRoomPricing returns every room with its resolved base rate, setup
// rates and display total.
func (h *RoomHandler) GetRoomPricing(w http.ResponseWriter, r *http.Request) {
	pricing, err := h.Service.RoomPricing(r.Context())
	if err != nil {
		writeUpstreamError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(pricing)
}

// GetAvailableRooms handles GET /api/rooms/available?from=&to=
// Both dates default to today in the venue timezone.
func (h *RoomHandler) GetAvailableRooms(w http.ResponseWriter, r *http.Request) {
	from := r.URL.Query().Get("from")
	to := r.URL.Query().Get("to")
	if from == "" {
		from = timeutil.Today()
	}
	if to == "" {
		to = from
	}

	rooms, err := h.Service.AvailableRooms(r.Context(), from, to)
	if err != nil {
		writeUpstreamError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(rooms)
}
