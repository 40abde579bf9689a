package handlers

import (
	"encoding/json"
	"net/http"

	"skill-backend/internal/services"
	"skill-backend/internal/timeutil"
	"skill-backend/pkg/utils"

	"github.com/gorilla/mux"
)

type EventHandler struct {
	Service *services.EventService
}

func NewEventHandler(s *services.EventService) *EventHandler {
	return &EventHandler{Service: s}
}

// ListEvents handles GET /api/events?from=&to=
func (h *EventHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	from := r.URL.Query().Get("from")
	to := r.URL.Query().Get("to")
	if from == "" {
		from = timeutil.Today()
	}
	if to == "" {
		to = from
	}

	events, err := h.Service.Events(r.Context(), from, to)
	if err != nil {
		writeUpstreamError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(events)
}

// GetReferenceData returns everything the event-creation form needs in
// one response. Lookups that missed the deadline come back empty with
// their name listed under warnings.
func (h *EventHandler) GetReferenceData(w http.ResponseWriter, r *http.Request) {
	data := h.Service.ReferenceData(r.Context())

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(data)
}

func (h *EventHandler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var event map[string]any
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	created, err := h.Service.CreateEvent(r.Context(), event)
	if err != nil {
		writeUpstreamError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusCreated, created)
}

func (h *EventHandler) CreateClient(w http.ResponseWriter, r *http.Request) {
	var client map[string]any
	if err := json.NewDecoder(r.Body).Decode(&client); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	created, err := h.Service.CreateClient(r.Context(), client)
	if err != nil {
		writeUpstreamError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusCreated, created)
}

// GetQuote handles GET /api/events/{event_number}/quote
// The amount is null when the upstream record carries no usable figure.
func (h *EventHandler) GetQuote(w http.ResponseWriter, r *http.Request) {
	eventNumber := mux.Vars(r)["event_number"]

	amount, err := h.Service.Quote(r.Context(), eventNumber)
	if err != nil {
		writeUpstreamError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]any{
		"eventNumber": eventNumber,
		"amount":      amount,
	})
}
