package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"skill-backend/internal/crm"
	"skill-backend/internal/middleware"
	"skill-backend/internal/services"
	"skill-backend/pkg/utils"

	"github.com/gorilla/mux"
)

type OpportunityHandler struct {
	Service *services.OpportunityService
}

func NewOpportunityHandler(s *services.OpportunityService) *OpportunityHandler {
	return &OpportunityHandler{Service: s}
}

func writeCRMError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, crm.ErrNotFound):
		utils.WriteError(w, http.StatusNotFound, "opportunity not found")
	case errors.Is(err, crm.ErrUnknownVenue):
		utils.WriteError(w, http.StatusBadRequest, "no CRM database for venue")
	default:
		utils.WriteError(w, http.StatusInternalServerError, err.Error())
	}
}

func (h *OpportunityHandler) ListOpportunities(w http.ResponseWriter, r *http.Request) {
	venue, _ := middleware.GetVenueFromContext(r.Context())

	list, err := h.Service.List(r.Context(), venue)
	if err != nil {
		writeCRMError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(list)
}

func (h *OpportunityHandler) GetOpportunity(w http.ResponseWriter, r *http.Request) {
	venue, _ := middleware.GetVenueFromContext(r.Context())
	id := mux.Vars(r)["id"]

	opp, err := h.Service.Get(r.Context(), venue, id)
	if err != nil {
		writeCRMError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(opp)
}

func (h *OpportunityHandler) CreateOpportunity(w http.ResponseWriter, r *http.Request) {
	venue, _ := middleware.GetVenueFromContext(r.Context())
	username, _ := middleware.GetUsernameFromContext(r.Context())

	var opp crm.Opportunity
	if err := json.NewDecoder(r.Body).Decode(&opp); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if opp.Title == "" {
		http.Error(w, "Title is required", http.StatusBadRequest)
		return
	}
	opp.CreatedBy = username

	created, err := h.Service.Create(r.Context(), venue, opp)
	if err != nil {
		writeCRMError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusCreated, created)
}

func (h *OpportunityHandler) UpdateOpportunity(w http.ResponseWriter, r *http.Request) {
	venue, _ := middleware.GetVenueFromContext(r.Context())
	username, _ := middleware.GetUsernameFromContext(r.Context())
	id := mux.Vars(r)["id"]

	var fields map[string]any
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.Service.Update(r.Context(), venue, id, fields, username); err != nil {
		writeCRMError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

// ChangeStage handles PUT /api/opportunities/{id}/stage
func (h *OpportunityHandler) ChangeStage(w http.ResponseWriter, r *http.Request) {
	venue, _ := middleware.GetVenueFromContext(r.Context())
	username, _ := middleware.GetUsernameFromContext(r.Context())
	id := mux.Vars(r)["id"]

	var req struct {
		Stage crm.Stage `json:"stage"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if !req.Stage.Valid() {
		http.Error(w, "Unknown stage", http.StatusBadRequest)
		return
	}

	if err := h.Service.ChangeStage(r.Context(), venue, id, req.Stage, username); err != nil {
		writeCRMError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

// LinkEvent handles POST /api/opportunities/{id}/link-event
// The live quote amount is fetched from the upstream event record.
func (h *OpportunityHandler) LinkEvent(w http.ResponseWriter, r *http.Request) {
	venue, _ := middleware.GetVenueFromContext(r.Context())
	username, _ := middleware.GetUsernameFromContext(r.Context())
	id := mux.Vars(r)["id"]

	var req struct {
		EventNumber string `json:"eventNumber"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.EventNumber == "" {
		http.Error(w, "eventNumber is required", http.StatusBadRequest)
		return
	}

	if err := h.Service.LinkEvent(r.Context(), venue, id, req.EventNumber, username); err != nil {
		writeCRMError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]string{"status": "linked"})
}

// MarkClientCreated handles POST /api/opportunities/{id}/client-created
func (h *OpportunityHandler) MarkClientCreated(w http.ResponseWriter, r *http.Request) {
	venue, _ := middleware.GetVenueFromContext(r.Context())
	username, _ := middleware.GetUsernameFromContext(r.Context())
	id := mux.Vars(r)["id"]

	if err := h.Service.MarkClientCreated(r.Context(), venue, id, username); err != nil {
		writeCRMError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

// AddNote handles POST /api/opportunities/{id}/notes
func (h *OpportunityHandler) AddNote(w http.ResponseWriter, r *http.Request) {
	venue, _ := middleware.GetVenueFromContext(r.Context())
	username, _ := middleware.GetUsernameFromContext(r.Context())
	id := mux.Vars(r)["id"]

	var req struct {
		Note string `json:"note"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Note == "" {
		http.Error(w, "note is required", http.StatusBadRequest)
		return
	}

	if err := h.Service.AddNote(r.Context(), venue, id, req.Note, username); err != nil {
		writeCRMError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusCreated, map[string]string{"status": "added"})
}

func (h *OpportunityHandler) DeleteOpportunity(w http.ResponseWriter, r *http.Request) {
	venue, _ := middleware.GetVenueFromContext(r.Context())
	id := mux.Vars(r)["id"]

	if err := h.Service.Delete(r.Context(), venue, id); err != nil {
		writeCRMError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// GetTimeline handles GET /api/opportunities/{id}/timeline
func (h *OpportunityHandler) GetTimeline(w http.ResponseWriter, r *http.Request) {
	venue, _ := middleware.GetVenueFromContext(r.Context())
	id := mux.Vars(r)["id"]

	timeline, err := h.Service.Timeline(r.Context(), venue, id)
	if err != nil {
		writeCRMError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(timeline)
}

// ListStages returns the pipeline stages in board order.
func (h *OpportunityHandler) ListStages(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(crm.Stages)
}

// Subscribe upgrades to a websocket that pushes the venue's opportunity
// list whenever it changes.
func (h *OpportunityHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	venue, _ := middleware.GetVenueFromContext(r.Context())
	h.Service.Subscribe(w, r, venue)
}
