package handlers

import (
	"encoding/json"
	"net/http"

	"skill-backend/internal/services"
	"skill-backend/pkg/utils"
)

type CatalogHandler struct {
	Service *services.CatalogService
}

func NewCatalogHandler(s *services.CatalogService) *CatalogHandler {
	return &CatalogHandler{Service: s}
}

// ListServices handles GET /api/services?rates=true
// With rates=true the catalog is merged with live rate overrides.
func (h *CatalogHandler) ListServices(w http.ResponseWriter, r *http.Request) {
	withRates := r.URL.Query().Get("rates") == "true"

	var (
		list any
		err  error
	)
	if withRates {
		list, err = h.Service.ServicesWithRates(r.Context())
	} else {
		list, err = h.Service.Services(r.Context())
	}
	if err != nil {
		writeUpstreamError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(list)
}

// RefreshCatalog drops the cached catalog so the next read refetches.
func (h *CatalogHandler) RefreshCatalog(w http.ResponseWriter, r *http.Request) {
	h.Service.Invalidate()
	utils.WriteJSON(w, http.StatusOK, map[string]string{"status": "refreshed"})
}

// GetValuation returns the total inventory valuation of the catalog.
func (h *CatalogHandler) GetValuation(w http.ResponseWriter, r *http.Request) {
	list, err := h.Service.ServicesWithRates(r.Context())
	if err != nil {
		writeUpstreamError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]any{
		"total":    services.ValuationTotal(list),
		"services": len(list),
	})
}
