package handlers

import (
	"net/http"

	"skill-backend/internal/health"
	"skill-backend/pkg/utils"
)

type HealthHandler struct {
	checker *health.HealthChecker
}

func NewHealthHandler(checker *health.HealthChecker) *HealthHandler {
	return &HealthHandler{checker: checker}
}

// BasicHealth answers liveness probes. It never touches upstream.
func (h *HealthHandler) BasicHealth(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ReadinessHealth reports 503 while the upstream Skill API is unreachable so
// load balancers stop routing traffic here.
func (h *HealthHandler) ReadinessHealth(w http.ResponseWriter, r *http.Request) {
	status := h.checker.CheckBasic()
	code := http.StatusOK
	if status.Status != "healthy" {
		code = http.StatusServiceUnavailable
	}
	utils.WriteJSON(w, code, status)
}

// DetailedHealth returns the full component breakdown for dashboards. Always
// 200 so the dashboard can render degraded states.
func (h *HealthHandler) DetailedHealth(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, http.StatusOK, h.checker.CheckBasic())
}
