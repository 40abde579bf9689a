package health

import (
	"context"
	"time"

	"skill-backend/internal/cache"
	"skill-backend/internal/crm"
	"skill-backend/internal/skill"
)

type HealthChecker struct {
	skill *skill.Client
	crm   *crm.Store
}

type HealthStatus struct {
	Status   string         `json:"status"`
	Upstream UpstreamHealth `json:"upstream"`
	Cache    CacheHealth    `json:"cache"`
	CRM      CRMHealth      `json:"crm"`
}

type UpstreamHealth struct {
	Status       string `json:"status"`
	ResponseTime int64  `json:"response_time_ms"`
}

type CacheHealth struct {
	Status string `json:"status"`
}

type CRMHealth struct {
	Status string   `json:"status"`
	Venues []string `json:"venues"`
}

func NewHealthChecker(client *skill.Client, store *crm.Store) *HealthChecker {
	return &HealthChecker{skill: client, crm: store}
}

// CheckBasic is unhealthy only when the upstream API is unreachable.
// The cache and the CRM degrade gracefully, they never fail readiness.
func (h *HealthChecker) CheckBasic() HealthStatus {
	upstream := h.checkUpstream()

	status := "healthy"
	if upstream.Status != "healthy" {
		status = "unhealthy"
	}

	return HealthStatus{
		Status:   status,
		Upstream: upstream,
		Cache:    h.checkCache(),
		CRM:      h.checkCRM(),
	}
}

func (h *HealthChecker) checkUpstream() UpstreamHealth {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	start := time.Now()
	err := h.skill.Ping(ctx)
	responseTime := time.Since(start).Milliseconds()

	if err != nil {
		return UpstreamHealth{
			Status:       "unhealthy",
			ResponseTime: responseTime,
		}
	}

	return UpstreamHealth{
		Status:       "healthy",
		ResponseTime: responseTime,
	}
}

func (h *HealthChecker) checkCache() CacheHealth {
	if cache.IsHealthy() {
		return CacheHealth{Status: "healthy"}
	}
	return CacheHealth{Status: "unavailable"}
}

func (h *HealthChecker) checkCRM() CRMHealth {
	if h.crm == nil {
		return CRMHealth{Status: "unavailable", Venues: []string{}}
	}
	venues := h.crm.Venues()
	if len(venues) == 0 {
		return CRMHealth{Status: "unavailable", Venues: []string{}}
	}
	return CRMHealth{Status: "healthy", Venues: venues}
}
