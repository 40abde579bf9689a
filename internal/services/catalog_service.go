package services

import (
	"context"
	"time"

	"skill-backend/internal/cache"
	"skill-backend/internal/models"
	"skill-backend/internal/pricing"
	"skill-backend/internal/timeutil"
)

// catalogAPI is the slice of the Skill client the catalog needs.
type catalogAPI interface {
	Services(ctx context.Context) ([]map[string]any, error)
	RoomRates(ctx context.Context) ([]map[string]any, error)
}

// CatalogService serves the inventory/services catalog with resolved
// prices. The base catalog is cached 5 minutes; the view merged with
// the live rate list is cached 2 minutes. Both caches are in-memory,
// process-lifetime, single-flight.
type CatalogService struct {
	api   catalogAPI
	today func() string

	base   *cache.TTL[[]models.Service]
	merged *cache.TTL[[]models.Service]
}

func NewCatalogService(api catalogAPI, clock cache.Clock) *CatalogService {
	return &CatalogService{
		api:    api,
		today:  timeutil.Today,
		base:   cache.NewTTL[[]models.Service]("services", 5*time.Minute, clock),
		merged: cache.NewTTL[[]models.Service]("services_with_rates", 2*time.Minute, clock),
	}
}

// Services returns the catalog with each item's effective TI/TNI price
// resolved for today. Unknown prices stay nil.
func (s *CatalogService) Services(ctx context.Context) ([]models.Service, error) {
	return s.base.Get(ctx, s.loadServices)
}

func (s *CatalogService) loadServices(ctx context.Context) ([]models.Service, error) {
	docs, err := s.api.Services(ctx)
	if err != nil {
		return nil, err
	}
	today := s.today()
	services := make([]models.Service, 0, len(docs))
	for _, doc := range docs {
		svc := models.ServiceFromDoc(doc)
		resolved := pricing.Resolve(doc, today)
		svc.PriceTI = resolved.TaxesIncluded
		svc.PriceTNI = resolved.TaxesNotIncluded
		services = append(services, svc)
	}
	return services, nil
}

// ServicesWithRates returns the catalog with prices overridden by any
// live rate record referencing the service. Rate records occasionally
// carry fresher prices than the catalog itself; a rate with no
// resolvable positive price never overrides anything.
func (s *CatalogService) ServicesWithRates(ctx context.Context) ([]models.Service, error) {
	return s.merged.Get(ctx, func(ctx context.Context) ([]models.Service, error) {
		services, err := s.loadServices(ctx)
		if err != nil {
			return nil, err
		}
		rateDocs, err := s.api.RoomRates(ctx)
		if err != nil {
			// Degrade to the base catalog rather than failing the page.
			return services, nil
		}
		today := s.today()
		overrides := make(map[int64]pricing.Resolved)
		for _, doc := range rateDocs {
			id, ok := models.FirstNumber(doc, "idService", "serviceId", "idArticulo")
			if !ok {
				continue
			}
			resolved := pricing.Resolve(doc, today)
			if resolved.TaxesIncluded != nil || resolved.TaxesNotIncluded != nil {
				overrides[int64(id)] = resolved
			}
		}
		for i := range services {
			if resolved, ok := overrides[services[i].ID]; ok {
				if resolved.TaxesIncluded != nil {
					services[i].PriceTI = resolved.TaxesIncluded
				}
				if resolved.TaxesNotIncluded != nil {
					services[i].PriceTNI = resolved.TaxesNotIncluded
				}
			}
		}
		return services, nil
	})
}

// Invalidate drops both catalog caches (used after upstream writes).
func (s *CatalogService) Invalidate() {
	s.base.Invalidate()
	s.merged.Invalidate()
}

// ValuationTotal aggregates stock value across the catalog. Items with
// an unknown price contribute nothing; items with a legitimate zero
// price contribute zero. The two must never be conflated.
func ValuationTotal(services []models.Service) float64 {
	var total float64
	for _, svc := range services {
		price := svc.PriceTNI
		if price == nil {
			price = svc.PriceTI
		}
		if price == nil {
			continue
		}
		total += float64(svc.Stock) * *price
	}
	return total
}
