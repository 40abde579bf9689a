package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"skill-backend/internal/auth"
	"skill-backend/internal/availability"
	"skill-backend/internal/cache"
	"skill-backend/internal/config"
	"skill-backend/internal/crm"
	"skill-backend/internal/handlers"
	"skill-backend/internal/health"
	h "skill-backend/internal/http"
	"skill-backend/internal/middleware"
	"skill-backend/internal/monitoring"
	"skill-backend/internal/services"
	"skill-backend/internal/skill"
)

func main() {
	cfg := config.Load()

	// Redis cache is optional, login caching degrades gracefully.
	if err := cache.Init(); err != nil {
		log.Printf("[Redis] Cache unavailable: %v (logins always hit upstream)", err)
	} else {
		log.Println("[Redis] Cache connected successfully")
	}

	// Upstream Skill API client, shared by every service.
	skillClient := skill.NewClient(
		cfg.Skill.BaseURL,
		cfg.Skill.CompanyAuthID,
		cfg.Skill.ServiceToken,
		time.Duration(cfg.Skill.TimeoutSecs)*time.Second,
	)

	// CRM store is per-venue Firebase. Venues without a configured
	// database URL are skipped, the CRM endpoints reject them.
	ctx := context.Background()
	crmStore, err := crm.NewStore(ctx, cfg)
	if err != nil {
		log.Printf("[CRM] store unavailable: %v", err)
	}
	crmHub := crm.NewHub()

	// Initialize health checker
	healthChecker := health.NewHealthChecker(skillClient, crmStore)

	// Start monitoring dashboard server in background
	go monitoring.NewMonitoringServer(skillClient, crmHub, 9090).Start()

	// Initialize JWT manager
	jwtManager := auth.NewJWTManager(cfg)

	// Initialize services
	engine := availability.NewEngine(skillClient)
	roomService := services.NewRoomService(skillClient, engine)
	catalogService := services.NewCatalogService(skillClient, time.Now)
	eventService := services.NewEventService(skillClient)
	reportService := services.NewReportService(roomService, catalogService)
	opportunityService := services.NewOpportunityService(crmStore, crmHub, eventService)
	opportunityService.StartWatchers(ctx)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtManager, cfg)
	corsMiddleware := middleware.NewCORS(cfg)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(skillClient, jwtManager, cfg)
	roomHandler := handlers.NewRoomHandler(roomService)
	catalogHandler := handlers.NewCatalogHandler(catalogService)
	eventHandler := handlers.NewEventHandler(eventService)
	opportunityHandler := handlers.NewOpportunityHandler(opportunityService)
	reportHandler := handlers.NewReportHandler(reportService)
	healthHandler := handlers.NewHealthHandler(healthChecker)

	router := h.NewRouter(
		authHandler,
		roomHandler,
		catalogHandler,
		eventHandler,
		opportunityHandler,
		reportHandler,
		healthHandler,
		authMiddleware,
	)

	// Wrap with panic recovery and metrics middleware
	handler := middleware.PanicRecovery(corsMiddleware(router))

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("Skill platform backend listening on %s", addr)
	if err := http.ListenAndServe(addr, handler); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
