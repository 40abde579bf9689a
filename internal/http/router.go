package http

import (
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"skill-backend/internal/handlers"
	"skill-backend/internal/middleware"
)

func NewRouter(
	authHandler *handlers.AuthHandler,
	roomHandler *handlers.RoomHandler,
	catalogHandler *handlers.CatalogHandler,
	eventHandler *handlers.EventHandler,
	opportunityHandler *handlers.OpportunityHandler,
	reportHandler *handlers.ReportHandler,
	healthHandler *handlers.HealthHandler,
	authMiddleware *middleware.AuthMiddleware,
) *mux.Router {
	r := mux.NewRouter()
	r.Use(middleware.MetricsMiddleware)

	// Public API routes - Authentication
	r.HandleFunc("/auth/login", authHandler.Login).Methods("POST")
	r.HandleFunc("/auth/logout", authHandler.Logout).Methods("POST")

	// Protected API routes - Rooms (venue-scoped)
	roomsAPI := r.PathPrefix("/api/rooms").Subrouter()
	roomsAPI.Use(authMiddleware.Authenticate, authMiddleware.ResolveVenue)
	roomsAPI.HandleFunc("", roomHandler.ListRooms).Methods("GET")
	roomsAPI.HandleFunc("/pricing", roomHandler.GetRoomPricing).Methods("GET")
	roomsAPI.HandleFunc("/available", roomHandler.GetAvailableRooms).Methods("GET")

	// Protected API routes - Service catalog (venue-scoped)
	servicesAPI := r.PathPrefix("/api/services").Subrouter()
	servicesAPI.Use(authMiddleware.Authenticate, authMiddleware.ResolveVenue)
	servicesAPI.HandleFunc("", catalogHandler.ListServices).Methods("GET")
	servicesAPI.HandleFunc("/refresh", catalogHandler.RefreshCatalog).Methods("POST")
	servicesAPI.HandleFunc("/valuation", catalogHandler.GetValuation).Methods("GET")

	// Protected API routes - Events (venue-scoped)
	eventsAPI := r.PathPrefix("/api/events").Subrouter()
	eventsAPI.Use(authMiddleware.Authenticate, authMiddleware.ResolveVenue)
	eventsAPI.HandleFunc("", eventHandler.ListEvents).Methods("GET")
	eventsAPI.HandleFunc("", eventHandler.CreateEvent).Methods("POST")
	eventsAPI.HandleFunc("/reference-data", eventHandler.GetReferenceData).Methods("GET")
	eventsAPI.HandleFunc("/{event_number}/quote", eventHandler.GetQuote).Methods("GET")

	// Protected API routes - Clients (venue-scoped)
	clientsAPI := r.PathPrefix("/api/clients").Subrouter()
	clientsAPI.Use(authMiddleware.Authenticate, authMiddleware.ResolveVenue)
	clientsAPI.HandleFunc("", eventHandler.CreateClient).Methods("POST")

	// Protected API routes - CRM opportunities (venue-scoped)
	crmAPI := r.PathPrefix("/api/opportunities").Subrouter()
	crmAPI.Use(authMiddleware.Authenticate, authMiddleware.ResolveVenue)
	crmAPI.HandleFunc("", opportunityHandler.ListOpportunities).Methods("GET")
	crmAPI.HandleFunc("", opportunityHandler.CreateOpportunity).Methods("POST")
	crmAPI.HandleFunc("/stages", opportunityHandler.ListStages).Methods("GET")
	crmAPI.HandleFunc("/subscribe", opportunityHandler.Subscribe).Methods("GET")
	crmAPI.HandleFunc("/{id}", opportunityHandler.GetOpportunity).Methods("GET")
	crmAPI.HandleFunc("/{id}", opportunityHandler.UpdateOpportunity).Methods("PUT")
	crmAPI.HandleFunc("/{id}", opportunityHandler.DeleteOpportunity).Methods("DELETE")
	crmAPI.HandleFunc("/{id}/stage", opportunityHandler.ChangeStage).Methods("PUT")
	crmAPI.HandleFunc("/{id}/link-event", opportunityHandler.LinkEvent).Methods("POST")
	crmAPI.HandleFunc("/{id}/client-created", opportunityHandler.MarkClientCreated).Methods("POST")
	crmAPI.HandleFunc("/{id}/notes", opportunityHandler.AddNote).Methods("POST")
	crmAPI.HandleFunc("/{id}/timeline", opportunityHandler.GetTimeline).Methods("GET")

	// Protected API routes - Report downloads (venue-scoped)
	reportsAPI := r.PathPrefix("/api/reports").Subrouter()
	reportsAPI.Use(authMiddleware.Authenticate, authMiddleware.ResolveVenue)
	reportsAPI.HandleFunc("/rooms/xlsx", reportHandler.GetRoomsXLSX).Methods("GET")
	reportsAPI.HandleFunc("/rooms/pdf", reportHandler.GetRoomsPDF).Methods("GET")
	reportsAPI.HandleFunc("/services/xlsx", reportHandler.GetServicesXLSX).Methods("GET")

	// Health endpoints (no auth required - for Kubernetes probes)
	r.HandleFunc("/health", healthHandler.BasicHealth).Methods("GET")
	r.HandleFunc("/health/ready", healthHandler.ReadinessHealth).Methods("GET")
	r.HandleFunc("/health/detailed", healthHandler.DetailedHealth).Methods("GET")

	// Metrics endpoint (Prometheus format)
	r.Handle("/metrics", promhttp.Handler())

	return r
}
