package services

import (
	"context"
	"log"
	"net/http"
	"time"

	"skill-backend/internal/crm"
)

// OpportunityService wraps the CRM store and feeds the live-update hub.
type OpportunityService struct {
	store  *crm.Store
	hub    *crm.Hub
	events *EventService
}

func NewOpportunityService(store *crm.Store, hub *crm.Hub, events *EventService) *OpportunityService {
	return &OpportunityService{store: store, hub: hub, events: events}
}

// StartWatchers launches one poll-and-push loop per venue with a live
// CRM database. They run until ctx is cancelled.
func (s *OpportunityService) StartWatchers(ctx context.Context) {
	for _, venue := range s.store.Venues() {
		venue := venue
		go s.store.Watch(ctx, venue, 5*time.Second, func(list []crm.Opportunity) {
			s.hub.Broadcast(venue, list)
		})
		log.Printf("[CRM] watching opportunities for %s", venue)
	}
}

func (s *OpportunityService) List(ctx context.Context, venue string) ([]crm.Opportunity, error) {
	return s.store.List(ctx, venue)
}

func (s *OpportunityService) Get(ctx context.Context, venue, id string) (*crm.Opportunity, error) {
	return s.store.Get(ctx, venue, id)
}

func (s *OpportunityService) Create(ctx context.Context, venue string, opp crm.Opportunity) (*crm.Opportunity, error) {
	return s.store.Create(ctx, venue, opp)
}

func (s *OpportunityService) Update(ctx context.Context, venue, id string, fields map[string]any, author string) error {
	return s.store.Update(ctx, venue, id, fields, author)
}

func (s *OpportunityService) ChangeStage(ctx context.Context, venue, id string, stage crm.Stage, author string) error {
	return s.store.ChangeStage(ctx, venue, id, stage, author)
}

// LinkEvent links a Skill event to the opportunity, caching the live
// quote amount when the upstream can produce one. A quote failure only
// loses the cached amount, not the link.
func (s *OpportunityService) LinkEvent(ctx context.Context, venue, id, eventNumber, author string) error {
	quote, err := s.events.Quote(ctx, eventNumber)
	if err != nil {
		log.Printf("[CRM] quote lookup failed for event %s: %v", eventNumber, err)
		quote = nil
	}
	return s.store.LinkEvent(ctx, venue, id, eventNumber, quote, author)
}

func (s *OpportunityService) MarkClientCreated(ctx context.Context, venue, id, author string) error {
	return s.store.MarkClientCreated(ctx, venue, id, author)
}

func (s *OpportunityService) AddNote(ctx context.Context, venue, id, note, author string) error {
	return s.store.AddNote(ctx, venue, id, note, author)
}

func (s *OpportunityService) Delete(ctx context.Context, venue, id string) error {
	return s.store.Delete(ctx, venue, id)
}

func (s *OpportunityService) Timeline(ctx context.Context, venue, id string) ([]crm.TimelineEntry, error) {
	return s.store.Timeline(ctx, venue, id)
}

// Subscribe attaches a websocket client to the venue's live updates.
func (s *OpportunityService) Subscribe(w http.ResponseWriter, r *http.Request, venue string) {
	s.hub.Subscribe(w, r, venue)
}
