package services

import (
	"context"
	"sync"
	"time"

	"skill-backend/internal/models"
)

// lookupTimeout bounds each reference-data lookup during event
// creation. A slow or failed lookup degrades to an empty list; it never
// blocks the whole form.
const lookupTimeout = 15 * time.Second

// eventAPI is the slice of the Skill client the event service needs.
type eventAPI interface {
	Events(ctx context.Context, from, to string) ([]map[string]any, error)
	Clients(ctx context.Context) ([]map[string]any, error)
	Contacts(ctx context.Context) ([]map[string]any, error)
	Coordinators(ctx context.Context) ([]map[string]any, error)
	Activities(ctx context.Context) ([]map[string]any, error)
	Rooms(ctx context.Context) ([]map[string]any, error)
	CreateEvent(ctx context.Context, event map[string]any) (map[string]any, error)
	CreateClient(ctx context.Context, client map[string]any) (map[string]any, error)
	EventQuote(ctx context.Context, eventNumber string) (float64, bool, error)
}

// EventService serves events and the reference data the event-creation
// form needs.
type EventService struct {
	api eventAPI
}

func NewEventService(api eventAPI) *EventService {
	return &EventService{api: api}
}

// Events returns typed events overlapping [from, to].
func (s *EventService) Events(ctx context.Context, from, to string) ([]models.Event, error) {
	docs, err := s.api.Events(ctx, from, to)
	if err != nil {
		return nil, err
	}
	events := make([]models.Event, 0, len(docs))
	for _, doc := range docs {
		events = append(events, models.EventFromDoc(doc))
	}
	return events, nil
}

// ReferenceData is the lookup bundle for the event-creation form.
// Lists that failed or timed out come back empty, with the lookup name
// recorded in Warnings so the UI can show a partial-load banner.
type ReferenceData struct {
	Clients      []map[string]any `json:"clients"`
	Contacts     []map[string]any `json:"contacts"`
	Coordinators []map[string]any `json:"coordinators"`
	Activities   []map[string]any `json:"activities"`
	Rooms        []models.Room    `json:"rooms"`
	Warnings     []string         `json:"warnings,omitempty"`
}

// ReferenceData loads every lookup in parallel, racing each against
// lookupTimeout. Partial failure is tolerated, not fatal.
func (s *EventService) ReferenceData(ctx context.Context) *ReferenceData {
	data := &ReferenceData{
		Clients:      []map[string]any{},
		Contacts:     []map[string]any{},
		Coordinators: []map[string]any{},
		Activities:   []map[string]any{},
		Rooms:        []models.Room{},
	}

	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)
	lookup := func(name string, fetch func(context.Context) ([]map[string]any, error), assign func([]map[string]any)) {
		defer wg.Done()
		lctx, cancel := context.WithTimeout(ctx, lookupTimeout)
		defer cancel()
		docs, err := fetch(lctx)
		mu.Lock()
		defer mu.Unlock()
		if err != nil {
			data.Warnings = append(data.Warnings, name)
			return
		}
		assign(docs)
	}

	wg.Add(5)
	go lookup("clients", s.api.Clients, func(d []map[string]any) { data.Clients = d })
	go lookup("contacts", s.api.Contacts, func(d []map[string]any) { data.Contacts = d })
	go lookup("coordinators", s.api.Coordinators, func(d []map[string]any) { data.Coordinators = d })
	go lookup("activities", s.api.Activities, func(d []map[string]any) { data.Activities = d })
	go lookup("rooms", s.api.Rooms, func(docs []map[string]any) {
		rooms := make([]models.Room, 0, len(docs))
		for _, doc := range docs {
			rooms = append(rooms, models.RoomFromDoc(doc))
		}
		data.Rooms = rooms
	})
	wg.Wait()

	return data
}

// CreateEvent registers a new event upstream.
func (s *EventService) CreateEvent(ctx context.Context, event map[string]any) (map[string]any, error) {
	return s.api.CreateEvent(ctx, event)
}

// CreateClient registers a new client account upstream.
func (s *EventService) CreateClient(ctx context.Context, client map[string]any) (map[string]any, error) {
	return s.api.CreateClient(ctx, client)
}

// Quote returns the event's current quote amount, absent when the
// upstream has none.
func (s *EventService) Quote(ctx context.Context, eventNumber string) (*float64, error) {
	amount, ok, err := s.api.EventQuote(ctx, eventNumber)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return &amount, nil
}
