package services

import (
	"context"
	"log"

	"skill-backend/internal/availability"
	"skill-backend/internal/models"
	"skill-backend/internal/pricing"
	"skill-backend/internal/timeutil"
)

// roomAPI is the slice of the Skill client the room service needs.
type roomAPI interface {
	Rooms(ctx context.Context) ([]map[string]any, error)
	RoomRates(ctx context.Context) ([]map[string]any, error)
	Availability(ctx context.Context, from, to string) ([]map[string]any, error)
}

// RoomService serves the room catalog, resolved room/setup pricing, and
// room availability with inference fallback.
type RoomService struct {
	api    roomAPI
	engine *availability.Engine
	today  func() string
}

func NewRoomService(api roomAPI, engine *availability.Engine) *RoomService {
	return &RoomService{api: api, engine: engine, today: timeutil.Today}
}

// Rooms returns the venue's room snapshot.
func (s *RoomService) Rooms(ctx context.Context) ([]models.Room, error) {
	docs, err := s.api.Rooms(ctx)
	if err != nil {
		return nil, err
	}
	rooms := make([]models.Room, 0, len(docs))
	for _, doc := range docs {
		rooms = append(rooms, models.RoomFromDoc(doc))
	}
	return rooms, nil
}

// RoomPricing resolves every room against the live rate list: summary
// price for the list view, per-setup rates and the all-setups total for
// the detail/export view.
func (s *RoomService) RoomPricing(ctx context.Context) ([]pricing.RoomPricing, error) {
	rooms, err := s.Rooms(ctx)
	if err != nil {
		return nil, err
	}
	rateDocs, err := s.api.RoomRates(ctx)
	if err != nil {
		return nil, err
	}
	rates := pricing.ExtractRates(rateDocs, s.today())

	priced := make([]pricing.RoomPricing, 0, len(rooms))
	for _, room := range rooms {
		priced = append(priced, pricing.PriceRoom(room, rates))
	}
	return priced, nil
}

// AvailableRooms queries the authoritative availability endpoint first.
// When it errors or returns nothing usable, occupancy is inferred from
// events and schedules instead. The degradation is a logged warning,
// never a user-facing error.
func (s *RoomService) AvailableRooms(ctx context.Context, from, to string) ([]models.Room, error) {
	docs, err := s.api.Availability(ctx, from, to)
	if err != nil {
		log.Printf("[Rooms] availability endpoint failed, inferring occupancy: %v", err)
		return s.engine.AvailableRooms(ctx, from, to)
	}
	if len(docs) == 0 {
		log.Printf("[Rooms] availability endpoint returned nothing, inferring occupancy")
		return s.engine.AvailableRooms(ctx, from, to)
	}

	rooms := make([]models.Room, 0, len(docs))
	for _, doc := range docs {
		room := models.RoomFromDoc(doc)
		if room.Active {
			rooms = append(rooms, room)
		}
	}
	return rooms, nil
}
