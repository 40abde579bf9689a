package availability

import (
	"context"
	"errors"
	"testing"

	"skill-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func event(id int64, status, start, end string, doc map[string]any) models.Event {
	if doc == nil {
		doc = map[string]any{}
	}
	return models.Event{ID: id, Status: status, StartDate: start, EndDate: end, Doc: doc}
}

func TestIsBlockingStatus(t *testing.T) {
	assert.True(t, IsBlockingStatus("Confirmado"))
	assert.True(t, IsBlockingStatus("Por confirmar"))
	assert.True(t, IsBlockingStatus("Reunión Interna"))
	assert.True(t, IsBlockingStatus("CONFIRMED"))
	assert.False(t, IsBlockingStatus("Cancelado"))
	assert.False(t, IsBlockingStatus("Cotización"))
	assert.False(t, IsBlockingStatus(""))
}

func TestOverlaps(t *testing.T) {
	ev := event(1, "Confirmado", "2024-06-10", "2024-06-12", nil)
	assert.True(t, Overlaps(ev, "2024-06-12", "2024-06-12"))
	assert.True(t, Overlaps(ev, "2024-06-01", "2024-06-10"))
	assert.False(t, Overlaps(ev, "2024-06-13", "2024-06-14"))

	// Unparsable dates fail open.
	assert.True(t, Overlaps(event(2, "Confirmado", "", "", nil), "2024-06-01", "2024-06-01"))
}

func TestInferOccupiedConfirmedBlocksRoom(t *testing.T) {
	rooms := []models.Room{{ID: 1, Name: "Salón Real", Active: true}}
	events := []models.Event{
		event(10, "Confirmado", "2024-06-01", "2024-06-01",
			map[string]any{"eventRooms": []any{map[string]any{"idRoom": float64(1)}}}),
	}

	occupied := InferOccupied(rooms, events, nil, "2024-06-01", "2024-06-01")
	assert.True(t, occupied[1])
}

func TestInferOccupiedCancelledDoesNot(t *testing.T) {
	rooms := []models.Room{{ID: 1, Name: "Salón Real", Active: true}}
	events := []models.Event{
		event(10, "Cancelado", "2024-06-01", "2024-06-01",
			map[string]any{"eventRooms": []any{map[string]any{"idRoom": float64(1)}}}),
	}

	occupied := InferOccupied(rooms, events, nil, "2024-06-01", "2024-06-01")
	assert.Empty(t, occupied)
}

func TestInferOccupiedOutsideRangeDoesNot(t *testing.T) {
	rooms := []models.Room{{ID: 1, Name: "Salón Real", Active: true}}
	events := []models.Event{
		event(10, "Confirmado", "2024-07-01", "2024-07-02",
			map[string]any{"idRoom": float64(1)}),
	}

	occupied := InferOccupied(rooms, events, nil, "2024-06-01", "2024-06-01")
	assert.Empty(t, occupied)
}

func TestInferOccupiedUnknownRoomIDIgnored(t *testing.T) {
	rooms := []models.Room{{ID: 1, Name: "Salón Real", Active: true}}
	events := []models.Event{
		event(10, "Confirmado", "2024-06-01", "2024-06-01",
			map[string]any{"idRoom": float64(999)}),
	}

	occupied := InferOccupied(rooms, events, nil, "2024-06-01", "2024-06-01")
	assert.Empty(t, occupied)
}

func TestInferOccupiedByName(t *testing.T) {
	rooms := []models.Room{
		{ID: 1, Name: "Salón Real", Active: true},
		{ID: 2, Name: "Salón Anexo", Active: true},
	}
	events := []models.Event{
		event(10, "Confirmado", "2024-06-01", "2024-06-01",
			map[string]any{"salon": "salon real"}),
	}

	occupied := InferOccupied(rooms, events, nil, "2024-06-01", "2024-06-01")
	assert.True(t, occupied[1])
	assert.False(t, occupied[2])
}

func TestInferOccupiedViaSchedule(t *testing.T) {
	rooms := []models.Room{{ID: 1, Name: "Salón Real", Active: true}}
	events := []models.Event{
		event(10, "Por confirmar", "2024-06-01", "2024-06-01", map[string]any{}),
	}
	schedules := []map[string]any{
		{"idEvent": float64(10), "idRoom": float64(1)},
		{"idEvent": float64(99), "idRoom": float64(1)}, // other event, no blocking status
	}

	occupied := InferOccupied(rooms, events, schedules, "2024-06-01", "2024-06-01")
	assert.True(t, occupied[1])
}

type fakeSource struct {
	rooms     []map[string]any
	roomsErr  error
	events    []map[string]any
	eventsErr error
	schedules []map[string]any
	schedErr  error
}

func (f *fakeSource) Rooms(context.Context) ([]map[string]any, error) {
	return f.rooms, f.roomsErr
}
func (f *fakeSource) Events(_ context.Context, _, _ string) ([]map[string]any, error) {
	return f.events, f.eventsErr
}
func (f *fakeSource) Schedules(_ context.Context, _, _ string) ([]map[string]any, error) {
	return f.schedules, f.schedErr
}

func TestEngineAvailableRooms(t *testing.T) {
	source := &fakeSource{
		rooms: []map[string]any{
			{"idRoom": float64(1), "name": "Salón Real"},
			{"idRoom": float64(2), "name": "Salón Anexo"},
			{"idRoom": float64(3), "name": "Bodega", "active": false},
		},
		events: []map[string]any{
			{
				"idEvent": float64(10), "status": "Confirmado",
				"startDate": "2024-06-01", "endDate": "2024-06-01",
				"eventRooms": []any{map[string]any{"idRoom": float64(1)}},
			},
		},
	}

	available, err := NewEngine(source).AvailableRooms(context.Background(), "2024-06-01", "2024-06-01")
	require.NoError(t, err)
	require.Len(t, available, 1)
	assert.Equal(t, int64(2), available[0].ID)
}

func TestEngineRoomFetchFailureIsEmptyNotError(t *testing.T) {
	source := &fakeSource{roomsErr: errors.New("upstream down")}

	available, err := NewEngine(source).AvailableRooms(context.Background(), "2024-06-01", "2024-06-01")
	require.NoError(t, err)
	assert.Empty(t, available)
}

func TestEngineEventFetchFailureReportsNothingAvailable(t *testing.T) {
	source := &fakeSource{
		rooms:     []map[string]any{{"idRoom": float64(1), "name": "Salón Real"}},
		eventsErr: errors.New("upstream down"),
	}

	available, err := NewEngine(source).AvailableRooms(context.Background(), "2024-06-01", "2024-06-01")
	require.NoError(t, err)
	assert.Empty(t, available)
}

func TestEngineScheduleFailureOnlyLosesSchedules(t *testing.T) {
	source := &fakeSource{
		rooms:    []map[string]any{{"idRoom": float64(1), "name": "Salón Real"}},
		events:   []map[string]any{},
		schedErr: errors.New("upstream down"),
	}

	available, err := NewEngine(source).AvailableRooms(context.Background(), "2024-06-01", "2024-06-01")
	require.NoError(t, err)
	assert.Len(t, available, 1)
}
