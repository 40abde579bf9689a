package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoomFromDocFieldDrift(t *testing.T) {
	doc := map[string]any{
		"idSalon":     float64(4),
		"nombreSalon": "Salón Real",
		"codigo":      "SR",
		"area":        float64(420.5),
		"activo":      "si",
		"montajes": []any{
			map[string]any{"idMontaje": float64(10), "nombreMontaje": "Auditorio", "capacidad": float64(200)},
		},
	}

	room := RoomFromDoc(doc)
	assert.Equal(t, int64(4), room.ID)
	assert.Equal(t, "Salón Real", room.Name)
	assert.Equal(t, "SR", room.Code)
	assert.Equal(t, 420.5, room.Area)
	assert.True(t, room.Active)
	require.Len(t, room.Setups, 1)
	assert.Equal(t, int64(10), room.Setups[0].ID)
	assert.Equal(t, 200, room.Setups[0].Capacity)
}

func TestRoomFromDocDefaultsActive(t *testing.T) {
	room := RoomFromDoc(map[string]any{"idRoom": float64(1)})
	assert.True(t, room.Active, "missing active flag defaults to active")

	room = RoomFromDoc(map[string]any{"idRoom": float64(1), "active": false})
	assert.False(t, room.Active)
}

func TestEventFromDoc(t *testing.T) {
	doc := map[string]any{
		"idEvent":     float64(77),
		"eventNumber": float64(2024101),
		"status":      "Confirmado",
		"startDate":   "2024-06-01T08:00:00",
		"endDate":     "2024-06-02T18:00:00",
	}

	ev := EventFromDoc(doc)
	assert.Equal(t, int64(77), ev.ID)
	assert.Equal(t, "2024101", ev.EventNumber, "numeric event numbers render without a decimal point")
	assert.Equal(t, "2024-06-01", ev.StartDate)
	assert.Equal(t, "2024-06-02", ev.EndDate)
	assert.NotNil(t, ev.Doc, "full document is kept for occupancy inference")
}

func TestBoolish(t *testing.T) {
	assert.True(t, Boolish(true, false))
	assert.True(t, Boolish(float64(1), false))
	assert.True(t, Boolish("Sí", false))
	assert.False(t, Boolish("inactivo", true))
	assert.True(t, Boolish(nil, true))
	assert.False(t, Boolish(nil, false))
	assert.True(t, Boolish("unparseable", true))
}

func TestFirstNumberSkipsNonNumeric(t *testing.T) {
	doc := map[string]any{"a": "not a number", "b": "1,500"}

	v, ok := FirstNumber(doc, "a", "b")
	require.True(t, ok)
	assert.Equal(t, float64(1500), v)
}
