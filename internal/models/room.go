package models

import (
	"skill-backend/internal/skill"
)

// RoomSetup is one named seating configuration of a room.
type RoomSetup struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Capacity int    `json:"capacity"`
}

// Room is a venue room as served by the upstream catalog. Rooms are a
// read-only snapshot per request; no local mutation.
type Room struct {
	ID     int64       `json:"id"`
	Name   string      `json:"name"`
	Code   string      `json:"code"`
	Area   float64     `json:"area_m2"`
	Height float64     `json:"height_m"`
	Active bool        `json:"active"`
	Setups []RoomSetup `json:"setups"`
}

// RoomFromDoc builds a Room from a loose upstream document, tolerating
// the field-name drift the catalog endpoints exhibit.
func RoomFromDoc(doc map[string]any) Room {
	room := Room{
		Name:   FirstString(doc, "name", "roomName", "nombreSalon", "salonName"),
		Code:   FirstString(doc, "code", "roomCode", "codigo"),
		Active: Boolish(FirstValue(doc, "active", "isActive", "activo"), true),
	}
	if id, ok := FirstNumber(doc, "idRoom", "roomId", "idSalon", "id"); ok {
		room.ID = int64(id)
	}
	if area, ok := FirstNumber(doc, "area", "areaM2", "squareMeters"); ok {
		room.Area = area
	}
	if height, ok := FirstNumber(doc, "height", "heightM", "altura"); ok {
		room.Height = height
	}
	room.Setups = setupsFromDoc(doc)
	return room
}

func setupsFromDoc(doc map[string]any) []RoomSetup {
	var rawSetups []any
	for _, key := range []string{"setups", "roomSetups", "montajes", "configurations"} {
		if items, ok := doc[key].([]any); ok {
			rawSetups = items
			break
		}
	}
	setups := make([]RoomSetup, 0, len(rawSetups))
	for _, raw := range rawSetups {
		obj, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		setup := RoomSetup{
			Name: FirstString(obj, "name", "setupName", "montaje", "nombreMontaje"),
		}
		if id, ok := FirstNumber(obj, "idSetup", "setupId", "idMontaje", "id"); ok {
			setup.ID = int64(id)
		}
		if pax, ok := FirstNumber(obj, "capacity", "pax", "maxPax", "capacidad"); ok {
			setup.Capacity = int(pax)
		}
		setups = append(setups, setup)
	}
	return setups
}

// FirstString returns the first non-empty string among keys.
func FirstString(doc map[string]any, keys ...string) string {
	for _, k := range keys {
		if s, ok := doc[k].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

// FirstNumber returns the first coercible numeric value among keys.
func FirstNumber(doc map[string]any, keys ...string) (float64, bool) {
	for _, k := range keys {
		if v, present := doc[k]; present {
			if n, ok := skill.Number(v); ok {
				return n, true
			}
		}
	}
	return 0, false
}

// FirstValue returns the first present value among keys.
func FirstValue(doc map[string]any, keys ...string) any {
	for _, k := range keys {
		if v, present := doc[k]; present {
			return v
		}
	}
	return nil
}

// Boolish coerces loose truthy values (bool, 0/1, "true"/"si").
// Missing values take def.
func Boolish(v any, def bool) bool {
	switch b := v.(type) {
	case nil:
		return def
	case bool:
		return b
	case float64:
		return b != 0
	case string:
		switch skill.FoldKey(b) {
		case "true", "1", "si", "yes", "active", "activo":
			return true
		case "false", "0", "no", "inactive", "inactivo":
			return false
		}
	}
	return def
}
