package availability

import (
	"skill-backend/internal/skill"
)

// Event and schedule payloads reference rooms under wildly inconsistent
// nested shapes ({eventRooms: [{idRoom: 3}]}, {room: {id: 3}},
// {salon: "Salón Real"}, ...). CollectRoomRefs recovers every plausible
// room reference with a depth-bounded visitor over the decoded JSON
// value, driven by an injectable field-role table so the heuristic
// stays centralized and testable on its own.

// FieldRole classifies what a field name means for room association.
type FieldRole int

const (
	// RoleNone fields are still descended into.
	RoleNone FieldRole = iota
	// RoleRoomID fields carry a numeric room id.
	RoleRoomID
	// RoleRoomName fields carry a room name string.
	RoleRoomName
	// RoleRoomRef fields may carry either, or a nested room object.
	RoleRoomRef
)

// MaxScanDepth bounds the recursive scan. Payloads observed in the wild
// nest at most four levels; six leaves headroom without risking cycles.
const MaxScanDepth = 6

// DefaultFieldRoles maps folded field names (case- and
// diacritic-insensitive, punctuation stripped) to their role.
var DefaultFieldRoles = map[string]FieldRole{
	"idroom":     RoleRoomID,
	"roomid":     RoleRoomID,
	"idsalon":    RoleRoomID,
	"salonid":    RoleRoomID,
	"roomnumber": RoleRoomID,
	"roomname":   RoleRoomName,
	"nombresalon": RoleRoomName,
	"salonname":  RoleRoomName,
	"room":       RoleRoomRef,
	"salon":      RoleRoomRef,
	"sala":       RoleRoomRef,
}

// RoomRefs is the raw harvest of a scan: candidate ids and names, not
// yet validated against the known room set.
type RoomRefs struct {
	IDs   []int64
	Names []string
}

// CollectRoomRefs scans a decoded JSON value for room references.
func CollectRoomRefs(v any, roles map[string]FieldRole, maxDepth int) RoomRefs {
	if roles == nil {
		roles = DefaultFieldRoles
	}
	var refs RoomRefs
	scan(v, roles, 0, maxDepth, RoleNone, &refs)
	return refs
}

func scan(v any, roles map[string]FieldRole, depth, maxDepth int, role FieldRole, refs *RoomRefs) {
	if depth > maxDepth {
		return
	}
	switch value := v.(type) {
	case map[string]any:
		for key, child := range value {
			childRole := roles[skill.FoldKey(key)]
			scan(child, roles, depth+1, maxDepth, childRole, refs)
		}
	case []any:
		for _, child := range value {
			// Array items inherit the field's role: eventRooms entries
			// are still room references.
			scan(child, roles, depth+1, maxDepth, role, refs)
		}
	case string:
		switch role {
		case RoleRoomID, RoleRoomRef:
			if n, ok := skill.Number(value); ok {
				refs.IDs = append(refs.IDs, int64(n))
				return
			}
			if role == RoleRoomRef && value != "" {
				refs.Names = append(refs.Names, value)
			}
		case RoleRoomName:
			if value != "" {
				refs.Names = append(refs.Names, value)
			}
		}
	default:
		if role == RoleRoomID || role == RoleRoomRef {
			if n, ok := skill.Number(value); ok {
				refs.IDs = append(refs.IDs, int64(n))
			}
		}
	}
}
