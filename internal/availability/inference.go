package availability

import (
	"context"
	"log"
	"strings"
	"sync"

	"skill-backend/internal/metrics"
	"skill-backend/internal/models"
	"skill-backend/internal/skill"
)

// blockingStatuses are the event status labels that occupy rooms,
// folded (case/diacritic-insensitive, punctuation stripped). The set is
// fixed; if the upstream status vocabulary changes it must be revisited
// here.
var blockingStatuses = map[string]bool{
	"confirmado":     true,
	"porconfirmar":   true,
	"reunioninterna": true,
	"eventointerno":  true,
	"confirmed":      true,
	"tobeconfirmed":  true,
	"internalmeeting": true,
	"internalevent":  true,
}

// IsBlockingStatus reports whether an event status occupies its rooms.
func IsBlockingStatus(status string) bool {
	return blockingStatuses[skill.FoldKey(status)]
}

// Overlaps reports whether the event's date range overlaps [from, to].
// Events whose dates cannot be parsed are conservatively treated as
// overlapping: a false "available" is worse than a false "occupied".
func Overlaps(ev models.Event, from, to string) bool {
	if ev.StartDate == "" || ev.EndDate == "" {
		return true
	}
	return ev.StartDate <= to && ev.EndDate >= from
}

// InferOccupied computes the set of room ids considered occupied over
// [from, to] from event and schedule payloads. Pure function; the
// Engine wires it to the network.
func InferOccupied(rooms []models.Room, events []models.Event, schedules []map[string]any, from, to string) map[int64]bool {
	knownIDs := make(map[int64]bool, len(rooms))
	nameIndex := make(map[string][]int64, len(rooms))
	for _, room := range rooms {
		knownIDs[room.ID] = true
		if folded := skill.Fold(room.Name); folded != "" {
			nameIndex[folded] = append(nameIndex[folded], room.ID)
		}
	}

	schedulesByEvent := groupSchedules(schedules)

	occupied := make(map[int64]bool)
	for _, ev := range events {
		if !IsBlockingStatus(ev.Status) {
			continue
		}
		if !Overlaps(ev, from, to) {
			continue
		}

		refs := CollectRoomRefs(ev.Doc, DefaultFieldRoles, MaxScanDepth)
		for _, schedule := range schedulesByEvent[ev.ID] {
			scheduleRefs := CollectRoomRefs(schedule, DefaultFieldRoles, MaxScanDepth)
			refs.IDs = append(refs.IDs, scheduleRefs.IDs...)
			refs.Names = append(refs.Names, scheduleRefs.Names...)
		}

		for _, id := range refs.IDs {
			if knownIDs[id] {
				occupied[id] = true
			} else {
				log.Printf("[Availability] event %d references unknown room id %d, ignoring", ev.ID, id)
			}
		}
		for _, name := range refs.Names {
			for _, id := range matchRoomName(name, nameIndex) {
				occupied[id] = true
			}
		}
	}
	return occupied
}

// matchRoomName resolves a free-text room name against the known room
// names: exact folded match first, then bidirectional containment.
func matchRoomName(name string, nameIndex map[string][]int64) []int64 {
	folded := skill.Fold(name)
	if folded == "" {
		return nil
	}
	if ids, ok := nameIndex[folded]; ok {
		return ids
	}
	var matched []int64
	for known, ids := range nameIndex {
		if strings.Contains(known, folded) || strings.Contains(folded, known) {
			matched = append(matched, ids...)
		}
	}
	return matched
}

func groupSchedules(schedules []map[string]any) map[int64][]map[string]any {
	grouped := make(map[int64][]map[string]any)
	for _, schedule := range schedules {
		if id, ok := models.FirstNumber(schedule, "idEvent", "eventId"); ok {
			grouped[int64(id)] = append(grouped[int64(id)], schedule)
		}
	}
	return grouped
}

// EventSource is the slice of the Skill client the engine needs.
type EventSource interface {
	Rooms(ctx context.Context) ([]map[string]any, error)
	Events(ctx context.Context, from, to string) ([]map[string]any, error)
	Schedules(ctx context.Context, from, to string) ([]map[string]any, error)
}

// Engine infers room availability when the authoritative availability
// endpoint is down or returns nothing usable.
type Engine struct {
	source EventSource
}

func NewEngine(source EventSource) *Engine {
	return &Engine{source: source}
}

// AvailableRooms returns the active rooms not occupied by any blocking
// event over [from, to]. Failures degrade rather than error: if events
// cannot be fetched nothing is reported available (fail-safe), and a
// schedule fetch failure only loses the schedule cross-reference.
func (e *Engine) AvailableRooms(ctx context.Context, from, to string) ([]models.Room, error) {
	metrics.AvailabilityInferenceTotal.Inc()

	roomDocs, err := e.source.Rooms(ctx)
	if err != nil {
		log.Printf("[Availability] room fetch failed, reporting nothing available: %v", err)
		return []models.Room{}, nil
	}
	rooms := make([]models.Room, 0, len(roomDocs))
	for _, doc := range roomDocs {
		rooms = append(rooms, models.RoomFromDoc(doc))
	}

	var (
		wg        sync.WaitGroup
		eventDocs []map[string]any
		eventsErr error
		schedules []map[string]any
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		eventDocs, eventsErr = e.source.Events(ctx, from, to)
	}()
	go func() {
		defer wg.Done()
		var schedErr error
		schedules, schedErr = e.source.Schedules(ctx, from, to)
		if schedErr != nil {
			// Best effort: events alone still associate most rooms.
			log.Printf("[Availability] schedule fetch failed, continuing without schedules: %v", schedErr)
			schedules = nil
		}
	}()
	wg.Wait()

	if eventsErr != nil {
		log.Printf("[Availability] event fetch failed, reporting nothing available: %v", eventsErr)
		return []models.Room{}, nil
	}

	events := make([]models.Event, 0, len(eventDocs))
	for _, doc := range eventDocs {
		events = append(events, models.EventFromDoc(doc))
	}

	occupied := InferOccupied(rooms, events, schedules, from, to)

	available := make([]models.Room, 0, len(rooms))
	for _, room := range rooms {
		if room.Active && !occupied[room.ID] {
			available = append(available, room)
		}
	}
	return available, nil
}
