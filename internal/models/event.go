package models

import (
	"skill-backend/internal/skill"
)

// Event is an upstream event record. Only identity, status and the
// date range are extracted into typed fields; the full document is kept
// because the room/activity references the occupancy inference needs
// live under inconsistent nested shapes.
type Event struct {
	ID          int64          `json:"id"`
	EventNumber string         `json:"event_number"`
	Name        string         `json:"name"`
	Status      string         `json:"status"`
	ClientName  string         `json:"client_name"`
	StartDate   string         `json:"start_date"`
	EndDate     string         `json:"end_date"`
	Doc         map[string]any `json:"-"`
}

func EventFromDoc(doc map[string]any) Event {
	ev := Event{
		Name:       FirstString(doc, "name", "eventName", "nombreEvento", "description"),
		Status:     FirstString(doc, "status", "eventStatus", "estado", "statusName"),
		ClientName: FirstString(doc, "clientName", "client", "nombreCliente"),
		StartDate:  skill.ISODate(FirstValue(doc, "startDate", "dateFrom", "fechaInicio", "initialDate")),
		EndDate:    skill.ISODate(FirstValue(doc, "endDate", "dateTo", "fechaFin", "finalDate")),
		Doc:        doc,
	}
	if id, ok := FirstNumber(doc, "idEvent", "eventId", "id"); ok {
		ev.ID = int64(id)
	}
	ev.EventNumber = FirstString(doc, "eventNumber", "numeroEvento", "number")
	if ev.EventNumber == "" {
		if n, ok := FirstNumber(doc, "eventNumber", "numeroEvento", "number"); ok {
			ev.EventNumber = skill.FormatNumber(n)
		}
	}
	return ev
}
