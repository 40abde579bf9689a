package crm

import (
	"time"
)

// Stage is a sales-funnel stage. The funnel is advisory: any stage is
// reachable from any stage, no transition graph is enforced.
type Stage string

const (
	StageNew         Stage = "new"
	StageContacted   Stage = "contacted"
	StageQualified   Stage = "qualified"
	StageProposal    Stage = "proposal"
	StageNegotiation Stage = "negotiation"
	StageOnHold      Stage = "on_hold"
	StageWon         Stage = "won"
	StageLost        Stage = "lost"
)

// Stages lists the funnel in display order.
var Stages = []Stage{
	StageNew, StageContacted, StageQualified, StageProposal,
	StageNegotiation, StageOnHold, StageWon, StageLost,
}

func (s Stage) Valid() bool {
	for _, known := range Stages {
		if s == known {
			return true
		}
	}
	return false
}

// Timeline entry types.
const (
	EntryCreated       = "created"
	EntryUpdated       = "updated"
	EntryStageChanged  = "stage_changed"
	EntryNoteAdded     = "note_added"
	EntryEventLinked   = "event_linked"
	EntryClientCreated = "client_created"
	EntryDeleted       = "deleted"
)

// TimelineEntry is one immutable history record of an opportunity.
// Entries are append-only; nothing ever rewrites them.
type TimelineEntry struct {
	ID      string    `json:"id"`
	Type    string    `json:"type"`
	Message string    `json:"message,omitempty"`
	Stage   Stage     `json:"stage,omitempty"`
	Author  string    `json:"author,omitempty"`
	At      time.Time `json:"at"`
}

// Opportunity is a CRM sales opportunity. Each one lives in exactly one
// venue's database; there are no cross-venue relationships. Writes are
// last-write-wins, no version field.
type Opportunity struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	ClientName string `json:"client_name"`
	Stage      Stage  `json:"stage"`

	// Details is the free-form nested form document the UI maintains.
	Details map[string]any `json:"details,omitempty"`

	// Link to the Skill event created from this opportunity, plus the
	// quote amount cached at link time.
	EventNumber string   `json:"event_number,omitempty"`
	QuoteAmount *float64 `json:"quote_amount,omitempty"`

	// ClientCreated marks that the Skill client account was created.
	ClientCreated bool `json:"client_created"`

	CreatedBy string    `json:"created_by,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Timeline map[string]TimelineEntry `json:"timeline,omitempty"`
}
