package crm

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"time"

	firebase "firebase.google.com/go/v4"
	firebasedb "firebase.google.com/go/v4/db"
	"github.com/google/uuid"
	"google.golang.org/api/option"

	"skill-backend/internal/config"
	"skill-backend/internal/timeutil"
)

// ErrUnknownVenue is returned for venue codes outside the configured
// table.
var ErrUnknownVenue = errors.New("crm: unknown venue")

// ErrNotFound is returned when an opportunity id does not exist.
var ErrNotFound = errors.New("crm: opportunity not found")

const opportunitiesPath = "crm/opportunities"

// Store is the CRM opportunity store over the per-venue Firebase
// Realtime Database instances. The tree layout is
// crm/opportunities/{id} with an embedded timeline/{entryId} subtree.
// The store performs no validation beyond what callers pass in; the
// database enforces no schema.
type Store struct {
	dbs map[string]*firebasedb.Client
}

// NewStore connects one database client per configured venue. Venues
// without a Firebase URL are skipped with a warning so a partially
// configured staging environment still starts.
func NewStore(ctx context.Context, cfg *config.Config) (*Store, error) {
	store := &Store{dbs: make(map[string]*firebasedb.Client)}
	for _, venue := range cfg.Venues {
		if venue.FirebaseURL == "" {
			log.Printf("[CRM] venue %s has no Firebase URL, CRM disabled for it", venue.Code)
			continue
		}
		app, err := firebase.NewApp(ctx,
			&firebase.Config{DatabaseURL: venue.FirebaseURL},
			option.WithCredentialsFile(cfg.Firebase.CredentialsFile),
		)
		if err != nil {
			return nil, fmt.Errorf("crm: firebase app for %s: %w", venue.Code, err)
		}
		client, err := app.Database(ctx)
		if err != nil {
			return nil, fmt.Errorf("crm: firebase database for %s: %w", venue.Code, err)
		}
		store.dbs[venue.Code] = client
	}
	return store, nil
}

// Venues returns the venue codes with a live CRM database.
func (s *Store) Venues() []string {
	if s == nil {
		return nil
	}
	codes := make([]string, 0, len(s.dbs))
	for code := range s.dbs {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

func (s *Store) root(venue string) (*firebasedb.Ref, error) {
	if s == nil {
		return nil, ErrUnknownVenue
	}
	client, ok := s.dbs[venue]
	if !ok {
		return nil, ErrUnknownVenue
	}
	return client.NewRef(opportunitiesPath), nil
}

// List returns every opportunity in the venue, newest first.
func (s *Store) List(ctx context.Context, venue string) ([]Opportunity, error) {
	root, err := s.root(venue)
	if err != nil {
		return nil, err
	}
	var byID map[string]Opportunity
	if err := root.Get(ctx, &byID); err != nil {
		return nil, fmt.Errorf("crm: list: %w", err)
	}
	list := make([]Opportunity, 0, len(byID))
	for id, opp := range byID {
		opp.ID = id
		list = append(list, opp)
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
	return list, nil
}

// Get returns one opportunity.
func (s *Store) Get(ctx context.Context, venue, id string) (*Opportunity, error) {
	root, err := s.root(venue)
	if err != nil {
		return nil, err
	}
	var opp Opportunity
	if err := root.Child(id).Get(ctx, &opp); err != nil {
		return nil, fmt.Errorf("crm: get: %w", err)
	}
	if opp.CreatedAt.IsZero() && opp.Title == "" {
		return nil, ErrNotFound
	}
	opp.ID = id
	return &opp, nil
}

// Create stores a new opportunity under a generated id and logs the
// creation on its timeline.
func (s *Store) Create(ctx context.Context, venue string, opp Opportunity) (*Opportunity, error) {
	root, err := s.root(venue)
	if err != nil {
		return nil, err
	}
	now := timeutil.Now()
	opp.ID = uuid.NewString()
	opp.CreatedAt = now
	opp.UpdatedAt = now
	if opp.Stage == "" {
		opp.Stage = StageNew
	}
	if !opp.Stage.Valid() {
		return nil, fmt.Errorf("crm: invalid stage %q", opp.Stage)
	}
	opp.Timeline = nil
	if err := root.Child(opp.ID).Set(ctx, opp); err != nil {
		return nil, fmt.Errorf("crm: create: %w", err)
	}
	s.appendTimeline(ctx, venue, opp.ID, TimelineEntry{
		Type:    EntryCreated,
		Message: opp.Title,
		Stage:   opp.Stage,
		Author:  opp.CreatedBy,
	})
	return &opp, nil
}

// Update applies a partial update (last-write-wins) and logs it.
func (s *Store) Update(ctx context.Context, venue, id string, fields map[string]any, author string) error {
	root, err := s.root(venue)
	if err != nil {
		return err
	}
	fields["updated_at"] = timeutil.Now()
	if err := root.Child(id).Update(ctx, fields); err != nil {
		return fmt.Errorf("crm: update: %w", err)
	}
	s.appendTimeline(ctx, venue, id, TimelineEntry{Type: EntryUpdated, Author: author})
	return nil
}

// ChangeStage moves the opportunity to stage. Any stage is reachable
// from any stage.
func (s *Store) ChangeStage(ctx context.Context, venue, id string, stage Stage, author string) error {
	if !stage.Valid() {
		return fmt.Errorf("crm: invalid stage %q", stage)
	}
	root, err := s.root(venue)
	if err != nil {
		return err
	}
	update := map[string]any{
		"stage":      string(stage),
		"updated_at": timeutil.Now(),
	}
	if err := root.Child(id).Update(ctx, update); err != nil {
		return fmt.Errorf("crm: change stage: %w", err)
	}
	s.appendTimeline(ctx, venue, id, TimelineEntry{Type: EntryStageChanged, Stage: stage, Author: author})
	return nil
}

// LinkEvent records the Skill event created from this opportunity and
// caches its quote amount when known.
func (s *Store) LinkEvent(ctx context.Context, venue, id, eventNumber string, quoteAmount *float64, author string) error {
	root, err := s.root(venue)
	if err != nil {
		return err
	}
	update := map[string]any{
		"event_number": eventNumber,
		"updated_at":   timeutil.Now(),
	}
	if quoteAmount != nil {
		update["quote_amount"] = *quoteAmount
	}
	if err := root.Child(id).Update(ctx, update); err != nil {
		return fmt.Errorf("crm: link event: %w", err)
	}
	s.appendTimeline(ctx, venue, id, TimelineEntry{
		Type:    EntryEventLinked,
		Message: eventNumber,
		Author:  author,
	})
	return nil
}

// MarkClientCreated records that the Skill client account was created.
func (s *Store) MarkClientCreated(ctx context.Context, venue, id, author string) error {
	root, err := s.root(venue)
	if err != nil {
		return err
	}
	update := map[string]any{
		"client_created": true,
		"updated_at":     timeutil.Now(),
	}
	if err := root.Child(id).Update(ctx, update); err != nil {
		return fmt.Errorf("crm: mark client created: %w", err)
	}
	s.appendTimeline(ctx, venue, id, TimelineEntry{Type: EntryClientCreated, Author: author})
	return nil
}

// AddNote appends a free-text note to the timeline.
func (s *Store) AddNote(ctx context.Context, venue, id, note, author string) error {
	if _, err := s.root(venue); err != nil {
		return err
	}
	return s.appendTimeline(ctx, venue, id, TimelineEntry{
		Type:    EntryNoteAdded,
		Message: note,
		Author:  author,
	})
}

// Delete removes the opportunity (and its timeline subtree with it).
func (s *Store) Delete(ctx context.Context, venue, id string) error {
	root, err := s.root(venue)
	if err != nil {
		return err
	}
	if err := root.Child(id).Delete(ctx); err != nil {
		return fmt.Errorf("crm: delete: %w", err)
	}
	return nil
}

// Timeline returns the opportunity's history, oldest first.
func (s *Store) Timeline(ctx context.Context, venue, id string) ([]TimelineEntry, error) {
	root, err := s.root(venue)
	if err != nil {
		return nil, err
	}
	var byID map[string]TimelineEntry
	if err := root.Child(id).Child("timeline").Get(ctx, &byID); err != nil {
		return nil, fmt.Errorf("crm: timeline: %w", err)
	}
	entries := make([]TimelineEntry, 0, len(byID))
	for entryID, entry := range byID {
		entry.ID = entryID
		entries = append(entries, entry)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].At.Before(entries[j].At)
	})
	return entries, nil
}

// appendTimeline writes an immutable history entry. Timeline failures
// are logged but never fail the mutating call that triggered them.
func (s *Store) appendTimeline(ctx context.Context, venue, id string, entry TimelineEntry) error {
	root, err := s.root(venue)
	if err != nil {
		return err
	}
	entry.ID = uuid.NewString()
	entry.At = timeutil.Now()
	if err := root.Child(id).Child("timeline").Child(entry.ID).Set(ctx, entry); err != nil {
		log.Printf("[CRM] timeline append failed for %s/%s: %v", venue, id, err)
		return fmt.Errorf("crm: timeline append: %w", err)
	}
	return nil
}

// Watch polls the venue's opportunity list and invokes fn whenever the
// observed state changes. The Go Admin SDK offers no realtime listener
// for the Realtime Database, so live updates are poll-and-push.
func (s *Store) Watch(ctx context.Context, venue string, interval time.Duration, fn func([]Opportunity)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var lastFingerprint string
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			list, err := s.List(ctx, venue)
			if err != nil {
				log.Printf("[CRM] watch poll failed for %s: %v", venue, err)
				continue
			}
			fp := fingerprint(list)
			if fp == lastFingerprint {
				continue
			}
			lastFingerprint = fp
			fn(list)
		}
	}
}

func fingerprint(list []Opportunity) string {
	fp := fmt.Sprintf("%d", len(list))
	for _, opp := range list {
		fp += "|" + opp.ID + "@" + opp.UpdatedAt.Format(time.RFC3339Nano) + ":" + string(opp.Stage)
	}
	return fp
}
