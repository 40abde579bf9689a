package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEventAPI struct {
	events      []map[string]any
	clientsErr  error
	quote       float64
	quoteOK     bool
	quoteErr    error
	createdWith map[string]any
}

func (f *fakeEventAPI) Events(_ context.Context, _, _ string) ([]map[string]any, error) {
	return f.events, nil
}
func (f *fakeEventAPI) Clients(context.Context) ([]map[string]any, error) {
	if f.clientsErr != nil {
		return nil, f.clientsErr
	}
	return []map[string]any{{"idClient": float64(1)}}, nil
}
func (f *fakeEventAPI) Contacts(context.Context) ([]map[string]any, error) {
	return []map[string]any{{"idContact": float64(1)}}, nil
}
func (f *fakeEventAPI) Coordinators(context.Context) ([]map[string]any, error) {
	return []map[string]any{{"idCoordinator": float64(1)}}, nil
}
func (f *fakeEventAPI) Activities(context.Context) ([]map[string]any, error) {
	return []map[string]any{{"idActivity": float64(1)}}, nil
}
func (f *fakeEventAPI) Rooms(context.Context) ([]map[string]any, error) {
	return []map[string]any{{"idRoom": float64(1), "name": "Salón Real"}}, nil
}
func (f *fakeEventAPI) CreateEvent(_ context.Context, event map[string]any) (map[string]any, error) {
	f.createdWith = event
	return map[string]any{"idEvent": float64(55)}, nil
}
func (f *fakeEventAPI) CreateClient(_ context.Context, client map[string]any) (map[string]any, error) {
	return map[string]any{"idClient": float64(9)}, nil
}
func (f *fakeEventAPI) EventQuote(context.Context, string) (float64, bool, error) {
	return f.quote, f.quoteOK, f.quoteErr
}

func TestEventsTyped(t *testing.T) {
	api := &fakeEventAPI{events: []map[string]any{
		{"idEvent": float64(10), "name": "Congreso", "status": "Confirmado", "startDate": "2024-06-01T08:00:00", "endDate": "2024-06-02"},
	}}
	svc := NewEventService(api)

	events, err := svc.Events(context.Background(), "2024-06-01", "2024-06-02")
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, int64(10), events[0].ID)
	assert.Equal(t, "2024-06-01", events[0].StartDate)
}

func TestReferenceDataFull(t *testing.T) {
	svc := NewEventService(&fakeEventAPI{})

	data := svc.ReferenceData(context.Background())
	assert.Len(t, data.Clients, 1)
	assert.Len(t, data.Contacts, 1)
	assert.Len(t, data.Coordinators, 1)
	assert.Len(t, data.Activities, 1)
	require.Len(t, data.Rooms, 1)
	assert.Equal(t, "Salón Real", data.Rooms[0].Name)
	assert.Empty(t, data.Warnings)
}

func TestReferenceDataPartialFailure(t *testing.T) {
	svc := NewEventService(&fakeEventAPI{clientsErr: errors.New("timeout")})

	data := svc.ReferenceData(context.Background())
	assert.Empty(t, data.Clients)
	assert.NotNil(t, data.Clients, "failed lookup is an empty list, not null")
	assert.Len(t, data.Contacts, 1)
	assert.Equal(t, []string{"clients"}, data.Warnings)
}

func TestQuotePresent(t *testing.T) {
	svc := NewEventService(&fakeEventAPI{quote: 1250.5, quoteOK: true})

	amount, err := svc.Quote(context.Background(), "E-100")
	require.NoError(t, err)
	require.NotNil(t, amount)
	assert.Equal(t, 1250.5, *amount)
}

func TestQuoteAbsent(t *testing.T) {
	svc := NewEventService(&fakeEventAPI{quoteOK: false})

	amount, err := svc.Quote(context.Background(), "E-100")
	require.NoError(t, err)
	assert.Nil(t, amount)
}

func TestQuoteError(t *testing.T) {
	svc := NewEventService(&fakeEventAPI{quoteErr: errors.New("upstream down")})

	_, err := svc.Quote(context.Background(), "E-100")
	assert.Error(t, err)
}
