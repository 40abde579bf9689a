package pricing

import (
	"testing"

	"skill-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func price(v float64) *float64 { return &v }

func TestExtractRateShapes(t *testing.T) {
	docs := []map[string]any{
		{"idRoom": float64(1), "price": float64(300), "currency": "USD"},
		{"room": map[string]any{"id": float64(2), "name": "Salón Real"}, "amount": float64(500)},
		{"salon": "Salón Anexo", "rate": float64(150)},
	}

	rates := ExtractRates(docs, today)
	require.Len(t, rates, 3)

	assert.Equal(t, int64(1), rates[0].RoomID)
	require.NotNil(t, rates[0].Price)
	assert.Equal(t, float64(300), *rates[0].Price)

	assert.Equal(t, int64(2), rates[1].RoomID)
	assert.Equal(t, "Salón Real", rates[1].RoomName)

	assert.Equal(t, int64(0), rates[2].RoomID)
	assert.Equal(t, "Salón Anexo", rates[2].RoomName)
}

func TestExtractRateNonPositivePriceIsAbsent(t *testing.T) {
	rates := ExtractRates([]map[string]any{{"idRoom": float64(1), "price": float64(0)}}, today)
	require.Len(t, rates, 1)
	assert.Nil(t, rates[0].Price)
}

func TestExtractRatePriceListFallback(t *testing.T) {
	doc := map[string]any{
		"idRoom": float64(1),
		"priceLists": []any{
			map[string]any{"active": true, "priceTNI": float64(90)},
		},
	}

	rates := ExtractRates([]map[string]any{doc}, today)
	require.NotNil(t, rates[0].Price)
	assert.Equal(t, float64(90), *rates[0].Price)
}

func TestFindBaseRatePrefersSetuplessRate(t *testing.T) {
	room := models.Room{ID: 1, Name: "Salón Real"}
	rates := []Rate{
		{RoomID: 1, SetupID: 10, SetupName: "Auditorio", Price: price(500)},
		{RoomID: 1, Price: price(300)},
		{RoomID: 2, Price: price(999)},
	}

	base := FindBaseRate(room, rates)
	require.NotNil(t, base)
	assert.Equal(t, float64(300), *base.Price)
}

func TestFindBaseRateFallsBackToFirstRoomRate(t *testing.T) {
	room := models.Room{ID: 1, Name: "Salón Real"}
	rates := []Rate{{RoomID: 1, SetupID: 10, Price: price(500)}}

	base := FindBaseRate(room, rates)
	require.NotNil(t, base)
	assert.Equal(t, float64(500), *base.Price)
}

func TestRatesForRoomNameContainment(t *testing.T) {
	room := models.Room{ID: 1, Name: "Salón Real"}
	rates := []Rate{
		{RoomName: "salon real", Price: price(1)},
		{RoomName: "Real", Price: price(2)},
		{RoomName: "Salón Anexo", Price: price(3)},
	}

	matched := RatesForRoom(room, rates)
	assert.Len(t, matched, 2)
}

func TestFindSetupRateByID(t *testing.T) {
	room := models.Room{ID: 1}
	setup := models.RoomSetup{ID: 10, Name: "Auditorio"}
	rates := []Rate{
		{RoomID: 1, SetupID: 99, Price: price(1)},
		{RoomID: 1, SetupID: 10, Price: price(2)},
	}

	match := FindSetupRate(room, setup, rates)
	require.NotNil(t, match)
	assert.Equal(t, float64(2), *match.Price)
}

func TestFindSetupRateByNameOverlap(t *testing.T) {
	room := models.Room{ID: 1}
	setup := models.RoomSetup{Name: "Auditorio"}
	rates := []Rate{
		{RoomID: 1, SetupName: "Montaje Auditorio Completo", Price: price(7)},
	}

	match := FindSetupRate(room, setup, rates)
	require.NotNil(t, match)
	assert.Equal(t, float64(7), *match.Price)
}

func TestFindSetupRateGlobalFallback(t *testing.T) {
	// No rate references the room, but a global rate carries the setup.
	room := models.Room{ID: 1, Name: "Salón Real"}
	setup := models.RoomSetup{ID: 10}
	rates := []Rate{{RoomID: 2, SetupID: 10, Price: price(4)}}

	match := FindSetupRate(room, setup, rates)
	require.NotNil(t, match)
	assert.Equal(t, float64(4), *match.Price)
}

func TestPriceRoomSummaryAndTotal(t *testing.T) {
	room := models.Room{
		ID:   1,
		Name: "Salón Real",
		Setups: []models.RoomSetup{
			{ID: 10, Name: "Auditorio"},
			{ID: 11, Name: "Escuela"},
		},
	}
	rates := []Rate{
		{RoomID: 1, Price: price(300), Currency: "USD"},
		{RoomID: 1, SetupID: 10, Price: price(500)},
		{RoomID: 1, SetupID: 11, Price: price(200)},
	}

	p := PriceRoom(room, rates)
	require.NotNil(t, p.BasePrice)
	assert.Equal(t, float64(300), *p.BasePrice)
	require.NotNil(t, p.SummaryPrice)
	assert.Equal(t, float64(300), *p.SummaryPrice)
	// Total is base plus every setup rate, as if all setups were booked
	// at once.
	assert.Equal(t, float64(1000), p.Total)
	assert.Equal(t, "USD", p.Currency)
	assert.Len(t, p.SetupRates, 2)
}

func TestPriceRoomSummaryFallsBackToMinSetup(t *testing.T) {
	room := models.Room{
		ID:     1,
		Name:   "Salón Real",
		Setups: []models.RoomSetup{{ID: 10}, {ID: 11}},
	}
	rates := []Rate{
		{RoomID: 1, SetupID: 10, Price: price(500)},
		{RoomID: 1, SetupID: 11, Price: price(200)},
	}

	p := PriceRoom(room, rates)
	require.NotNil(t, p.SummaryPrice)
	assert.Equal(t, float64(200), *p.SummaryPrice)
}

func TestPriceRoomNothingMatches(t *testing.T) {
	room := models.Room{ID: 1, Name: "Salón Real", Setups: []models.RoomSetup{{ID: 10}}}

	p := PriceRoom(room, nil)
	assert.Nil(t, p.BasePrice)
	assert.Nil(t, p.SummaryPrice)
	assert.Equal(t, float64(0), p.Total)
	assert.Equal(t, DefaultCurrency, p.Currency)
}
