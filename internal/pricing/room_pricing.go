package pricing

import (
	"skill-backend/internal/models"
)

// SetupRate pairs a setup with its matched rate, if any.
type SetupRate struct {
	Setup models.RoomSetup `json:"setup"`
	Price *float64         `json:"price"`
}

// RoomPricing is the resolved pricing view of one room.
type RoomPricing struct {
	Room models.Room `json:"room"`

	// BasePrice is the whole-room rate, nil when absent.
	BasePrice *float64 `json:"base_price"`

	// SummaryPrice is the list-view price: base rate if positive, else
	// the minimum matched setup rate, else nil (rendered "N/D").
	SummaryPrice *float64 `json:"summary_price"`

	Currency   string      `json:"currency"`
	SetupRates []SetupRate `json:"setup_rates"`

	// Total is the detail/export figure: base rate (or 0) plus the sum
	// of every setup rate, as if all setups were booked at once. This
	// mirrors the established report semantics upstream; it is an upper
	// bound, not a booking cost, and is preserved on purpose.
	Total float64 `json:"total"`
}

// PriceRoom resolves the full pricing view of a room against the
// normalized rate list.
func PriceRoom(room models.Room, rates []Rate) RoomPricing {
	pricing := RoomPricing{Room: room, Currency: DefaultCurrency}

	base := FindBaseRate(room, rates)
	if base != nil {
		pricing.BasePrice = base.Price
		if base.Currency != "" {
			pricing.Currency = base.Currency
		}
	}

	var minSetup *float64
	for _, setup := range room.Setups {
		sr := SetupRate{Setup: setup}
		if match := FindSetupRate(room, setup, rates); match != nil {
			sr.Price = match.Price
			if pricing.Currency == DefaultCurrency && match.Currency != "" {
				pricing.Currency = match.Currency
			}
		}
		if sr.Price != nil {
			pricing.Total += *sr.Price
			if minSetup == nil || *sr.Price < *minSetup {
				minSetup = sr.Price
			}
		}
		pricing.SetupRates = append(pricing.SetupRates, sr)
	}

	if pricing.BasePrice != nil && positive(*pricing.BasePrice) {
		pricing.SummaryPrice = pricing.BasePrice
	} else if minSetup != nil {
		pricing.SummaryPrice = minSetup
	}

	if pricing.BasePrice != nil {
		pricing.Total += *pricing.BasePrice
	}
	return pricing
}
