package pricing

import (
	"math"
	"strings"

	"skill-backend/internal/models"
	"skill-backend/internal/skill"
)

// DefaultCurrency is used when no matched rate carries one.
const DefaultCurrency = "USD"

// Rate is a normalized room rate record. The upstream rate list is
// loosely typed: the room reference may be a numeric id, a nested room
// object or a free-text name; the price may live under a dozen field
// names or inside price-list entries. A Rate with a nil Price resolved
// to nothing positive and is absent for pricing purposes.
type Rate struct {
	RoomID    int64    `json:"room_id"`
	RoomName  string   `json:"room_name"`
	SetupID   int64    `json:"setup_id"`
	SetupName string   `json:"setup_name"`
	Price     *float64 `json:"price"`
	Currency  string   `json:"currency"`
}

var rateDirectPriceFields = []string{
	"price", "amount", "rate", "unitPrice", "value", "tariff", "cost",
	"priceTI", "taxesIncludedPrice", "priceTNI", "taxesNotIncludedPrice",
}

// ExtractRates normalizes loose rate documents for today's date.
func ExtractRates(docs []map[string]any, today string) []Rate {
	rates := make([]Rate, 0, len(docs))
	for _, doc := range docs {
		rates = append(rates, rateFromDoc(doc, today))
	}
	return rates
}

func rateFromDoc(doc map[string]any, today string) Rate {
	rate := Rate{
		SetupName: models.FirstString(doc, "setupName", "montaje", "nombreMontaje"),
		Currency:  models.FirstString(doc, "currency", "moneda", "currencyCode"),
	}

	if id, ok := models.FirstNumber(doc, "idRoom", "roomId", "idSalon", "salonId"); ok {
		rate.RoomID = int64(id)
	}
	// Room reference may instead be nested or a free-text name.
	for _, key := range []string{"room", "salon"} {
		switch ref := doc[key].(type) {
		case map[string]any:
			if rate.RoomID == 0 {
				if id, ok := models.FirstNumber(ref, "idRoom", "roomId", "id"); ok {
					rate.RoomID = int64(id)
				}
			}
			if rate.RoomName == "" {
				rate.RoomName = models.FirstString(ref, "name", "roomName", "nombreSalon")
			}
		case string:
			if rate.RoomName == "" {
				rate.RoomName = ref
			}
		}
	}
	if rate.RoomName == "" {
		rate.RoomName = models.FirstString(doc, "roomName", "nombreSalon", "salonName")
	}

	if id, ok := models.FirstNumber(doc, "idSetup", "setupId", "idMontaje", "montajeId"); ok {
		rate.SetupID = int64(id)
	}
	if rate.SetupName == "" {
		if s, ok := doc["setup"].(string); ok {
			rate.SetupName = s
		}
	}

	if price, ok := ratePrice(doc, today); ok {
		rate.Price = &price
	}
	return rate
}

// ratePrice tries the direct field names first, then the price-list
// resolution. Only positive finite values count.
func ratePrice(doc map[string]any, today string) (float64, bool) {
	if v, ok := models.FirstNumber(doc, rateDirectPriceFields...); ok && positive(v) {
		return v, true
	}
	resolved := Resolve(doc, today)
	if resolved.TaxesIncluded != nil && positive(*resolved.TaxesIncluded) {
		return *resolved.TaxesIncluded, true
	}
	if resolved.TaxesNotIncluded != nil && positive(*resolved.TaxesNotIncluded) {
		return *resolved.TaxesNotIncluded, true
	}
	return 0, false
}

func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}

// RatesForRoom filters rates associated with the room, by id first and
// by bidirectional name containment for id-less records.
func RatesForRoom(room models.Room, rates []Rate) []Rate {
	var matched []Rate
	for _, rate := range rates {
		if rate.RoomID != 0 {
			if rate.RoomID == room.ID {
				matched = append(matched, rate)
			}
			continue
		}
		if rate.RoomName != "" && namesOverlap(rate.RoomName, room.Name) {
			matched = append(matched, rate)
		}
	}
	return matched
}

// FindBaseRate resolves the room's whole-room rate: among the room's
// rates, one with neither a setup id nor a setup name wins; else the
// first room-specific rate.
func FindBaseRate(room models.Room, rates []Rate) *Rate {
	roomRates := RatesForRoom(room, rates)
	for i := range roomRates {
		if roomRates[i].SetupID == 0 && roomRates[i].SetupName == "" {
			return &roomRates[i]
		}
	}
	if len(roomRates) > 0 {
		return &roomRates[0]
	}
	return nil
}

// FindSetupRate resolves the rate for one setup of a room: match by
// setup id first, then by case-insensitive bidirectional substring on
// the setup name. When the room-specific rates yield nothing, the same
// two steps run against the global list as a last resort.
func FindSetupRate(room models.Room, setup models.RoomSetup, rates []Rate) *Rate {
	if match := matchSetup(RatesForRoom(room, rates), setup); match != nil {
		return match
	}
	return matchSetup(rates, setup)
}

func matchSetup(rates []Rate, setup models.RoomSetup) *Rate {
	if setup.ID != 0 {
		for i := range rates {
			if rates[i].SetupID == setup.ID {
				return &rates[i]
			}
		}
	}
	if setup.Name != "" {
		for i := range rates {
			if rates[i].SetupName != "" && namesOverlap(rates[i].SetupName, setup.Name) {
				return &rates[i]
			}
		}
	}
	return nil
}

func namesOverlap(a, b string) bool {
	fa, fb := skill.Fold(a), skill.Fold(b)
	if fa == "" || fb == "" {
		return false
	}
	return strings.Contains(fa, fb) || strings.Contains(fb, fa)
}
