package pricing

import (
	"skill-backend/internal/models"
	"skill-backend/internal/skill"
)

// Resolved carries the effective prices for an entity. nil means the
// price is unknown and must render as "N/D" — an unknown price and a
// legitimate zero price are different things, and unknown prices must
// never contribute to valuation totals.
type Resolved struct {
	TaxesIncluded    *float64 `json:"taxes_included"`
	TaxesNotIncluded *float64 `json:"taxes_not_included"`
}

// Legacy flat price fields, in fixed priority order. The upstream
// catalog carries prices under direct fields on older records and under
// price-list sub-records on newer ones; direct fields win.
var (
	tiFields = []string{
		"taxesIncludedPrice", "priceTI", "priceTaxesIncluded",
		"unitPriceTI", "salePriceTI", "publicPrice", "price",
	}
	tniFields = []string{
		"taxesNotIncludedPrice", "priceTNI", "priceTaxesNotIncluded",
		"unitPriceTNI", "salePriceTNI", "basePrice", "netPrice",
	}
	priceListFields = []string{"priceLists", "priceList", "prices"}

	entryTIFields  = []string{"taxesIncludedPrice", "priceTI", "price"}
	entryTNIFields = []string{"taxesNotIncludedPrice", "priceTNI", "netPrice"}
)

// Resolve determines the effective TI/TNI prices of a loose service or
// room-rate document for today (ISO yyyy-mm-dd).
func Resolve(doc map[string]any, today string) Resolved {
	entry := SelectPriceListEntry(priceListEntries(doc), today)

	var resolved Resolved
	if v, ok := lookupPrice(doc, entry, tiFields, entryTIFields); ok {
		resolved.TaxesIncluded = &v
	}
	if v, ok := lookupPrice(doc, entry, tniFields, entryTNIFields); ok {
		resolved.TaxesNotIncluded = &v
	}
	return resolved
}

func lookupPrice(doc, entry map[string]any, direct, entryFields []string) (float64, bool) {
	if v, ok := models.FirstNumber(doc, direct...); ok {
		return v, true
	}
	if entry != nil {
		if v, ok := models.FirstNumber(entry, entryFields...); ok {
			return v, true
		}
	}
	return 0, false
}

func priceListEntries(doc map[string]any) []map[string]any {
	for _, key := range priceListFields {
		if items, ok := doc[key].([]any); ok {
			entries := make([]map[string]any, 0, len(items))
			for _, it := range items {
				if obj, ok := it.(map[string]any); ok {
					entries = append(entries, obj)
				}
			}
			return entries
		}
	}
	return nil
}

// SelectPriceListEntry picks the single effective entry: an active
// entry whose [fromDate, toDate] range contains today wins; else the
// first active entry; else the first entry; else nil. The trailing
// fallbacks are a deterministic order over inconsistent data, not a
// business guarantee.
func SelectPriceListEntry(entries []map[string]any, today string) map[string]any {
	if len(entries) == 0 {
		return nil
	}

	var firstActive map[string]any
	for _, entry := range entries {
		if !models.Boolish(models.FirstValue(entry, "active", "isActive", "activo"), false) {
			continue
		}
		if firstActive == nil {
			firstActive = entry
		}
		if entryCoversDate(entry, today) {
			return entry
		}
	}
	if firstActive != nil {
		return firstActive
	}
	return entries[0]
}

// entryCoversDate reports whether the entry is dated and its range
// contains today. ISO date strings compare lexically.
func entryCoversDate(entry map[string]any, today string) bool {
	from := skill.ISODate(models.FirstValue(entry, "fromDate", "dateFrom", "validFrom", "startDate"))
	to := skill.ISODate(models.FirstValue(entry, "toDate", "dateTo", "validTo", "endDate"))
	if from == "" && to == "" {
		return false
	}
	if from != "" && today < from {
		return false
	}
	if to != "" && today > to {
		return false
	}
	return true
}
