package models

// Service is an inventory/catalog item (audio equipment, catering,
// furniture, ...). Prices are resolved from loose upstream documents by
// the pricing package; nil means unknown ("N/D"), distinct from zero.
type Service struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	Category    string   `json:"category"`
	Subcategory string   `json:"subcategory"`
	Stock       int      `json:"stock"`
	Active      bool     `json:"active"`
	CostFrom    *float64 `json:"cost_from"`
	CostTo      *float64 `json:"cost_to"`
	PriceTI     *float64 `json:"price_ti"`
	PriceTNI    *float64 `json:"price_tni"`
	Currency    string   `json:"currency"`
}

// ServiceFromDoc builds the typed part of a Service; price fields are
// filled in afterwards by the catalog service.
func ServiceFromDoc(doc map[string]any) Service {
	svc := Service{
		Name:        FirstString(doc, "name", "serviceName", "description", "nombre"),
		Category:    FirstString(doc, "category", "categoryName", "categoria"),
		Subcategory: FirstString(doc, "subcategory", "subcategoryName", "subcategoria"),
		Active:      Boolish(FirstValue(doc, "active", "isActive", "activo"), true),
		Currency:    FirstString(doc, "currency", "moneda", "currencyCode"),
	}
	if id, ok := FirstNumber(doc, "idService", "serviceId", "idArticulo", "id"); ok {
		svc.ID = int64(id)
	}
	if stock, ok := FirstNumber(doc, "stock", "quantity", "existencia"); ok {
		svc.Stock = int(stock)
	}
	if from, ok := FirstNumber(doc, "costFrom", "costPriceFrom", "minCost"); ok {
		svc.CostFrom = &from
	}
	if to, ok := FirstNumber(doc, "costTo", "costPriceTo", "maxCost"); ok {
		svc.CostTo = &to
	}
	return svc
}
