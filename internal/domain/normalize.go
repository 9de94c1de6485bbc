package domain

import (
	"strconv"
	"strings"
)

// The feed and the spreadsheet API are duck-typed: the same concept arrives
// under several keys and casings, numbers arrive as strings, identifiers fall
// back id -> sku -> name. Normalization happens here, once, at the boundary;
// core logic only ever sees the canonical structs.

// NormalizeProduct builds a canonical Product from one raw feed entry
func NormalizeProduct(m map[string]interface{}) Product {
	p := Product{
		ID:                   str(m, "id"),
		SKU:                  str(m, "sku"),
		Name:                 str(m, "name", "title", "description"),
		Brand:                str(m, "brand", "Brand", "BRAND"),
		ImageURL:             str(m, "image_url", "imageUrl", "ImageUrl", "ImageURL"),
		Price:                num(m, "price", "unit_price"),
		BoxPrice:             num(m, "box_price", "unit_price_box", "box_unit_price"),
		PolyPrice:            num(m, "poly_price", "unit_price_poly", "poly_unit_price"),
		Commission:           num(m, "commission", "commission_amount"),
		CommissionPercentage: num(m, "commission_percentage"),
		InnerCase:            int(num(m, "inner_case", "innerCase", "INNER CASE")),
		StockQuantity:        int(num(m, "stock_quantity", "stock")),
		Status:               str(m, "status"),
	}
	// The UK feed publishes a box/poly price pair; default both to the unit
	// price when absent so the swap policy degrades to a fixed price.
	if p.BoxPrice == 0 {
		p.BoxPrice = p.Price
	}
	if p.PolyPrice == 0 {
		p.PolyPrice = p.Price
	}
	return p
}

// SanitizeCartLine repairs a line deserialized from device storage: trims the
// identifier, defaults packaging to box, floors quantity at 1.
func SanitizeCartLine(l *CartLine) {
	l.ID = strings.TrimSpace(l.ID)
	l.Packaging = ParsePackaging(string(l.Packaging))
	if l.Qty < 1 {
		l.Qty = 1
	}
	if l.Price < 0 {
		l.Price = 0
	}
	if l.StockQuantity < 0 {
		l.StockQuantity = 0
	}
	if l.InnerCase < 0 {
		l.InnerCase = 0
	}
}

// NormalizeAggregateRow canonicalizes one per-product row of the stocklist
// aggregate response, which mixes camelCase and PascalCase keys.
func NormalizeAggregateRow(m map[string]interface{}) AggregateRow {
	row := AggregateRow{
		Barcode:              str(m, "barcode", "Barcode"),
		Brand:                str(m, "brand", "Brand"),
		Description:          str(m, "description", "Description"),
		ImageURL:             str(m, "imageUrl", "ImageUrl", "ImageURL"),
		TotalOrderedQuantity: int(num(m, "totalOrderedQuantity")),
		TotalShippedQuantity: int(num(m, "totalShippedQuantity")),
	}
	if po, ok := m["perOrder"].([]interface{}); ok {
		for _, e := range po {
			pm, ok := e.(map[string]interface{})
			if !ok {
				continue
			}
			entry := PerOrderRow{OrderID: str(pm, "orderId", "OrderId")}
			if v, ok := numOK(pm, "shippedQuantity"); ok {
				n := int(v)
				entry.ShippedQuantity = &n
			}
			if v, ok := numOK(pm, "finalPriceBDT"); ok {
				f := v
				entry.FinalPriceBDT = &f
			}
			row.PerOrder = append(row.PerOrder, entry)
		}
	}
	return row
}

// AggregateRow is one product of the stocklist roll-up with its per-order
// editable breakdown
type AggregateRow struct {
	Barcode              string        `json:"barcode"`
	Brand                string        `json:"brand,omitempty"`
	Description          string        `json:"description,omitempty"`
	ImageURL             string        `json:"imageUrl,omitempty"`
	TotalOrderedQuantity int           `json:"totalOrderedQuantity"`
	TotalShippedQuantity int           `json:"totalShippedQuantity"`
	PerOrder             []PerOrderRow `json:"perOrder"`
}

// PerOrderRow is the editable shipped-qty / final-price cell for one order
type PerOrderRow struct {
	OrderID         string   `json:"orderId"`
	ShippedQuantity *int     `json:"shippedQuantity"`
	FinalPriceBDT   *float64 `json:"finalPriceBDT"`
}

func str(m map[string]interface{}, keys ...string) string {
	for _, k := range keys {
		switch v := m[k].(type) {
		case string:
			if s := strings.TrimSpace(v); s != "" {
				return s
			}
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64)
		}
	}
	return ""
}

func num(m map[string]interface{}, keys ...string) float64 {
	v, _ := numOK(m, keys...)
	return v
}

func numOK(m map[string]interface{}, keys ...string) (float64, bool) {
	for _, k := range keys {
		switch v := m[k].(type) {
		case float64:
			return v, true
		case int:
			return float64(v), true
		case string:
			if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
				return f, true
			}
		}
	}
	return 0, false
}
