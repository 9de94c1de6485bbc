package domain

import (
	"strings"
	"time"
)

// Product is the canonical product record built from a feed entry.
// Feed JSON is duck-typed (id falling back to sku falling back to name,
// several casing variants); Normalize* funcs produce this shape at the
// boundary so nothing downstream touches raw maps.
type Product struct {
	ID                   string  `json:"id"`
	SKU                  string  `json:"sku"`
	Name                 string  `json:"name"`
	Brand                string  `json:"brand,omitempty"`
	ImageURL             string  `json:"image_url"`
	Price                float64 `json:"price"`
	BoxPrice             float64 `json:"box_price,omitempty"`
	PolyPrice            float64 `json:"poly_price,omitempty"`
	Commission           float64 `json:"commission"`
	CommissionPercentage float64 `json:"commission_percentage"`
	InnerCase            int     `json:"inner_case,omitempty"`
	StockQuantity        int     `json:"stock_quantity"`
	Status               string  `json:"status,omitempty"` // "in_stock" or otherwise
}

// Key returns the resolved identity string: id, falling back to sku,
// falling back to name.
func (p Product) Key() string {
	if p.ID != "" {
		return p.ID
	}
	if p.SKU != "" {
		return p.SKU
	}
	return p.Name
}

// CartLine is one cart entry. At most one line exists per resolved product
// identifier. Quantity stays clamped to [1, StockQuantity] whenever stock is
// known; a line whose stock is 0 is a violation.
type CartLine struct {
	ID                   string    `json:"id"`
	SKU                  string    `json:"sku"`
	Name                 string    `json:"name"`
	Brand                string    `json:"brand,omitempty"`
	ImageURL             string    `json:"image_url"`
	Price                float64   `json:"price"`
	BoxPrice             float64   `json:"box_price,omitempty"`
	PolyPrice            float64   `json:"poly_price,omitempty"`
	Commission           float64   `json:"commission"`
	CommissionPercentage float64   `json:"commission_percentage"`
	InnerCase            int       `json:"inner_case,omitempty"`
	Qty                  int       `json:"qty"`
	Packaging            Packaging `json:"packaging"`
	StockQuantity        int       `json:"stock_quantity"`
}

// Step is the quantity increment for this line: the inner-case size when the
// feed publishes one, otherwise single units.
func (l CartLine) Step() int {
	if l.InnerCase > 0 {
		return l.InnerCase
	}
	return 1
}

// ClampQtyToStock forces Qty into [1, StockQuantity] when stock is known.
// Unknown (zero) stock leaves Qty alone; the violation check catches it.
func (l *CartLine) ClampQtyToStock() {
	if l.Qty < 1 {
		l.Qty = 1
	}
	if l.StockQuantity > 0 && l.Qty > l.StockQuantity {
		l.Qty = l.StockQuantity
	}
}

// User is the cached identity from the login action
type User struct {
	Email   string `json:"email"`
	Name    string `json:"name,omitempty"`
	Role    string `json:"role,omitempty"`
	IsAdmin bool   `json:"is_admin,omitempty"`
}

// Admin reports whether the user acts with the admin role
func (u User) Admin() bool {
	return u.IsAdmin || u.Role == "admin"
}

// ShippingAddress is the checkout shipping form for the primary storefront
type ShippingAddress struct {
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	District string `json:"district"`
	Thana    string `json:"thana"`
	Address  string `json:"address"`
}

// MissingFields returns the names of required shipping fields left blank
func (s ShippingAddress) MissingFields() []string {
	var missing []string
	for _, f := range []struct{ name, val string }{
		{"name", s.Name},
		{"phone", s.Phone},
		{"district", s.District},
		{"thana", s.Thana},
		{"address", s.Address},
	} {
		if strings.TrimSpace(f.val) == "" {
			missing = append(missing, f.name)
		}
	}
	return missing
}

// Order is a primary-storefront order as the remote API returns it.
// The server owns the authoritative totals; this mirror is display-only.
type Order struct {
	OrderID              string          `json:"order_id"`
	Email                string          `json:"email"`
	Status               OrderStatus     `json:"status"`
	SL                   string          `json:"sl,omitempty"`
	CreatedAt            time.Time       `json:"created_at"`
	Total                float64         `json:"total"`
	FinalCommissionTotal float64         `json:"final_commission_total"`
	Shipping             ShippingAddress `json:"shipping"`
	Items                []OrderItem     `json:"items,omitempty"`
}

// OrderItem mirrors a CartLine plus the server-computed per-line figures
type OrderItem struct {
	ID             string    `json:"id"`
	SKU            string    `json:"sku"`
	Name           string    `json:"name"`
	ImageURL       string    `json:"image_url"`
	Price          float64   `json:"price"`
	BoxPrice       float64   `json:"box_price,omitempty"`
	PolyPrice      float64   `json:"poly_price,omitempty"`
	Qty            int       `json:"qty"`
	Packaging      Packaging `json:"packaging"`
	StockQuantity  int       `json:"stock_quantity"`
	PackingCost    float64   `json:"packing_cost"`
	Commission     float64   `json:"commission_amount"`
	CODAmount      float64   `json:"cod_amount"`
	AWRCAmount     float64   `json:"awrc_amount"`
	FinalPerUnit   float64   `json:"final_per_unit"`
	LineTotal      float64   `json:"line_total"`
	FinalLineTotal float64   `json:"final_line_total"`
}

// UKOrder is a secondary-storefront order. All BDT/GBP totals are
// server-computed; the client never maintains them incrementally.
type UKOrder struct {
	OrderID          string        `json:"OrderId"`
	OrderName        string        `json:"OrderName"`
	Status           UKOrderStatus `json:"Status"`
	CreatorEmail     string        `json:"CreatorEmail"`
	StockListID      string        `json:"StockListId"`
	ConversionRate   *float64      `json:"ConversionRate,omitempty"`
	CuriaCost        *float64      `json:"CuriaCost,omitempty"`
	TotalCostGBP     float64       `json:"TotalCostGBP"`
	TotalCostBDT     float64       `json:"TotalCostBDT"`
	TotalOfferedBDT  float64       `json:"TotalOfferedBDT"`
	TotalCustomerBDT float64       `json:"TotalCustomerBDT"`
	TotalFinalBDT    float64       `json:"TotalFinalBDT"`
	CreatedAt        string        `json:"CreatedAt,omitempty"`
	UpdatedAt        string        `json:"UpdatedAt,omitempty"`
}

// OwnedBy reports whether email created this order (case-insensitive)
func (o UKOrder) OwnedBy(email string) bool {
	return email != "" && strings.EqualFold(o.CreatorEmail, email)
}

// UKOrderItem is one line of a UK order, keyed by barcode
type UKOrderItem struct {
	Barcode          string   `json:"Barcode"`
	Brand            string   `json:"Brand,omitempty"`
	Description      string   `json:"Description,omitempty"`
	ImageURL         string   `json:"ImageUrl,omitempty"`
	PiecePriceGBP    float64  `json:"PiecePriceGBP"`
	InnerCase        int      `json:"InnerCase,omitempty"`
	OrderedQuantity  int      `json:"OrderedQuantity"`
	ProductWeight    *float64 `json:"ProductWeight,omitempty"`
	PackageWeight    *float64 `json:"PackageWeight,omitempty"`
	OfferedPriceBDT  *float64 `json:"OfferedPriceBDT,omitempty"`
	CustomerPriceBDT *float64 `json:"CustomerPriceBDT,omitempty"`
	FinalPriceBDT    *float64 `json:"FinalPriceBDT,omitempty"`
	ShippedQuantity  *int     `json:"ShippedQuantity,omitempty"`
}

// UKItemPatch is a partial per-item edit sent to the remote API. Nil fields
// are omitted from the payload, so untouched columns stay server-side.
type UKItemPatch struct {
	Barcode          string   `json:"barcode"`
	OrderedQuantity  *int     `json:"orderedQuantity,omitempty"`
	ProductWeight    *float64 `json:"productWeight,omitempty"`
	PackageWeight    *float64 `json:"packageWeight,omitempty"`
	CustomerPriceBDT *float64 `json:"customerPriceBDT,omitempty"`
	FinalPriceBDT    *float64 `json:"finalPriceBDT,omitempty"`
	ShippedQuantity  *int     `json:"shippedQuantity,omitempty"`
}

// UKOrderPatch is a partial order-header edit
type UKOrderPatch struct {
	OrderName      *string        `json:"orderName,omitempty"`
	Status         *UKOrderStatus `json:"status,omitempty"`
	ConversionRate *float64       `json:"conversionRate,omitempty"`
	CuriaCost      *float64       `json:"curiaCost,omitempty"`
	StockListID    *string        `json:"stockListId,omitempty"`
}
