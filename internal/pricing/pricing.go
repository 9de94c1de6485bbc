// Package pricing computes the per-unit and per-line commission figures for a
// cart or order line. Everything here is pure: same item and config in, same
// breakdown out. Callers re-run it whenever price, commission, packaging or
// quantity changes.
package pricing

import (
	"github.com/david-git-2/Wholesale-UK/internal/config"
	"github.com/david-git-2/Wholesale-UK/internal/domain"
)

// Unit is the per-unit breakdown.
// FinalPerUnit = Commission - (COD + AWRC + PackingCost).
type Unit struct {
	Price        float64          `json:"price"`
	Packaging    domain.Packaging `json:"packaging"`
	Commission   float64          `json:"commission_amount"`
	COD          float64          `json:"cod_amount"`
	AWRC         float64          `json:"awrc_amount"`
	PackingCost  float64          `json:"packing_cost"`
	FinalPerUnit float64          `json:"final_per_unit"`
}

// Line is the per-unit breakdown scaled by quantity (floored at 1)
type Line struct {
	Unit
	Qty                 int     `json:"qty"`
	LineTotal           float64 `json:"line_total"`
	CommissionLineTotal float64 `json:"commission_line_total"`
	CODLineTotal        float64 `json:"cod_line_total"`
	AWRCLineTotal       float64 `json:"awrc_line_total"`
	PackingLineTotal    float64 `json:"packing_line_total"`
	FinalLineTotal      float64 `json:"final_line_total"`
}

// PricePolicy decides what a line's unit price is for a given packaging
// choice. The two storefronts genuinely differ here and must not be unified:
// the primary keeps price packaging-invariant, the UK storefront swaps a
// box/poly price pair.
type PricePolicy interface {
	UnitPrice(line domain.CartLine) float64
}

// PriceFixed ignores packaging; the unit price is the listed price
// (primary storefront policy).
type PriceFixed struct{}

func (PriceFixed) UnitPrice(line domain.CartLine) float64 {
	return line.Price
}

// PriceByPackaging swaps between the box and poly unit prices
// (UK storefront policy). A missing pair price falls back to the listed price.
type PriceByPackaging struct{}

func (PriceByPackaging) UnitPrice(line domain.CartLine) float64 {
	if line.Packaging == domain.PackagingPoly {
		if line.PolyPrice > 0 {
			return line.PolyPrice
		}
	} else if line.BoxPrice > 0 {
		return line.BoxPrice
	}
	return line.Price
}

// Engine binds the commission constants and a price policy
type Engine struct {
	cfg    config.CommissionConfig
	policy PricePolicy
}

// NewEngine creates a pricing engine. A nil policy means PriceFixed.
func NewEngine(cfg config.CommissionConfig, policy PricePolicy) *Engine {
	if policy == nil {
		policy = PriceFixed{}
	}
	return &Engine{cfg: cfg, policy: policy}
}

// PerUnit computes the per-unit breakdown for one line
func (e *Engine) PerUnit(line domain.CartLine) Unit {
	packaging := domain.ParsePackaging(string(line.Packaging))
	price := e.policy.UnitPrice(line)

	commission := line.Commission
	if commission <= 0 {
		commission = price * (line.CommissionPercentage / 100)
	}

	packingCost := e.cfg.PackingBoxCost
	if packaging == domain.PackagingPoly {
		packingCost = e.cfg.PackingPolyCost
	}

	cod := price * e.cfg.CODRate
	awrc := e.cfg.AWRCFixed

	return Unit{
		Price:        price,
		Packaging:    packaging,
		Commission:   commission,
		COD:          cod,
		AWRC:         awrc,
		PackingCost:  packingCost,
		FinalPerUnit: commission - (cod + awrc + packingCost),
	}
}

// Line computes per-line totals: each per-unit figure times max(1, qty)
func (e *Engine) Line(line domain.CartLine) Line {
	qty := line.Qty
	if qty < 1 {
		qty = 1
	}
	u := e.PerUnit(line)
	q := float64(qty)

	return Line{
		Unit:                u,
		Qty:                 qty,
		LineTotal:           u.Price * q,
		CommissionLineTotal: u.Commission * q,
		CODLineTotal:        u.COD * q,
		AWRCLineTotal:       u.AWRC * q,
		PackingLineTotal:    u.PackingCost * q,
		FinalLineTotal:      u.FinalPerUnit * q,
	}
}
