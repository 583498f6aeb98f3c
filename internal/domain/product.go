package domain

import (
	"time"

	"github.com/MonkyMars/mamabloemetjes-sub001/internal/money"
)

// Product is a catalog entry. Price and DiscountedPrice are tax-inclusive
// major units; TaxAmount and SubtotalAmount are the server-computed per-unit
// split of the effective (discounted when present) price. Guest summaries use
// these fields as-is instead of re-deriving them.
type Product struct {
	ID              string         `json:"id"`
	Name            string         `json:"name"`
	Price           money.Decimal  `json:"price"`
	DiscountedPrice *money.Decimal `json:"discounted_price,omitempty"`
	TaxAmount       money.Decimal  `json:"tax_amount"`
	SubtotalAmount  money.Decimal  `json:"subtotal_amount"`
	ImageURL        string         `json:"image_url,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
}

// EffectivePrice is the tax-inclusive unit price a buyer pays right now.
func (p Product) EffectivePrice() money.Decimal {
	if p.DiscountedPrice != nil {
		return *p.DiscountedPrice
	}
	return p.Price
}

// HasDiscount reports whether a promotion lowers the unit price.
func (p Product) HasDiscount() bool {
	return p.DiscountedPrice != nil && p.DiscountedPrice.LessThan(p.Price)
}
