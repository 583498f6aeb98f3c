package domain

import "github.com/MonkyMars/mamabloemetjes-sub001/internal/money"

// CartSummary is the displayable aggregate for one cart.
//
// Invariants: Total == PriceTotal + Shipping; Shipping is zero exactly when
// PriceTotal reaches the free-shipping threshold; ItemCount sums quantities,
// not lines.
type CartSummary struct {
	Subtotal   money.Decimal `json:"subtotal"`
	Tax        money.Decimal `json:"tax"`
	Shipping   money.Decimal `json:"shipping"`
	Total      money.Decimal `json:"total"`
	PriceTotal money.Decimal `json:"price_total"`
	ItemCount  int           `json:"item_count"`

	// ShippingRemainingDisplay is the formatted amount still missing for free
	// shipping, e.g. "€15.00"; empty once shipping is free.
	ShippingRemainingDisplay string `json:"shipping_remaining_display,omitempty"`

	// Discount fields are meaningful only when HasDiscounts is true.
	HasDiscounts  bool          `json:"has_discounts,omitempty"`
	OriginalTotal money.Decimal `json:"original_total,omitempty"`
	TotalSavings  money.Decimal `json:"total_savings,omitempty"`
}
