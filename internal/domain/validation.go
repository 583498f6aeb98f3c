package domain

// ValidatedPriceItem is the pricing authority's verdict for a single line.
type ValidatedPriceItem struct {
	ProductID                string  `json:"product_id"`
	Quantity                 int     `json:"quantity"`
	OriginalUnitPriceCents   int64   `json:"original_unit_price_cents"`
	DiscountedUnitPriceCents int64   `json:"discounted_unit_price_cents"`
	DiscountAmountCents      int64   `json:"discount_amount_cents"`
	UnitTaxCents             int64   `json:"unit_tax_cents"`
	UnitSubtotalCents        int64   `json:"unit_subtotal_cents"`
	AppliedPromotionID       *string `json:"applied_promotion_id"`
	IsPriceValid             bool    `json:"is_price_valid"`
}

// PriceValidationResponse is one resolved validation round. A new response
// wholly replaces the previous one; IsValid holds iff every line's
// IsPriceValid holds.
type PriceValidationResponse struct {
	IsValid                   bool                 `json:"is_valid"`
	Items                     []ValidatedPriceItem `json:"items"`
	TotalOriginalPriceCents   int64                `json:"total_original_price_cents"`
	TotalDiscountedPriceCents int64                `json:"total_discounted_price_cents"`
	TotalDiscountAmountCents  int64                `json:"total_discount_amount_cents"`
	TotalTaxCents             int64                `json:"total_tax_cents"`
	TotalSubtotalCents        int64                `json:"total_subtotal_cents"`
}

// MismatchedItems returns the lines the authority priced differently from
// what the client expected.
func (r *PriceValidationResponse) MismatchedItems() []ValidatedPriceItem {
	var out []ValidatedPriceItem
	for _, it := range r.Items {
		if !it.IsPriceValid {
			out = append(out, it)
		}
	}
	return out
}

// ValidationState is the coordinator's UI-facing snapshot.
type ValidationState struct {
	IsValidating bool                     `json:"is_validating"`
	Err          error                    `json:"-"`
	Response     *PriceValidationResponse `json:"response,omitempty"`
}

// Valid reports whether checkout may proceed. It is fail-closed: a network
// error, an absent response and a mismatch all read as not valid.
func (s ValidationState) Valid() bool {
	return s.Err == nil && !s.IsValidating && s.Response != nil && s.Response.IsValid
}
