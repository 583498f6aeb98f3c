package pricing

import (
	"github.com/MonkyMars/mamabloemetjes-sub001/internal/domain"
	"github.com/MonkyMars/mamabloemetjes-sub001/internal/money"
)

// Defaults for the Dutch storefront: 21% BTW, free shipping from €75,
// flat €7.50 below that.
var (
	DefaultTaxRate               = money.MustParse("0.21")
	DefaultFreeShippingThreshold = money.MustParse("75")
	DefaultShippingCost          = money.MustParse("7.50")
)

// DefaultCurrencySymbol prefixes formatted amounts.
const DefaultCurrencySymbol = "€"

// LineItem is a tax-inclusive unit price with a quantity, the input shape for
// OrderSummary.
type LineItem struct {
	Price    money.Decimal
	Quantity int
}

// Calculator holds the configured rates and thresholds. All methods are pure;
// a Calculator is safe to share.
type Calculator struct {
	taxRate           money.Decimal
	shippingThreshold money.Decimal
	shippingCost      money.Decimal
	symbol            string
}

// NewCalculator builds a Calculator with explicit rates. An empty symbol
// falls back to the default.
func NewCalculator(taxRate, shippingThreshold, shippingCost money.Decimal, symbol string) *Calculator {
	if symbol == "" {
		symbol = DefaultCurrencySymbol
	}
	return &Calculator{
		taxRate:           taxRate,
		shippingThreshold: shippingThreshold,
		shippingCost:      shippingCost,
		symbol:            symbol,
	}
}

// NewDefaultCalculator uses the storefront defaults.
func NewDefaultCalculator() *Calculator {
	return NewCalculator(DefaultTaxRate, DefaultFreeShippingThreshold, DefaultShippingCost, DefaultCurrencySymbol)
}

// Format renders a value with the calculator's currency symbol.
func (c *Calculator) Format(d money.Decimal) string {
	return Format(d, c.symbol)
}

// Tax extracts the tax portion of a tax-inclusive price as price × rate.
//
// Note: this is the storefront's historical behavior. The algebraically
// consistent inclusive extraction would be price × rate/(1+rate); callers and
// stored totals depend on the nominal-rate form, so it stays.
func (c *Calculator) Tax(priceInclTax money.Decimal) money.Decimal {
	return priceInclTax.Mul(c.taxRate)
}

// Subtotal removes the Tax portion from a tax-inclusive price.
func (c *Calculator) Subtotal(priceInclTax money.Decimal) money.Decimal {
	return priceInclTax.Sub(c.Tax(priceInclTax))
}

// AddTax converts a tax-exclusive subtotal to a tax-inclusive price.
func (c *Calculator) AddTax(subtotal money.Decimal) money.Decimal {
	return subtotal.Mul(money.FromInt(1).Add(c.taxRate))
}

// Shipping is zero once the order total reaches the free-shipping threshold,
// boundary inclusive, otherwise the flat cost.
func (c *Calculator) Shipping(total money.Decimal) money.Decimal {
	if total.GreaterThanOrEqual(c.shippingThreshold) {
		return money.Zero
	}
	return c.shippingCost
}

// ShippingRemaining is the amount still needed to reach free shipping.
func (c *Calculator) ShippingRemaining(total money.Decimal) money.Decimal {
	if total.GreaterThanOrEqual(c.shippingThreshold) {
		return money.Zero
	}
	return c.shippingThreshold.Sub(total)
}

// Sum adds a slice of values. Decimal addition is exact, so the result does
// not depend on ordering.
func Sum(values []money.Decimal) money.Decimal {
	total := money.Zero
	for _, v := range values {
		total = total.Add(v)
	}
	return total
}

// Format renders a value as symbol plus exactly two decimals, e.g. "€7.50".
// An empty symbol falls back to the default.
func Format(d money.Decimal, symbol string) string {
	if symbol == "" {
		symbol = DefaultCurrencySymbol
	}
	return symbol + d.StringFixed()
}

// OrderSummary aggregates tax-inclusive line prices into a displayable
// summary. Tax and subtotal are derived from the price total.
func (c *Calculator) OrderSummary(items []LineItem) domain.CartSummary {
	priceTotal := money.Zero
	itemCount := 0
	for _, it := range items {
		priceTotal = priceTotal.Add(it.Price.MulInt(int64(it.Quantity)))
		itemCount += it.Quantity
	}

	shipping := c.Shipping(priceTotal)
	summary := domain.CartSummary{
		PriceTotal: priceTotal,
		Tax:        c.Tax(priceTotal),
		Subtotal:   c.Subtotal(priceTotal),
		Shipping:   shipping,
		Total:      priceTotal.Add(shipping),
		ItemCount:  itemCount,
	}
	if remaining := c.ShippingRemaining(priceTotal); !remaining.IsZero() {
		summary.ShippingRemainingDisplay = c.Format(remaining)
	}
	return summary
}

// GuestSummary prices locally persisted cart lines against the supplied
// catalog entries. Per-line tax and subtotal come from the catalog's
// server-computed fields, not from Tax. Lines whose product is absent from
// the map are excluded and reported in missing rather than silently priced
// at zero.
func (c *Calculator) GuestSummary(items []domain.CartItem, products map[string]domain.Product) (domain.CartSummary, []string) {
	var (
		priceTotal    = money.Zero
		taxTotal      = money.Zero
		subtotalTotal = money.Zero
		originalTotal = money.Zero
		itemCount     = 0
		hasDiscounts  = false
		missing       []string
	)

	for _, it := range items {
		p, ok := products[it.ProductID]
		if !ok {
			missing = append(missing, it.ProductID)
			continue
		}

		qty := int64(it.Quantity)
		priceTotal = priceTotal.Add(p.EffectivePrice().MulInt(qty))
		taxTotal = taxTotal.Add(p.TaxAmount.MulInt(qty))
		subtotalTotal = subtotalTotal.Add(p.SubtotalAmount.MulInt(qty))
		originalTotal = originalTotal.Add(p.Price.MulInt(qty))
		itemCount += it.Quantity
		if p.HasDiscount() {
			hasDiscounts = true
		}
	}

	shipping := c.Shipping(priceTotal)
	summary := domain.CartSummary{
		PriceTotal: priceTotal,
		Tax:        taxTotal,
		Subtotal:   subtotalTotal,
		Shipping:   shipping,
		Total:      priceTotal.Add(shipping),
		ItemCount:  itemCount,
	}
	if remaining := c.ShippingRemaining(priceTotal); !remaining.IsZero() {
		summary.ShippingRemainingDisplay = c.Format(remaining)
	}
	if hasDiscounts {
		summary.HasDiscounts = true
		summary.OriginalTotal = originalTotal
		summary.TotalSavings = originalTotal.Sub(priceTotal)
	}
	return summary, missing
}

// AuthenticatedSummary aggregates server-priced cart lines. Every cents field
// is converted to a Decimal before multiplication so no intermediate value is
// rounded. Shipping derives from the discounted price total.
func (c *Calculator) AuthenticatedSummary(items []domain.PricedCartItem) domain.CartSummary {
	var (
		priceTotal    = money.Zero
		taxTotal      = money.Zero
		subtotalTotal = money.Zero
		originalTotal = money.Zero
		itemCount     = 0
		hasDiscounts  = false
	)

	for _, it := range items {
		qty := int64(it.Quantity)
		unit := money.FromCents(it.UnitPriceCents)
		priceTotal = priceTotal.Add(unit.MulInt(qty))
		taxTotal = taxTotal.Add(money.FromCents(it.UnitTaxCents).MulInt(qty))
		subtotalTotal = subtotalTotal.Add(money.FromCents(it.UnitSubtotalCents).MulInt(qty))
		itemCount += it.Quantity

		original := unit
		if it.OriginalUnitPriceCents > 0 {
			original = money.FromCents(it.OriginalUnitPriceCents)
			if it.OriginalUnitPriceCents > it.UnitPriceCents {
				hasDiscounts = true
			}
		}
		originalTotal = originalTotal.Add(original.MulInt(qty))
	}

	shipping := c.Shipping(priceTotal)
	summary := domain.CartSummary{
		PriceTotal: priceTotal,
		Tax:        taxTotal,
		Subtotal:   subtotalTotal,
		Shipping:   shipping,
		Total:      priceTotal.Add(shipping),
		ItemCount:  itemCount,
	}
	if remaining := c.ShippingRemaining(priceTotal); !remaining.IsZero() {
		summary.ShippingRemainingDisplay = c.Format(remaining)
	}
	if hasDiscounts {
		summary.HasDiscounts = true
		summary.OriginalTotal = originalTotal
		summary.TotalSavings = originalTotal.Sub(priceTotal)
	}
	return summary
}

// UnitBreakdown splits a tax-inclusive unit price into its tax-exclusive
// subtotal (price / (1+rate)) and the remainder as tax. Used when a discounted
// price has no precomputed split.
func (c *Calculator) UnitBreakdown(priceInclTax money.Decimal) (subtotal, tax money.Decimal) {
	subtotal = priceInclTax.Div(money.FromInt(1).Add(c.taxRate))
	tax = priceInclTax.Sub(subtotal)
	return subtotal, tax
}
