package validation

import (
	"fmt"
	"sort"
	"strings"
)

// Item is one candidate line sent to the pricing authority: the quantity the
// buyer wants and the unit price the client believes is current.
type Item struct {
	ProductID              string `json:"product_id"`
	Quantity               int    `json:"quantity"`
	ExpectedUnitPriceCents int64  `json:"expected_unit_price_cents"`
}

// ContentKey canonically serializes an item list for equality checks: sorted
// by product ID, so neither list ordering nor slice identity affects the key.
// Two carts with the same products, quantities and expected prices always map
// to the same key.
func ContentKey(items []Item) string {
	if len(items) == 0 {
		return ""
	}
	sorted := make([]Item, len(items))
	copy(sorted, items)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].ProductID < sorted[j].ProductID
	})

	var b strings.Builder
	for i, it := range sorted {
		if i > 0 {
			b.WriteByte('|')
		}
		fmt.Fprintf(&b, "%s:%d:%d", it.ProductID, it.Quantity, it.ExpectedUnitPriceCents)
	}
	return b.String()
}
