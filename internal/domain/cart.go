package domain

import "time"

// Cart is the server-authoritative cart for a signed-in user. Lines are
// priced at mutation time, so every item carries the cents captured from the
// catalog and promotion engine.
type Cart struct {
	ID        string           `bson:"_id,omitempty" json:"id,omitempty"`
	UserID    string           `bson:"user_id" json:"user_id"`
	Items     []PricedCartItem `bson:"items" json:"items"`
	CreatedAt time.Time        `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time        `bson:"updated_at" json:"updated_at"`
}

// CartItem is the unpriced line shape shared with guest carts: the client
// persists only product references and quantities, pricing is looked up here.
type CartItem struct {
	ProductID string `bson:"product_id" json:"product_id"`
	Quantity  int    `bson:"quantity" json:"quantity"`
}

// PricedCartItem is a cart line with server-computed unit pricing in cents.
// OriginalUnitPriceCents differs from UnitPriceCents when a promotion applies;
// zero means no original price was recorded.
type PricedCartItem struct {
	ProductID              string    `bson:"product_id" json:"product_id"`
	Quantity               int       `bson:"quantity" json:"quantity"`
	UnitPriceCents         int64     `bson:"unit_price_cents" json:"unit_price_cents"`
	UnitTaxCents           int64     `bson:"unit_tax_cents" json:"unit_tax_cents"`
	UnitSubtotalCents      int64     `bson:"unit_subtotal_cents" json:"unit_subtotal_cents"`
	OriginalUnitPriceCents int64     `bson:"original_unit_price_cents,omitempty" json:"original_unit_price_cents,omitempty"`
	AddedAt                time.Time `bson:"added_at" json:"added_at"`
}
