package repository

import (
	"context"

	"github.com/MonkyMars/mamabloemetjes-sub001/internal/domain"
)

// CartRepository is the server-authoritative cart source for signed-in users.
// Lines are stored with their server-computed unit pricing; the summary
// aggregator consumes them as-is.
type CartRepository interface {
	GetCart(ctx context.Context, userID string) (*domain.Cart, error)
	UpsertCart(ctx context.Context, cart *domain.Cart) error
	AddItem(ctx context.Context, userID string, item domain.PricedCartItem) error
	UpdateItemQuantity(ctx context.Context, userID string, productID string, quantity int) error
	RemoveItem(ctx context.Context, userID string, productID string) error
	DeleteCart(ctx context.Context, userID string) error
	CreateIndexes(ctx context.Context) error
}
