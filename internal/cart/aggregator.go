package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/MonkyMars/mamabloemetjes-sub001/internal/domain"
	"github.com/MonkyMars/mamabloemetjes-sub001/internal/pricing"
	"github.com/MonkyMars/mamabloemetjes-sub001/internal/repository"
	"github.com/MonkyMars/mamabloemetjes-sub001/internal/validation"
	"go.uber.org/zap"
)

// CartSource provides the server-authoritative cart for a signed-in user.
type CartSource interface {
	GetCart(ctx context.Context, userID string) (*domain.Cart, error)
}

// Catalog resolves product IDs to catalog entries; IDs the catalog does not
// know are absent from the map.
type Catalog interface {
	GetProducts(ctx context.Context, productIDs []string) (map[string]domain.Product, error)
}

// Aggregator produces a CartSummary from exactly one item source: the
// server-priced cart for signed-in users, or client-supplied lines priced via
// catalog lookups for guests. It holds no mutable state; every call is a pure
// function of its inputs.
type Aggregator struct {
	carts   CartSource
	catalog Catalog
	calc    *pricing.Calculator
	logger  *zap.Logger
}

func NewAggregator(carts CartSource, catalog Catalog, calc *pricing.Calculator, logger *zap.Logger) *Aggregator {
	return &Aggregator{
		carts:   carts,
		catalog: catalog,
		calc:    calc,
		logger:  logger,
	}
}

// UserSummary aggregates the signed-in user's cart. A user without a cart
// yet gets the empty summary.
func (a *Aggregator) UserSummary(ctx context.Context, userID string) (domain.CartSummary, error) {
	cart, err := a.carts.GetCart(ctx, userID)
	if errors.Is(err, repository.ErrCartNotFound) {
		return a.calc.AuthenticatedSummary(nil), nil
	}
	if err != nil {
		return domain.CartSummary{}, fmt.Errorf("failed to load cart: %w", err)
	}

	return a.calc.AuthenticatedSummary(cart.Items), nil
}

// GuestSummary prices locally persisted lines. Lines whose product the
// catalog no longer knows are excluded from the totals and returned in
// missing so the storefront can tell the buyer instead of silently charging
// zero.
func (a *Aggregator) GuestSummary(ctx context.Context, items []domain.CartItem) (domain.CartSummary, []string, error) {
	ids := make([]string, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ProductID)
	}

	products, err := a.catalog.GetProducts(ctx, ids)
	if err != nil {
		return domain.CartSummary{}, nil, fmt.Errorf("failed to load products: %w", err)
	}

	summary, missing := a.calc.GuestSummary(items, products)
	if len(missing) > 0 {
		a.logger.Warn("guest cart lines excluded, products missing from catalog",
			zap.Strings("product_ids", missing),
		)
	}
	return summary, missing, nil
}

// ValidationItems turns the priced cart lines into the candidate list the
// pricing authority checks: the unit price the client believes is current
// becomes the expected price.
func ValidationItems(items []domain.PricedCartItem) []validation.Item {
	out := make([]validation.Item, 0, len(items))
	for _, it := range items {
		out = append(out, validation.Item{
			ProductID:              it.ProductID,
			Quantity:               it.Quantity,
			ExpectedUnitPriceCents: it.UnitPriceCents,
		})
	}
	return out
}
