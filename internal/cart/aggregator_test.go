package cart

import (
	"context"
	"errors"
	"testing"

	"github.com/MonkyMars/mamabloemetjes-sub001/internal/domain"
	"github.com/MonkyMars/mamabloemetjes-sub001/internal/money"
	"github.com/MonkyMars/mamabloemetjes-sub001/internal/pricing"
	"github.com/MonkyMars/mamabloemetjes-sub001/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockCartSource struct {
	cart *domain.Cart
	err  error
}

func (m *mockCartSource) GetCart(context.Context, string) (*domain.Cart, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.cart, nil
}

type mockCatalog struct {
	products map[string]domain.Product
	err      error
}

func (m *mockCatalog) GetProducts(_ context.Context, ids []string) (map[string]domain.Product, error) {
	if m.err != nil {
		return nil, m.err
	}
	out := map[string]domain.Product{}
	for _, id := range ids {
		if p, ok := m.products[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

func newAggregator(carts CartSource, catalog Catalog) *Aggregator {
	return NewAggregator(carts, catalog, pricing.NewDefaultCalculator(), zap.NewNop())
}

func TestUserSummary(t *testing.T) {
	carts := &mockCartSource{cart: &domain.Cart{
		UserID: "u1",
		Items: []domain.PricedCartItem{
			{ProductID: "tulip", Quantity: 2, UnitPriceCents: 1299, UnitTaxCents: 273, UnitSubtotalCents: 1026},
			{ProductID: "rose", Quantity: 1, UnitPriceCents: 750, UnitTaxCents: 158, UnitSubtotalCents: 592},
		},
	}}

	sum, err := newAggregator(carts, &mockCatalog{}).UserSummary(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "33.48", sum.PriceTotal.StringFixed())
	assert.Equal(t, "40.98", sum.Total.StringFixed())
	assert.Equal(t, 3, sum.ItemCount)
}

func TestUserSummary_NoCartYet(t *testing.T) {
	carts := &mockCartSource{err: repository.ErrCartNotFound}

	sum, err := newAggregator(carts, &mockCatalog{}).UserSummary(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, 0, sum.ItemCount)
	assert.Equal(t, "0.00", sum.PriceTotal.StringFixed())
}

func TestUserSummary_SourceError(t *testing.T) {
	boom := errors.New("mongo down")
	carts := &mockCartSource{err: boom}

	_, err := newAggregator(carts, &mockCatalog{}).UserSummary(context.Background(), "u1")
	assert.ErrorIs(t, err, boom)
}

func TestGuestSummary(t *testing.T) {
	catalog := &mockCatalog{products: map[string]domain.Product{
		"rose": {
			ID: "rose", Price: money.MustParse("7.50"),
			TaxAmount: money.MustParse("1.58"), SubtotalAmount: money.MustParse("5.92"),
		},
	}}

	sum, missing, err := newAggregator(&mockCartSource{}, catalog).GuestSummary(context.Background(), []domain.CartItem{
		{ProductID: "rose", Quantity: 2},
	})
	require.NoError(t, err)
	assert.Empty(t, missing)
	assert.Equal(t, "15.00", sum.PriceTotal.StringFixed())
	assert.Equal(t, "22.50", sum.Total.StringFixed())
	assert.Equal(t, 2, sum.ItemCount)
}

func TestGuestSummary_MissingProductReported(t *testing.T) {
	catalog := &mockCatalog{products: map[string]domain.Product{}}

	sum, missing, err := newAggregator(&mockCartSource{}, catalog).GuestSummary(context.Background(), []domain.CartItem{
		{ProductID: "gone", Quantity: 3},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"gone"}, missing)
	assert.Equal(t, 0, sum.ItemCount)
}

func TestGuestSummary_CatalogError(t *testing.T) {
	boom := errors.New("pg down")
	_, _, err := newAggregator(&mockCartSource{}, &mockCatalog{err: boom}).GuestSummary(context.Background(), []domain.CartItem{
		{ProductID: "rose", Quantity: 1},
	})
	assert.ErrorIs(t, err, boom)
}

func TestValidationItems(t *testing.T) {
	items := ValidationItems([]domain.PricedCartItem{
		{ProductID: "tulip", Quantity: 2, UnitPriceCents: 1299},
	})
	require.Len(t, items, 1)
	assert.Equal(t, "tulip", items[0].ProductID)
	assert.Equal(t, 2, items[0].Quantity)
	assert.Equal(t, int64(1299), items[0].ExpectedUnitPriceCents)
}
