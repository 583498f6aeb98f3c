package validation

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/MonkyMars/mamabloemetjes-sub001/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestValidatePrices_EmptyList(t *testing.T) {
	c := NewClient("http://unused", time.Second, zap.NewNop())
	_, err := c.ValidatePrices(context.Background(), nil)
	assert.ErrorIs(t, err, ErrNoItems)
}

func TestValidatePrices_InvalidInput(t *testing.T) {
	c := NewClient("http://unused", time.Second, zap.NewNop())

	_, err := c.ValidatePrices(context.Background(), []Item{{ProductID: "p", Quantity: 0, ExpectedUnitPriceCents: 100}})
	assert.Error(t, err)

	_, err = c.ValidatePrices(context.Background(), []Item{{ProductID: "p", Quantity: 1, ExpectedUnitPriceCents: -1}})
	assert.Error(t, err)
}

func TestValidatePrices_Success(t *testing.T) {
	var gotBody validateRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, validatePricePath, r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		json.NewEncoder(w).Encode(domain.PriceValidationResponse{
			IsValid: true,
			Items: []domain.ValidatedPriceItem{
				{ProductID: "tulip", Quantity: 2, OriginalUnitPriceCents: 1299, DiscountedUnitPriceCents: 1299, IsPriceValid: true},
			},
			TotalDiscountedPriceCents: 2598,
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, zap.NewNop())
	resp, err := c.ValidatePrices(context.Background(), []Item{
		{ProductID: "tulip", Quantity: 2, ExpectedUnitPriceCents: 1299},
	})
	require.NoError(t, err)
	assert.True(t, resp.IsValid)
	assert.Empty(t, resp.MismatchedItems())
	assert.Equal(t, int64(2598), resp.TotalDiscountedPriceCents)

	require.Len(t, gotBody.Items, 1)
	assert.Equal(t, "tulip", gotBody.Items[0].ProductID)
	assert.Equal(t, int64(1299), gotBody.Items[0].ExpectedUnitPriceCents)
}

func TestValidatePrices_Mismatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(domain.PriceValidationResponse{
			IsValid: false,
			Items: []domain.ValidatedPriceItem{
				{ProductID: "tulip", Quantity: 2, DiscountedUnitPriceCents: 1199, IsPriceValid: false},
				{ProductID: "rose", Quantity: 1, DiscountedUnitPriceCents: 750, IsPriceValid: true},
			},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, zap.NewNop())
	resp, err := c.ValidatePrices(context.Background(), []Item{
		{ProductID: "tulip", Quantity: 2, ExpectedUnitPriceCents: 1299},
		{ProductID: "rose", Quantity: 1, ExpectedUnitPriceCents: 750},
	})
	// A mismatch is a data outcome, not an error.
	require.NoError(t, err)
	assert.False(t, resp.IsValid)
	require.Len(t, resp.MismatchedItems(), 1)
	assert.Equal(t, "tulip", resp.MismatchedItems()[0].ProductID)
}

func TestValidatePrices_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, zap.NewNop())
	_, err := c.ValidatePrices(context.Background(), []Item{{ProductID: "p", Quantity: 1, ExpectedUnitPriceCents: 1}})
	assert.ErrorIs(t, err, ErrPricingUnavailable)
}

func TestValidatePrices_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused

	c := NewClient(srv.URL, time.Second, zap.NewNop())
	_, err := c.ValidatePrices(context.Background(), []Item{{ProductID: "p", Quantity: 1, ExpectedUnitPriceCents: 1}})
	assert.ErrorIs(t, err, ErrPricingUnavailable)
}

func TestValidatePrices_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("{not json"))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, zap.NewNop())
	_, err := c.ValidatePrices(context.Background(), []Item{{ProductID: "p", Quantity: 1, ExpectedUnitPriceCents: 1}})
	assert.ErrorIs(t, err, ErrPricingUnavailable)
}
