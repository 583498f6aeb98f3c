package validation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/MonkyMars/mamabloemetjes-sub001/internal/domain"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

const validatePricePath = "/promotions/validate-price"

// Client talks to the pricing authority, the external service holding
// authoritative prices and active promotions.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *zap.Logger
}

// NewClient builds a Client for the given base URL.
func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		http: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		logger: logger,
	}
}

type validateRequest struct {
	Items []Item `json:"items"`
}

// ValidatePrices submits the candidate item list and returns the authority's
// verdict. An empty list is ErrNoItems with no network call. Transport and
// non-2xx failures come back wrapped in ErrPricingUnavailable so callers can
// tell "no answer" apart from "prices mismatched"; both block checkout.
func (c *Client) ValidatePrices(ctx context.Context, items []Item) (*domain.PriceValidationResponse, error) {
	if len(items) == 0 {
		return nil, ErrNoItems
	}
	for _, it := range items {
		if it.Quantity < 1 {
			return nil, fmt.Errorf("product %s: quantity must be at least 1", it.ProductID)
		}
		if it.ExpectedUnitPriceCents < 0 {
			return nil, fmt.Errorf("product %s: expected price must not be negative", it.ProductID)
		}
	}

	body, err := json.Marshal(validateRequest{Items: items})
	if err != nil {
		return nil, fmt.Errorf("marshal validation request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+validatePricePath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build validation request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPricingUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// Drain so the connection is reusable.
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("%w: status %d", ErrPricingUnavailable, resp.StatusCode)
	}

	var out domain.PriceValidationResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrPricingUnavailable, err)
	}

	if !out.IsValid {
		c.logger.Warn("price mismatch reported by pricing authority",
			zap.Int("mismatched_items", len(out.MismatchedItems())),
		)
	}
	return &out, nil
}
