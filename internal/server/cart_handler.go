package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/MonkyMars/mamabloemetjes-sub001/internal/cart"
	"github.com/MonkyMars/mamabloemetjes-sub001/internal/domain"
	"github.com/MonkyMars/mamabloemetjes-sub001/internal/repository"
	"github.com/MonkyMars/mamabloemetjes-sub001/internal/validation"
	"go.uber.org/zap"
)

const maxCartLines = 99

type CartHandler struct {
	aggregator *cart.Aggregator
	carts      cart.CartSource
	sessions   *SessionManager
	timeout    time.Duration
	logger     *zap.Logger
}

func NewCartHandler(aggregator *cart.Aggregator, carts cart.CartSource, sessions *SessionManager, timeout time.Duration, logger *zap.Logger) *CartHandler {
	return &CartHandler{
		aggregator: aggregator,
		carts:      carts,
		sessions:   sessions,
		timeout:    timeout,
		logger:     logger,
	}
}

type guestSummaryRequestDTO struct {
	Items []domain.CartItem `json:"items"`
}

type guestSummaryResponseDTO struct {
	Summary         domain.CartSummary `json:"summary"`
	MissingProducts []string           `json:"missing_products,omitempty"`
}

type itemsChangedRequestDTO struct {
	Items []validation.Item `json:"items"`
}

type validationStateDTO struct {
	IsValidating bool                            `json:"is_validating"`
	IsValid      bool                            `json:"is_valid"`
	Error        string                          `json:"error,omitempty"`
	Response     *domain.PriceValidationResponse `json:"response,omitempty"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// GetSummary returns the signed-in user's cart summary.
func (h *CartHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID := getUserIDFromContext(r.Context())
	if userID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user identity")
		return
	}

	summary, err := h.aggregator.UserSummary(ctx, userID)
	if err != nil {
		h.logger.Error("failed to build user summary",
			zap.String("user_id", userID), zap.String("request_id", getRequestID(r.Context())), zap.Error(err))
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to build cart summary")
		return
	}

	respondJSON(w, http.StatusOK, summary)
}

// GuestSummary prices client-persisted guest lines.
func (h *CartHandler) GuestSummary(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req guestSummaryRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if msg := validateCartItems(req.Items); msg != "" {
		respondError(w, http.StatusBadRequest, "invalid_items", msg)
		return
	}

	summary, missing, err := h.aggregator.GuestSummary(ctx, req.Items)
	if err != nil {
		h.logger.Error("failed to build guest summary",
			zap.String("request_id", getRequestID(r.Context())), zap.Error(err))
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to build cart summary")
		return
	}

	respondJSON(w, http.StatusOK, guestSummaryResponseDTO{Summary: summary, MissingProducts: missing})
}

// ItemsChanged feeds the session's debounced coordinator. The call returns
// immediately; the validation itself runs after the debounce window unless a
// newer change supersedes it.
func (h *CartHandler) ItemsChanged(w http.ResponseWriter, r *http.Request) {
	sessionID := h.sessionID(r)
	if sessionID == "" {
		respondError(w, http.StatusBadRequest, "missing_session", "X-User-ID or X-Session-ID header required")
		return
	}

	var req itemsChangedRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if msg := validateValidationItems(req.Items); msg != "" {
		respondError(w, http.StatusBadRequest, "invalid_items", msg)
		return
	}

	coord := h.sessions.Coordinator(sessionID)
	coord.ItemsChanged(req.Items)
	respondJSON(w, http.StatusAccepted, stateDTO(coord.Snapshot()))
}

// GetValidation returns the session's current validation state.
func (h *CartHandler) GetValidation(w http.ResponseWriter, r *http.Request) {
	sessionID := h.sessionID(r)
	if sessionID == "" {
		respondError(w, http.StatusBadRequest, "missing_session", "X-User-ID or X-Session-ID header required")
		return
	}

	respondJSON(w, http.StatusOK, stateDTO(h.sessions.Coordinator(sessionID).Snapshot()))
}

// ValidatePrices is the manual retry: it bypasses the coordinator's
// content-equality cache and validates now. With an empty body the signed-in
// user's server cart supplies the candidate lines.
func (h *CartHandler) ValidatePrices(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	sessionID := h.sessionID(r)
	if sessionID == "" {
		respondError(w, http.StatusBadRequest, "missing_session", "X-User-ID or X-Session-ID header required")
		return
	}

	var req itemsChangedRequestDTO
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
			return
		}
	}

	if len(req.Items) == 0 {
		userID := getUserIDFromContext(r.Context())
		if userID == "" {
			respondError(w, http.StatusBadRequest, "empty_items", "no items to validate")
			return
		}
		serverCart, err := h.carts.GetCart(ctx, userID)
		if errors.Is(err, repository.ErrCartNotFound) || (err == nil && len(serverCart.Items) == 0) {
			respondError(w, http.StatusBadRequest, "empty_items", "no items to validate")
			return
		}
		if err != nil {
			h.logger.Error("failed to load cart for validation",
				zap.String("user_id", userID), zap.Error(err))
			respondError(w, http.StatusInternalServerError, "internal_error", "failed to load cart")
			return
		}
		req.Items = cart.ValidationItems(serverCart.Items)
	}

	if msg := validateValidationItems(req.Items); msg != "" {
		respondError(w, http.StatusBadRequest, "invalid_items", msg)
		return
	}

	coord := h.sessions.Coordinator(sessionID)
	coord.Refresh(req.Items)
	respondJSON(w, http.StatusAccepted, stateDTO(coord.Snapshot()))
}

// sessionID prefers the authenticated identity, falling back to the guest
// session header.
func (h *CartHandler) sessionID(r *http.Request) string {
	if userID := getUserIDFromContext(r.Context()); userID != "" {
		return userID
	}
	return r.Header.Get("X-Session-ID")
}

func stateDTO(st domain.ValidationState) validationStateDTO {
	dto := validationStateDTO{
		IsValidating: st.IsValidating,
		IsValid:      st.Valid(),
		Response:     st.Response,
	}
	if st.Err != nil {
		dto.Error = st.Err.Error()
	}
	return dto
}

func validateCartItems(items []domain.CartItem) string {
	if len(items) == 0 {
		return "items must not be empty"
	}
	if len(items) > maxCartLines {
		return "too many cart lines"
	}
	for _, it := range items {
		if it.ProductID == "" {
			return "product_id must not be empty"
		}
		if it.Quantity < 1 {
			return "quantity must be at least 1"
		}
	}
	return ""
}

func validateValidationItems(items []validation.Item) string {
	if len(items) > maxCartLines {
		return "too many cart lines"
	}
	for _, it := range items {
		if it.ProductID == "" {
			return "product_id must not be empty"
		}
		if it.Quantity < 1 {
			return "quantity must be at least 1"
		}
		if it.ExpectedUnitPriceCents < 0 {
			return "expected_unit_price_cents must not be negative"
		}
	}
	return ""
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Headers are already written; nothing to do but note it.
		zap.L().Warn("failed to encode response", zap.Error(err))
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{
		Error: message,
		Code:  code,
	})
}
