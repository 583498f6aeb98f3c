package validation

import "errors"

var (
	// ErrNoItems means the caller asked to validate an empty item list.
	// The coordinator treats an emptied cart as a local clear; reaching the
	// client with no items is an input error.
	ErrNoItems = errors.New("no items to validate")

	// ErrPricingUnavailable wraps transport and server failures from the
	// pricing authority. It is distinct from a price mismatch: a mismatch is
	// a data outcome reported via PriceValidationResponse.IsValid, while this
	// error means no authoritative answer was obtained at all. Callers must
	// treat both as grounds to block checkout.
	ErrPricingUnavailable = errors.New("pricing service unavailable")
)
