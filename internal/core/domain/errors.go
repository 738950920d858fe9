package domain

import (
	"errors"
	"fmt"
)

// Common domain errors
var (
	// ErrInvalidInput marks malformed or out-of-domain input. Not retryable;
	// the caller must correct the request before resubmitting.
	ErrInvalidInput = errors.New("invalid input")

	// ErrComputationFailed marks an internal failure despite valid-looking
	// input. Retryable.
	ErrComputationFailed = errors.New("computation failed")

	ErrProfileNotFound = errors.New("loan profile not found")
)

// Value-object errors. All of these are invalid input from the caller's
// point of view, so errors.Is(err, ErrInvalidInput) matches them too.
var (
	ErrInvalidValue        = fmt.Errorf("%w: invalid value", ErrInvalidInput)
	ErrInstitutionNotFound = fmt.Errorf("%w: lending institution not found", ErrInvalidInput)
	ErrCurrencyMismatch    = fmt.Errorf("%w: currency mismatch", ErrInvalidInput)
)
