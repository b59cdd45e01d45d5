// Package domain holds sentinel errors shared across layers.
package domain

import "errors"

var (
	// ErrValidation signals malformed or out-of-range input. Rejected
	// before reaching storage, mapped to 400 at the transport edge.
	ErrValidation = errors.New("validation failed")
)
