package storage

import "errors"

// Storage error constants
var (
	// ErrInvalidID is returned when an external identifier does not decode
	// to the store's native identifier format. Distinct from ErrProductNotFound:
	// a malformed id never reaches the store.
	ErrInvalidID = errors.New("invalid identifier")

	// ErrProductNotFound is returned when a product is not found
	ErrProductNotFound = errors.New("product not found")
)
