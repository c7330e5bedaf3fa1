package apperr

import (
	"errors"
	"fmt"
)

// ErrInvalid is returned when the input fails domain validation.
var ErrInvalid = errors.New("invalid input")

// ErrNotFound indicates that the referenced order or item does not exist.
var ErrNotFound = errors.New("not found")

// ErrInvalidCode is returned when a pickup confirmation code does not match.
var ErrInvalidCode = errors.New("invalid code")

// ErrConflict indicates a state conflict, e.g. an order item that was already decided (HTTP 409).
var ErrConflict = errors.New("conflict")

// ErrStoreFailure marks any failure of the underlying data store.
var ErrStoreFailure = errors.New("store failure")

// Store wraps a data store error with ErrStoreFailure. Domain sentinels pass through untouched.
func Store(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrInvalid) || errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrInvalidCode) || errors.Is(err, ErrConflict) ||
		errors.Is(err, ErrStoreFailure) {
		return err
	}
	return fmt.Errorf("%s: %w: %w", op, ErrStoreFailure, err)
}
