package dto

import "errors"

var (
	// ErrQuotaExceeded is returned when an upstream API answers 429.
	ErrQuotaExceeded = errors.New("quota exceeded")
	// ErrAlreadyExists is returned when a row with the same natural key exists.
	ErrAlreadyExists = errors.New("already exists")
	// ErrNotFound is returned when a requested item is unknown.
	ErrNotFound = errors.New("not found")
	// ErrInvalidInput is returned when a request fails validation.
	ErrInvalidInput = errors.New("invalid input")
)

// ErrorResponse represents a generic error response body.
type ErrorResponse struct {
	Error string `json:"error"`
}
