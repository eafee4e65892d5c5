package model

import (
	"errors"
	"fmt"
)

var (
	ErrUnauthenticated = errors.New("not authenticated")
	ErrNotAdmin        = errors.New("administrator role required")
	ErrUserNotFound    = errors.New("user not found")
	ErrSubmitInFlight  = errors.New("another submission is already in flight")

	ErrCredentialCacheNotFound  = errors.New("credential cache file not found")
	ErrCredentialCacheCorrupted = errors.New("credential cache file corrupted")
	ErrInvalidChecksum          = errors.New("invalid file checksum")
)

// APIError is a structured failure from the remote API. Message carries the
// server's "error" field when the body had one.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("api error %d", e.StatusCode)
}

// FieldError is a client-side validation failure tied to a single form field.
// The form stays open and the field is highlighted and focused.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return e.Message
}
