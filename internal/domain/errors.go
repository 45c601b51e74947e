package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrValidation        = errors.New("validation failed")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrForbidden         = errors.New("forbidden")
)

// Invalidf wraps ErrValidation with a human-readable reason so handlers
// can match the sentinel while logs keep the details.
func Invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// UpstreamError marks a failure of an external provider call
// (payment gateway, shipping, AI). Routers surface these as 502.
type UpstreamError struct {
	Service string
	Err     error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s upstream: %v", e.Service, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }
