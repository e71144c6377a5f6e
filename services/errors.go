package services

import (
	"errors"
	"fmt"
)

// ErrInvalidSignature means a payment signature failed verification. The
// request mutated nothing and must not be retried automatically: a bad
// signature stays bad.
var ErrInvalidSignature = errors.New("payment signature verification failed")

// ValidationError reports structurally invalid caller input. Nothing was
// mutated.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError creates a ValidationError
func NewValidationError(message string) *ValidationError {
	return &ValidationError{Message: message}
}

// GatewayError reports a failed call to the payment gateway during order
// creation. No local state was persisted, so the whole CreateOrder call is
// safe to retry.
type GatewayError struct {
	Err error
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("payment gateway error: %v", e.Err)
}

func (e *GatewayError) Unwrap() error {
	return e.Err
}
