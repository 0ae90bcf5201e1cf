package domain

import (
	"errors"
	"fmt"
)

var (
	ErrValidation             = errors.New("validation failed")
	ErrNotFound               = errors.New("not found")
	ErrStorage                = errors.New("storage failure")
	ErrPaymentFailed          = errors.New("payment failed")
	ErrAuthenticationRequired = errors.New("authentication required")
	ErrVerification           = errors.New("verification failed")
	ErrUnhandledEvent         = errors.New("unhandled event type")

	ErrSignatureMismatch = fmt.Errorf("%w: signature mismatch", ErrVerification)
	ErrMalformedPayload  = fmt.Errorf("%w: malformed payload", ErrVerification)
)

var (
	ErrOrderNotFound          error = notFoundError{entity: "order"}
	ErrOrderItemNotFound      error = notFoundError{entity: "order item"}
	ErrProductNotFound        error = notFoundError{entity: "product"}
	ErrAddressNotFound        error = notFoundError{entity: "address"}
	ErrPaymentIntentNotFound  error = notFoundError{entity: "payment intent"}
	ErrPaymentAttemptNotFound error = notFoundError{entity: "payment attempt"}
	ErrCustomerNotFound       error = notFoundError{entity: "customer"}
)

type notFoundError struct {
	entity string
}

func (e notFoundError) Error() string {
	return e.entity + " not found"
}

func (e notFoundError) Is(target error) bool {
	return target == ErrNotFound
}

type ValidationError struct {
	Field  string
	Reason string
}

func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation: " + e.Reason
	}
	return fmt.Sprintf("validation: %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// StorageError is a persistence failure. It is never retried internally.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func (e *StorageError) Is(target error) bool {
	return target == ErrStorage
}

// ProcessorError is what processor adapters return when the processor rejects a call.
type ProcessorError struct {
	Code     string
	Type     string
	Message  string
	IntentID string
}

func (e *ProcessorError) Error() string {
	return fmt.Sprintf("processor error: type=%s code=%s: %s", e.Type, e.Code, e.Message)
}

// PaymentError means the processor rejected the operation. Code is the processor's error code.
type PaymentError struct {
	Code    string
	Message string
}

func (e *PaymentError) Error() string {
	return fmt.Sprintf("payment failed: code=%s: %s", e.Code, e.Message)
}

func (e *PaymentError) Is(target error) bool {
	return target == ErrPaymentFailed
}

// AuthenticationRequiredError is a retriable PaymentError: the customer has to complete
// step-up authentication for IntentID.
type AuthenticationRequiredError struct {
	PaymentError
	IntentID     string
	IntentStatus IntentStatus
	ClientSecret string
}

func (e *AuthenticationRequiredError) Error() string {
	return fmt.Sprintf("authentication required for intent %s (status %s)", e.IntentID, e.IntentStatus)
}

func (e *AuthenticationRequiredError) Is(target error) bool {
	return target == ErrAuthenticationRequired || target == ErrPaymentFailed
}

func (e *AuthenticationRequiredError) Retriable() bool {
	return true
}
