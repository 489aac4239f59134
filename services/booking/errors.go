package booking

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrDraftNotFound is returned when a draft id resolves to nothing,
	// either because it never existed or its TTL expired.
	ErrDraftNotFound = errors.New("booking draft not found or expired")

	// ErrSubmissionInFlight rejects a re-entrant submit while a payment
	// attempt is already running for the same draft.
	ErrSubmissionInFlight = errors.New("a payment attempt is already in progress for this booking")

	// ErrDraftRedirected rejects any operation on a draft that has already
	// been handed off to the payment gateway.
	ErrDraftRedirected = errors.New("booking has already been handed off to the payment gateway")
)

// ValidationError carries field-scoped messages that block a step transition.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return fmt.Sprintf("validation failed: %s", strings.Join(keys, ", "))
}

// NewValidationError wraps a field-keyed error map.
func NewValidationError(fields map[string]string) error {
	return &ValidationError{Fields: fields}
}

// AvailabilityFetchError records a failed availability lookup. It is never
// surfaced to the caller as a failure; the resolver degrades to deny-all.
type AvailabilityFetchError struct {
	ExperienceID string
	Err          error
}

func (e *AvailabilityFetchError) Error() string {
	return fmt.Sprintf("availability fetch failed for experience %s: %v", e.ExperienceID, e.Err)
}

func (e *AvailabilityFetchError) Unwrap() error { return e.Err }

// PaymentSessionError is fatal to the current submission attempt. The message
// passes through the gateway's own wording when present.
type PaymentSessionError struct {
	Code    string
	Message string
}

func (e *PaymentSessionError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// genericPaymentMessage is the fallback when the gateway gives no message.
const genericPaymentMessage = "payment could not be initiated, please try again"

// NewPaymentSessionError builds a PaymentSessionError, substituting the
// generic fallback when the gateway message is empty.
func NewPaymentSessionError(message string) error {
	if strings.TrimSpace(message) == "" {
		message = genericPaymentMessage
	}
	return &PaymentSessionError{Code: "paymentSessionError", Message: message}
}

// NewInvalidSessionError marks a session response missing its identifier.
func NewInvalidSessionError() error {
	return &PaymentSessionError{Code: "invalidSession", Message: "payment session response missing session id"}
}

// GatewayLoadError means the gateway client could not be set up at all.
type GatewayLoadError struct {
	Err error
}

func (e *GatewayLoadError) Error() string {
	return fmt.Sprintf("payment gateway unavailable: %v", e.Err)
}

func (e *GatewayLoadError) Unwrap() error { return e.Err }
