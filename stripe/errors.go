package stripe

import (
	"errors"
	"fmt"

	stripeapi "github.com/stripe/stripe-go/v81"
)

// StripeError represents a Stripe-specific error
type StripeError struct {
	Code    string
	Message string
	Err     error
}

func (e *StripeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("stripe error [%s]: %s - %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("stripe error [%s]: %s", e.Code, e.Message)
}

func (e *StripeError) Unwrap() error {
	return e.Err
}

// Common Stripe errors
var (
	ErrInvalidPayload        = &StripeError{Code: "invalid_payload", Message: "webhook payload could not be parsed"}
	ErrInvalidSignature      = &StripeError{Code: "invalid_signature", Message: "webhook signature verification failed"}
	ErrEventAlreadyProcessed = &StripeError{Code: "event_already_processed", Message: "webhook event already processed"}
	ErrAPICallFailed         = &StripeError{Code: "api_call_failed", Message: "stripe API call failed"}
)

// NewStripeError creates a new StripeError with the given code, message, and underlying error
func NewStripeError(code, message string, err error) *StripeError {
	return &StripeError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// GatewayMessage extracts the processor-reported message when err
// originated in a Stripe API call. The message is returned exactly as
// Stripe produced it. ok is false for any other kind of error.
func GatewayMessage(err error) (msg string, ok bool) {
	var stripeErr *stripeapi.Error
	if !errors.As(err, &stripeErr) {
		return "", false
	}
	if stripeErr.Msg != "" {
		return stripeErr.Msg, true
	}
	return stripeErr.Error(), true
}
