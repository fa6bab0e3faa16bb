//nolint:lll
package errors

import (
	"fmt"
	"net/http"
)

// The custom Error type satisfies the error interface.
// Error() returns a human-readable description of the error.
//
// Error codes in the 40001-49999 range are the caller's fault,
// and they return HTTP Status 400 or 403, whatever is most appropriate.
//
// Error codes 50001-59999 are the server's fault
// and they return HTTP Status 500 or 503, or something else if appropriate.
//
// NEVER change any of the current error codes, only append new errors after the current last 4XXX or 5XXX.
var (
	// Validation errors (400)
	ErrMalformedBody      = Error{Code: 40001, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("invalid JSON request body")}
	ErrMissingAmounts     = Error{Code: 40002, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("amount and investment amount are required")}
	ErrMissingPriceID     = Error{Code: 40003, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("price ID is required")}
	ErrMissingAmount      = Error{Code: 40004, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("amount is required")}
	ErrInvalidRequestData = Error{Code: 40005, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("invalid request data provided")}

	// Server errors (500) - These should be used sparingly and only for true internal errors
	ErrGenericInternalServerError = Error{Code: 50001, HTTPstatus: http.StatusInternalServerError, Err: fmt.Errorf("an unexpected error occurred"), LogLevel: "error"}
	ErrMarshalingServerJSONFailed = Error{Code: 50002, HTTPstatus: http.StatusInternalServerError, Err: fmt.Errorf("server error: failed to process response"), LogLevel: "error"}
)

// GatewayRejected wraps a failure reported by the payment processor.
// The processor's message is kept verbatim as the error body: the client
// relies on it to show the decline reason, so nothing may be prepended.
func GatewayRejected(msg string) Error {
	return Error{
		Code:       40301,
		HTTPstatus: http.StatusForbidden,
		Err:        fmt.Errorf("%s", msg),
		LogLevel:   "info",
	}
}
