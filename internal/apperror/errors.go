// Package apperror defines the typed errors the services return. Each error
// carries an HTTP status code and a message safe to show to the client; the
// echo error handler in cmd/app maps them onto the JSON envelope.
package apperror

import (
	"fmt"
	"net/http"
)

type AppError struct {
	Code int `json:"-"`

	// Message is safe for the client. Raw database or transport errors
	// never go here; they are kept in Internal for logging.
	Message string `json:"message"`

	Internal error `json:"-"`
}

func (e *AppError) Error() string {
	if e.Internal != nil {
		return fmt.Sprintf("%s (internal: %v)", e.Message, e.Internal)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Internal
}

// NewValidation reports malformed or missing input, including uniqueness
// violations surfaced by the persistence layer.
func NewValidation(message string) *AppError {
	return &AppError{Code: http.StatusBadRequest, Message: message}
}

// NewAuthentication reports a missing, invalid, or expired credential.
func NewAuthentication(message string) *AppError {
	return &AppError{Code: http.StatusUnauthorized, Message: message}
}

// NewAuthorization reports a valid identity with insufficient role or
// ownership.
func NewAuthorization(message string) *AppError {
	return &AppError{Code: http.StatusForbidden, Message: message}
}

func NewNotFound(message string) *AppError {
	return &AppError{Code: http.StatusNotFound, Message: message}
}

// NewDelivery reports a downstream mail or storage failure.
func NewDelivery(message string, err error) *AppError {
	return &AppError{Code: http.StatusInternalServerError, Message: message, Internal: err}
}

// NewInternal wraps an unexpected error. The client only sees a generic
// message.
func NewInternal(err error) *AppError {
	return &AppError{
		Code:     http.StatusInternalServerError,
		Message:  "an unexpected error occurred",
		Internal: err,
	}
}

// SafeMessage returns the client-facing message for any error.
func SafeMessage(err error) string {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Message
	}
	return "an unexpected error occurred"
}

// SafeCode returns the HTTP status for any error, 500 when unclassified.
func SafeCode(err error) int {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Code
	}
	return http.StatusInternalServerError
}
