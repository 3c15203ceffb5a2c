package errors

import (
	"net/http"
)

// ErrorKind represents different types of API errors
type ErrorKind string

const (
	KindBadRequest         ErrorKind = "bad_request"
	KindUnauthorized       ErrorKind = "unauthorized"
	KindPayloadTooLarge    ErrorKind = "payload_too_large"
	KindInternal           ErrorKind = "internal"
	KindServiceUnavailable ErrorKind = "service_unavailable"
)

// APIError is the JSON error body: {"error": ..., "reason": ...}.
type APIError struct {
	Kind      ErrorKind `json:"-"`
	Message   string    `json:"error"`
	Reason    string    `json:"reason,omitempty"`
	RequestID string    `json:"-"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.Reason != "" {
		return e.Message + ": " + e.Reason
	}
	return e.Message
}

// HTTPStatus returns the appropriate HTTP status code for the error kind
func (e *APIError) HTTPStatus() int {
	switch e.Kind {
	case KindBadRequest:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindPayloadTooLarge:
		return http.StatusRequestEntityTooLarge
	case KindServiceUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// NewBadRequestError creates a bad request error
func NewBadRequestError(message string) *APIError {
	return &APIError{Kind: KindBadRequest, Message: message}
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError(message string) *APIError {
	return &APIError{Kind: KindUnauthorized, Message: message}
}

// NewPayloadTooLargeError is returned when the body exceeds the configured limit.
func NewPayloadTooLargeError(message string) *APIError {
	return &APIError{Kind: KindPayloadTooLarge, Message: message}
}

// NewInternalError creates an internal server error
func NewInternalError(message string) *APIError {
	return &APIError{Kind: KindInternal, Message: message}
}

// NewInternalErrorWithReason carries the underlying failure text to the client.
func NewInternalErrorWithReason(message, reason string) *APIError {
	return &APIError{Kind: KindInternal, Message: message, Reason: reason}
}
