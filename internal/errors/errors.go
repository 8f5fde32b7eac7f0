package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// Kind classifies a domain failure and doubles as the symbolic code exposed to
// clients.
type Kind string

const (
	KindUnauthorized          Kind = "UNAUTHORIZED"
	KindForbidden             Kind = "FORBIDDEN"
	KindNotFound              Kind = "NOT_FOUND"
	KindResourceAlreadyExists Kind = "RESOURCE_ALREADY_EXISTS"
	KindInvalidOffset         Kind = "INVALID_OFFSET"
	KindPaymentAmountMismatch Kind = "PAYMENT_AMOUNT_MISMATCH"
	KindTooManyRequests       Kind = "TOO_MANY_REQUESTS"
)

// Error is a domain failure carrying a client-facing message.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func newError(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// NewUnauthorized creates an Unauthorized domain error.
func NewUnauthorized(format string, args ...any) *Error {
	return newError(KindUnauthorized, format, args...)
}

// NewNotFound creates a NotFound domain error.
func NewNotFound(format string, args ...any) *Error {
	return newError(KindNotFound, format, args...)
}

// NewResourceAlreadyExists creates a ResourceAlreadyExists domain error.
func NewResourceAlreadyExists(format string, args ...any) *Error {
	return newError(KindResourceAlreadyExists, format, args...)
}

// NewInvalidOffset creates an InvalidOffset domain error.
func NewInvalidOffset(format string, args ...any) *Error {
	return newError(KindInvalidOffset, format, args...)
}

// NewPaymentAmountMismatch creates a PaymentAmountMismatch domain error.
func NewPaymentAmountMismatch(format string, args ...any) *Error {
	return newError(KindPaymentAmountMismatch, format, args...)
}

// IsKind reports whether err is a domain error of the given kind.
func IsKind(err error, kind Kind) bool {
	var domainErr *Error
	return stderrors.As(err, &domainErr) && domainErr.Kind == kind
}

// ErrorResponse is the JSON envelope returned for every domain failure.
type ErrorResponse struct {
	Detail string `json:"detail"`
	Code   string `json:"code"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Detail: e.Message,
		Code:   e.Code,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors. Anything that is not a
// domain error collapses to a generic 500 so storage and internal error text
// never reaches clients.
func MapErrorToHTTP(err error) *HTTPError {
	var domainErr *Error
	if stderrors.As(err, &domainErr) {
		return NewHTTPError(statusFor(domainErr.Kind), domainErr.Message, string(domainErr.Kind))
	}
	return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
}

func statusFor(kind Kind) int {
	switch kind {
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindResourceAlreadyExists:
		return http.StatusConflict
	case KindInvalidOffset, KindPaymentAmountMismatch:
		return http.StatusBadRequest
	case KindTooManyRequests:
		return http.StatusTooManyRequests
	default:
		return http.StatusBadRequest
	}
}
