package common

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
)

// ErrorKind classifies every error the core returns. The boundary layer maps
// kinds to HTTP status codes; services never touch status codes themselves.
type ErrorKind string

const (
	KindInvalidInput       ErrorKind = "INVALID_INPUT"
	KindUnauthenticated    ErrorKind = "UNAUTHENTICATED"
	KindSubscriptionDenied ErrorKind = "SUBSCRIPTION_DENIED"
	KindNotFound           ErrorKind = "NOT_FOUND"
	KindConflict           ErrorKind = "CONFLICT"
	KindInternal           ErrorKind = "INTERNAL"
)

// Error is the single error value type crossing service boundaries. Details
// carries machine-readable context, e.g. the existing order id on a duplicate
// open-table conflict.
type Error struct {
	Kind    ErrorKind         `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.cause }

// WithDetail attaches a detail entry and returns the same error for chaining.
func (e *Error) WithDetail(key, value string) *Error {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

func NewInvalidInput(format string, args ...interface{}) *Error {
	return &Error{Kind: KindInvalidInput, Message: fmt.Sprintf(format, args...)}
}

func NewUnauthenticated(message string) *Error {
	return &Error{Kind: KindUnauthenticated, Message: message}
}

// NewSubscriptionDenied builds a gate rejection carrying the sub-reason from
// the billing decision table.
func NewSubscriptionDenied(reason, message string) *Error {
	e := &Error{Kind: KindSubscriptionDenied, Message: message}
	return e.WithDetail("reason", reason)
}

// NewNotFound covers both true absence and entities owned by another tenant;
// callers deliberately cannot tell the two apart.
func NewNotFound(resource string) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf("%s not found", resource)}
}

func NewConflict(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}

func NewInternal(err error) *Error {
	return &Error{Kind: KindInternal, Message: "operation could not be completed", cause: err}
}

// KindOf returns the kind of err, treating anything outside the taxonomy as
// internal.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// ErrorResponse is the JSON error envelope returned on every failed request.
type ErrorResponse struct {
	Error struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details,omitempty"`
	} `json:"error"`
}

// httpStatus maps an error to the status code the boundary exposes.
// Subscription denials use 402 except "inactive", which the billing table
// treats as a support problem rather than a payment problem.
func httpStatus(err error) int {
	var e *Error
	if !errors.As(err, &e) {
		return http.StatusInternalServerError
	}
	switch e.Kind {
	case KindInvalidInput:
		return http.StatusBadRequest
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindSubscriptionDenied:
		if e.Details["reason"] == "inactive" {
			return http.StatusForbidden
		}
		return http.StatusPaymentRequired
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// RespondError writes the standard error envelope for err.
func RespondError(c echo.Context, err error) error {
	var resp ErrorResponse
	var e *Error
	if errors.As(err, &e) {
		resp.Error.Code = string(e.Kind)
		resp.Error.Message = e.Message
		resp.Error.Details = e.Details
	} else {
		resp.Error.Code = string(KindInternal)
		resp.Error.Message = "operation could not be completed"
	}
	return c.JSON(httpStatus(err), &resp)
}
