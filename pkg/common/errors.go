package common

import (
	"fmt"
	"net/http"
)

type ErrorKind string

const (
	KindValidation          ErrorKind = "validation"
	KindNotFound            ErrorKind = "not_found"
	KindInvalidOperation    ErrorKind = "invalid_operation"
	KindConflict            ErrorKind = "conflict"
	KindPolicy              ErrorKind = "policy"
	KindInsufficientBalance ErrorKind = "insufficient_balance"
	KindInternal            ErrorKind = "internal"
)

// Error is the single error type services return across the core. Handlers
// map Kind to a transport status; the wrapped cause never crosses the
// boundary.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) HTTPStatus() int {
	switch e.Kind {
	case KindValidation, KindInvalidOperation, KindPolicy, KindInsufficientBalance:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func NewValidationError(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

func NewNotFoundError(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

func NewInvalidOperationError(message string) *Error {
	return &Error{Kind: KindInvalidOperation, Message: message}
}

func NewConflictError(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}

func NewPolicyError(message string) *Error {
	return &Error{Kind: KindPolicy, Message: message}
}

func NewInsufficientBalanceError(message string) *Error {
	return &Error{Kind: KindInsufficientBalance, Message: message}
}

func NewInternalError(message string, cause error) *Error {
	return &Error{Kind: KindInternal, Message: message, Err: cause}
}

// AsError normalizes any error into *Error, wrapping unknown causes as
// internal so raw storage diagnostics never leak to callers.
func AsError(err error) *Error {
	if err == nil {
		return nil
	}
	if appErr, ok := err.(*Error); ok {
		return appErr
	}
	return NewInternalError("internal error", err)
}
