package booking

import (
	"errors"
	"fmt"
)

// ErrorCode classifies the outcome of a matching or assignment request.
type ErrorCode string

const (
	CodeNotFound            ErrorCode = "NOT_FOUND"
	CodeInvalidWindow       ErrorCode = "INVALID_WINDOW"
	CodeConflict            ErrorCode = "CONFLICT"
	CodeNoCleanersAvailable ErrorCode = "NO_CLEANERS_AVAILABLE"
	CodeUnauthorized        ErrorCode = "UNAUTHORIZED"
	CodeInvalidRequest      ErrorCode = "INVALID_REQUEST"
)

// BookingError is a domain failure callers can act on. Storage failures are
// returned as plain wrapped errors instead, so they never carry a code.
type BookingError struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *BookingError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *BookingError) Unwrap() error {
	return e.Err
}

// Is matches any BookingError with the same code, so errors.Is(err, ErrConflict) works.
func (e *BookingError) Is(target error) bool {
	t, ok := target.(*BookingError)
	return ok && t.Code == e.Code
}

var (
	ErrNotFound            = &BookingError{Code: CodeNotFound, Message: "not found"}
	ErrInvalidWindow       = &BookingError{Code: CodeInvalidWindow, Message: "invalid time window"}
	ErrConflict            = &BookingError{Code: CodeConflict, Message: "conflict"}
	ErrNoCleanersAvailable = &BookingError{Code: CodeNoCleanersAvailable, Message: "no cleaners available"}
	ErrUnauthorized        = &BookingError{Code: CodeUnauthorized, Message: "unauthorized"}
	ErrInvalidRequest      = &BookingError{Code: CodeInvalidRequest, Message: "invalid request"}
)

func newError(code ErrorCode, format string, args ...interface{}) *BookingError {
	return &BookingError{Code: code, Message: fmt.Sprintf(format, args...)}
}

func wrapError(code ErrorCode, err error, format string, args ...interface{}) *BookingError {
	return &BookingError{Code: code, Message: fmt.Sprintf(format, args...), Err: err}
}

// CodeOf returns the code of the BookingError in err's chain, or "" for
// storage and other unclassified failures.
func CodeOf(err error) ErrorCode {
	var be *BookingError
	if errors.As(err, &be) {
		return be.Code
	}
	return ""
}
