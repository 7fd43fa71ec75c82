package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is the API error contract. Code, Message and Status are returned to
// clients; Err is the internal cause and stays server side.
type Error struct {
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Status  int      `json:"status"`
	Details []string `json:"details,omitempty"`
	Err     error    `json:"-"`
}

func New(code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message}
}

var (
	ErrValidation         = New("VALIDATION_ERROR", http.StatusBadRequest, "validation failed")
	ErrAlreadyExists      = New("ALREADY_EXISTS", http.StatusBadRequest, "resource already exists")
	ErrInvalidReference   = New("INVALID_REFERENCE", http.StatusBadRequest, "referenced resource does not exist")
	ErrPersistence        = New("PERSISTENCE_ERROR", http.StatusBadRequest, "could not persist resource")
	ErrUnauthorized       = New("UNAUTHORIZED", http.StatusUnauthorized, "unauthorized")
	ErrInvalidCredentials = New("INVALID_CREDENTIALS", http.StatusUnauthorized, "invalid email or password")
	ErrForbidden          = New("FORBIDDEN", http.StatusForbidden, "forbidden")
	ErrInactiveAccount    = New("ACCOUNT_INACTIVE", http.StatusForbidden, "account is inactive")
	ErrNotFound           = New("NOT_FOUND", http.StatusNotFound, "resource not found")
	ErrInternal           = New("INTERNAL_ERROR", http.StatusInternalServerError, "internal server error")

	// ErrCacheMiss never reaches a client; the cache layer treats it as an empty read.
	ErrCacheMiss = New("CACHE_MISS", http.StatusNotFound, "cache miss")
)

func (e *Error) Error() string {
	switch {
	case e == nil:
		return "<nil>"
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	default:
		return e.Message
	}
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is compares codes, so errors.Is(Clone(ErrNotFound, "..."), ErrNotFound) holds.
func (e *Error) Is(target error) bool {
	var t *Error
	if e == nil || !errors.As(target, &t) || t == nil {
		return false
	}
	return e.Code == t.Code
}

// Clone copies template, replacing the message when one is given.
func Clone(template *Error, message string) *Error {
	if template == nil {
		return nil
	}
	out := *template
	out.Details = nil
	out.Err = nil
	if message != "" {
		out.Message = message
	}
	return &out
}

// Cause is Clone with an internal cause attached.
func Cause(template *Error, err error, message string) *Error {
	out := Clone(template, message)
	if out != nil {
		out.Err = err
	}
	return out
}

// WithDetails returns a copy of e carrying details.
func (e *Error) WithDetails(details ...string) *Error {
	if e == nil {
		return nil
	}
	out := *e
	out.Details = append([]string(nil), details...)
	return &out
}

// FromError returns the *Error inside err, or an INTERNAL_ERROR that hides it.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Cause(ErrInternal, err, "")
}
