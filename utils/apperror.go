package utils

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind classifies an AppError; the HTTP status each kind maps to is
// fixed at construction time.
type ErrorKind string

const (
	ErrKindValidation ErrorKind = "validation"
	ErrKindNotFound   ErrorKind = "not_found"
	ErrKindConflict   ErrorKind = "conflict"
	ErrKindUpstream   ErrorKind = "upstream"
	ErrKindSignature  ErrorKind = "signature"
	ErrKindInternal   ErrorKind = "internal"
)

// AppError is the single structured error type carried from the services to
// the HTTP boundary, where it is mapped to a response exactly once. Message
// is safe to return to callers; Err holds the underlying cause for the
// server log and is never exposed.
type AppError struct {
	Kind    ErrorKind
	Status  int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error { return e.Err }

// AsAppError unwraps err into an *AppError when possible.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// NewValidation reports malformed or semantically invalid input.
func NewValidation(format string, args ...any) *AppError {
	return &AppError{Kind: ErrKindValidation, Status: http.StatusBadRequest, Message: fmt.Sprintf(format, args...)}
}

// NewNotFound reports a referenced entity that does not exist.
func NewNotFound(format string, args ...any) *AppError {
	return &AppError{Kind: ErrKindNotFound, Status: http.StatusNotFound, Message: fmt.Sprintf(format, args...)}
}

// NewConflict reports an operation that is invalid for the current state of
// its target, such as paying a non-pending order or ordering beyond stock.
func NewConflict(format string, args ...any) *AppError {
	return &AppError{Kind: ErrKindConflict, Status: http.StatusBadRequest, Message: fmt.Sprintf(format, args...)}
}

// NewSignature reports a webhook payload whose signature did not verify.
func NewSignature(message string, err error) *AppError {
	return &AppError{Kind: ErrKindSignature, Status: http.StatusBadRequest, Message: message, Err: err}
}

// NewUpstream reports a failure in an external collaborator such as the
// payment processor.
func NewUpstream(message string, err error) *AppError {
	return &AppError{Kind: ErrKindUpstream, Status: http.StatusInternalServerError, Message: message, Err: err}
}

// NewInternal reports an unexpected server-side failure.
func NewInternal(message string, err error) *AppError {
	return &AppError{Kind: ErrKindInternal, Status: http.StatusInternalServerError, Message: message, Err: err}
}
