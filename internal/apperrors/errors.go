package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrCurrencyMismatch indicates that a currency does not match the currency of the account it targets.
var ErrCurrencyMismatch = errors.New("currency mismatch")

// ErrConflict indicates a business rule violation (e.g. partial settlement at pickup).
var ErrConflict = errors.New("conflict")

// ErrRetryExhausted indicates that reference allocation gave up after too many collisions.
var ErrRetryExhausted = errors.New("retry attempts exhausted")

// ErrInternal is a generic error for unexpected failures.
var ErrInternal = errors.New("internal error")

// AppError carries an HTTP-ish status code alongside a message and the wrapped cause.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new AppError.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// NewNotFoundError creates an error that matches ErrNotFound.
func NewNotFoundError(message string) error {
	return fmt.Errorf("%w: %s", ErrNotFound, message)
}

// NewValidationError creates an error that matches ErrValidation.
func NewValidationError(message string) error {
	return fmt.Errorf("%w: %s", ErrValidation, message)
}

// NewConflictError creates an error that matches ErrConflict.
func NewConflictError(message string) error {
	return fmt.Errorf("%w: %s", ErrConflict, message)
}

// NewCurrencyMismatchError creates an error that matches ErrCurrencyMismatch.
func NewCurrencyMismatchError(expected, got string) error {
	return fmt.Errorf("%w: expected %s, got %s", ErrCurrencyMismatch, expected, got)
}

// Kind values used by the HTTP layer to let clients tell failures apart.
const (
	KindValidation       = "validation"
	KindNotFound         = "not_found"
	KindCurrencyMismatch = "currency_mismatch"
	KindConflict         = "conflict"
	KindInternal         = "internal"
)

// Kind classifies err into one of the Kind* constants.
// Currency mismatch is checked first since it is the most specific.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrCurrencyMismatch):
		return KindCurrencyMismatch
	case errors.Is(err, ErrValidation):
		return KindValidation
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrConflict), errors.Is(err, ErrDuplicate):
		return KindConflict
	default:
		return KindInternal
	}
}
