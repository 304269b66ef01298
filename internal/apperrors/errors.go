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

// ErrConflict indicates that the request conflicts with the current state of the ledger.
var ErrConflict = errors.New("conflict")

// ErrStorage indicates an infrastructure failure at the storage boundary.
// Operations failing with it leave no partial state and may be retried.
var ErrStorage = errors.New("storage failure")

// ErrUnauthorized indicates a missing or invalid credential.
var ErrUnauthorized = errors.New("unauthorized")

// ErrForbidden indicates an authenticated caller lacks permission.
var ErrForbidden = errors.New("forbidden")

// ErrInternal indicates an unexpected internal error.
var ErrInternal = errors.New("internal error")

// AppError carries an HTTP-ish status code and a message alongside the wrapped cause.
type AppError struct {
	Code    int
	Message string
	Err     error
}

// NewAppError creates a new AppError.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// NewNotFoundError creates an AppError that matches ErrNotFound.
func NewNotFoundError(message string) *AppError {
	return &AppError{Code: 404, Message: message, Err: ErrNotFound}
}

// NewStorageError creates an AppError that matches ErrStorage and keeps the driver error.
func NewStorageError(message string, err error) *AppError {
	return &AppError{Code: 500, Message: message, Err: fmt.Errorf("%w: %w", ErrStorage, err)}
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}
