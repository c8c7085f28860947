// Package apperror defines the domain error taxonomy shared by every layer.
//
// Services and repositories return *AppError values that wrap one of the
// sentinel errors below. The HTTP layer never inspects message text; it uses
// errors.Is against the sentinels to pick a status code, and the Message to
// build the response body.
package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrValidation      = errors.New("validation error")
	ErrConflict        = errors.New("conflict")
	ErrAuth            = errors.New("bad credentials")
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrEmpty           = errors.New("empty")
)

type AppError struct {
	Err     error  // actual error
	Message string // Human-readable error message
	Field   string // Optional: field causing the error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NotFound reports that a resource is absent from the caller's scope.
// A row that exists but belongs to someone else is reported the same way.
func NotFound(resource, id string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found with id %s", resource, id),
	}
}

func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
	}
}

func Conflict(message string) *AppError {
	return &AppError{
		Err:     ErrConflict,
		Message: message,
	}
}

// AuthFailed is returned when a username or password does not check out.
// The message is shown to the client verbatim.
func AuthFailed(message string) *AppError {
	return &AppError{
		Err:     ErrAuth,
		Message: message,
	}
}

// Unauthenticated is returned when no valid session token was presented.
func Unauthenticated() *AppError {
	return &AppError{
		Err:     ErrUnauthenticated,
		Message: "Please login!",
	}
}

// Empty reports that a bulk operation found nothing to act on.
func Empty(resource string) *AppError {
	return &AppError{
		Err:     ErrEmpty,
		Message: fmt.Sprintf("no %s to act on", resource),
	}
}
