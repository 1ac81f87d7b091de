package services

import (
	"errors"
	"fmt"
)

// Error kinds. Match them with errors.Is; the handlers map each kind to a
// status code.
var (
	ErrNotFound            = errors.New("not found")
	ErrValidation          = errors.New("validation failed")
	ErrDuplicateMembership = errors.New("duplicate membership")
	ErrNotMember           = errors.New("not a member")
	ErrAlreadySubscribed   = errors.New("already subscribed")
	ErrNotSubscribed       = errors.New("not subscribed")
	ErrSelfSubscription    = errors.New("self subscription")
	ErrForbidden           = errors.New("forbidden")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrConflict            = errors.New("conflict")
)

// Error is a business error with a message meant for API clients.
type Error struct {
	Kind   error
	Detail string
	// Fields holds per-field messages of a validation error.
	Fields map[string]string
}

func (e *Error) Error() string {
	if e.Detail == "" {
		return e.Kind.Error()
	}
	return e.Detail
}

func (e *Error) Unwrap() error { return e.Kind }

func newError(kind error, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Detail: fmt.Sprintf(format, args...)}
}

func validationError(fields map[string]string) *Error {
	return &Error{Kind: ErrValidation, Detail: "Invalid input data", Fields: fields}
}

func fieldError(field, message string) *Error {
	return validationError(map[string]string{field: message})
}
