package service

import (
	"errors"
	"fmt"
)

// Error kinds. Handlers map each kind to one HTTP status with errors.Is;
// anything else is an internal failure.
var (
	ErrValidation         = errors.New("validation failed")
	ErrInvalidCredentials = errors.New("Invalid credentials")
	ErrUnauthenticated    = errors.New("Please authenticate")
	ErrForbidden          = errors.New("Access denied. Admin only.")
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("conflict")
)

// Error is a client-facing failure of a given kind. Message is safe to return to the caller.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Kind }

var (
	ErrUserAlreadyExists = &Error{Kind: ErrConflict, Message: "User already exists"}
	ErrUserNotFound      = &Error{Kind: ErrNotFound, Message: "User not found"}
	ErrProductNotFound   = &Error{Kind: ErrNotFound, Message: "Product not found"}
	ErrOrderNotFound     = &Error{Kind: ErrNotFound, Message: "Order not found"}
	ErrInvalidStatus     = &Error{Kind: ErrValidation, Message: "Invalid status"}
)

func validationError(format string, args ...any) error {
	return &Error{Kind: ErrValidation, Message: fmt.Sprintf(format, args...)}
}
