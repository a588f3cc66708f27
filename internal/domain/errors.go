package domain

import (
	"errors"
	"strings"
)

// Error kinds. Match with errors.Is.
var (
	ErrValidation       = errors.New("validation error")
	ErrConflict         = errors.New("conflict")
	ErrAuth             = errors.New("authentication error")
	ErrPaymentFailed    = errors.New("payment failed")
	ErrNotFound         = errors.New("not found")
	ErrSubmitInProgress = errors.New("submit already in progress")
)

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error is a user-visible failure of one of the kinds above.
type Error struct {
	Kind    error
	Message string
	Fields  []FieldError
}

func (e *Error) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return e.Message + " (" + strings.Join(parts, "; ") + ")"
}

func (e *Error) Unwrap() error { return e.Kind }

func Validation(msg string, fields ...FieldError) error {
	return &Error{Kind: ErrValidation, Message: msg, Fields: fields}
}

func Conflict(msg string) error { return &Error{Kind: ErrConflict, Message: msg} }

func Unauthenticated(msg string) error { return &Error{Kind: ErrAuth, Message: msg} }

func NotFound(what string) error { return &Error{Kind: ErrNotFound, Message: what + " not found"} }

func PaymentFailed(msg string) error { return &Error{Kind: ErrPaymentFailed, Message: msg} }

// AuthRequiredError signals "redirect to login". It carries the in-flight draft so it is not lost.
type AuthRequiredError struct {
	Draft Draft
}

func (e *AuthRequiredError) Error() string { return "login required to complete booking" }

func (e *AuthRequiredError) Unwrap() error { return ErrAuth }

// Fields returns the field details of err, if any.
func Fields(err error) []FieldError {
	var de *Error
	if errors.As(err, &de) {
		return de.Fields
	}
	return nil
}
