package services

import (
	"errors"
	"fmt"
)

// Sentinel errors form the taxonomy handlers map to HTTP statuses and
// to the error_kind discriminator in responses. Services never swallow
// a failure; every path returns one of these or the raw storage error.
var (
	ErrValidation             = errors.New("invalid input")
	ErrNotFound               = errors.New("not found")
	ErrNoActiveContract       = errors.New("client has no active contract")
	ErrConflict               = errors.New("a session already exists at this time")
	ErrForbidden              = errors.New("forbidden")
	ErrCancelWindow           = errors.New("cancellation window has passed")
	ErrInvalidStateTransition = errors.New("invalid state transition")
)

// CancelWindowError reports exactly why a cancellation was refused so
// the UI can explain the rule instead of showing a bare failure.
type CancelWindowError struct {
	RequiredHours  int
	RemainingHours int
}

func (e *CancelWindowError) Error() string {
	return fmt.Sprintf(
		"cancellation requires %d hours notice, only %d hours remain",
		e.RequiredHours, e.RemainingHours,
	)
}

func (e *CancelWindowError) Unwrap() error {
	return ErrCancelWindow
}
