package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound       = errors.New("not found")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
	ErrValidation     = errors.New("validation failed")
	ErrEmailTaken     = errors.New("email already registered")
	ErrAlreadyClaimed = errors.New("donation already claimed by another NGO")
)

// TransitionError rejects a claim on a donation that is no longer pending.
// Current carries the state at rejection time so clients can refresh.
type TransitionError struct {
	Current DonationStatus
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("donation is no longer available, current status: %s", e.Current)
}

// ValidationError wraps ErrValidation with a field-level message.
func ValidationError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
