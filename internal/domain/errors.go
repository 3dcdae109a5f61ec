package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound            = errors.New("not found")
	ErrCarUnavailable      = errors.New("car is not available for rental")
	ErrCustomerNotEligible = errors.New("customer is not eligible to rent")
	ErrConcurrencyConflict = errors.New("aggregate was modified concurrently")
	ErrBusy                = errors.New("could not acquire aggregate lock")
)

// ValidationError is returned when an input fails a domain rule before any
// mutation takes place.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

func NewValidationError(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// InvalidStateTransitionError reports an operation that is not legal for the
// aggregate's current status. The aggregate is left untouched.
type InvalidStateTransitionError struct {
	Aggregate string
	Current   string
	Requested string
}

func (e *InvalidStateTransitionError) Error() string {
	return fmt.Sprintf("%s: cannot %s from status %s", e.Aggregate, e.Requested, e.Current)
}

func IsInvalidStateTransition(err error) bool {
	var te *InvalidStateTransitionError
	return errors.As(err, &te)
}
