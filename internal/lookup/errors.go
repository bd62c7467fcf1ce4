package lookup

import (
	"errors"
	"fmt"
)

// ValidationError represents user-facing validation issues.
type ValidationError struct {
	msg string
}

func (e ValidationError) Error() string {
	return e.msg
}

// NewValidationError creates a new validation error.
func NewValidationError(format string, args ...interface{}) error {
	return ValidationError{msg: fmt.Sprintf(format, args...)}
}

// ReadError is returned when the request history cannot be read.
// Its message is shown to API callers as is and carries only the driver's
// message, not the storage layer's wrapping.
type ReadError struct {
	Err error
}

func (e ReadError) Error() string {
	return fmt.Sprintf("Database error: %v", rootCause(e.Err))
}

// rootCause follows the wrap chain to the innermost error. For errors
// joined by fmt.Errorf with several %w verbs the last one is the cause.
func rootCause(err error) error {
	for err != nil {
		switch wrapped := err.(type) {
		case interface{ Unwrap() []error }:
			errs := wrapped.Unwrap()
			if len(errs) == 0 {
				return err
			}
			err = errs[len(errs)-1]
		default:
			next := errors.Unwrap(err)
			if next == nil {
				return err
			}
			err = next
		}
	}
	return err
}

func (e ReadError) Unwrap() error {
	return e.Err
}
