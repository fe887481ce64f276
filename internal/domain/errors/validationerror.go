package errors

import (
	stderrors "errors"
	"fmt"
)

type ValidationError struct {
	message string
	cause   error
}

func (e *ValidationError) Error() string {
	return e.message
}

func (e *ValidationError) Unwrap() error {
	return e.cause
}

// ValidationErrorf formats a message; a %w verb in format records the wrapped cause.
func ValidationErrorf(format string, args ...any) *ValidationError {
	err := fmt.Errorf(format, args...)
	return &ValidationError{
		message: err.Error(),
		cause:   stderrors.Unwrap(err),
	}
}

// IsValidation reports whether err, or anything it wraps, is a ValidationError.
func IsValidation(err error) bool {
	var target *ValidationError
	return stderrors.As(err, &target)
}

var _ error = &ValidationError{}
