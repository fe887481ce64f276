package errors

import (
	stderrors "errors"
	"fmt"
)

type CanceledError struct {
	message string
	cause   error
}

func (e *CanceledError) Error() string {
	return e.message
}

func (e *CanceledError) Unwrap() error {
	return e.cause
}

// CanceledErrorf formats a message; a %w verb in format records the wrapped cause.
func CanceledErrorf(format string, args ...any) *CanceledError {
	err := fmt.Errorf(format, args...)
	return &CanceledError{
		message: err.Error(),
		cause:   stderrors.Unwrap(err),
	}
}

// IsCanceled reports whether err, or anything it wraps, is a CanceledError.
func IsCanceled(err error) bool {
	var target *CanceledError
	return stderrors.As(err, &target)
}

var _ error = &CanceledError{}
