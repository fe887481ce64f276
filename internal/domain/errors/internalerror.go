package errors

import (
	stderrors "errors"
	"fmt"
)

type InternalError struct {
	message string
	cause   error
}

func (e *InternalError) Error() string {
	return e.message
}

func (e *InternalError) Unwrap() error {
	return e.cause
}

// InternalErrorf formats a message; a %w verb in format records the wrapped cause.
func InternalErrorf(format string, args ...any) *InternalError {
	err := fmt.Errorf(format, args...)
	return &InternalError{
		message: err.Error(),
		cause:   stderrors.Unwrap(err),
	}
}

// IsInternal reports whether err, or anything it wraps, is a InternalError.
func IsInternal(err error) bool {
	var target *InternalError
	return stderrors.As(err, &target)
}

var _ error = &InternalError{}
