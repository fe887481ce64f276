package errors

import (
	stderrors "errors"
	"fmt"
)

type NotFoundError struct {
	message string
	cause   error
}

func (e *NotFoundError) Error() string {
	return e.message
}

func (e *NotFoundError) Unwrap() error {
	return e.cause
}

// NotFoundErrorf formats a message; a %w verb in format records the wrapped cause.
func NotFoundErrorf(format string, args ...any) *NotFoundError {
	err := fmt.Errorf(format, args...)
	return &NotFoundError{
		message: err.Error(),
		cause:   stderrors.Unwrap(err),
	}
}

// IsNotFound reports whether err, or anything it wraps, is a NotFoundError.
func IsNotFound(err error) bool {
	var target *NotFoundError
	return stderrors.As(err, &target)
}

var _ error = &NotFoundError{}
