package service

import (
	"fmt"

	"github.com/pkg/errors"
)

// ValidationError marks a client-input problem that maps to a 400 response.
type ValidationError struct {
	msg string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	return e.msg
}

// NewValidationError creates a ValidationError with the given message
func NewValidationError(msg string) error {
	return &ValidationError{msg: msg}
}

func invalidf(format string, args ...interface{}) error {
	return &ValidationError{msg: fmt.Sprintf(format, args...)}
}

// IsValidationError reports whether err is a ValidationError
func IsValidationError(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}
