package validation

import (
	"errors"
	"fmt"
	"strings"
)

// Error is a local input failure. It is returned before any remote call is made.
type Error struct {
	Field   string
	Message string
}

func (e Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Required fails when s is blank after trimming.
func Required(field, s string) error {
	if strings.TrimSpace(s) == "" {
		return Error{Field: field, Message: field + " is required"}
	}
	return nil
}

// Positive fails when n is not greater than zero.
func Positive(field string, n int64) error {
	if n <= 0 {
		return Error{Field: field, Message: field + " must be greater than 0"}
	}
	return nil
}

// First returns the first non-nil error.
func First(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// Is reports whether err is (or wraps) a validation Error.
func Is(err error) bool {
	var ve Error
	return errors.As(err, &ve)
}
