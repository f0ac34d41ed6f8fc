package decor

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a requested entity does not exist.
var ErrNotFound = errors.New("not found")

// ErrUnsupportedImage is returned when an uploaded file cannot be decoded
// as an image.
var ErrUnsupportedImage = errors.New("unsupported image format")

// UniquenessError reports a unique-constraint collision on a named field,
// most commonly a slug. The attempted write did not happen.
type UniquenessError struct {
	Field string
}

func (e *UniquenessError) Error() string {
	return fmt.Sprintf("%s already exists", e.Field)
}

// ValidationError reports a missing or malformed required field. The
// attempted write did not happen.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func required(field, value string) error {
	if value == "" {
		return &ValidationError{Field: field, Reason: "this field is required"}
	}
	return nil
}

// IsUniqueness reports whether err is (or wraps) a UniquenessError.
func IsUniqueness(err error) bool {
	var ue *UniquenessError
	return errors.As(err, &ue)
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
