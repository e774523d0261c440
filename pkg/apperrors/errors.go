package apperrors

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrInvalidType        = errors.New("invalid field type")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already registered")
	ErrUnauthenticated    = errors.New("unauthenticated")
)

// Validation failure reasons. These are stable codes surfaced to clients;
// the human-readable message is built separately.
const (
	ReasonMissingField   = "missing_field"
	ReasonLengthExceeded = "length_exceeded"
	ReasonInvalidType    = "invalid_type"
	ReasonEmptyUpdate    = "empty_update"
	ReasonUnknownKey     = "unknown_key"
	ReasonDuplicateField = "duplicate_field"
	ReasonEmptyFieldSet  = "empty_field_set"
	ReasonInvalidValue   = "invalid_value"
)

// ValidationError reports a malformed request attribute. Always a
// client-class failure; detected before any store access.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// NewValidation creates a ValidationError for the given attribute.
func NewValidation(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
