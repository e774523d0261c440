package models

import (
	"strings"

	"github.com/brewlog-io/brewlog/pkg/apperrors"
)

// FieldType is the closed set of value types a field definition may carry.
// The numeric IDs are stable and appear in both the wire format and the
// fields table; they must never be renumbered.
type FieldType int

const (
	FieldTypeString  FieldType = 1
	FieldTypeDate    FieldType = 2
	FieldTypeInt     FieldType = 3
	FieldTypeDouble  FieldType = 4
	FieldTypeBoolean FieldType = 5
)

var fieldTypeNames = map[FieldType]string{
	FieldTypeString:  "STRING",
	FieldTypeDate:    "DATE",
	FieldTypeInt:     "INT",
	FieldTypeDouble:  "DOUBLE",
	FieldTypeBoolean: "BOOLEAN",
}

// String returns the canonical upper-case name, or "UNKNOWN" for values
// outside the registry.
func (t FieldType) String() string {
	if name, ok := fieldTypeNames[t]; ok {
		return name
	}
	return "UNKNOWN"
}

// Valid reports whether t is a member of the registry.
func (t FieldType) Valid() bool {
	_, ok := fieldTypeNames[t]
	return ok
}

// ResolveFieldType looks up a field type by its stable numeric ID.
// Any ID outside the registry is an error, never coerced.
func ResolveFieldType(id int) (FieldType, error) {
	t := FieldType(id)
	if !t.Valid() {
		return 0, apperrors.ErrInvalidType
	}
	return t, nil
}

// ResolveFieldTypeName looks up a field type by name. The name is
// upper-cased before comparison; no other normalization or partial
// matching is applied.
func ResolveFieldTypeName(name string) (FieldType, error) {
	upper := strings.ToUpper(name)
	for t, n := range fieldTypeNames {
		if n == upper {
			return t, nil
		}
	}
	return 0, apperrors.ErrInvalidType
}
