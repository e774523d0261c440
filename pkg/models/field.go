package models

import "time"

// MaxNameLength bounds resource names, field names and display names.
// Mirrors the VARCHAR(45) columns in the store.
const MaxNameLength = 45

// FieldDefinition is a named, typed attribute template attachable to a
// schema. Stored in the fields table; reused across schemas of the same
// owner.
type FieldDefinition struct {
	ID          int64     `json:"id,omitempty"`
	UserID      int64     `json:"user_id,omitempty"`
	Name        string    `json:"name"`
	DisplayName string    `json:"display_name"`
	Type        FieldType `json:"type"`
	Shared      bool      `json:"shared"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// FieldUpdate is a partial update over field definition attributes.
type FieldUpdate struct {
	Name        *string
	DisplayName *string
	Type        *FieldType
	Shared      *bool
}

// Empty reports whether no attribute is being updated.
func (u *FieldUpdate) Empty() bool {
	return u.Name == nil && u.DisplayName == nil && u.Type == nil && u.Shared == nil
}
