package models

import "time"

// Schema is a user-defined set of field definitions describing the custom
// attributes a client records per brew. At most one schema per owner has
// Default set; the store reconciles that invariant transactionally.
type Schema struct {
	ID        int64         `json:"id"`
	UserID    int64         `json:"user_id"`
	Name      string        `json:"name"`
	Default   bool          `json:"default"`
	Shared    bool          `json:"shared"`
	Fields    []SchemaField `json:"fields"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// SchemaField is a field definition as attached to one schema. The display
// name may differ per association; name and type come from the underlying
// field definition.
type SchemaField struct {
	FieldID     int64     `json:"field_id,omitempty"`
	Name        string    `json:"name"`
	DisplayName string    `json:"display_name"`
	Type        FieldType `json:"type"`
}

// ValidatedSchema is the output of schema create validation: everything
// the store adapter needs, with field types already resolved.
type ValidatedSchema struct {
	UserID  int64
	Name    string
	Default bool
	Shared  bool
	Fields  []SchemaField
}

// SchemaUpdate is a partial update over the mutable schema attributes.
// The field set is immutable after creation; changing fields means
// creating a new schema.
type SchemaUpdate struct {
	Name    *string
	Default *bool
	Shared  *bool
}

// Empty reports whether no attribute is being updated.
func (u *SchemaUpdate) Empty() bool {
	return u.Name == nil && u.Default == nil && u.Shared == nil
}

// SchemaFilter narrows schema reads. Shared selects the shared view
// (shared schemas of any owner) instead of the caller's own.
type SchemaFilter struct {
	ID      *int64
	Name    *string
	Default *bool
	Shared  bool
}
