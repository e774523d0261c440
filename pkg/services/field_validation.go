package services

import (
	"encoding/json"
	"unicode/utf8"

	"github.com/brewlog-io/brewlog/pkg/apperrors"
	"github.com/brewlog-io/brewlog/pkg/models"
)

// FieldDefinitionRequest is one raw field entry of a schema create or
// field create payload. Unknown keys are rejected during decoding, before
// any validation runs.
type FieldDefinitionRequest struct {
	Name        string
	DisplayName string
	// TypeToken is the undecoded type attribute: the stable numeric id
	// or the upper-cased type name.
	TypeToken json.RawMessage
}

// UnmarshalJSON decodes a field entry strictly: only name, display_name
// and type are recognized.
func (r *FieldDefinitionRequest) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	for key := range raw {
		switch key {
		case "name", "display_name", "type":
		default:
			return apperrors.NewValidation(key, apperrors.ReasonUnknownKey)
		}
	}

	if v, ok := raw["name"]; ok {
		if err := json.Unmarshal(v, &r.Name); err != nil {
			return apperrors.NewValidation("name", apperrors.ReasonInvalidValue)
		}
	}
	if v, ok := raw["display_name"]; ok {
		if err := json.Unmarshal(v, &r.DisplayName); err != nil {
			return apperrors.NewValidation("display_name", apperrors.ReasonInvalidValue)
		}
	}
	r.TypeToken = raw["type"]

	return nil
}

// ResolveTypeToken resolves the wire encoding of a field type: a numeric
// id or a name (upper-cased before lookup). Anything else is an error.
func ResolveTypeToken(token json.RawMessage) (models.FieldType, error) {
	if len(token) == 0 || string(token) == "null" {
		return 0, apperrors.NewValidation("type", apperrors.ReasonMissingField)
	}

	var id int
	if err := json.Unmarshal(token, &id); err == nil {
		t, err := models.ResolveFieldType(id)
		if err != nil {
			return 0, apperrors.NewValidation("type", apperrors.ReasonInvalidType)
		}
		return t, nil
	}

	var name string
	if err := json.Unmarshal(token, &name); err == nil {
		t, err := models.ResolveFieldTypeName(name)
		if err != nil {
			return 0, apperrors.NewValidation("type", apperrors.ReasonInvalidType)
		}
		return t, nil
	}

	return 0, apperrors.NewValidation("type", apperrors.ReasonInvalidType)
}

// validateNameAttr checks a required name-like attribute against the
// shared length bound. The bound counts characters, not bytes, matching
// the VARCHAR column limit.
func validateNameAttr(attr, value string) error {
	if value == "" {
		return apperrors.NewValidation(attr, apperrors.ReasonMissingField)
	}
	if utf8.RuneCountInString(value) > models.MaxNameLength {
		return apperrors.NewValidation(attr, apperrors.ReasonLengthExceeded)
	}
	return nil
}

// ValidateFieldDefinition validates a raw (name, display_name, type)
// triple against the registry and the length bounds. Pure; no side
// effects.
func ValidateFieldDefinition(req *FieldDefinitionRequest) (models.SchemaField, error) {
	if err := validateNameAttr("name", req.Name); err != nil {
		return models.SchemaField{}, err
	}
	if err := validateNameAttr("display_name", req.DisplayName); err != nil {
		return models.SchemaField{}, err
	}

	fieldType, err := ResolveTypeToken(req.TypeToken)
	if err != nil {
		return models.SchemaField{}, err
	}

	return models.SchemaField{
		Name:        req.Name,
		DisplayName: req.DisplayName,
		Type:        fieldType,
	}, nil
}
