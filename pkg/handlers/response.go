package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/brewlog-io/brewlog/pkg/apperrors"
)

// Envelope is the uniform response body: status is "success" or "error",
// content carries the payload or a human-readable message.
type Envelope struct {
	Status  string      `json:"status"`
	Content interface{} `json:"content"`
}

// TotalCountHeader reports the total matching count on paginated reads.
const TotalCountHeader = "X-Total-Count"

// WriteSuccess writes a success envelope and returns any encoding error.
func WriteSuccess(w http.ResponseWriter, statusCode int, content interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	if statusCode != http.StatusOK {
		w.WriteHeader(statusCode)
	}
	return json.NewEncoder(w).Encode(Envelope{Status: "success", Content: content})
}

// WriteError writes an error envelope and returns any encoding error.
func WriteError(w http.ResponseWriter, statusCode int, message string) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(Envelope{Status: "error", Content: message})
}

// validationMessage maps a validation reason to the client message.
func validationMessage(ve *apperrors.ValidationError) string {
	switch ve.Reason {
	case apperrors.ReasonMissingField:
		return "Required attribute missing: " + ve.Field
	case apperrors.ReasonLengthExceeded:
		return "Attribute too long: " + ve.Field
	case apperrors.ReasonInvalidType:
		return "Unknown field type"
	case apperrors.ReasonEmptyUpdate:
		return "No attributes supplied for update"
	case apperrors.ReasonUnknownKey:
		return "Unrecognized attribute: " + ve.Field
	case apperrors.ReasonDuplicateField:
		return "Duplicate field name: " + ve.Field
	case apperrors.ReasonEmptyFieldSet:
		return "A schema needs at least one field"
	case apperrors.ReasonInvalidValue:
		return "Invalid value for attribute: " + ve.Field
	default:
		return "Invalid request"
	}
}

// WriteServiceError maps a service-layer failure to the envelope.
// Validation failures become 400s with their reason message; everything
// else is logged by the caller and reported generically.
func WriteServiceError(w http.ResponseWriter, err error, operation string) error {
	var ve *apperrors.ValidationError
	if errors.As(err, &ve) {
		return WriteError(w, http.StatusBadRequest, validationMessage(ve))
	}
	if errors.Is(err, apperrors.ErrNotFound) {
		return WriteError(w, http.StatusBadRequest, "The "+operation+" could not be completed")
	}
	return WriteError(w, http.StatusInternalServerError, "The "+operation+" could not be completed")
}
