package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/brewlog-io/brewlog/pkg/apperrors"
	"github.com/brewlog-io/brewlog/pkg/auth"
	"github.com/brewlog-io/brewlog/pkg/models"
	"github.com/brewlog-io/brewlog/pkg/services"
)

// FieldHandler handles the standalone field definition resource.
type FieldHandler struct {
	fieldService services.FieldService
	logger       *zap.Logger
}

// NewFieldHandler creates a new field handler.
func NewFieldHandler(fieldService services.FieldService, logger *zap.Logger) *FieldHandler {
	return &FieldHandler{
		fieldService: fieldService,
		logger:       logger,
	}
}

// RegisterRoutes registers the field handler's routes on the given mux.
func (h *FieldHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware, scopeMiddleware ScopeMiddleware) {
	mux.HandleFunc("POST /api/fields", authMiddleware.RequireAuth(scopeMiddleware(h.Create)))
	mux.HandleFunc("GET /api/fields", authMiddleware.RequireAuth(scopeMiddleware(h.List)))
	mux.HandleFunc("PUT /api/fields/{id}", authMiddleware.RequireAuth(scopeMiddleware(h.Update)))
	mux.HandleFunc("DELETE /api/fields/{id}", authMiddleware.RequireAuth(scopeMiddleware(h.Delete)))
}

// Create handles POST /api/fields.
func (h *FieldHandler) Create(w http.ResponseWriter, r *http.Request) {
	ownerID, err := auth.RequireUserID(r.Context())
	if err != nil {
		h.writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req services.CreateFieldRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var ve *apperrors.ValidationError
		if errors.As(err, &ve) {
			h.writeError(w, http.StatusBadRequest, validationMessage(ve))
			return
		}
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	id, err := h.fieldService.Create(r.Context(), ownerID, &req)
	if err != nil {
		if !apperrors.IsValidation(err) {
			h.logger.Error("Failed to create field", zap.Int64("owner_id", ownerID), zap.Error(err))
		}
		if err := WriteServiceError(w, err, "field creation"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	w.Header().Set("Location", fmt.Sprintf("/api/fields/%d", id))
	if err := WriteSuccess(w, http.StatusCreated, map[string]int64{"id": id}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// List handles GET /api/fields.
// Query parameters: shared, offset_id, limit.
func (h *FieldHandler) List(w http.ResponseWriter, r *http.Request) {
	ownerID, err := auth.RequireUserID(r.Context())
	if err != nil {
		h.writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	page, ok := ParsePage(w, r, h.logger)
	if !ok {
		return
	}

	shared := false
	if v, ok := ParseBoolParam(w, r, "shared", h.logger); !ok {
		return
	} else if v != nil {
		shared = *v
	}

	fields, total, err := h.fieldService.List(r.Context(), ownerID, shared, page)
	if err != nil {
		h.logger.Error("Failed to list fields", zap.Int64("owner_id", ownerID), zap.Error(err))
		if err := WriteServiceError(w, err, "field read"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if fields == nil {
		fields = []*models.FieldDefinition{}
	}
	w.Header().Set(TotalCountHeader, strconv.Itoa(total))
	if err := WriteSuccess(w, http.StatusOK, fields); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Update handles PUT /api/fields/{id}.
func (h *FieldHandler) Update(w http.ResponseWriter, r *http.Request) {
	ownerID, err := auth.RequireUserID(r.Context())
	if err != nil {
		h.writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	id, ok := ParseID(w, r, h.logger)
	if !ok {
		return
	}

	var req services.UpdateFieldRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	affected, err := h.fieldService.Update(r.Context(), id, ownerID, &req)
	if err != nil {
		if !apperrors.IsValidation(err) {
			h.logger.Error("Failed to update field", zap.Int64("field_id", id), zap.Error(err))
		}
		if err := WriteServiceError(w, err, "field update"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}
	if affected == 0 {
		h.writeError(w, http.StatusBadRequest, "The field could not be updated")
		return
	}

	if err := WriteSuccess(w, http.StatusOK, map[string]int64{"updated": affected}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Delete handles DELETE /api/fields/{id}.
func (h *FieldHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ownerID, err := auth.RequireUserID(r.Context())
	if err != nil {
		h.writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	id, ok := ParseID(w, r, h.logger)
	if !ok {
		return
	}

	affected, err := h.fieldService.Delete(r.Context(), id, ownerID)
	if err != nil {
		h.logger.Error("Failed to delete field", zap.Int64("field_id", id), zap.Error(err))
		if err := WriteServiceError(w, err, "field deletion"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}
	if affected == 0 {
		h.writeError(w, http.StatusBadRequest, "The field could not be deleted")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *FieldHandler) writeError(w http.ResponseWriter, statusCode int, message string) {
	if err := WriteError(w, statusCode, message); err != nil {
		h.logger.Error("Failed to write error response", zap.Error(err))
	}
}
