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

// ScopeMiddleware is a function that wraps a handler with a request-scoped
// database connection.
type ScopeMiddleware func(http.HandlerFunc) http.HandlerFunc

// SchemaHandler handles schema HTTP requests.
type SchemaHandler struct {
	schemaService services.SchemaService
	logger        *zap.Logger
}

// NewSchemaHandler creates a new schema handler.
func NewSchemaHandler(schemaService services.SchemaService, logger *zap.Logger) *SchemaHandler {
	return &SchemaHandler{
		schemaService: schemaService,
		logger:        logger,
	}
}

// RegisterRoutes registers the schema handler's routes on the given mux.
func (h *SchemaHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware, scopeMiddleware ScopeMiddleware) {
	mux.HandleFunc("POST /api/schemas", authMiddleware.RequireAuth(scopeMiddleware(h.Create)))
	mux.HandleFunc("GET /api/schemas", authMiddleware.RequireAuth(scopeMiddleware(h.List)))
	mux.HandleFunc("PUT /api/schemas/{id}", authMiddleware.RequireAuth(scopeMiddleware(h.Update)))
	mux.HandleFunc("DELETE /api/schemas/{id}", authMiddleware.RequireAuth(scopeMiddleware(h.Delete)))
}

// Create handles POST /api/schemas.
func (h *SchemaHandler) Create(w http.ResponseWriter, r *http.Request) {
	ownerID, err := auth.RequireUserID(r.Context())
	if err != nil {
		h.writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req services.CreateSchemaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeDecodeError(w, err)
		return
	}

	id, err := h.schemaService.Create(r.Context(), ownerID, &req)
	if err != nil {
		if !apperrors.IsValidation(err) {
			h.logger.Error("Failed to create schema", zap.Int64("owner_id", ownerID), zap.Error(err))
		}
		if err := WriteServiceError(w, err, "schema creation"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	w.Header().Set("Location", fmt.Sprintf("/api/schemas/%d", id))
	if err := WriteSuccess(w, http.StatusCreated, map[string]int64{"id": id}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// List handles GET /api/schemas.
// Query parameters: shared, id, name, default, offset_id, limit.
func (h *SchemaHandler) List(w http.ResponseWriter, r *http.Request) {
	ownerID, err := auth.RequireUserID(r.Context())
	if err != nil {
		h.writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	page, ok := ParsePage(w, r, h.logger)
	if !ok {
		return
	}

	filter := models.SchemaFilter{}
	if shared, ok := ParseBoolParam(w, r, "shared", h.logger); !ok {
		return
	} else if shared != nil {
		filter.Shared = *shared
	}
	if id, ok := ParseInt64Param(w, r, "id", h.logger); !ok {
		return
	} else {
		filter.ID = id
	}
	if name := r.URL.Query().Get("name"); name != "" {
		filter.Name = &name
	}
	if def, ok := ParseBoolParam(w, r, "default", h.logger); !ok {
		return
	} else {
		filter.Default = def
	}

	schemas, total, err := h.schemaService.List(r.Context(), ownerID, filter, page)
	if err != nil {
		h.logger.Error("Failed to list schemas", zap.Int64("owner_id", ownerID), zap.Error(err))
		if err := WriteServiceError(w, err, "schema read"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if schemas == nil {
		schemas = []*models.Schema{}
	}
	w.Header().Set(TotalCountHeader, strconv.Itoa(total))
	if err := WriteSuccess(w, http.StatusOK, schemas); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Update handles PUT /api/schemas/{id}.
// Partial update over name, default and shared; the field set is
// immutable after creation.
func (h *SchemaHandler) Update(w http.ResponseWriter, r *http.Request) {
	ownerID, err := auth.RequireUserID(r.Context())
	if err != nil {
		h.writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	id, ok := ParseID(w, r, h.logger)
	if !ok {
		return
	}

	var req services.UpdateSchemaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeDecodeError(w, err)
		return
	}

	affected, err := h.schemaService.Update(r.Context(), id, ownerID, &req)
	if err != nil {
		if !apperrors.IsValidation(err) {
			h.logger.Error("Failed to update schema", zap.Int64("schema_id", id), zap.Error(err))
		}
		if err := WriteServiceError(w, err, "schema update"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}
	if affected == 0 {
		h.writeError(w, http.StatusBadRequest, "The schema could not be updated")
		return
	}

	if err := WriteSuccess(w, http.StatusOK, map[string]int64{"updated": affected}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Delete handles DELETE /api/schemas/{id}.
func (h *SchemaHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ownerID, err := auth.RequireUserID(r.Context())
	if err != nil {
		h.writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	id, ok := ParseID(w, r, h.logger)
	if !ok {
		return
	}

	affected, err := h.schemaService.Delete(r.Context(), id, ownerID)
	if err != nil {
		h.logger.Error("Failed to delete schema", zap.Int64("schema_id", id), zap.Error(err))
		if err := WriteServiceError(w, err, "schema deletion"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}
	if affected == 0 {
		h.writeError(w, http.StatusBadRequest, "The schema could not be deleted")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// writeDecodeError maps body decoding failures. Strict field entry
// decoding surfaces ValidationErrors through the json package.
func (h *SchemaHandler) writeDecodeError(w http.ResponseWriter, err error) {
	var ve *apperrors.ValidationError
	if errors.As(err, &ve) {
		h.writeError(w, http.StatusBadRequest, validationMessage(ve))
		return
	}
	h.writeError(w, http.StatusBadRequest, "Invalid request body")
}

func (h *SchemaHandler) writeError(w http.ResponseWriter, statusCode int, message string) {
	if err := WriteError(w, statusCode, message); err != nil {
		h.logger.Error("Failed to write error response", zap.Error(err))
	}
}
