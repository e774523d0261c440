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

// ItemHandler serves one simple gear resource (coffee, water, brewer,
// filter, vessel). One instance is registered per kind; the handlers are
// identical apart from the URL segment and messages.
type ItemHandler struct {
	kind        models.ItemKind
	itemService services.ItemService
	logger      *zap.Logger
}

// NewItemHandler creates a handler for one gear resource.
func NewItemHandler(kind models.ItemKind, itemService services.ItemService, logger *zap.Logger) *ItemHandler {
	return &ItemHandler{
		kind:        kind,
		itemService: itemService,
		logger:      logger,
	}
}

// RegisterRoutes registers the item handler's routes on the given mux.
func (h *ItemHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware, scopeMiddleware ScopeMiddleware) {
	base := "/api/" + h.kind.Plural
	mux.HandleFunc("POST "+base, authMiddleware.RequireAuth(scopeMiddleware(h.Create)))
	mux.HandleFunc("GET "+base, authMiddleware.RequireAuth(scopeMiddleware(h.List)))
	mux.HandleFunc("GET "+base+"/{id}", authMiddleware.RequireAuth(scopeMiddleware(h.Get)))
	mux.HandleFunc("PUT "+base+"/{id}", authMiddleware.RequireAuth(scopeMiddleware(h.Update)))
	mux.HandleFunc("DELETE "+base+"/{id}", authMiddleware.RequireAuth(scopeMiddleware(h.Delete)))
}

// Create handles POST /api/{kind}.
func (h *ItemHandler) Create(w http.ResponseWriter, r *http.Request) {
	ownerID, err := auth.RequireUserID(r.Context())
	if err != nil {
		h.writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req services.CreateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	id, err := h.itemService.Create(r.Context(), ownerID, &req)
	if err != nil {
		if !apperrors.IsValidation(err) {
			h.logger.Error("Failed to create "+h.kind.Singular, zap.Int64("owner_id", ownerID), zap.Error(err))
		}
		if err := WriteServiceError(w, err, h.kind.Singular+" creation"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	w.Header().Set("Location", fmt.Sprintf("/api/%s/%d", h.kind.Plural, id))
	if err := WriteSuccess(w, http.StatusCreated, map[string]int64{"id": id}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Get handles GET /api/{kind}/{id}.
func (h *ItemHandler) Get(w http.ResponseWriter, r *http.Request) {
	ownerID, err := auth.RequireUserID(r.Context())
	if err != nil {
		h.writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	id, ok := ParseID(w, r, h.logger)
	if !ok {
		return
	}

	item, err := h.itemService.Get(r.Context(), id, ownerID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			h.logger.Error("Failed to get "+h.kind.Singular, zap.Int64("id", id), zap.Error(err))
		}
		if err := WriteServiceError(w, err, h.kind.Singular+" read"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if err := WriteSuccess(w, http.StatusOK, item); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// List handles GET /api/{kind}.
// Query parameters: offset_id, limit.
func (h *ItemHandler) List(w http.ResponseWriter, r *http.Request) {
	ownerID, err := auth.RequireUserID(r.Context())
	if err != nil {
		h.writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	page, ok := ParsePage(w, r, h.logger)
	if !ok {
		return
	}

	items, total, err := h.itemService.List(r.Context(), ownerID, page)
	if err != nil {
		h.logger.Error("Failed to list "+h.kind.Plural, zap.Int64("owner_id", ownerID), zap.Error(err))
		if err := WriteServiceError(w, err, h.kind.Singular+" read"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if items == nil {
		items = []*models.Item{}
	}
	w.Header().Set(TotalCountHeader, strconv.Itoa(total))
	if err := WriteSuccess(w, http.StatusOK, items); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Update handles PUT /api/{kind}/{id}.
func (h *ItemHandler) Update(w http.ResponseWriter, r *http.Request) {
	ownerID, err := auth.RequireUserID(r.Context())
	if err != nil {
		h.writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	id, ok := ParseID(w, r, h.logger)
	if !ok {
		return
	}

	var req services.UpdateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	affected, err := h.itemService.Update(r.Context(), id, ownerID, &req)
	if err != nil {
		if !apperrors.IsValidation(err) {
			h.logger.Error("Failed to update "+h.kind.Singular, zap.Int64("id", id), zap.Error(err))
		}
		if err := WriteServiceError(w, err, h.kind.Singular+" update"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}
	if affected == 0 {
		h.writeError(w, http.StatusBadRequest, "The "+h.kind.Singular+" could not be updated")
		return
	}

	if err := WriteSuccess(w, http.StatusOK, map[string]int64{"updated": affected}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Delete handles DELETE /api/{kind}/{id}.
func (h *ItemHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ownerID, err := auth.RequireUserID(r.Context())
	if err != nil {
		h.writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	id, ok := ParseID(w, r, h.logger)
	if !ok {
		return
	}

	affected, err := h.itemService.Delete(r.Context(), id, ownerID)
	if err != nil {
		h.logger.Error("Failed to delete "+h.kind.Singular, zap.Int64("id", id), zap.Error(err))
		if err := WriteServiceError(w, err, h.kind.Singular+" deletion"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}
	if affected == 0 {
		h.writeError(w, http.StatusBadRequest, "The "+h.kind.Singular+" could not be deleted")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *ItemHandler) writeError(w http.ResponseWriter, statusCode int, message string) {
	if err := WriteError(w, statusCode, message); err != nil {
		h.logger.Error("Failed to write error response", zap.Error(err))
	}
}
