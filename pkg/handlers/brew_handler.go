package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/brewlog-io/brewlog/pkg/apperrors"
	"github.com/brewlog-io/brewlog/pkg/auth"
	"github.com/brewlog-io/brewlog/pkg/models"
	"github.com/brewlog-io/brewlog/pkg/services"
)

// BrewHandler handles brew log HTTP requests.
type BrewHandler struct {
	brewService services.BrewService
	logger      *zap.Logger
}

// NewBrewHandler creates a new brew handler.
func NewBrewHandler(brewService services.BrewService, logger *zap.Logger) *BrewHandler {
	return &BrewHandler{
		brewService: brewService,
		logger:      logger,
	}
}

// RegisterRoutes registers the brew handler's routes on the given mux.
func (h *BrewHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware, scopeMiddleware ScopeMiddleware) {
	mux.HandleFunc("POST /api/brews", authMiddleware.RequireAuth(scopeMiddleware(h.Create)))
	mux.HandleFunc("GET /api/brews", authMiddleware.RequireAuth(scopeMiddleware(h.List)))
	mux.HandleFunc("GET /api/brews/{id}", authMiddleware.RequireAuth(scopeMiddleware(h.Get)))
	mux.HandleFunc("PUT /api/brews/{id}", authMiddleware.RequireAuth(scopeMiddleware(h.Update)))
	mux.HandleFunc("DELETE /api/brews/{id}", authMiddleware.RequireAuth(scopeMiddleware(h.Delete)))
}

// Create handles POST /api/brews.
func (h *BrewHandler) Create(w http.ResponseWriter, r *http.Request) {
	ownerID, err := auth.RequireUserID(r.Context())
	if err != nil {
		h.writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req services.CreateBrewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	id, err := h.brewService.Create(r.Context(), ownerID, &req)
	if err != nil {
		if !apperrors.IsValidation(err) {
			h.logger.Error("Failed to create brew", zap.Int64("owner_id", ownerID), zap.Error(err))
		}
		if err := WriteServiceError(w, err, "brew creation"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	w.Header().Set("Location", fmt.Sprintf("/api/brews/%d", id))
	if err := WriteSuccess(w, http.StatusCreated, map[string]int64{"id": id}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Get handles GET /api/brews/{id}.
func (h *BrewHandler) Get(w http.ResponseWriter, r *http.Request) {
	ownerID, err := auth.RequireUserID(r.Context())
	if err != nil {
		h.writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	id, ok := ParseID(w, r, h.logger)
	if !ok {
		return
	}

	brew, err := h.brewService.Get(r.Context(), id, ownerID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			h.logger.Error("Failed to get brew", zap.Int64("brew_id", id), zap.Error(err))
		}
		if err := WriteServiceError(w, err, "brew read"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if err := WriteSuccess(w, http.StatusOK, brew); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// List handles GET /api/brews.
// Query parameters: coffee_id, from, to, offset_id, limit. Dates accept
// RFC 3339 timestamps or plain YYYY-MM-DD.
func (h *BrewHandler) List(w http.ResponseWriter, r *http.Request) {
	ownerID, err := auth.RequireUserID(r.Context())
	if err != nil {
		h.writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	page, ok := ParsePage(w, r, h.logger)
	if !ok {
		return
	}

	filter := models.BrewFilter{}
	if coffeeID, ok := ParseInt64Param(w, r, "coffee_id", h.logger); !ok {
		return
	} else {
		filter.CoffeeID = coffeeID
	}
	if from, ok := h.parseTimeParam(w, r, "from"); !ok {
		return
	} else {
		filter.From = from
	}
	if to, ok := h.parseTimeParam(w, r, "to"); !ok {
		return
	} else {
		filter.To = to
	}

	brews, total, err := h.brewService.List(r.Context(), ownerID, filter, page)
	if err != nil {
		h.logger.Error("Failed to list brews", zap.Int64("owner_id", ownerID), zap.Error(err))
		if err := WriteServiceError(w, err, "brew read"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if brews == nil {
		brews = []*models.Brew{}
	}
	w.Header().Set(TotalCountHeader, strconv.Itoa(total))
	if err := WriteSuccess(w, http.StatusOK, brews); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Update handles PUT /api/brews/{id}.
func (h *BrewHandler) Update(w http.ResponseWriter, r *http.Request) {
	ownerID, err := auth.RequireUserID(r.Context())
	if err != nil {
		h.writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	id, ok := ParseID(w, r, h.logger)
	if !ok {
		return
	}

	var req services.UpdateBrewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	affected, err := h.brewService.Update(r.Context(), id, ownerID, &req)
	if err != nil {
		if !apperrors.IsValidation(err) {
			h.logger.Error("Failed to update brew", zap.Int64("brew_id", id), zap.Error(err))
		}
		if err := WriteServiceError(w, err, "brew update"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}
	if affected == 0 {
		h.writeError(w, http.StatusBadRequest, "The brew could not be updated")
		return
	}

	if err := WriteSuccess(w, http.StatusOK, map[string]int64{"updated": affected}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Delete handles DELETE /api/brews/{id}.
func (h *BrewHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ownerID, err := auth.RequireUserID(r.Context())
	if err != nil {
		h.writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	id, ok := ParseID(w, r, h.logger)
	if !ok {
		return
	}

	affected, err := h.brewService.Delete(r.Context(), id, ownerID)
	if err != nil {
		h.logger.Error("Failed to delete brew", zap.Int64("brew_id", id), zap.Error(err))
		if err := WriteServiceError(w, err, "brew deletion"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}
	if affected == 0 {
		h.writeError(w, http.StatusBadRequest, "The brew could not be deleted")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *BrewHandler) parseTimeParam(w http.ResponseWriter, r *http.Request, name string) (*time.Time, bool) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return nil, true
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		t, err = time.Parse("2006-01-02", v)
	}
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid "+name)
		return nil, false
	}
	return &t, true
}

func (h *BrewHandler) writeError(w http.ResponseWriter, statusCode int, message string) {
	if err := WriteError(w, statusCode, message); err != nil {
		h.logger.Error("Failed to write error response", zap.Error(err))
	}
}
