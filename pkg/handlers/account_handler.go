package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/brewlog-io/brewlog/pkg/apperrors"
	"github.com/brewlog-io/brewlog/pkg/auth"
	"github.com/brewlog-io/brewlog/pkg/services"
)

// AccountHandler handles registration, login and profile requests.
type AccountHandler struct {
	accountService services.AccountService
	tokens         *auth.Service
	logger         *zap.Logger
}

// NewAccountHandler creates a new account handler.
func NewAccountHandler(accountService services.AccountService, tokens *auth.Service, logger *zap.Logger) *AccountHandler {
	return &AccountHandler{
		accountService: accountService,
		tokens:         tokens,
		logger:         logger,
	}
}

// RegisterRoutes registers the account handler's routes on the given mux.
// Register and login are open; the rest require a valid token.
func (h *AccountHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware, scopeMiddleware ScopeMiddleware) {
	mux.HandleFunc("POST /api/register", scopeMiddleware(h.Register))
	mux.HandleFunc("POST /api/login", scopeMiddleware(h.Login))
	mux.HandleFunc("POST /api/logout", authMiddleware.RequireAuth(h.Logout))
	mux.HandleFunc("GET /api/me", authMiddleware.RequireAuth(scopeMiddleware(h.Me)))
	mux.HandleFunc("PUT /api/me", authMiddleware.RequireAuth(scopeMiddleware(h.Update)))
	mux.HandleFunc("DELETE /api/me", authMiddleware.RequireAuth(scopeMiddleware(h.Delete)))
}

// Register handles POST /api/register.
func (h *AccountHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req services.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.accountService.Register(r.Context(), &req)
	if err != nil {
		if errors.Is(err, apperrors.ErrEmailTaken) {
			h.writeError(w, http.StatusConflict, "An account with this email already exists")
			return
		}
		if !apperrors.IsValidation(err) {
			h.logger.Error("Failed to register account", zap.Error(err))
		}
		if err := WriteServiceError(w, err, "registration"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if err := WriteSuccess(w, http.StatusCreated, user); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// loginRequest is the login payload.
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// loginResponse returns the signed token alongside the account.
type loginResponse struct {
	Token string      `json:"token"`
	User  interface{} `json:"user"`
}

// Login handles POST /api/login. On success the token is also stored in
// the session cookie for browser clients.
func (h *AccountHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, token, err := h.accountService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, apperrors.ErrInvalidCredentials) {
			h.writeError(w, http.StatusUnauthorized, "Invalid email or password")
			return
		}
		h.logger.Error("Failed to log in", zap.Error(err))
		if err := WriteServiceError(w, err, "login"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if auth.Store != nil {
		session, err := auth.GetSession(r)
		if err == nil {
			session.Values[auth.SessionKeyToken] = token
			if err := auth.SaveSession(r, w, session); err != nil {
				h.logger.Error("Failed to save session", zap.Error(err))
			}
		}
	}

	if err := WriteSuccess(w, http.StatusOK, loginResponse{Token: token, User: user}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Logout handles POST /api/logout. The current token is revoked and the
// session cookie, if any, is cleared.
func (h *AccountHandler) Logout(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.GetClaims(r.Context())
	if !ok {
		h.writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	if err := h.tokens.Revoke(r.Context(), claims); err != nil {
		h.logger.Error("Failed to revoke token", zap.Error(err))
		if err := WriteServiceError(w, err, "logout"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if auth.Store != nil {
		if session, err := auth.GetSession(r); err == nil {
			auth.ClearSession(session)
			if err := auth.SaveSession(r, w, session); err != nil {
				h.logger.Error("Failed to clear session", zap.Error(err))
			}
		}
	}

	if err := WriteSuccess(w, http.StatusOK, map[string]string{"message": "Logged out"}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Me handles GET /api/me.
func (h *AccountHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.RequireUserID(r.Context())
	if err != nil {
		h.writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	user, err := h.accountService.Get(r.Context(), userID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			h.logger.Error("Failed to get account", zap.Int64("user_id", userID), zap.Error(err))
		}
		if err := WriteServiceError(w, err, "account read"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if err := WriteSuccess(w, http.StatusOK, user); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Update handles PUT /api/me.
func (h *AccountHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.RequireUserID(r.Context())
	if err != nil {
		h.writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req services.UpdateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	affected, err := h.accountService.Update(r.Context(), userID, &req)
	if err != nil {
		if !apperrors.IsValidation(err) {
			h.logger.Error("Failed to update account", zap.Int64("user_id", userID), zap.Error(err))
		}
		if err := WriteServiceError(w, err, "account update"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}
	if affected == 0 {
		h.writeError(w, http.StatusBadRequest, "The account could not be updated")
		return
	}

	if err := WriteSuccess(w, http.StatusOK, map[string]int64{"updated": affected}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Delete handles DELETE /api/me. Owned records go with the account.
func (h *AccountHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.RequireUserID(r.Context())
	if err != nil {
		h.writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	affected, err := h.accountService.Delete(r.Context(), userID)
	if err != nil {
		h.logger.Error("Failed to delete account", zap.Int64("user_id", userID), zap.Error(err))
		if err := WriteServiceError(w, err, "account deletion"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}
	if affected == 0 {
		h.writeError(w, http.StatusBadRequest, "The account could not be deleted")
		return
	}

	if auth.Store != nil {
		if session, err := auth.GetSession(r); err == nil {
			auth.ClearSession(session)
			if err := auth.SaveSession(r, w, session); err != nil {
				h.logger.Error("Failed to clear session", zap.Error(err))
			}
		}
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *AccountHandler) writeError(w http.ResponseWriter, statusCode int, message string) {
	if err := WriteError(w, statusCode, message); err != nil {
		h.logger.Error("Failed to write error response", zap.Error(err))
	}
}
