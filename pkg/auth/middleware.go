package auth

import (
	"context"
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

// TokenValidator authenticates an inbound request.
// Satisfied by *Service; handler tests substitute a mock.
type TokenValidator interface {
	ValidateRequest(r *http.Request) (*Claims, string, error)
}

// Middleware provides HTTP authentication middleware.
// It is thin and delegates token verification to the TokenValidator.
type Middleware struct {
	validator TokenValidator
	logger    *zap.Logger
}

// NewMiddleware creates a new auth middleware.
func NewMiddleware(validator TokenValidator, logger *zap.Logger) *Middleware {
	return &Middleware{
		validator: validator,
		logger:    logger,
	}
}

// RequireAuth validates the request's credentials and sets claims and
// token in context for downstream handlers. Unauthenticated requests get
// the uniform error envelope and never reach the store.
func (m *Middleware) RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, token, err := m.validator.ValidateRequest(r)
		if err != nil {
			m.unauthorized(w)
			return
		}

		ctx := context.WithValue(r.Context(), ClaimsKey, claims)
		ctx = context.WithValue(ctx, TokenKey, token)
		next(w, r.WithContext(ctx))
	}
}

// unauthorized returns a 401 response with the uniform envelope.
func (m *Middleware) unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	if err := json.NewEncoder(w).Encode(map[string]string{
		"status":  "error",
		"content": "Authentication required",
	}); err != nil {
		m.logger.Error("Failed to write unauthorized response", zap.Error(err))
	}
}
