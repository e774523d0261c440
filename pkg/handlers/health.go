package handlers

import (
	"net/http"

	"go.uber.org/zap"
)

// HealthHandler serves liveness endpoints.
type HealthHandler struct {
	version string
	env     string
	logger  *zap.Logger
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(version, env string, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{
		version: version,
		env:     env,
		logger:  logger,
	}
}

// RegisterRoutes registers the health endpoints. They are unauthenticated.
func (h *HealthHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", h.Health)
	mux.HandleFunc("GET /ping", h.Ping)
}

// Health handles GET /health with a plain text response for load
// balancer probes.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	if _, err := w.Write([]byte("ok")); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Ping handles GET /ping with the service name, version and environment.
func (h *HealthHandler) Ping(w http.ResponseWriter, r *http.Request) {
	content := map[string]string{
		"service":     "brewlog",
		"version":     h.version,
		"environment": h.env,
	}
	if err := WriteSuccess(w, http.StatusOK, content); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}
