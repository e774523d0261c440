package database

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

// WithRequestScope creates middleware that acquires a database connection
// for the duration of the request. The connection is released after the
// handler returns.
func WithRequestScope(db *DB, logger *zap.Logger) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			scope, err := db.Acquire(r.Context())
			if err != nil {
				logger.Error("Failed to acquire database connection", zap.Error(err))
				writeError(w, http.StatusInternalServerError, "Database connection error")
				return
			}
			defer scope.Close()

			ctx := SetScope(r.Context(), scope)
			next(w, r.WithContext(ctx))
		}
	}
}

// writeError writes a JSON error envelope.
func writeError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"status":  "error",
		"content": message,
	})
}
