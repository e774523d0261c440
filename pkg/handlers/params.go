package handlers

import (
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/brewlog-io/brewlog/pkg/models"
)

// ParseID extracts and validates the numeric {id} path parameter.
// Returns the id and true on success, or 0 and false after writing an
// error response.
func ParseID(w http.ResponseWriter, r *http.Request, logger *zap.Logger) (int64, bool) {
	idStr := r.PathValue("id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id <= 0 {
		if err := WriteError(w, http.StatusBadRequest, "Invalid id"); err != nil {
			logger.Error("Failed to write error response", zap.Error(err))
		}
		return 0, false
	}
	return id, true
}

// ParsePage extracts keyset pagination parameters (offset_id, limit) from
// the query string. Returns false after writing an error response when a
// parameter is malformed.
func ParsePage(w http.ResponseWriter, r *http.Request, logger *zap.Logger) (models.Page, bool) {
	var page models.Page

	if v := r.URL.Query().Get("offset_id"); v != "" {
		offsetID, err := strconv.ParseInt(v, 10, 64)
		if err != nil || offsetID <= 0 {
			writeParamError(w, "Invalid offset_id", logger)
			return page, false
		}
		page.OffsetID = &offsetID
	}

	if v := r.URL.Query().Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit <= 0 {
			writeParamError(w, "Invalid limit", logger)
			return page, false
		}
		page.Limit = limit
	}

	return page, true
}

// ParseBoolParam extracts an optional boolean query parameter.
// The third return is false after writing an error response.
func ParseBoolParam(w http.ResponseWriter, r *http.Request, name string, logger *zap.Logger) (*bool, bool) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return nil, true
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		writeParamError(w, "Invalid "+name, logger)
		return nil, false
	}
	return &parsed, true
}

// ParseInt64Param extracts an optional numeric query parameter.
// The third return is false after writing an error response.
func ParseInt64Param(w http.ResponseWriter, r *http.Request, name string, logger *zap.Logger) (*int64, bool) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return nil, true
	}
	parsed, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		writeParamError(w, "Invalid "+name, logger)
		return nil, false
	}
	return &parsed, true
}

func writeParamError(w http.ResponseWriter, message string, logger *zap.Logger) {
	if err := WriteError(w, http.StatusBadRequest, message); err != nil {
		logger.Error("Failed to write error response", zap.Error(err))
	}
}
