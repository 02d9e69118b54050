package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strconv"
	"strings"

	"github.com/ternarybob/treatyview/internal/interfaces"
	"github.com/ternarybob/treatyview/internal/models"
	"github.com/ternarybob/treatyview/internal/services/aggregate"
	"github.com/ternarybob/treatyview/internal/services/dashboard"
	"github.com/ternarybob/treatyview/internal/services/dataset"
)

// Query parameters that are not filter dimensions on the routes that use them
const (
	paramLimit       = "limit"
	paramTop         = "top"
	paramGranularity = "granularity"
	paramYear        = "year"
)

// RequireMethod validates that the HTTP request uses the specified method.
// Returns true if the method matches, false otherwise (and writes error response).
func RequireMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method != method {
		WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return false
	}
	return true
}

// WriteJSON writes a JSON response with the specified status code and data.
func WriteJSON(w http.ResponseWriter, statusCode int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(data)
}

// WriteError writes a standard error JSON response.
func WriteError(w http.ResponseWriter, statusCode int, message string) error {
	return WriteJSON(w, statusCode, map[string]string{
		"status": "error",
		"error":  message,
	})
}

// StatusForError maps service errors to HTTP status codes.
func StatusForError(err error) int {
	switch {
	case errors.Is(err, dashboard.ErrInvalidRequest),
		errors.Is(err, dashboard.ErrUnknownDimension),
		errors.Is(err, aggregate.ErrUnknownGranularity),
		errors.Is(err, aggregate.ErrYearOutOfRange),
		errors.Is(err, aggregate.ErrNotGroupable):
		return http.StatusBadRequest
	case errors.Is(err, interfaces.ErrRunNotFound):
		return http.StatusNotFound
	case errors.Is(err, dataset.ErrSourceUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// WriteServiceError writes err with the status StatusForError picks.
func WriteServiceError(w http.ResponseWriter, err error) error {
	return WriteError(w, StatusForError(err), err.Error())
}

// ParseSelections reads filter selections from the query string. Every
// parameter not listed in reserved must name a dimension; a repeated
// parameter selects several values of that dimension.
func ParseSelections(r *http.Request, reserved ...string) (models.Selections, error) {
	selections := models.Selections{}
	for key, values := range r.URL.Query() {
		if slices.Contains(reserved, key) {
			continue
		}

		dimension, ok := models.ParseDimension(key)
		if !ok {
			return nil, fmt.Errorf("%w: %s", dashboard.ErrUnknownDimension, key)
		}

		for _, value := range values {
			if strings.TrimSpace(value) != "" {
				selections[dimension] = append(selections[dimension], value)
			}
		}
	}
	return selections, nil
}

// intParam parses an optional integer query parameter
func intParam(r *http.Request, name string) (int, bool, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return 0, false, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false, fmt.Errorf("%w: %s must be an integer", dashboard.ErrInvalidRequest, name)
	}
	return v, true, nil
}

// pathParam returns the path segment after prefix, without suffix
func pathParam(r *http.Request, prefix, suffix string) string {
	value := strings.TrimPrefix(r.URL.Path, prefix)
	value = strings.TrimSuffix(value, suffix)
	return strings.Trim(value, "/")
}
