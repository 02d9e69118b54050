package handlers

import (
	"net/http"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/treatyview/internal/common"
	"github.com/ternarybob/treatyview/internal/services/dataset"
)

// SnapshotChecker reports the snapshot currently served, nil before the first load
type SnapshotChecker interface {
	Current() *dataset.Snapshot
}

// APIHandler serves the system endpoints
type APIHandler struct {
	snapshots SnapshotChecker // optional
	logger    arbor.ILogger
}

func NewAPIHandler(snapshots SnapshotChecker, logger arbor.ILogger) *APIHandler {
	return &APIHandler{
		snapshots: snapshots,
		logger:    logger,
	}
}

// VersionHandler returns build information
func (h *APIHandler) VersionHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	WriteJSON(w, http.StatusOK, common.GetVersionInfo())
}

// HealthHandler reports liveness. The process is healthy even before a
// snapshot exists; dataset_loaded tells readiness apart.
func (h *APIHandler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	resp := map[string]interface{}{"status": "ok"}
	if h.snapshots != nil {
		snap := h.snapshots.Current()
		resp["dataset_loaded"] = snap != nil
		if snap != nil {
			resp["snapshot_id"] = snap.ID
		}
	}
	WriteJSON(w, http.StatusOK, resp)
}

// NotFoundHandler answers unknown routes with a JSON 404
func (h *APIHandler) NotFoundHandler(w http.ResponseWriter, r *http.Request) {
	h.logger.Debug().Str("path", r.URL.Path).Msg("Route not found")
	WriteJSON(w, http.StatusNotFound, map[string]interface{}{
		"status": "error",
		"error":  "not found",
		"path":   r.URL.Path,
	})
}
