package handlers

import (
	"net/http"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/treatyview/internal/interfaces"
	"github.com/ternarybob/treatyview/internal/services/dataset"
)

const defaultRunsLimit = 20

// DatasetHandler exposes snapshot reloads, ingest history and status
type DatasetHandler struct {
	dashboard DashboardService
	reloader  DatasetReloader
	runs      interfaces.IngestRunStorage
	scheduler interfaces.SchedulerService // optional
	logger    arbor.ILogger
}

func NewDatasetHandler(
	dashboard DashboardService,
	reloader DatasetReloader,
	runs interfaces.IngestRunStorage,
	scheduler interfaces.SchedulerService,
	logger arbor.ILogger,
) *DatasetHandler {
	return &DatasetHandler{
		dashboard: dashboard,
		reloader:  reloader,
		runs:      runs,
		scheduler: scheduler,
		logger:    logger,
	}
}

// StatusResponse describes the served snapshot and background jobs
type StatusResponse struct {
	Dataset *dataset.Meta                    `json:"dataset"`
	Jobs    map[string]*interfaces.JobStatus `json:"jobs,omitempty"`
}

// ReloadHandler forces a re-read of the source
// POST /api/dataset/reload
func (h *DatasetHandler) ReloadHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	snap, err := h.reloader.Reload(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("Dataset reload failed")
		WriteServiceError(w, err)
		return
	}

	h.logger.Info().
		Str("snapshot_id", snap.ID).
		Int("records", len(snap.Policies)).
		Msg("Dataset reloaded on request")

	WriteJSON(w, http.StatusOK, snap.Meta())
}

// RunsHandler lists recent ingest runs, newest first
// GET /api/dataset/runs?limit=N
func (h *DatasetHandler) RunsHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	limit, ok, err := intParam(r, paramLimit)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	if !ok || limit <= 0 {
		limit = defaultRunsLimit
	}

	runs, err := h.runs.ListRuns(r.Context(), limit)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to list ingest runs")
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"runs":  runs,
		"count": len(runs),
	})
}

// StatusHandler returns the snapshot description and scheduled job state
// GET /api/status
func (h *DatasetHandler) StatusHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	meta, err := h.dashboard.Status(r.Context())
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	resp := StatusResponse{Dataset: meta}
	if h.scheduler != nil {
		resp.Jobs = h.scheduler.GetAllJobStatuses()
	}
	WriteJSON(w, http.StatusOK, resp)
}
