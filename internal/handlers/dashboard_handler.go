package handlers

import (
	"net/http"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/treatyview/internal/models"
)

// Route prefixes carrying a dimension name
const (
	DimensionAggregatePrefix = "/api/aggregate/dimension/"
	DimensionExportPrefix    = "/api/export/dimension/"
)

// DashboardHandler serves the policy dashboard read API
type DashboardHandler struct {
	service DashboardService
	logger  arbor.ILogger
}

func NewDashboardHandler(service DashboardService, logger arbor.ILogger) *DashboardHandler {
	return &DashboardHandler{
		service: service,
		logger:  logger,
	}
}

// LoadHandler returns every canonical policy record
func (h *DashboardHandler) LoadHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	resp, err := h.service.Load(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to load policies")
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, resp)
}

// DimensionsHandler returns the distinct values of every dimension
func (h *DashboardHandler) DimensionsHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	resp, err := h.service.Dimensions(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to list dimensions")
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, resp)
}

// FilteredHandler returns the policies matching the query selections
// GET /api/policies?broker=a&broker=b&country=x&limit=N
func (h *DashboardHandler) FilteredHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	selections, err := ParseSelections(r, paramLimit)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	limit, _, err := intParam(r, paramLimit)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	resp, err := h.service.Filtered(r.Context(), models.FilterRequest{
		Selections: selections,
		Limit:      limit,
	})
	if err != nil {
		h.logger.Warn().Err(err).Msg("Filtered request failed")
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, resp)
}

// PeriodsHandler returns the period grid for the filtered policies
// GET /api/aggregate/periods?granularity=quarterly&year=2020&<filters>
func (h *DashboardHandler) PeriodsHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	req, err := periodRequest(r)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	summary, err := h.service.Periods(r.Context(), req)
	if err != nil {
		h.logger.Warn().Err(err).Str("granularity", string(req.Granularity)).Msg("Period aggregation failed")
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, summary)
}

// DimensionHandler returns the premium-ordered breakdown by one dimension
// GET /api/aggregate/dimension/{name}?top=10&<filters>
func (h *DashboardHandler) DimensionHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	req, err := dimensionRequest(r, pathParam(r, DimensionAggregatePrefix, ""))
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	summary, err := h.service.ByDimension(r.Context(), req)
	if err != nil {
		h.logger.Warn().Err(err).Str("dimension", string(req.Dimension)).Msg("Dimension aggregation failed")
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, summary)
}

// periodRequest builds a PeriodRequest; year selects the view, not a filter
func periodRequest(r *http.Request) (models.PeriodRequest, error) {
	selections, err := ParseSelections(r, paramGranularity, paramYear)
	if err != nil {
		return models.PeriodRequest{}, err
	}

	req := models.PeriodRequest{
		Granularity: models.Granularity(r.URL.Query().Get(paramGranularity)),
		Selections:  selections,
	}

	year, ok, err := intParam(r, paramYear)
	if err != nil {
		return models.PeriodRequest{}, err
	}
	if ok {
		req.Year = &year
	}
	return req, nil
}

func dimensionRequest(r *http.Request, name string) (models.DimensionRequest, error) {
	selections, err := ParseSelections(r, paramTop)
	if err != nil {
		return models.DimensionRequest{}, err
	}

	top, _, err := intParam(r, paramTop)
	if err != nil {
		return models.DimensionRequest{}, err
	}

	return models.DimensionRequest{
		Dimension:  models.Dimension(name),
		Top:        top,
		Selections: selections,
	}, nil
}
