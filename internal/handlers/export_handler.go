package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/treatyview/internal/services/export"
)

// ExportHandler serves aggregation summaries as XLSX workbooks
type ExportHandler struct {
	service DashboardService
	logger  arbor.ILogger
}

func NewExportHandler(service DashboardService, logger arbor.ILogger) *ExportHandler {
	return &ExportHandler{
		service: service,
		logger:  logger,
	}
}

// PeriodsHandler exports the period grid
// GET /api/export/periods.xlsx?granularity=yearly&<filters>
func (h *ExportHandler) PeriodsHandler(w http.ResponseWriter, r *http.Request) {
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
		WriteServiceError(w, err)
		return
	}

	var buf bytes.Buffer
	if err := export.WritePeriodSummary(&buf, summary); err != nil {
		h.logger.Error().Err(err).Msg("Failed to write period workbook")
		WriteServiceError(w, err)
		return
	}
	h.writeWorkbook(w, fmt.Sprintf("periods-%s", summary.Granularity), &buf)
}

// DimensionHandler exports one dimension breakdown
// GET /api/export/dimension/{name}.xlsx?top=10&<filters>
func (h *ExportHandler) DimensionHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	req, err := dimensionRequest(r, pathParam(r, DimensionExportPrefix, ".xlsx"))
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	summary, err := h.service.ByDimension(r.Context(), req)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	var buf bytes.Buffer
	if err := export.WriteDimensionSummary(&buf, summary); err != nil {
		h.logger.Error().Err(err).Msg("Failed to write dimension workbook")
		WriteServiceError(w, err)
		return
	}
	h.writeWorkbook(w, fmt.Sprintf("by-%s", summary.Dimension), &buf)
}

// writeWorkbook sends a rendered workbook as a download
func (h *ExportHandler) writeWorkbook(w http.ResponseWriter, name string, buf *bytes.Buffer) {
	filename := fmt.Sprintf("%s-%s.xlsx", name, time.Now().Format("20060102"))
	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		h.logger.Warn().Err(err).Str("file", filename).Msg("Failed to send workbook")
	}
}
