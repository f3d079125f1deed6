package api

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/phrazzld/taskmgmt-api/internal/api/shared"
	"github.com/phrazzld/taskmgmt-api/internal/platform/logger"
	"github.com/phrazzld/taskmgmt-api/internal/report"
	"github.com/phrazzld/taskmgmt-api/internal/service"
)

// ReportHandler handles reporting and batch requests.
type ReportHandler struct {
	reports service.ReportService
	logger  *slog.Logger
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reports service.ReportService, logger *slog.Logger) *ReportHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for ReportHandler")
	}
	return &ReportHandler{
		reports: reports,
		logger:  logger.With(slog.String("component", "report_handler")),
	}
}

// GetProjectPerformance handles GET /reports/project-performance.
func (h *ReportHandler) GetProjectPerformance(w http.ResponseWriter, r *http.Request) {
	reports, err := h.reports.GenerateProjectPerformanceReport(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to generate report")
		return
	}
	if reports == nil {
		reports = []report.ProjectPerformance{}
	}
	shared.RespondWithJSON(w, r, http.StatusOK, reports)
}

// BatchUpdateTaskStatus handles POST /reports/batch-update-task-status.
// Either every matched task moves to the new status or none does.
func (h *ReportHandler) BatchUpdateTaskStatus(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req BatchUpdateTaskStatusRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	result, err := h.reports.BatchUpdateTaskStatus(r.Context(), req.TaskIDs, req.Status)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to perform batch update")
		return
	}

	log.Info("batch status update applied",
		slog.Int("requested", len(req.TaskIDs)),
		slog.Int("updated", result.UpdatedCount))
	shared.RespondWithJSON(w, r, http.StatusOK, BatchUpdateTaskStatusResponse{
		Success:      result.Success,
		UpdatedCount: result.UpdatedCount,
		Message:      fmt.Sprintf("Successfully updated status for %d tasks.", result.UpdatedCount),
	})
}
