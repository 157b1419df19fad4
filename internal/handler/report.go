// This file implements the report read endpoints.
package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/DukeRupert/kalkyl/internal/auth"
	"github.com/DukeRupert/kalkyl/internal/domain"
	"github.com/DukeRupert/kalkyl/internal/service"
	"github.com/google/uuid"
)

// ReportHandler handles report requests.
//
// Routes handled:
// - GET /api/reports      -> List
// - GET /api/reports/{id} -> Get
type ReportHandler struct {
	reportService service.ReportService
	logger        *slog.Logger
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reportService service.ReportService, logger *slog.Logger) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
		logger:        logger,
	}
}

// reportPayload is the wire shape of a report.
type reportPayload struct {
	ID            string                       `json:"id"`
	Snapshot      domain.QuestionnaireSnapshot `json:"snapshot"`
	EstimatedCost int64                        `json:"estimatedCost"`
	FormattedCost string                       `json:"formattedCost"`
	CreatedAt     time.Time                    `json:"createdAt"`
}

func toReportPayload(r *domain.Report) reportPayload {
	return reportPayload{
		ID:            r.ID.String(),
		Snapshot:      r.Snapshot,
		EstimatedCost: r.EstimatedCost,
		FormattedCost: r.FormattedCost(),
		CreatedAt:     r.CreatedAt,
	}
}

// List handles GET /api/reports.
func (h *ReportHandler) List(w http.ResponseWriter, r *http.Request) {
	user := auth.GetUser(r.Context())
	if user == nil {
		UnauthorizedResponse(w, r, h.logger)
		return
	}

	reports, err := h.reportService.List(r.Context(), user.ID)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	payloads := make([]reportPayload, 0, len(reports))
	for _, report := range reports {
		payloads = append(payloads, toReportPayload(report))
	}

	writeJSON(w, http.StatusOK, map[string]any{"reports": payloads})
}

// Get handles GET /api/reports/{id}.
func (h *ReportHandler) Get(w http.ResponseWriter, r *http.Request) {
	user := auth.GetUser(r.Context())
	if user == nil {
		UnauthorizedResponse(w, r, h.logger)
		return
	}

	reportID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		NotFoundResponse(w, r, h.logger)
		return
	}

	report, err := h.reportService.Get(r.Context(), user.ID, reportID)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"report": toReportPayload(report)})
}
