// This file implements the questionnaire endpoints: per-stage validation,
// estimate preview, and final submission.
package handler

import (
	"log/slog"
	"net/http"

	"github.com/DukeRupert/kalkyl/internal/auth"
	"github.com/DukeRupert/kalkyl/internal/domain"
	"github.com/DukeRupert/kalkyl/internal/service"
)

// EstimateHandler handles questionnaire requests.
//
// Routes handled:
// - POST /api/estimates/validate -> Validate
// - POST /api/estimates/preview  -> Preview
// - POST /api/estimates          -> Submit
type EstimateHandler struct {
	estimateService service.EstimateService
	logger          *slog.Logger
}

// NewEstimateHandler creates a new EstimateHandler.
func NewEstimateHandler(estimateService service.EstimateService, logger *slog.Logger) *EstimateHandler {
	return &EstimateHandler{
		estimateService: estimateService,
		logger:          logger,
	}
}

// Validate handles POST /api/estimates/validate.
// The client calls this on every wizard step transition; the snapshot always
// carries all answers so far.
func (h *EstimateHandler) Validate(w http.ResponseWriter, r *http.Request) {
	user := auth.GetUser(r.Context())
	if user == nil {
		UnauthorizedResponse(w, r, h.logger)
		return
	}

	var req struct {
		Step     int                          `json:"step"`
		Snapshot domain.QuestionnaireSnapshot `json:"snapshot"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	if err := h.estimateService.ValidateStep(&req.Snapshot, req.Step); err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"valid": true})
}

// Preview handles POST /api/estimates/preview.
// Returns the estimate for the current answers without persisting a report
// or consuming quota.
func (h *EstimateHandler) Preview(w http.ResponseWriter, r *http.Request) {
	user := auth.GetUser(r.Context())
	if user == nil {
		UnauthorizedResponse(w, r, h.logger)
		return
	}

	var req struct {
		Snapshot domain.QuestionnaireSnapshot `json:"snapshot"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	cost, err := h.estimateService.Preview(r.Context(), user.ID, &req.Snapshot)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"estimatedCost": cost,
		"formattedCost": domain.FormatCost(cost),
	})
}

// Submit handles POST /api/estimates.
// On success the report has been persisted and one report credit consumed.
func (h *EstimateHandler) Submit(w http.ResponseWriter, r *http.Request) {
	user := auth.GetUser(r.Context())
	if user == nil {
		UnauthorizedResponse(w, r, h.logger)
		return
	}

	var req struct {
		Snapshot domain.QuestionnaireSnapshot `json:"snapshot"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	report, err := h.estimateService.Submit(r.Context(), user.ID, &req.Snapshot)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"report": toReportPayload(report)})
}
