// This file implements the cost rate configuration endpoints.
package handler

import (
	"log/slog"
	"net/http"

	"github.com/DukeRupert/kalkyl/internal/auth"
	"github.com/DukeRupert/kalkyl/internal/domain"
	"github.com/DukeRupert/kalkyl/internal/service"
)

// RatesHandler handles rate configuration requests.
//
// Routes handled:
// - GET /api/cost-configuration -> GetRates
// - PUT /api/cost-configuration -> UpdateRates
type RatesHandler struct {
	rateService service.RateService
	logger      *slog.Logger
}

// NewRatesHandler creates a new RatesHandler.
func NewRatesHandler(rateService service.RateService, logger *slog.Logger) *RatesHandler {
	return &RatesHandler{
		rateService: rateService,
		logger:      logger,
	}
}

// GetRates handles GET /api/cost-configuration.
// Users who never saved custom rates receive the defaults; the response does
// not distinguish the two cases.
func (h *RatesHandler) GetRates(w http.ResponseWriter, r *http.Request) {
	user := auth.GetUser(r.Context())
	if user == nil {
		UnauthorizedResponse(w, r, h.logger)
		return
	}

	rates, err := h.rateService.GetRates(r.Context(), user.ID)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"rates": rates})
}

// UpdateRates handles PUT /api/cost-configuration.
// The payload must contain all four rates; partial updates are rejected by
// validation since a missing rate decodes to zero.
func (h *RatesHandler) UpdateRates(w http.ResponseWriter, r *http.Request) {
	user := auth.GetUser(r.Context())
	if user == nil {
		UnauthorizedResponse(w, r, h.logger)
		return
	}

	var rates domain.RateConfiguration
	if err := decodeJSON(w, r, &rates); err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	if err := h.rateService.SetRates(r.Context(), user.ID, rates); err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"rates": rates})
}
