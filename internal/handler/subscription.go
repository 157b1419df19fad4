// This file implements the subscription endpoints: status lookup and plan
// selection.
package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/DukeRupert/kalkyl/internal/auth"
	"github.com/DukeRupert/kalkyl/internal/domain"
	"github.com/DukeRupert/kalkyl/internal/service"
)

// SubscriptionHandler handles subscription requests.
//
// Routes handled:
// - GET  /api/subscription -> Get
// - POST /api/subscription -> Subscribe
type SubscriptionHandler struct {
	subscriptionService service.SubscriptionService
	logger              *slog.Logger
}

// NewSubscriptionHandler creates a new SubscriptionHandler.
func NewSubscriptionHandler(subscriptionService service.SubscriptionService, logger *slog.Logger) *SubscriptionHandler {
	return &SubscriptionHandler{
		subscriptionService: subscriptionService,
		logger:              logger,
	}
}

// subscriptionPayload is the wire shape of a subscription record.
type subscriptionPayload struct {
	Plan         domain.PlanTier `json:"plan"`
	StartDate    time.Time       `json:"startDate"`
	EndDate      time.Time       `json:"endDate"`
	ReportsLimit int             `json:"reportsLimit"`
	ReportsUsed  int             `json:"reportsUsed"`
}

// statusPayload is the wire shape of the derived subscription status.
type statusPayload struct {
	Status      domain.StatusKind `json:"status"`
	DaysLeft    int               `json:"daysLeft"`
	ReportsLeft int               `json:"reportsLeft"`
	Unlimited   bool              `json:"unlimited"`
}

func toSubscriptionResponse(view *service.SubscriptionView) map[string]any {
	resp := map[string]any{
		"subscription": nil,
		"status": statusPayload{
			Status:      view.Status.Kind,
			DaysLeft:    view.Status.DaysLeft,
			ReportsLeft: view.Status.ReportsLeft,
			Unlimited:   view.Status.Unlimited,
		},
	}
	if sub := view.Subscription; sub != nil {
		resp["subscription"] = subscriptionPayload{
			Plan:         sub.PlanTier,
			StartDate:    sub.StartDate,
			EndDate:      sub.EndDate,
			ReportsLimit: sub.ReportsLimit,
			ReportsUsed:  sub.ReportsUsed,
		}
	}
	return resp
}

// Get handles GET /api/subscription.
// A user without a subscription gets a null record and status "none".
func (h *SubscriptionHandler) Get(w http.ResponseWriter, r *http.Request) {
	user := auth.GetUser(r.Context())
	if user == nil {
		UnauthorizedResponse(w, r, h.logger)
		return
	}

	view, err := h.subscriptionService.Get(r.Context(), user.ID)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, toSubscriptionResponse(view))
}

// Subscribe handles POST /api/subscription.
func (h *SubscriptionHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	user := auth.GetUser(r.Context())
	if user == nil {
		UnauthorizedResponse(w, r, h.logger)
		return
	}

	var req struct {
		Plan string `json:"plan"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	view, err := h.subscriptionService.Subscribe(r.Context(), user.ID, req.Plan)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, toSubscriptionResponse(view))
}
