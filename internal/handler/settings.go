// This file implements the account settings endpoints: profile update and
// password change.
package handler

import (
	"log/slog"
	"net/http"

	"github.com/DukeRupert/kalkyl/internal/auth"
	"github.com/DukeRupert/kalkyl/internal/domain"
	"github.com/DukeRupert/kalkyl/internal/service"
)

// SettingsHandler handles account settings requests.
//
// Routes handled:
// - PUT /api/profile  -> UpdateProfile
// - PUT /api/password -> ChangePassword
type SettingsHandler struct {
	userService service.UserService
	logger      *slog.Logger
}

// NewSettingsHandler creates a new SettingsHandler.
func NewSettingsHandler(userService service.UserService, logger *slog.Logger) *SettingsHandler {
	return &SettingsHandler{
		userService: userService,
		logger:      logger,
	}
}

// UpdateProfile handles PUT /api/profile.
func (h *SettingsHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	user := auth.GetUser(r.Context())
	if user == nil {
		UnauthorizedResponse(w, r, h.logger)
		return
	}

	var req struct {
		Name    string `json:"name"`
		Company string `json:"company"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	err := h.userService.UpdateProfile(r.Context(), domain.ProfileUpdateParams{
		UserID:      user.ID,
		Name:        req.Name,
		CompanyName: req.Company,
	})
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ChangePassword handles PUT /api/password.
// All sessions are invalidated on success, including the current one; the
// client must log in again.
func (h *SettingsHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	user := auth.GetUser(r.Context())
	if user == nil {
		UnauthorizedResponse(w, r, h.logger)
		return
	}

	var req struct {
		CurrentPassword string `json:"currentPassword"`
		NewPassword     string `json:"newPassword"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	err := h.userService.ChangePassword(r.Context(), domain.PasswordChangeParams{
		UserID:          user.ID,
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
	})
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
