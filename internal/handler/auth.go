// This file implements the authentication endpoints: registration, login,
// logout, and the current-user lookup.
package handler

import (
	"log/slog"
	"net/http"

	"github.com/DukeRupert/kalkyl/internal/auth"
	"github.com/DukeRupert/kalkyl/internal/domain"
	"github.com/DukeRupert/kalkyl/internal/service"
)

// Session cookie constants. These match the values in middleware/auth.go;
// they are duplicated because middleware imports handler for error responses,
// so handler cannot import middleware.
const (
	sessionCookieName   = "kalkyl_session"
	sessionCookiePath   = "/"
	sessionCookieMaxAge = 7 * 24 * 60 * 60
)

// AuthHandler handles authentication requests.
//
// Routes handled:
// - POST /api/auth/register -> Register
// - POST /api/auth/login    -> Login
// - POST /api/auth/logout   -> Logout
// - GET  /api/me            -> Me
type AuthHandler struct {
	userService service.UserService
	logger      *slog.Logger
	isSecure    bool
}

// NewAuthHandler creates a new AuthHandler.
// Set isSecure to true in production to enable the Secure cookie flag.
func NewAuthHandler(userService service.UserService, logger *slog.Logger, isSecure bool) *AuthHandler {
	return &AuthHandler{
		userService: userService,
		logger:      logger,
		isSecure:    isSecure,
	}
}

// userPayload is the wire shape of a user. The password hash never leaves
// the service layer, but the field is omitted here as well.
type userPayload struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	Name        string `json:"name"`
	CompanyName string `json:"companyName,omitempty"`
}

func toUserPayload(u *domain.User) userPayload {
	return userPayload{
		ID:          u.ID.String(),
		Email:       u.Email,
		Name:        u.Name,
		CompanyName: u.CompanyName,
	}
}

// Register handles POST /api/auth/register.
// A successful registration does not log the user in; the client follows up
// with a login call.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		Name     string `json:"name"`
		Company  string `json:"company"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	user, err := h.userService.Register(r.Context(), domain.RegisterParams{
		Email:       req.Email,
		Password:    req.Password,
		Name:        req.Name,
		CompanyName: req.Company,
	})
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"user": toUserPayload(user)})
}

// Login handles POST /api/auth/login.
// On success the session token is set as an HttpOnly cookie; it is never
// included in the response body.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	result, err := h.userService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	h.setSessionCookie(w, result.Token)
	writeJSON(w, http.StatusOK, map[string]any{"user": toUserPayload(result.User)})
}

// Logout handles POST /api/auth/logout. Always succeeds.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(sessionCookieName); err == nil {
		_ = h.userService.Logout(r.Context(), cookie.Value)
	}
	h.clearSessionCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

// Me handles GET /api/me. Requires authentication.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user := auth.GetUser(r.Context())
	if user == nil {
		UnauthorizedResponse(w, r, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user": toUserPayload(user)})
}

func (h *AuthHandler) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     sessionCookiePath,
		MaxAge:   sessionCookieMaxAge,
		HttpOnly: true,
		Secure:   h.isSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *AuthHandler) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     sessionCookiePath,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.isSecure,
		SameSite: http.SameSiteLaxMode,
	})
}
