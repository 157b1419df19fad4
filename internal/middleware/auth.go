// Package middleware contains HTTP middleware for the kalkyl API.
//
// Middleware functions follow the standard Go pattern of wrapping
// http.Handler. They are designed to be composed using a middleware stack
// approach.
package middleware

import (
	"log/slog"
	"net/http"

	"github.com/DukeRupert/kalkyl/internal/auth"
	"github.com/DukeRupert/kalkyl/internal/handler"
	"github.com/DukeRupert/kalkyl/internal/service"
)

const (
	// SessionCookieName is the name of the cookie that stores the session token.
	SessionCookieName = "kalkyl_session"

	// SessionCookiePath ensures the cookie is sent with all requests.
	SessionCookiePath = "/"

	// SessionCookieMaxAge sets the cookie expiration.
	// This should match SessionDuration in the user service.
	SessionCookieMaxAge = 7 * 24 * 60 * 60
)

// AuthMiddleware provides authentication middleware functionality.
type AuthMiddleware struct {
	userService service.UserService
	logger      *slog.Logger
	isSecure    bool // Whether to set Secure flag on cookies (true in production)
}

// NewAuthMiddleware creates a new AuthMiddleware instance.
func NewAuthMiddleware(userService service.UserService, logger *slog.Logger, isSecure bool) *AuthMiddleware {
	return &AuthMiddleware{
		userService: userService,
		logger:      logger,
		isSecure:    isSecure,
	}
}

// WithUser is middleware that attempts to load the user from the session
// cookie. It continues to the next handler regardless of authentication
// status; handlers and RequireUser decide what an absent user means.
//
// Flow:
//
//	Request -> WithUser -> Handler
//	           |
//	           +-> Read cookie
//	           +-> Validate session (if cookie exists)
//	           +-> Set user in context (if valid)
//	           +-> Call next handler (always)
func (m *AuthMiddleware) WithUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(SessionCookieName)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}

		user, err := m.userService.GetBySessionToken(r.Context(), cookie.Value)
		if err != nil {
			// Invalid or expired session; clear the cookie and continue.
			clearSessionCookie(w, m.isSecure)
			next.ServeHTTP(w, r)
			return
		}

		r = r.WithContext(auth.SetUser(r.Context(), user))
		next.ServeHTTP(w, r)
	})
}

// RequireUser is middleware that requires an authenticated user and returns
// 401 otherwise.
//
// IMPORTANT: This middleware must be used AFTER WithUser in the chain.
func (m *AuthMiddleware) RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if auth.GetUser(r.Context()) == nil {
			handler.UnauthorizedResponse(w, r, m.logger)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clearSessionCookie removes the session cookie from the client by setting
// MaxAge to -1.
func clearSessionCookie(w http.ResponseWriter, isSecure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     SessionCookiePath,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   isSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Stack composes multiple middleware functions into a single middleware.
//
// Middleware is applied in the order provided, meaning the first middleware
// in the slice is the outermost (runs first on request, last on response).
//
// Example:
//
//	stack := Stack(loggingMw, authMw.WithUser, authMw.RequireUser)
//	mux.Handle("GET /api/reports", stack(reportHandler))
func Stack(middlewares ...func(http.Handler) http.Handler) func(http.Handler) http.Handler {
	return func(final http.Handler) http.Handler {
		for i := len(middlewares) - 1; i >= 0; i-- {
			final = middlewares[i](final)
		}
		return final
	}
}
