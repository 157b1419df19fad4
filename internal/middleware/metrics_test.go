package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func metricsBackend() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestMetricsAuth_DisabledWhenUnconfigured(t *testing.T) {
	mw := NewMetricsAuthMiddleware("", "")

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/metrics", nil)

	mw.Handler(metricsBackend()).ServeHTTP(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("expected pass-through without credentials configured, got %d", w.Code)
	}
}

func TestMetricsAuth_RejectsMissingCredentials(t *testing.T) {
	mw := NewMetricsAuthMiddleware("prom", "secret")

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/metrics", nil)

	mw.Handler(metricsBackend()).ServeHTTP(w, r)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
	if w.Header().Get("WWW-Authenticate") == "" {
		t.Error("expected WWW-Authenticate header")
	}
}

func TestMetricsAuth_RejectsWrongCredentials(t *testing.T) {
	mw := NewMetricsAuthMiddleware("prom", "secret")

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	r.SetBasicAuth("prom", "wrong")

	mw.Handler(metricsBackend()).ServeHTTP(w, r)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestMetricsAuth_AcceptsValidCredentials(t *testing.T) {
	mw := NewMetricsAuthMiddleware("prom", "secret")

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	r.SetBasicAuth("prom", "secret")

	mw.Handler(metricsBackend()).ServeHTTP(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}
