package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"
)

// servedPaths are the fixed routes the server registers. Requests outside
// this set (scanners, typo'd clients) share one label so arbitrary paths
// cannot inflate metric cardinality.
var servedPaths = map[string]bool{
	"/health":                 true,
	"/api/auth/register":      true,
	"/api/auth/login":         true,
	"/api/auth/logout":        true,
	"/api/catalog":            true,
	"/api/me":                 true,
	"/api/profile":            true,
	"/api/password":           true,
	"/api/cost-configuration": true,
	"/api/subscription":       true,
	"/api/estimates/validate": true,
	"/api/estimates/preview":  true,
	"/api/estimates":          true,
	"/api/reports":            true,
}

// normalizePath maps a request path onto its route pattern.
func normalizePath(path string) string {
	if strings.HasPrefix(path, "/api/reports/") {
		return "/api/reports/{id}"
	}
	if servedPaths[path] {
		return path
	}
	return "unmatched"
}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode  int
	wroteHeader bool
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{
		ResponseWriter: w,
		statusCode:     http.StatusOK,
	}
}

func (rw *responseWriter) WriteHeader(code int) {
	if !rw.wroteHeader {
		rw.statusCode = code
		rw.wroteHeader = true
	}
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if !rw.wroteHeader {
		rw.wroteHeader = true
	}
	return rw.ResponseWriter.Write(b)
}

// Unwrap returns the underlying ResponseWriter for middleware compatibility
func (rw *responseWriter) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}

// Middleware records HTTP request metrics
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Skip metrics endpoint to avoid recursion
		if r.URL.Path == "/metrics" {
			next.ServeHTTP(w, r)
			return
		}

		HTTPRequestsInFlight.Inc()
		defer HTTPRequestsInFlight.Dec()

		start := time.Now()
		rw := newResponseWriter(w)

		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()
		path := normalizePath(r.URL.Path)
		method := r.Method
		statusCode := strconv.Itoa(rw.statusCode)

		HTTPRequestsTotal.WithLabelValues(method, path, statusCode).Inc()
		HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)
	})
}
