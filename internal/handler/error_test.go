package handler

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DukeRupert/kalkyl/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestErrorCodeToHTTPStatus(t *testing.T) {
	testCases := []struct {
		code string
		want int
	}{
		{domain.EINVALID, http.StatusBadRequest},
		{domain.EUNAUTHORIZED, http.StatusUnauthorized},
		{domain.EPAYMENT, http.StatusPaymentRequired},
		{domain.EFORBIDDEN, http.StatusForbidden},
		{domain.ENOTFOUND, http.StatusNotFound},
		{domain.ECONFLICT, http.StatusConflict},
		{domain.ERATELIMIT, http.StatusTooManyRequests},
		{domain.EINTERNAL, http.StatusInternalServerError},
		{"bogus", http.StatusInternalServerError},
	}

	for _, tc := range testCases {
		t.Run(tc.code, func(t *testing.T) {
			if got := ErrorCodeToHTTPStatus(tc.code); got != tc.want {
				t.Errorf("expected %d, got %d", tc.want, got)
			}
		})
	}
}

func TestErrorResponse_EligibilityReasonInPayload(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/api/estimates", nil)

	err := domain.Ineligible("EstimateService.Submit", domain.ReasonLimit, "Report limit reached")
	ErrorResponse(w, r, testLogger(), err)

	if w.Code != http.StatusPaymentRequired {
		t.Fatalf("expected 402, got %d", w.Code)
	}

	var body JSONError
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
	if body.Error.Code != domain.EPAYMENT {
		t.Errorf("expected code %q, got %q", domain.EPAYMENT, body.Error.Code)
	}
	if body.Error.Reason != string(domain.ReasonLimit) {
		t.Errorf("expected reason %q, got %q", domain.ReasonLimit, body.Error.Reason)
	}
}

func TestErrorResponse_ValidationFields(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/api/estimates", nil)

	ve := domain.NewValidationError("QuestionnaireSnapshot.Validate", "projectName", "Project name is required")
	ErrorResponse(w, r, testLogger(), ve)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}

	var body JSONError
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
	if body.Error.Fields["projectName"] == "" {
		t.Error("expected field error for projectName")
	}
}

func TestErrorResponse_InternalHidesDetails(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/api/reports", nil)

	err := domain.Internal(io.ErrUnexpectedEOF, "ReportService.List", "Failed to list reports")
	ErrorResponse(w, r, testLogger(), err)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}

	var body JSONError
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
	if body.Error.Message == "Failed to list reports" {
		t.Error("internal error message must be replaced with a generic one")
	}
}
