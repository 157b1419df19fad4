package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DukeRupert/kalkyl/internal/auth"
	"github.com/DukeRupert/kalkyl/internal/domain"
	"github.com/google/uuid"
)

// mockEstimateService implements the service.EstimateService interface for testing.
type mockEstimateService struct {
	ValidateStepFunc func(snapshot *domain.QuestionnaireSnapshot, step int) error
	PreviewFunc      func(ctx context.Context, userID uuid.UUID, snapshot *domain.QuestionnaireSnapshot) (int64, error)
	SubmitFunc       func(ctx context.Context, userID uuid.UUID, snapshot *domain.QuestionnaireSnapshot) (*domain.Report, error)
}

func (m *mockEstimateService) ValidateStep(snapshot *domain.QuestionnaireSnapshot, step int) error {
	if m.ValidateStepFunc != nil {
		return m.ValidateStepFunc(snapshot, step)
	}
	return errors.New("ValidateStepFunc not implemented")
}

func (m *mockEstimateService) Preview(ctx context.Context, userID uuid.UUID, snapshot *domain.QuestionnaireSnapshot) (int64, error) {
	if m.PreviewFunc != nil {
		return m.PreviewFunc(ctx, userID, snapshot)
	}
	return 0, errors.New("PreviewFunc not implemented")
}

func (m *mockEstimateService) Submit(ctx context.Context, userID uuid.UUID, snapshot *domain.QuestionnaireSnapshot) (*domain.Report, error) {
	if m.SubmitFunc != nil {
		return m.SubmitFunc(ctx, userID, snapshot)
	}
	return nil, errors.New("SubmitFunc not implemented")
}

func authenticatedRequest(method, target, body string) *http.Request {
	r := httptest.NewRequest(method, target, strings.NewReader(body))
	user := &domain.User{ID: uuid.New(), Email: "user@example.com"}
	return r.WithContext(auth.SetUser(r.Context(), user))
}

func TestEstimateValidate_ReturnsFieldErrors(t *testing.T) {
	svc := &mockEstimateService{
		ValidateStepFunc: func(snapshot *domain.QuestionnaireSnapshot, step int) error {
			if step != 1 {
				t.Errorf("expected step 1, got %d", step)
			}
			return domain.NewValidationError("QuestionnaireSnapshot.ValidateStep", "projectName", "Project name is required")
		},
	}
	h := NewEstimateHandler(svc, testLogger())

	w := httptest.NewRecorder()
	r := authenticatedRequest(http.MethodPost, "/api/estimates/validate", `{"step":1,"snapshot":{}}`)

	h.Validate(w, r)

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

func TestEstimateValidate_Valid(t *testing.T) {
	svc := &mockEstimateService{
		ValidateStepFunc: func(snapshot *domain.QuestionnaireSnapshot, step int) error {
			return nil
		},
	}
	h := NewEstimateHandler(svc, testLogger())

	w := httptest.NewRecorder()
	r := authenticatedRequest(http.MethodPost, "/api/estimates/validate", `{"step":2,"snapshot":{"features":["A"]}}`)

	h.Validate(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestEstimatePreview_FormatsCost(t *testing.T) {
	svc := &mockEstimateService{
		PreviewFunc: func(ctx context.Context, userID uuid.UUID, snapshot *domain.QuestionnaireSnapshot) (int64, error) {
			return 175000, nil
		},
	}
	h := NewEstimateHandler(svc, testLogger())

	w := httptest.NewRecorder()
	r := authenticatedRequest(http.MethodPost, "/api/estimates/preview", `{"snapshot":{}}`)

	h.Preview(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"$175,000"`) {
		t.Errorf("expected formatted cost in response, got %s", w.Body.String())
	}
}

func TestEstimateSubmit_Success(t *testing.T) {
	reportID := uuid.New()
	svc := &mockEstimateService{
		SubmitFunc: func(ctx context.Context, userID uuid.UUID, snapshot *domain.QuestionnaireSnapshot) (*domain.Report, error) {
			return &domain.Report{
				ID:            reportID,
				UserID:        userID,
				Snapshot:      *snapshot,
				EstimatedCost: 175000,
				CreatedAt:     time.Now(),
			}, nil
		},
	}
	h := NewEstimateHandler(svc, testLogger())

	w := httptest.NewRecorder()
	r := authenticatedRequest(http.MethodPost, "/api/estimates", `{"snapshot":{"features":["A"]}}`)

	h.Submit(w, r)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), reportID.String()) {
		t.Error("response should contain the report id")
	}
}

func TestEstimateSubmit_QuotaRejection(t *testing.T) {
	svc := &mockEstimateService{
		SubmitFunc: func(ctx context.Context, userID uuid.UUID, snapshot *domain.QuestionnaireSnapshot) (*domain.Report, error) {
			return nil, domain.Ineligible("EstimateService.Submit", domain.ReasonLimit, "Report limit reached. Upgrade your plan to generate more reports.")
		},
	}
	h := NewEstimateHandler(svc, testLogger())

	w := httptest.NewRecorder()
	r := authenticatedRequest(http.MethodPost, "/api/estimates", `{"snapshot":{}}`)

	h.Submit(w, r)

	if w.Code != http.StatusPaymentRequired {
		t.Fatalf("expected 402, got %d", w.Code)
	}

	var body JSONError
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
	if body.Error.Reason != string(domain.ReasonLimit) {
		t.Errorf("expected reason %q, got %q", domain.ReasonLimit, body.Error.Reason)
	}
}

func TestEstimateSubmit_Unauthenticated(t *testing.T) {
	h := NewEstimateHandler(&mockEstimateService{}, testLogger())

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/api/estimates", strings.NewReader(`{"snapshot":{}}`))

	h.Submit(w, r)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}
