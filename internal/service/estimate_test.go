package service

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/DukeRupert/kalkyl/internal/domain"
	"github.com/DukeRupert/kalkyl/internal/pricing"
	"github.com/DukeRupert/kalkyl/internal/repository"
	"github.com/google/uuid"
)

// =============================================================================
// Fake EstimateStore
// =============================================================================

// fakeEstimateStore is an in-memory EstimateStore. Credit consumption is
// serialized by a mutex, mirroring the row lock the conditional UPDATE takes
// in Postgres.
type fakeEstimateStore struct {
	mu           sync.Mutex
	rates        *domain.RateConfiguration
	subscription *domain.Subscription
	reports      []*domain.Report
	insertErr    error
}

func (f *fakeEstimateStore) GetCostRates(ctx context.Context, userID uuid.UUID) (domain.RateConfiguration, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.rates == nil {
		return domain.RateConfiguration{}, sql.ErrNoRows
	}
	return *f.rates, nil
}

func (f *fakeEstimateStore) GetSubscriptionByUserID(ctx context.Context, userID uuid.UUID) (*domain.Subscription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.subscription == nil {
		return nil, sql.ErrNoRows
	}
	sub := *f.subscription
	return &sub, nil
}

func (f *fakeEstimateStore) CreateReportConsumingCredit(ctx context.Context, userID uuid.UUID, snapshot domain.QuestionnaireSnapshot, estimatedCost int64, now time.Time) (*domain.Report, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	sub := f.subscription
	if sub == nil || !sub.IsActive || sub.EndDate.Before(now) || sub.ReportsUsed >= sub.ReportsLimit {
		return nil, repository.ErrNoReportCredit
	}
	if f.insertErr != nil {
		return nil, f.insertErr
	}

	sub.ReportsUsed++
	report := &domain.Report{
		ID:            uuid.New(),
		UserID:        userID,
		Snapshot:      snapshot,
		EstimatedCost: estimatedCost,
		CreatedAt:     now,
	}
	f.reports = append(f.reports, report)
	return report, nil
}

// =============================================================================
// Test Helpers
// =============================================================================

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestEstimateService(store EstimateStore) EstimateService {
	estimator := pricing.NewEstimator(pricing.DefaultComplexityTable())
	return NewEstimateService(store, estimator, testLogger())
}

func validSnapshot() domain.QuestionnaireSnapshot {
	return domain.QuestionnaireSnapshot{
		ProjectBasics: domain.ProjectBasics{
			ProjectName:        "Internal CRM",
			ProjectDescription: "CRM for the sales team",
			IndustryType:       "SaaS",
			ProjectType:        "Web Application",
		},
		Features: []string{"User Registration/Login", "Search Functionality"},
		Technologies: domain.TechnologySelection{
			Frontend: []string{"React"},
			Backend:  []string{"Node.js"},
			Database: "PostgreSQL",
			Hosting:  "AWS",
		},
		Team:     domain.TeamComposition{Developers: 2, Designers: 1, ProjectManagers: 1},
		Timeline: domain.Timeline{DurationMonths: 3, StartDate: "2025-07-01"},
	}
}

func activeSubscription(limit, used int) *domain.Subscription {
	now := time.Now()
	return &domain.Subscription{
		UserID:       uuid.New(),
		PlanTier:     domain.PlanTierBasic,
		StartDate:    now.Add(-24 * time.Hour),
		EndDate:      now.Add(29 * 24 * time.Hour),
		ReportsLimit: limit,
		ReportsUsed:  used,
		IsActive:     true,
	}
}

// =============================================================================
// Submit Tests
// =============================================================================

func TestSubmit_Success(t *testing.T) {
	store := &fakeEstimateStore{subscription: activeSubscription(10, 0)}
	svc := newTestEstimateService(store)

	snapshot := validSnapshot()
	report, err := svc.Submit(context.Background(), uuid.New(), &snapshot)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Default rates apply when none are stored; this is the documented
	// reference scenario.
	if report.EstimatedCost != 175000 {
		t.Errorf("expected estimate 175000, got %d", report.EstimatedCost)
	}
	if store.subscription.ReportsUsed != 1 {
		t.Errorf("expected one credit consumed, got %d", store.subscription.ReportsUsed)
	}
	if len(store.reports) != 1 {
		t.Errorf("expected one persisted report, got %d", len(store.reports))
	}
}

func TestSubmit_ValidationFailureTouchesNothing(t *testing.T) {
	store := &fakeEstimateStore{subscription: activeSubscription(10, 0)}
	svc := newTestEstimateService(store)

	snapshot := validSnapshot()
	snapshot.Team.Developers = 0

	_, err := svc.Submit(context.Background(), uuid.New(), &snapshot)

	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if store.subscription.ReportsUsed != 0 {
		t.Error("validation failure must not consume quota")
	}
	if len(store.reports) != 0 {
		t.Error("validation failure must not persist a report")
	}
}

func TestSubmit_NoSubscription(t *testing.T) {
	store := &fakeEstimateStore{}
	svc := newTestEstimateService(store)

	snapshot := validSnapshot()
	_, err := svc.Submit(context.Background(), uuid.New(), &snapshot)

	if domain.ErrorCode(err) != domain.EPAYMENT {
		t.Fatalf("expected EPAYMENT, got %v", err)
	}
	if domain.ErrorReason(err) != domain.ReasonExpired {
		t.Errorf("expected reason %q, got %q", domain.ReasonExpired, domain.ErrorReason(err))
	}
}

func TestSubmit_ExpiredSubscription(t *testing.T) {
	sub := activeSubscription(10, 2)
	sub.EndDate = time.Now().Add(-time.Hour)
	store := &fakeEstimateStore{subscription: sub}
	svc := newTestEstimateService(store)

	snapshot := validSnapshot()
	_, err := svc.Submit(context.Background(), uuid.New(), &snapshot)

	if domain.ErrorCode(err) != domain.EPAYMENT {
		t.Fatalf("expected EPAYMENT, got %v", err)
	}
	if domain.ErrorReason(err) != domain.ReasonExpired {
		t.Errorf("expected reason %q, got %q", domain.ReasonExpired, domain.ErrorReason(err))
	}
	if sub.ReportsUsed != 2 {
		t.Error("expired submission must not consume quota")
	}
}

func TestSubmit_LimitReached(t *testing.T) {
	store := &fakeEstimateStore{subscription: activeSubscription(3, 3)}
	svc := newTestEstimateService(store)

	snapshot := validSnapshot()
	_, err := svc.Submit(context.Background(), uuid.New(), &snapshot)

	if domain.ErrorCode(err) != domain.EPAYMENT {
		t.Fatalf("expected EPAYMENT, got %v", err)
	}
	if domain.ErrorReason(err) != domain.ReasonLimit {
		t.Errorf("expected reason %q, got %q", domain.ReasonLimit, domain.ErrorReason(err))
	}
}

func TestSubmit_FailedInsertReleasesCredit(t *testing.T) {
	store := &fakeEstimateStore{
		subscription: activeSubscription(10, 0),
		insertErr:    errors.New("disk full"),
	}
	svc := newTestEstimateService(store)

	snapshot := validSnapshot()
	_, err := svc.Submit(context.Background(), uuid.New(), &snapshot)

	if domain.ErrorCode(err) != domain.EINTERNAL {
		t.Fatalf("expected EINTERNAL, got %v", err)
	}
	if store.subscription.ReportsUsed != 0 {
		t.Error("failed persistence must not leave quota consumed")
	}
}

func TestSubmit_ConcurrentRaceForLastCredit(t *testing.T) {
	store := &fakeEstimateStore{subscription: activeSubscription(3, 2)}
	svc := newTestEstimateService(store)
	userID := uuid.New()

	const submitters = 2
	results := make(chan error, submitters)

	var wg sync.WaitGroup
	for i := 0; i < submitters; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			snapshot := validSnapshot()
			_, err := svc.Submit(context.Background(), userID, &snapshot)
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var successes, limitRejections int
	for err := range results {
		switch {
		case err == nil:
			successes++
		case domain.ErrorCode(err) == domain.EPAYMENT && domain.ErrorReason(err) == domain.ReasonLimit:
			limitRejections++
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}

	if successes != 1 {
		t.Errorf("expected exactly one success, got %d", successes)
	}
	if limitRejections != 1 {
		t.Errorf("expected exactly one limit rejection, got %d", limitRejections)
	}
	if store.subscription.ReportsUsed != 3 {
		t.Errorf("expected quota at limit, got %d", store.subscription.ReportsUsed)
	}
	if len(store.reports) != 1 {
		t.Errorf("expected exactly one persisted report, got %d", len(store.reports))
	}
}

// =============================================================================
// Preview Tests
// =============================================================================

func TestPreview_DoesNotTouchQuota(t *testing.T) {
	store := &fakeEstimateStore{subscription: activeSubscription(3, 3)}
	svc := newTestEstimateService(store)

	// Preview works even when the quota is exhausted.
	snapshot := validSnapshot()
	cost, err := svc.Preview(context.Background(), uuid.New(), &snapshot)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cost != 175000 {
		t.Errorf("expected estimate 175000, got %d", cost)
	}
	if store.subscription.ReportsUsed != 3 {
		t.Error("preview must not consume quota")
	}
	if len(store.reports) != 0 {
		t.Error("preview must not persist a report")
	}
}

func TestPreview_UsesStoredRates(t *testing.T) {
	doubled := domain.RateConfiguration{
		DeveloperRate:      16000,
		DesignerRate:       14000,
		ProjectManagerRate: 18000,
		QATesterRate:       12000,
	}
	store := &fakeEstimateStore{rates: &doubled}
	svc := newTestEstimateService(store)

	snapshot := validSnapshot()
	cost, err := svc.Preview(context.Background(), uuid.New(), &snapshot)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Doubling every rate doubles the raw cost; rounding keeps the result
	// near double the default-rate estimate.
	if cost != 350000 {
		t.Errorf("expected estimate 350000, got %d", cost)
	}
}

func TestPreview_ValidationFailure(t *testing.T) {
	store := &fakeEstimateStore{}
	svc := newTestEstimateService(store)

	snapshot := validSnapshot()
	snapshot.Timeline.DurationMonths = 0

	_, err := svc.Preview(context.Background(), uuid.New(), &snapshot)

	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

// =============================================================================
// ValidateStep Tests
// =============================================================================

func TestValidateStep_PassesThrough(t *testing.T) {
	svc := newTestEstimateService(&fakeEstimateStore{})

	snapshot := validSnapshot()
	if err := svc.ValidateStep(&snapshot, domain.StepProjectBasics); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	snapshot.ProjectBasics.ProjectName = ""
	if err := svc.ValidateStep(&snapshot, domain.StepProjectBasics); err == nil {
		t.Error("expected validation error")
	}
}
