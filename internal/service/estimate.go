package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/DukeRupert/kalkyl/internal/domain"
	"github.com/DukeRupert/kalkyl/internal/metrics"
	"github.com/DukeRupert/kalkyl/internal/pricing"
	"github.com/DukeRupert/kalkyl/internal/repository"
	"github.com/google/uuid"
)

// EstimateStore is the persistence surface the estimate flow needs.
// *repository.Store satisfies it.
type EstimateStore interface {
	GetCostRates(ctx context.Context, userID uuid.UUID) (domain.RateConfiguration, error)
	GetSubscriptionByUserID(ctx context.Context, userID uuid.UUID) (*domain.Subscription, error)
	CreateReportConsumingCredit(ctx context.Context, userID uuid.UUID, snapshot domain.QuestionnaireSnapshot, estimatedCost int64, now time.Time) (*domain.Report, error)
}

// EstimateService runs the questionnaire flow: step validation, preview
// estimation, and final submission.
type EstimateService interface {
	// ValidateStep checks a single wizard stage of the snapshot.
	ValidateStep(snapshot *domain.QuestionnaireSnapshot, step int) error

	// Preview computes the estimate for the current answers without
	// persisting anything or touching quota. The snapshot must pass full
	// validation.
	Preview(ctx context.Context, userID uuid.UUID, snapshot *domain.QuestionnaireSnapshot) (int64, error)

	// Submit validates the snapshot, checks subscription eligibility,
	// computes the estimate, and persists the report while consuming one
	// report credit. Exactly one of report/error is non-nil.
	//
	// Ineligible submissions return an EPAYMENT error carrying the reason
	// (expired or limit).
	Submit(ctx context.Context, userID uuid.UUID, snapshot *domain.QuestionnaireSnapshot) (*domain.Report, error)
}

type estimateService struct {
	store     EstimateStore
	estimator *pricing.Estimator
	logger    *slog.Logger
	now       func() time.Time
}

// NewEstimateService creates a new EstimateService.
func NewEstimateService(store EstimateStore, estimator *pricing.Estimator, logger *slog.Logger) EstimateService {
	return &estimateService{
		store:     store,
		estimator: estimator,
		logger:    logger,
		now:       time.Now,
	}
}

func (s *estimateService) ValidateStep(snapshot *domain.QuestionnaireSnapshot, step int) error {
	return snapshot.ValidateStep(step)
}

func (s *estimateService) Preview(ctx context.Context, userID uuid.UUID, snapshot *domain.QuestionnaireSnapshot) (int64, error) {
	const op = "EstimateService.Preview"

	if err := snapshot.Validate(); err != nil {
		return 0, err
	}

	rates, err := s.loadRates(ctx, userID)
	if err != nil {
		return 0, domain.Internal(err, op, "Failed to load rate configuration")
	}

	cost := s.estimator.EstimateSnapshot(rates, snapshot)
	metrics.EstimatesComputed.Inc()
	return cost, nil
}

// Submit persists a report, consuming one report credit.
//
// The eligibility pre-check exists only to produce a precise reason for the
// caller; the authoritative gate is the conditional credit consumption inside
// the store transaction. Two concurrent submissions racing for the last
// credit both pass the pre-check, but only one survives the conditional
// increment.
func (s *estimateService) Submit(ctx context.Context, userID uuid.UUID, snapshot *domain.QuestionnaireSnapshot) (*domain.Report, error) {
	const op = "EstimateService.Submit"

	if err := snapshot.Validate(); err != nil {
		return nil, err
	}

	now := s.now()

	sub, err := s.store.GetSubscriptionByUserID(ctx, userID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, domain.Internal(err, op, "Failed to load subscription")
	}
	status := domain.DeriveStatus(sub, now)
	if reason, blocked := domain.IneligibilityReason(status); blocked {
		metrics.QuotaRejections.WithLabelValues(string(reason)).Inc()
		return nil, ineligibleError(op, reason)
	}

	rates, err := s.loadRates(ctx, userID)
	if err != nil {
		return nil, domain.Internal(err, op, "Failed to load rate configuration")
	}

	cost := s.estimator.EstimateSnapshot(rates, snapshot)
	metrics.EstimatesComputed.Inc()

	report, err := s.store.CreateReportConsumingCredit(ctx, userID, *snapshot, cost, now)
	if err != nil {
		if errors.Is(err, repository.ErrNoReportCredit) {
			// Lost the race for the last credit, or the window closed
			// between the pre-check and the write. Re-derive the reason
			// from the current record.
			reason := domain.ReasonLimit
			if current, gerr := s.store.GetSubscriptionByUserID(ctx, userID); gerr == nil {
				if r, blocked := domain.IneligibilityReason(domain.DeriveStatus(current, now)); blocked {
					reason = r
				}
			}
			metrics.QuotaRejections.WithLabelValues(string(reason)).Inc()
			return nil, ineligibleError(op, reason)
		}
		return nil, domain.Internal(err, op, "Failed to save report")
	}

	metrics.ReportsCreated.Inc()
	s.logger.Info("report created",
		"user_id", userID,
		"report_id", report.ID,
		"estimated_cost", report.EstimatedCost,
	)
	return report, nil
}

// loadRates returns the user's rates with the default fallback. Estimation
// never fails on a missing rate row.
func (s *estimateService) loadRates(ctx context.Context, userID uuid.UUID) (domain.RateConfiguration, error) {
	rates, err := s.store.GetCostRates(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.DefaultRates(), nil
		}
		return domain.RateConfiguration{}, err
	}
	return rates, nil
}

func ineligibleError(op string, reason domain.EligibilityReason) *domain.Error {
	switch reason {
	case domain.ReasonLimit:
		return domain.Ineligible(op, reason, "Report limit reached. Upgrade your plan to generate more reports.")
	default:
		return domain.Ineligible(op, domain.ReasonExpired, "An active subscription is required to generate reports.")
	}
}
