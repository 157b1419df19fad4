package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/DukeRupert/kalkyl/internal/domain"
	"github.com/DukeRupert/kalkyl/internal/metrics"
	"github.com/DukeRupert/kalkyl/internal/repository"
	"github.com/google/uuid"
)

// SubscriptionStore is the persistence surface plan management needs.
// *repository.Store satisfies it.
type SubscriptionStore interface {
	GetSubscriptionByUserID(ctx context.Context, userID uuid.UUID) (*domain.Subscription, error)
	UpsertSubscription(ctx context.Context, arg repository.UpsertSubscriptionParams) (*domain.Subscription, error)
}

// SubscriptionView pairs the raw subscription record with its derived status.
// The record is nil when the user never selected a plan.
type SubscriptionView struct {
	Subscription *domain.Subscription
	Status       domain.SubscriptionStatus
}

// SubscriptionService manages plan selection and status.
type SubscriptionService interface {
	// Get returns the user's subscription and its derived status at the
	// current time. A missing record is not an error; the status kind is
	// StatusNoSubscription.
	Get(ctx context.Context, userID uuid.UUID) (*SubscriptionView, error)

	// Subscribe activates the given plan for the user, starting a fresh
	// validity window. Re-subscribing or switching plans overwrites the
	// tier, window and limit while preserving reports already used.
	Subscribe(ctx context.Context, userID uuid.UUID, rawTier string) (*SubscriptionView, error)
}

type subscriptionService struct {
	store  SubscriptionStore
	logger *slog.Logger
	now    func() time.Time
}

// NewSubscriptionService creates a new SubscriptionService.
func NewSubscriptionService(store SubscriptionStore, logger *slog.Logger) SubscriptionService {
	return &subscriptionService{
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

func (s *subscriptionService) Get(ctx context.Context, userID uuid.UUID) (*SubscriptionView, error) {
	const op = "SubscriptionService.Get"

	sub, err := s.store.GetSubscriptionByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return &SubscriptionView{Status: domain.DeriveStatus(nil, s.now())}, nil
		}
		return nil, domain.Internal(err, op, "Failed to load subscription")
	}

	return &SubscriptionView{
		Subscription: sub,
		Status:       domain.DeriveStatus(sub, s.now()),
	}, nil
}

func (s *subscriptionService) Subscribe(ctx context.Context, userID uuid.UUID, rawTier string) (*SubscriptionView, error) {
	const op = "SubscriptionService.Subscribe"

	tier, err := domain.ParsePlanTier(rawTier)
	if err != nil {
		return nil, domain.Invalid(op, "Unknown plan")
	}

	spec := tier.Spec()
	now := s.now()

	sub, err := s.store.UpsertSubscription(ctx, repository.UpsertSubscriptionParams{
		UserID:       userID,
		PlanTier:     tier,
		StartDate:    now,
		EndDate:      now.Add(spec.Duration),
		ReportsLimit: spec.ReportsLimit,
	})
	if err != nil {
		return nil, domain.Internal(err, op, "Failed to activate plan")
	}

	metrics.SubscriptionChanges.WithLabelValues(string(tier)).Inc()
	s.logger.Info("plan activated",
		"user_id", userID,
		"plan", tier,
		"reports_limit", spec.ReportsLimit,
	)

	return &SubscriptionView{
		Subscription: sub,
		Status:       domain.DeriveStatus(sub, now),
	}, nil
}
