package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/DukeRupert/kalkyl/internal/domain"
	"github.com/DukeRupert/kalkyl/internal/repository"
	"github.com/google/uuid"
)

// RateService manages per-user cost rate configuration.
type RateService interface {
	// GetRates returns the user's rate configuration, falling back to the
	// process-wide defaults when the user never saved custom rates.
	GetRates(ctx context.Context, userID uuid.UUID) (domain.RateConfiguration, error)

	// SetRates validates and stores a full rate configuration. Partial
	// updates are not supported; the stored row is always complete.
	SetRates(ctx context.Context, userID uuid.UUID, rates domain.RateConfiguration) error
}

type rateService struct {
	store  *repository.Store
	logger *slog.Logger
}

// NewRateService creates a new RateService.
func NewRateService(store *repository.Store, logger *slog.Logger) RateService {
	return &rateService{
		store:  store,
		logger: logger,
	}
}

func (s *rateService) GetRates(ctx context.Context, userID uuid.UUID) (domain.RateConfiguration, error) {
	const op = "RateService.GetRates"

	rates, err := s.store.GetCostRates(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.DefaultRates(), nil
		}
		return domain.RateConfiguration{}, domain.Internal(err, op, "Failed to load rate configuration")
	}
	return rates, nil
}

func (s *rateService) SetRates(ctx context.Context, userID uuid.UUID, rates domain.RateConfiguration) error {
	const op = "RateService.SetRates"

	if err := rates.Validate(); err != nil {
		return err
	}

	if err := s.store.UpsertCostRates(ctx, userID, rates); err != nil {
		return domain.Internal(err, op, "Failed to save rate configuration")
	}

	s.logger.Info("cost rates updated", "user_id", userID)
	return nil
}
