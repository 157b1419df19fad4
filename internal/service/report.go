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

// ReportService reads persisted reports. Reports are created exclusively
// through EstimateService.Submit and are immutable afterwards.
type ReportService interface {
	// Get returns a single report. Ownership is enforced: requesting
	// another user's report returns ENOTFOUND, not EFORBIDDEN, so report
	// IDs are not probeable.
	Get(ctx context.Context, userID, reportID uuid.UUID) (*domain.Report, error)

	// List returns all of the user's reports, newest first.
	List(ctx context.Context, userID uuid.UUID) ([]*domain.Report, error)
}

type reportService struct {
	store  *repository.Store
	logger *slog.Logger
}

// NewReportService creates a new ReportService.
func NewReportService(store *repository.Store, logger *slog.Logger) ReportService {
	return &reportService{
		store:  store,
		logger: logger,
	}
}

func (s *reportService) Get(ctx context.Context, userID, reportID uuid.UUID) (*domain.Report, error) {
	const op = "ReportService.Get"

	report, err := s.store.GetReportByID(ctx, reportID, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFound(op, "report", reportID.String())
		}
		return nil, domain.Internal(err, op, "Failed to load report")
	}
	return report, nil
}

func (s *reportService) List(ctx context.Context, userID uuid.UUID) ([]*domain.Report, error) {
	const op = "ReportService.List"

	reports, err := s.store.ListReportsByUserID(ctx, userID)
	if err != nil {
		return nil, domain.Internal(err, op, "Failed to list reports")
	}
	return reports, nil
}
