package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/DukeRupert/kalkyl/internal/domain"
	"github.com/google/uuid"
)

// ErrNoReportCredit is returned when the quota guard rejects a submission:
// the subscription is missing, inactive, expired, or out of reports.
var ErrNoReportCredit = errors.New("repository: no report credit available")

// CreateReportConsumingCredit reserves one report credit and persists the
// report in a single transaction.
//
// The credit reservation runs first as a conditional atomic increment; if
// the guard fails the transaction aborts with ErrNoReportCredit and nothing
// is written. If the report insert fails afterwards the rollback releases
// the reservation, so quota can never advance without a persisted report or
// vice versa.
func (s *Store) CreateReportConsumingCredit(ctx context.Context, userID uuid.UUID, snapshot domain.QuestionnaireSnapshot, estimatedCost int64, now time.Time) (*domain.Report, error) {
	var report *domain.Report

	err := s.execTx(ctx, func(q *Queries) error {
		if _, err := q.ConsumeReportCredit(ctx, userID, now); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrNoReportCredit
			}
			return err
		}

		created, err := q.InsertReport(ctx, InsertReportParams{
			ID:            uuid.New(),
			UserID:        userID,
			Snapshot:      snapshot,
			EstimatedCost: estimatedCost,
			CreatedAt:     now,
		})
		if err != nil {
			return err
		}
		report = created
		return nil
	})
	if err != nil {
		return nil, err
	}
	return report, nil
}
