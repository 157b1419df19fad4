package repository

import (
	"context"

	"github.com/DukeRupert/kalkyl/internal/domain"
	"github.com/google/uuid"
)

// GetCostRates returns the stored rate configuration for a user, or
// sql.ErrNoRows when none exists. Callers fall back to domain.DefaultRates.
func (q *Queries) GetCostRates(ctx context.Context, userID uuid.UUID) (domain.RateConfiguration, error) {
	var r domain.RateConfiguration
	err := q.db.QueryRowContext(ctx, `
		SELECT developer_rate, designer_rate, project_manager_rate, qa_tester_rate
		FROM cost_rates WHERE user_id = $1`,
		userID,
	).Scan(&r.DeveloperRate, &r.DesignerRate, &r.ProjectManagerRate, &r.QATesterRate)
	return r, err
}

// UpsertCostRates replaces the full rate configuration for a user, creating
// the row on first write.
func (q *Queries) UpsertCostRates(ctx context.Context, userID uuid.UUID, rates domain.RateConfiguration) error {
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO cost_rates (user_id, developer_rate, designer_rate, project_manager_rate, qa_tester_rate)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id) DO UPDATE SET
			developer_rate = EXCLUDED.developer_rate,
			designer_rate = EXCLUDED.designer_rate,
			project_manager_rate = EXCLUDED.project_manager_rate,
			qa_tester_rate = EXCLUDED.qa_tester_rate,
			updated_at = now()`,
		userID, rates.DeveloperRate, rates.DesignerRate, rates.ProjectManagerRate, rates.QATesterRate,
	)
	return err
}
