package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/DukeRupert/kalkyl/internal/domain"
	"github.com/google/uuid"
)

const subscriptionColumns = `user_id, plan_tier, start_date, end_date, reports_limit, reports_used, is_active, updated_at`

func scanSubscription(row *sql.Row) (*domain.Subscription, error) {
	var s domain.Subscription
	err := row.Scan(&s.UserID, &s.PlanTier, &s.StartDate, &s.EndDate, &s.ReportsLimit, &s.ReportsUsed, &s.IsActive, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// GetSubscriptionByUserID returns a user's subscription record, or
// sql.ErrNoRows when the user never selected a plan.
func (q *Queries) GetSubscriptionByUserID(ctx context.Context, userID uuid.UUID) (*domain.Subscription, error) {
	row := q.db.QueryRowContext(ctx, `
		SELECT `+subscriptionColumns+` FROM subscriptions WHERE user_id = $1`, userID)
	return scanSubscription(row)
}

// UpsertSubscriptionParams holds the fields written on plan selection.
type UpsertSubscriptionParams struct {
	UserID       uuid.UUID
	PlanTier     domain.PlanTier
	StartDate    time.Time
	EndDate      time.Time
	ReportsLimit int
}

// UpsertSubscription creates the subscription on first plan selection or
// overwrites tier, window and limit in place on a plan change.
//
// reports_used is deliberately NOT reset on conflict: usage carries across
// plan changes.
func (q *Queries) UpsertSubscription(ctx context.Context, arg UpsertSubscriptionParams) (*domain.Subscription, error) {
	row := q.db.QueryRowContext(ctx, `
		INSERT INTO subscriptions (user_id, plan_tier, start_date, end_date, reports_limit, reports_used, is_active)
		VALUES ($1, $2, $3, $4, $5, 0, true)
		ON CONFLICT (user_id) DO UPDATE SET
			plan_tier = EXCLUDED.plan_tier,
			start_date = EXCLUDED.start_date,
			end_date = EXCLUDED.end_date,
			reports_limit = EXCLUDED.reports_limit,
			is_active = true,
			updated_at = now()
		RETURNING `+subscriptionColumns,
		arg.UserID, arg.PlanTier, arg.StartDate, arg.EndDate, arg.ReportsLimit,
	)
	return scanSubscription(row)
}

// ConsumeReportCredit atomically increments reports_used, guarded by the
// full eligibility predicate. Returns sql.ErrNoRows when the guard fails:
// no record, inactive, expired, or quota exhausted.
//
// This is the single write that serializes concurrent submissions; callers
// must not check-then-increment in separate statements.
func (q *Queries) ConsumeReportCredit(ctx context.Context, userID uuid.UUID, now time.Time) (*domain.Subscription, error) {
	row := q.db.QueryRowContext(ctx, `
		UPDATE subscriptions
		SET reports_used = reports_used + 1, updated_at = now()
		WHERE user_id = $1
		  AND is_active
		  AND end_date >= $2
		  AND reports_used < reports_limit
		RETURNING `+subscriptionColumns,
		userID, now,
	)
	return scanSubscription(row)
}
