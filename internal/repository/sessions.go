package repository

import (
	"context"
	"time"

	"github.com/DukeRupert/kalkyl/internal/domain"
	"github.com/google/uuid"
)

// CreateSessionParams holds the fields for a new session row.
type CreateSessionParams struct {
	UserID    uuid.UUID
	TokenHash string
	ExpiresAt time.Time
}

// CreateSession inserts a new session and returns the created row.
func (q *Queries) CreateSession(ctx context.Context, arg CreateSessionParams) (*domain.Session, error) {
	row := q.db.QueryRowContext(ctx, `
		INSERT INTO sessions (user_id, token_hash, expires_at)
		VALUES ($1, $2, $3)
		RETURNING id, user_id, token_hash, expires_at, created_at`,
		arg.UserID, arg.TokenHash, arg.ExpiresAt,
	)
	var s domain.Session
	if err := row.Scan(&s.ID, &s.UserID, &s.TokenHash, &s.ExpiresAt, &s.CreatedAt); err != nil {
		return nil, err
	}
	return &s, nil
}

// GetUserBySessionTokenHash returns the user owning an unexpired session
// with the given token hash, or sql.ErrNoRows.
func (q *Queries) GetUserBySessionTokenHash(ctx context.Context, tokenHash string) (*domain.User, error) {
	row := q.db.QueryRowContext(ctx, `
		SELECT u.id, u.email, u.password_hash, u.name, COALESCE(u.company_name, ''), u.created_at, u.updated_at
		FROM sessions s
		JOIN users u ON u.id = s.user_id
		WHERE s.token_hash = $1 AND s.expires_at > now()`,
		tokenHash,
	)
	return scanUser(row)
}

// DeleteSessionByTokenHash removes a single session. Deleting a missing
// session is not an error.
func (q *Queries) DeleteSessionByTokenHash(ctx context.Context, tokenHash string) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM sessions WHERE token_hash = $1`, tokenHash)
	return err
}

// DeleteSessionsByUserID removes every session for a user. Used after
// password changes to force re-authentication everywhere.
func (q *Queries) DeleteSessionsByUserID(ctx context.Context, userID uuid.UUID) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM sessions WHERE user_id = $1`, userID)
	return err
}

// DeleteExpiredSessions removes all expired sessions and returns how many
// were deleted.
func (q *Queries) DeleteExpiredSessions(ctx context.Context) (int64, error) {
	res, err := q.db.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at <= now()`)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
