package repository

import (
	"context"
	"database/sql"

	"github.com/DukeRupert/kalkyl/internal/domain"
	"github.com/google/uuid"
)

const userColumns = `id, email, password_hash, name, COALESCE(company_name, ''), created_at, updated_at`

func scanUser(row *sql.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.CompanyName, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// CreateUserParams holds the fields for a new user row.
type CreateUserParams struct {
	Email        string
	PasswordHash string
	Name         string
	CompanyName  string
}

// CreateUser inserts a new user and returns the created row.
func (q *Queries) CreateUser(ctx context.Context, arg CreateUserParams) (*domain.User, error) {
	row := q.db.QueryRowContext(ctx, `
		INSERT INTO users (email, password_hash, name, company_name)
		VALUES ($1, $2, $3, NULLIF($4, ''))
		RETURNING `+userColumns,
		arg.Email, arg.PasswordHash, arg.Name, arg.CompanyName,
	)
	return scanUser(row)
}

// GetUserByEmail returns the user with the given email, or sql.ErrNoRows.
func (q *Queries) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	row := q.db.QueryRowContext(ctx, `
		SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	return scanUser(row)
}

// GetUserByID returns the user with the given id, or sql.ErrNoRows.
func (q *Queries) GetUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	row := q.db.QueryRowContext(ctx, `
		SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

// UpdateUserProfile updates name and company for a user.
func (q *Queries) UpdateUserProfile(ctx context.Context, arg domain.ProfileUpdateParams) error {
	res, err := q.db.ExecContext(ctx, `
		UPDATE users
		SET name = $2, company_name = NULLIF($3, ''), updated_at = now()
		WHERE id = $1`,
		arg.UserID, arg.Name, arg.CompanyName,
	)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// UpdateUserPassword replaces a user's password hash.
func (q *Queries) UpdateUserPassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	res, err := q.db.ExecContext(ctx, `
		UPDATE users SET password_hash = $2, updated_at = now() WHERE id = $1`,
		id, passwordHash,
	)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// requireRow converts a zero-row update into sql.ErrNoRows.
func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
