package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/DukeRupert/kalkyl/internal/domain"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/sqlc-dev/pqtype"
)

// InsertReportParams holds the fields for a new report row. The snapshot is
// stored column-per-section so list queries stay cheap while the JSONB
// sections round-trip losslessly.
type InsertReportParams struct {
	ID            uuid.UUID
	UserID        uuid.UUID
	Snapshot      domain.QuestionnaireSnapshot
	EstimatedCost int64
	CreatedAt     time.Time
}

// InsertReport persists a report. Reports are immutable; there is no
// corresponding update query.
func (q *Queries) InsertReport(ctx context.Context, arg InsertReportParams) (*domain.Report, error) {
	technologies, err := marshalJSONB(arg.Snapshot.Technologies)
	if err != nil {
		return nil, fmt.Errorf("marshal technologies: %w", err)
	}
	team, err := marshalJSONB(arg.Snapshot.Team)
	if err != nil {
		return nil, fmt.Errorf("marshal team: %w", err)
	}
	timeline, err := marshalJSONB(arg.Snapshot.Timeline)
	if err != nil {
		return nil, fmt.Errorf("marshal timeline: %w", err)
	}

	_, err = q.db.ExecContext(ctx, `
		INSERT INTO reports (
			id, user_id,
			project_name, project_description, industry_type, project_type,
			features, custom_features,
			technologies, team_composition, timeline,
			estimated_cost, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		arg.ID, arg.UserID,
		arg.Snapshot.ProjectBasics.ProjectName,
		arg.Snapshot.ProjectBasics.ProjectDescription,
		arg.Snapshot.ProjectBasics.IndustryType,
		arg.Snapshot.ProjectBasics.ProjectType,
		pq.Array(nonNullTextArray(arg.Snapshot.Features)),
		pq.Array(nonNullTextArray(arg.Snapshot.CustomFeatures)),
		technologies, team, timeline,
		arg.EstimatedCost, arg.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &domain.Report{
		ID:            arg.ID,
		UserID:        arg.UserID,
		Snapshot:      arg.Snapshot,
		EstimatedCost: arg.EstimatedCost,
		CreatedAt:     arg.CreatedAt,
	}, nil
}

const reportColumns = `
	id, user_id,
	project_name, project_description, industry_type, project_type,
	features, custom_features,
	technologies, team_composition, timeline,
	estimated_cost, created_at`

// GetReportByID returns a report scoped to its owner, or sql.ErrNoRows.
func (q *Queries) GetReportByID(ctx context.Context, id, userID uuid.UUID) (*domain.Report, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT `+reportColumns+` FROM reports WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, sql.ErrNoRows
	}
	return scanReport(rows)
}

// ListReportsByUserID returns all reports for a user, newest first.
func (q *Queries) ListReportsByUserID(ctx context.Context, userID uuid.UUID) ([]*domain.Report, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT `+reportColumns+` FROM reports WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reports []*domain.Report
	for rows.Next() {
		report, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		reports = append(reports, report)
	}
	return reports, rows.Err()
}

func scanReport(rows *sql.Rows) (*domain.Report, error) {
	var (
		r           domain.Report
		features    []string
		custom      []string
		techRaw     pqtype.NullRawMessage
		teamRaw     pqtype.NullRawMessage
		timelineRaw pqtype.NullRawMessage
	)
	err := rows.Scan(
		&r.ID, &r.UserID,
		&r.Snapshot.ProjectBasics.ProjectName,
		&r.Snapshot.ProjectBasics.ProjectDescription,
		&r.Snapshot.ProjectBasics.IndustryType,
		&r.Snapshot.ProjectBasics.ProjectType,
		pq.Array(&features),
		pq.Array(&custom),
		&techRaw, &teamRaw, &timelineRaw,
		&r.EstimatedCost, &r.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	r.Snapshot.Features = features
	r.Snapshot.CustomFeatures = custom
	if err := unmarshalJSONB(techRaw, &r.Snapshot.Technologies); err != nil {
		return nil, fmt.Errorf("unmarshal technologies: %w", err)
	}
	if err := unmarshalJSONB(teamRaw, &r.Snapshot.Team); err != nil {
		return nil, fmt.Errorf("unmarshal team: %w", err)
	}
	if err := unmarshalJSONB(timelineRaw, &r.Snapshot.Timeline); err != nil {
		return nil, fmt.Errorf("unmarshal timeline: %w", err)
	}
	return &r, nil
}

// nonNullTextArray coalesces a nil slice to an empty one. pq.Array renders
// nil as SQL NULL, which the NOT NULL array columns reject; a snapshot with
// no custom features must still insert as '{}'.
func nonNullTextArray(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func marshalJSONB(v any) (pqtype.NullRawMessage, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return pqtype.NullRawMessage{}, err
	}
	return pqtype.NullRawMessage{RawMessage: raw, Valid: true}, nil
}

func unmarshalJSONB(raw pqtype.NullRawMessage, dst any) error {
	if !raw.Valid {
		return nil
	}
	return json.Unmarshal(raw.RawMessage, dst)
}
