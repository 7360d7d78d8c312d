package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gamerverse/backend/internal/domain/apperrors"
	"github.com/gamerverse/backend/internal/domain/enums"
	"github.com/gamerverse/backend/internal/domain/model"
)

const reportColumns = `id, reported_by, reported_content_id, content_type, reason, status, moderator_action, created_at, updated_at`

type ReportRepo struct {
	pool *pgxpool.Pool
}

type NewReport struct {
	ReportedBy  int64
	ContentID   int64
	ContentType enums.ContentType
	Reason      string
}

func NewReportRepo(pool *pgxpool.Pool) *ReportRepo {
	return &ReportRepo{pool: pool}
}

func (r *ReportRepo) Create(ctx context.Context, in NewReport) (model.Report, error) {
	if r.pool == nil {
		return model.Report{}, errPoolNil()
	}
	return createReport(ctx, r.pool, in)
}

// CreateTx inserts the report inside a caller-owned transaction.
func (r *ReportRepo) CreateTx(ctx context.Context, tx pgx.Tx, in NewReport) (model.Report, error) {
	if tx == nil {
		return model.Report{}, fmt.Errorf("transaction is required")
	}
	return createReport(ctx, tx, in)
}

func createReport(ctx context.Context, q querier, in NewReport) (model.Report, error) {
	if in.ReportedBy <= 0 || in.ContentID <= 0 || strings.TrimSpace(in.Reason) == "" {
		return model.Report{}, fmt.Errorf("invalid report payload: %w", apperrors.ErrValidation)
	}

	report, err := scanReport(q.QueryRow(ctx, `
INSERT INTO reports (
	reported_by,
	reported_content_id,
	content_type,
	reason,
	status,
	created_at,
	updated_at
) VALUES ($1, $2, $3, $4, 'under_review', NOW(), NOW())
RETURNING `+reportColumns,
		in.ReportedBy, in.ContentID, string(in.ContentType), strings.TrimSpace(in.Reason)))
	if err != nil {
		return model.Report{}, apperrors.Storage("insert report", err)
	}
	return report, nil
}

// Resolve moves a report out of under_review. The status predicate makes the transition happen at most once.
func (r *ReportRepo) Resolve(ctx context.Context, reportID int64, moderatorAction string) (model.Report, error) {
	if r.pool == nil {
		return model.Report{}, errPoolNil()
	}

	report, err := scanReport(r.pool.QueryRow(ctx, `
UPDATE reports
SET
	status = 'resolved',
	moderator_action = $2,
	updated_at = NOW()
WHERE id = $1 AND status = 'under_review'
RETURNING `+reportColumns, reportID, strings.TrimSpace(moderatorAction)))
	if err == nil {
		return report, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return model.Report{}, apperrors.Storage("resolve report", err)
	}

	exists, err := r.exists(ctx, reportID)
	if err != nil {
		return model.Report{}, err
	}
	if !exists {
		return model.Report{}, fmt.Errorf("report %d: %w", reportID, apperrors.ErrNotFound)
	}
	return model.Report{}, fmt.Errorf("report %d is already resolved: %w", reportID, apperrors.ErrInvalidState)
}

func (r *ReportRepo) GetByID(ctx context.Context, reportID int64) (model.Report, error) {
	if r.pool == nil {
		return model.Report{}, errPoolNil()
	}

	report, err := scanReport(r.pool.QueryRow(ctx, `SELECT `+reportColumns+` FROM reports WHERE id = $1`, reportID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Report{}, fmt.Errorf("report %d: %w", reportID, apperrors.ErrNotFound)
		}
		return model.Report{}, apperrors.Storage("get report", err)
	}
	return report, nil
}

func (r *ReportRepo) ListByStatus(ctx context.Context, status enums.ReportStatus) ([]model.Report, error) {
	if r.pool == nil {
		return nil, errPoolNil()
	}

	rows, err := r.pool.Query(ctx, `
SELECT `+reportColumns+`
FROM reports
WHERE status = $1
ORDER BY created_at ASC, id ASC
`, string(status))
	if err != nil {
		return nil, apperrors.Storage("list reports", err)
	}
	defer rows.Close()

	items := make([]model.Report, 0)
	for rows.Next() {
		report, err := scanReport(rows)
		if err != nil {
			return nil, apperrors.Storage("scan report", err)
		}
		items = append(items, report)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Storage("iterate reports", err)
	}
	return items, nil
}

func (r *ReportRepo) CountByStatus(ctx context.Context, status enums.ReportStatus) (int, error) {
	if r.pool == nil {
		return 0, errPoolNil()
	}

	var count int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM reports WHERE status = $1`, string(status)).Scan(&count); err != nil {
		return 0, apperrors.Storage("count reports", err)
	}
	return count, nil
}

func (r *ReportRepo) exists(ctx context.Context, reportID int64) (bool, error) {
	var exists bool
	if err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM reports WHERE id = $1)`, reportID).Scan(&exists); err != nil {
		return false, apperrors.Storage("check report exists", err)
	}
	return exists, nil
}

func scanReport(row pgx.Row) (model.Report, error) {
	var (
		report      model.Report
		contentType string
		status      string
	)
	err := row.Scan(
		&report.ID,
		&report.ReportedBy,
		&report.ReportedContentID,
		&contentType,
		&report.Reason,
		&status,
		&report.ModeratorAction,
		&report.CreatedAt,
		&report.UpdatedAt,
	)
	if err != nil {
		return model.Report{}, err
	}
	report.ContentType = enums.ContentType(contentType)
	report.Status = enums.ReportStatus(status)
	return report, nil
}

type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}
