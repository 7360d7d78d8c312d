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

const appealColumns = `id, user_id, content_id, content_type, reason, status, moderator_id, resolution, created_at, updated_at`

type AppealRepo struct {
	pool *pgxpool.Pool
}

type NewAppeal struct {
	UserID      int64
	ContentID   int64
	ContentType enums.ContentType
	Reason      string
}

func NewAppealRepo(pool *pgxpool.Pool) *AppealRepo {
	return &AppealRepo{pool: pool}
}

func (r *AppealRepo) Create(ctx context.Context, in NewAppeal) (model.Appeal, error) {
	if r.pool == nil {
		return model.Appeal{}, errPoolNil()
	}

	appeal, err := scanAppeal(r.pool.QueryRow(ctx, `
INSERT INTO appeals (
	user_id,
	content_id,
	content_type,
	reason,
	status,
	created_at,
	updated_at
) VALUES ($1, $2, $3, $4, 'pending', NOW(), NOW())
RETURNING `+appealColumns,
		in.UserID, in.ContentID, string(in.ContentType), strings.TrimSpace(in.Reason)))
	if err != nil {
		return model.Appeal{}, apperrors.Storage("insert appeal", err)
	}
	return appeal, nil
}

// Decide closes a pending appeal. Only rows still pending are updated, so two concurrent
// decisions cannot both succeed.
func (r *AppealRepo) Decide(
	ctx context.Context,
	appealID int64,
	to enums.AppealStatus,
	moderatorID int64,
	resolution string,
) (model.Appeal, error) {
	if r.pool == nil {
		return model.Appeal{}, errPoolNil()
	}
	if !to.Terminal() {
		return model.Appeal{}, fmt.Errorf("appeal cannot move to %q: %w", to, apperrors.ErrInvalidState)
	}

	appeal, err := scanAppeal(r.pool.QueryRow(ctx, `
UPDATE appeals
SET
	status = $2,
	moderator_id = $3,
	resolution = $4,
	updated_at = NOW()
WHERE id = $1 AND status = 'pending'
RETURNING `+appealColumns, appealID, string(to), moderatorID, strings.TrimSpace(resolution)))
	if err == nil {
		return appeal, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return model.Appeal{}, apperrors.Storage("decide appeal", err)
	}

	current, err := r.GetByID(ctx, appealID)
	if err != nil {
		return model.Appeal{}, err
	}
	return model.Appeal{}, fmt.Errorf("appeal %d is %s: %w", appealID, current.Status, apperrors.ErrInvalidState)
}

func (r *AppealRepo) GetByID(ctx context.Context, appealID int64) (model.Appeal, error) {
	if r.pool == nil {
		return model.Appeal{}, errPoolNil()
	}

	appeal, err := scanAppeal(r.pool.QueryRow(ctx, `SELECT `+appealColumns+` FROM appeals WHERE id = $1`, appealID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Appeal{}, fmt.Errorf("appeal %d: %w", appealID, apperrors.ErrNotFound)
		}
		return model.Appeal{}, apperrors.Storage("get appeal", err)
	}
	return appeal, nil
}

func (r *AppealRepo) ListByStatus(ctx context.Context, status enums.AppealStatus) ([]model.Appeal, error) {
	if r.pool == nil {
		return nil, errPoolNil()
	}

	rows, err := r.pool.Query(ctx, `
SELECT `+appealColumns+`
FROM appeals
WHERE status = $1
ORDER BY created_at ASC, id ASC
`, string(status))
	if err != nil {
		return nil, apperrors.Storage("list appeals", err)
	}
	defer rows.Close()

	items := make([]model.Appeal, 0)
	for rows.Next() {
		appeal, err := scanAppeal(rows)
		if err != nil {
			return nil, apperrors.Storage("scan appeal", err)
		}
		items = append(items, appeal)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Storage("iterate appeals", err)
	}
	return items, nil
}

func (r *AppealRepo) CountByStatus(ctx context.Context, status enums.AppealStatus) (int, error) {
	if r.pool == nil {
		return 0, errPoolNil()
	}

	var count int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM appeals WHERE status = $1`, string(status)).Scan(&count); err != nil {
		return 0, apperrors.Storage("count appeals", err)
	}
	return count, nil
}

func scanAppeal(row pgx.Row) (model.Appeal, error) {
	var (
		appeal      model.Appeal
		contentType string
		status      string
	)
	err := row.Scan(
		&appeal.ID,
		&appeal.UserID,
		&appeal.ContentID,
		&contentType,
		&appeal.Reason,
		&status,
		&appeal.ModeratorID,
		&appeal.Resolution,
		&appeal.CreatedAt,
		&appeal.UpdatedAt,
	)
	if err != nil {
		return model.Appeal{}, err
	}
	appeal.ContentType = enums.ContentType(contentType)
	appeal.Status = enums.AppealStatus(status)
	return appeal, nil
}
