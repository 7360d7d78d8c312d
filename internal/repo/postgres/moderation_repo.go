package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gamerverse/backend/internal/domain/apperrors"
	"github.com/gamerverse/backend/internal/domain/enums"
	"github.com/gamerverse/backend/internal/domain/model"
)

// ModerationLogRepo is the append-only audit trail. It exposes no update or delete.
type ModerationLogRepo struct {
	pool *pgxpool.Pool
}

func NewModerationLogRepo(pool *pgxpool.Pool) *ModerationLogRepo {
	return &ModerationLogRepo{pool: pool}
}

func (r *ModerationLogRepo) Append(ctx context.Context, entry model.LogEntry) (model.LogEntry, error) {
	if r.pool == nil {
		return model.LogEntry{}, errPoolNil()
	}
	if entry.ModeratorID <= 0 || entry.Action == "" {
		return model.LogEntry{}, fmt.Errorf("invalid moderation log payload: %w", apperrors.ErrValidation)
	}

	saved, err := scanLogEntry(r.pool.QueryRow(ctx, `
INSERT INTO moderation_logs (moderator_id, action, user_id, reason, date)
VALUES ($1, $2, $3, $4, $5)
RETURNING id, moderator_id, action, user_id, reason, date
`, entry.ModeratorID, string(entry.Action), entry.UserID, entry.Reason, entry.Date))
	if err != nil {
		return model.LogEntry{}, apperrors.Storage("insert moderation log", err)
	}
	return saved, nil
}

// ListRecent returns entries newest first. A zero since means no lower bound; limit <= 0 means no cap.
func (r *ModerationLogRepo) ListRecent(ctx context.Context, limit int, since time.Time) ([]model.LogEntry, error) {
	if r.pool == nil {
		return nil, errPoolNil()
	}

	var limitArg any
	if limit > 0 {
		limitArg = limit
	}
	var sinceArg any
	if !since.IsZero() {
		sinceArg = since
	}

	rows, err := r.pool.Query(ctx, `
SELECT id, moderator_id, action, user_id, reason, date
FROM moderation_logs
WHERE ($1::timestamptz IS NULL OR date >= $1)
ORDER BY date DESC, id DESC
LIMIT $2
`, sinceArg, limitArg)
	if err != nil {
		return nil, apperrors.Storage("list moderation logs", err)
	}
	defer rows.Close()

	entries := make([]model.LogEntry, 0)
	for rows.Next() {
		entry, err := scanLogEntry(rows)
		if err != nil {
			return nil, apperrors.Storage("scan moderation log", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Storage("iterate moderation logs", err)
	}
	return entries, nil
}

func (r *ModerationLogRepo) CountSince(ctx context.Context, since time.Time) (int, error) {
	if r.pool == nil {
		return 0, errPoolNil()
	}

	var count int
	if err := r.pool.QueryRow(ctx, `
SELECT COUNT(*)
FROM moderation_logs
WHERE date >= $1
`, since).Scan(&count); err != nil {
		return 0, apperrors.Storage("count moderation logs", err)
	}
	return count, nil
}

func scanLogEntry(row pgx.Row) (model.LogEntry, error) {
	var (
		entry  model.LogEntry
		action string
	)
	if err := row.Scan(&entry.ID, &entry.ModeratorID, &action, &entry.UserID, &entry.Reason, &entry.Date); err != nil {
		return model.LogEntry{}, err
	}
	entry.Action = enums.AuditAction(action)
	entry.Date = entry.Date.UTC()
	return entry, nil
}
