package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gamerverse/backend/internal/domain/apperrors"
	"github.com/gamerverse/backend/internal/domain/enums"
	"github.com/gamerverse/backend/internal/domain/model"
)

const postColumns = `id, user_id, text, image, status, nsfw, reports, created_at, updated_at`

type PostRepo struct {
	pool    *pgxpool.Pool
	reports *ReportRepo
}

type NewPost struct {
	UserID int64
	Text   string
	Image  string
	NSFW   bool
}

func NewPostRepo(pool *pgxpool.Pool, reports *ReportRepo) *PostRepo {
	return &PostRepo{pool: pool, reports: reports}
}

func (r *PostRepo) Create(ctx context.Context, in NewPost) (model.Post, error) {
	if r.pool == nil {
		return model.Post{}, errPoolNil()
	}
	if in.UserID <= 0 || strings.TrimSpace(in.Text) == "" {
		return model.Post{}, fmt.Errorf("invalid post payload: %w", apperrors.ErrValidation)
	}

	post, err := scanPost(r.pool.QueryRow(ctx, `
INSERT INTO posts (user_id, text, image, status, nsfw, reports, created_at, updated_at)
VALUES ($1, $2, $3, 'active', $4, '[]'::jsonb, NOW(), NOW())
RETURNING `+postColumns, in.UserID, strings.TrimSpace(in.Text), strings.TrimSpace(in.Image), in.NSFW))
	if err != nil {
		return model.Post{}, apperrors.Storage("insert post", err)
	}
	return post, nil
}

func (r *PostRepo) GetByID(ctx context.Context, postID int64) (model.Post, error) {
	if r.pool == nil {
		return model.Post{}, errPoolNil()
	}

	post, err := scanPost(r.pool.QueryRow(ctx, `SELECT `+postColumns+` FROM posts WHERE id = $1`, postID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Post{}, fmt.Errorf("post %d: %w", postID, apperrors.ErrNotFound)
		}
		return model.Post{}, apperrors.Storage("get post", err)
	}
	return post, nil
}

// Delete hard-deletes the post and returns it as it was before removal.
func (r *PostRepo) Delete(ctx context.Context, postID int64) (model.Post, error) {
	if r.pool == nil {
		return model.Post{}, errPoolNil()
	}

	post, err := scanPost(r.pool.QueryRow(ctx, `DELETE FROM posts WHERE id = $1 RETURNING `+postColumns, postID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Post{}, fmt.Errorf("post %d: %w", postID, apperrors.ErrNotFound)
		}
		return model.Post{}, apperrors.Storage("delete post", err)
	}
	return post, nil
}

// AddReport embeds the flag in the post and files a standalone report in one transaction.
func (r *PostRepo) AddReport(ctx context.Context, postID, reportedBy int64, reason string) (model.Report, error) {
	if r.pool == nil {
		return model.Report{}, errPoolNil()
	}
	reason = strings.TrimSpace(reason)
	if reportedBy <= 0 || reason == "" {
		return model.Report{}, fmt.Errorf("invalid report payload: %w", apperrors.ErrValidation)
	}

	entry, err := json.Marshal([]model.PostReport{{
		ReportedBy: reportedBy,
		Reason:     reason,
		Date:       time.Now().UTC(),
	}})
	if err != nil {
		return model.Report{}, fmt.Errorf("marshal post report: %w", err)
	}

	var report model.Report
	err = WithTx(ctx, r.pool, func(ctx context.Context, tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
UPDATE posts
SET reports = reports || $2::jsonb, updated_at = NOW()
WHERE id = $1
`, postID, entry)
		if err != nil {
			return apperrors.Storage("append post report", err)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("post %d: %w", postID, apperrors.ErrNotFound)
		}

		report, err = r.reports.CreateTx(ctx, tx, NewReport{
			ReportedBy:  reportedBy,
			ContentID:   postID,
			ContentType: enums.ContentTypePost,
			Reason:      reason,
		})
		return err
	})
	if err != nil {
		return model.Report{}, err
	}
	return report, nil
}

func scanPost(row pgx.Row) (model.Post, error) {
	var (
		post    model.Post
		status  string
		reports []byte
	)
	err := row.Scan(
		&post.ID,
		&post.UserID,
		&post.Text,
		&post.Image,
		&status,
		&post.NSFW,
		&reports,
		&post.CreatedAt,
		&post.UpdatedAt,
	)
	if err != nil {
		return model.Post{}, err
	}
	post.Status = enums.ContentStatus(status)
	post.Reports = make([]model.PostReport, 0)
	if len(reports) > 0 {
		if err := json.Unmarshal(reports, &post.Reports); err != nil {
			return model.Post{}, fmt.Errorf("decode post reports: %w", err)
		}
	}
	return post, nil
}
