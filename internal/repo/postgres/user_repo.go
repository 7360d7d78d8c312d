package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gamerverse/backend/internal/domain/apperrors"
	"github.com/gamerverse/backend/internal/domain/enums"
	"github.com/gamerverse/backend/internal/domain/model"
)

const userColumns = `id, username, email, password_hash, avatar, bio, roles, banned, warnings, muted_until, created_at, updated_at`

const uniqueViolation = "23505"

type UserRepo struct {
	pool *pgxpool.Pool
}

type NewUser struct {
	Username     string
	Email        string
	PasswordHash string
	Roles        []enums.Role
}

func NewUserRepo(pool *pgxpool.Pool) *UserRepo {
	return &UserRepo{pool: pool}
}

func (r *UserRepo) Create(ctx context.Context, in NewUser) (model.User, error) {
	if r.pool == nil {
		return model.User{}, errPoolNil()
	}
	roles := enums.RolesToStrings(in.Roles)
	if len(roles) == 0 {
		roles = []string{string(enums.RoleUser)}
	}

	user, err := scanUser(r.pool.QueryRow(ctx, `
INSERT INTO users (username, email, password_hash, roles, created_at, updated_at)
VALUES ($1, $2, $3, $4, NOW(), NOW())
RETURNING `+userColumns,
		strings.TrimSpace(in.Username), normalizeEmail(in.Email), in.PasswordHash, roles))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return model.User{}, fmt.Errorf("user already exists: %w", apperrors.ErrValidation)
		}
		return model.User{}, apperrors.Storage("insert user", err)
	}
	return user, nil
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	if r.pool == nil {
		return model.User{}, errPoolNil()
	}

	user, err := scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, normalizeEmail(email)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.User{}, fmt.Errorf("user %q: %w", email, apperrors.ErrNotFound)
		}
		return model.User{}, apperrors.Storage("get user by email", err)
	}
	return user, nil
}

func (r *UserRepo) GetByID(ctx context.Context, userID int64) (model.User, error) {
	if r.pool == nil {
		return model.User{}, errPoolNil()
	}

	user, err := scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.User{}, fmt.Errorf("user %d: %w", userID, apperrors.ErrNotFound)
		}
		return model.User{}, apperrors.Storage("get user", err)
	}
	return user, nil
}

func (r *UserRepo) UpdateProfile(ctx context.Context, userID int64, avatar, bio string) (model.User, error) {
	if r.pool == nil {
		return model.User{}, errPoolNil()
	}

	user, err := scanUser(r.pool.QueryRow(ctx, `
UPDATE users
SET avatar = $2, bio = $3, updated_at = NOW()
WHERE id = $1
RETURNING `+userColumns, userID, strings.TrimSpace(avatar), strings.TrimSpace(bio)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.User{}, fmt.Errorf("user %d: %w", userID, apperrors.ErrNotFound)
		}
		return model.User{}, apperrors.Storage("update user profile", err)
	}
	return user, nil
}

func scanUser(row pgx.Row) (model.User, error) {
	var (
		user  model.User
		roles []string
	)
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.Avatar,
		&user.Bio,
		&roles,
		&user.Banned,
		&user.Warnings,
		&user.MutedUntil,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return model.User{}, err
	}
	user.Roles = enums.RolesFromStrings(roles)
	return user, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
