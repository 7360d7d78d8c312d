package redis

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/gamerverse/backend/internal/domain/apperrors"
	"github.com/gamerverse/backend/internal/domain/enums"
	authsvc "github.com/gamerverse/backend/internal/services/auth"
)

const (
	sessionPrefix      = "sessions:"
	userSessionsPrefix = "user_sessions:"
)

type SessionRepo struct {
	client *goredis.Client
}

func NewSessionRepo(client *goredis.Client) *SessionRepo {
	return &SessionRepo{client: client}
}

func (r *SessionRepo) Create(ctx context.Context, session authsvc.SessionRecord) error {
	if r.client == nil {
		return errClientNil()
	}
	if strings.TrimSpace(session.SID) == "" || session.UserID <= 0 {
		return fmt.Errorf("invalid session payload: %w", apperrors.ErrValidation)
	}

	ttl := ttlFor(session.ExpiresAt)
	pipe := r.client.TxPipeline()
	pipe.HSet(ctx, sessionKey(session.SID), map[string]interface{}{
		"user_id":    session.UserID,
		"roles":      strings.Join(enums.RolesToStrings(session.Roles), ","),
		"expires_at": session.ExpiresAt.Unix(),
	})
	pipe.Expire(ctx, sessionKey(session.SID), ttl)
	pipe.SAdd(ctx, userSessionsKey(session.UserID), session.SID)
	pipe.Expire(ctx, userSessionsKey(session.UserID), ttl)

	if _, err := pipe.Exec(ctx); err != nil {
		return apperrors.Storage("create redis session", err)
	}
	return nil
}

func (r *SessionRepo) GetSession(ctx context.Context, sid string) (authsvc.SessionRecord, error) {
	if r.client == nil {
		return authsvc.SessionRecord{}, errClientNil()
	}

	values, err := r.client.HGetAll(ctx, sessionKey(sid)).Result()
	if err != nil {
		return authsvc.SessionRecord{}, apperrors.Storage("get session hash", err)
	}
	if len(values) == 0 {
		return authsvc.SessionRecord{}, authsvc.ErrSessionNotFound
	}

	session, err := parseSessionRecord(values)
	if err != nil {
		return authsvc.SessionRecord{}, err
	}
	session.SID = sid
	return session, nil
}

func (r *SessionRepo) DeleteSession(ctx context.Context, sid string) error {
	if r.client == nil {
		return errClientNil()
	}
	if strings.TrimSpace(sid) == "" {
		return nil
	}

	userIDRaw, err := r.client.HGet(ctx, sessionKey(sid), "user_id").Result()
	if err != nil && err != goredis.Nil {
		return apperrors.Storage("load session for delete", err)
	}

	pipe := r.client.TxPipeline()
	pipe.Del(ctx, sessionKey(sid))
	if userID, parseErr := strconv.ParseInt(userIDRaw, 10, 64); parseErr == nil && userID > 0 {
		pipe.SRem(ctx, userSessionsKey(userID), sid)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return apperrors.Storage("delete session", err)
	}
	return nil
}

func (r *SessionRepo) DeleteAllForUser(ctx context.Context, userID int64) error {
	if r.client == nil {
		return errClientNil()
	}
	if userID <= 0 {
		return fmt.Errorf("invalid user id: %w", apperrors.ErrValidation)
	}

	sids, err := r.client.SMembers(ctx, userSessionsKey(userID)).Result()
	if err != nil {
		return apperrors.Storage("list user sessions", err)
	}

	pipe := r.client.TxPipeline()
	for _, sid := range sids {
		pipe.Del(ctx, sessionKey(sid))
	}
	pipe.Del(ctx, userSessionsKey(userID))
	if _, err := pipe.Exec(ctx); err != nil {
		return apperrors.Storage("delete user sessions", err)
	}
	return nil
}

func parseSessionRecord(values map[string]string) (authsvc.SessionRecord, error) {
	userID, err := strconv.ParseInt(values["user_id"], 10, 64)
	if err != nil || userID <= 0 {
		return authsvc.SessionRecord{}, authsvc.ErrSessionNotFound
	}

	expiresUnix, err := strconv.ParseInt(values["expires_at"], 10, 64)
	if err != nil {
		return authsvc.SessionRecord{}, authsvc.ErrSessionNotFound
	}

	var roles []enums.Role
	if raw := strings.TrimSpace(values["roles"]); raw != "" {
		roles = enums.RolesFromStrings(strings.Split(raw, ","))
	}

	return authsvc.SessionRecord{
		UserID:    userID,
		Roles:     roles,
		ExpiresAt: time.Unix(expiresUnix, 0).UTC(),
	}, nil
}

func ttlFor(expiresAt time.Time) time.Duration {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return time.Second
	}
	return ttl
}

func sessionKey(sid string) string {
	return sessionPrefix + sid
}

func userSessionsKey(userID int64) string {
	return userSessionsPrefix + strconv.FormatInt(userID, 10)
}
