package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/gamerverse/backend/internal/domain/apperrors"
	"github.com/gamerverse/backend/internal/domain/enums"
	"github.com/gamerverse/backend/internal/domain/model"
	pgrepo "github.com/gamerverse/backend/internal/repo/postgres"
)

const (
	MinPasswordLength = 8
	MaxPasswordLength = 72
)

type SessionStore interface {
	Create(ctx context.Context, session SessionRecord) error
	GetSession(ctx context.Context, sid string) (SessionRecord, error)
	DeleteSession(ctx context.Context, sid string) error
	DeleteAllForUser(ctx context.Context, userID int64) error
}

type UserStore interface {
	Create(ctx context.Context, in pgrepo.NewUser) (model.User, error)
	GetByEmail(ctx context.Context, email string) (model.User, error)
}

// AttemptLimiter throttles login attempts per subject. A nil limiter disables throttling.
type AttemptLimiter interface {
	Allow(ctx context.Context, subject string) (int64, bool, error)
}

type Service struct {
	jwt        *JWTManager
	sessions   SessionStore
	users      UserStore
	limiter    AttemptLimiter
	sessionTTL time.Duration
	hashCost   int
	now        func() time.Time
}

func NewService(jwtManager *JWTManager, sessions SessionStore, users UserStore, limiter AttemptLimiter, sessionTTL time.Duration) *Service {
	if sessionTTL <= 0 {
		sessionTTL = 7 * 24 * time.Hour
	}

	return &Service{
		jwt:        jwtManager,
		sessions:   sessions,
		users:      users,
		limiter:    limiter,
		sessionTTL: sessionTTL,
		hashCost:   bcrypt.DefaultCost,
		now:        time.Now,
	}
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (model.User, error) {
	username := strings.TrimSpace(in.Username)
	email := strings.ToLower(strings.TrimSpace(in.Email))
	switch {
	case username == "" || email == "" || in.Password == "":
		return model.User{}, fmt.Errorf("username, email and password are required: %w", apperrors.ErrValidation)
	case !strings.Contains(email, "@"):
		return model.User{}, fmt.Errorf("email is invalid: %w", apperrors.ErrValidation)
	case len(in.Password) < MinPasswordLength:
		return model.User{}, fmt.Errorf("password must be at least %d characters: %w", MinPasswordLength, apperrors.ErrValidation)
	case len(in.Password) > MaxPasswordLength:
		return model.User{}, fmt.Errorf("password must be at most %d characters: %w", MaxPasswordLength, apperrors.ErrValidation)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.hashCost)
	if err != nil {
		return model.User{}, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.users.Create(ctx, pgrepo.NewUser{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		Roles:        []enums.Role{enums.RoleUser},
	})
	if err != nil {
		return model.User{}, err
	}
	return user, nil
}

func (s *Service) Login(ctx context.Context, email, password string) (AuthResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return AuthResult{}, fmt.Errorf("email and password are required: %w", apperrors.ErrValidation)
	}

	if s.limiter != nil {
		retryAfter, allowed, err := s.limiter.Allow(ctx, email)
		if err != nil {
			return AuthResult{}, fmt.Errorf("check login rate: %w", err)
		}
		if !allowed {
			return AuthResult{}, fmt.Errorf("too many login attempts, retry in %ds: %w", retryAfter, apperrors.ErrRateLimited)
		}
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return AuthResult{}, ErrInvalidCredentials
		}
		return AuthResult{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return AuthResult{}, ErrInvalidCredentials
	}
	if user.Banned {
		return AuthResult{}, ErrBanned
	}

	sid := NewSessionID()
	token, expiresAt, err := s.jwt.GenerateAccessToken(user.ID, sid, user.Roles)
	if err != nil {
		return AuthResult{}, fmt.Errorf("generate access token: %w", err)
	}
	if err := s.sessions.Create(ctx, SessionRecord{
		SID:       sid,
		UserID:    user.ID,
		Roles:     user.Roles,
		ExpiresAt: s.now().Add(s.sessionTTL).UTC(),
	}); err != nil {
		return AuthResult{}, fmt.Errorf("create session: %w", err)
	}

	return AuthResult{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      user,
	}, nil
}

func (s *Service) Logout(ctx context.Context, sid string) error {
	if strings.TrimSpace(sid) == "" {
		return ErrUnauthorized
	}
	if err := s.sessions.DeleteSession(ctx, sid); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (s *Service) LogoutAll(ctx context.Context, userID int64) error {
	if userID <= 0 {
		return fmt.Errorf("invalid user id: %w", apperrors.ErrValidation)
	}
	if err := s.sessions.DeleteAllForUser(ctx, userID); err != nil {
		return fmt.Errorf("delete all sessions: %w", err)
	}
	return nil
}

// ValidateAccessToken checks the token signature and that its session is still live.
// Roles are taken from the session, which is authoritative.
func (s *Service) ValidateAccessToken(ctx context.Context, accessToken string) (AccessClaims, error) {
	claims, err := s.jwt.ParseAccessToken(accessToken)
	if err != nil {
		return AccessClaims{}, ErrUnauthorized
	}

	session, err := s.sessions.GetSession(ctx, claims.SID)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return AccessClaims{}, ErrUnauthorized
		}
		return AccessClaims{}, fmt.Errorf("get session: %w", err)
	}

	if session.UserID != claims.UserID {
		return AccessClaims{}, ErrUnauthorized
	}
	if s.now().After(session.ExpiresAt) {
		return AccessClaims{}, ErrUnauthorized
	}

	claims.Roles = session.Roles
	return claims, nil
}
