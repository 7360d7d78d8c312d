package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/gamerverse/backend/internal/domain/apperrors"
	"github.com/gamerverse/backend/internal/domain/enums"
	"github.com/gamerverse/backend/internal/domain/model"
)

var (
	ErrUnauthorized       = fmt.Errorf("please log in again: %w", apperrors.ErrAuthentication)
	ErrInvalidCredentials = fmt.Errorf("invalid email or password: %w", apperrors.ErrAuthentication)
	ErrBanned             = fmt.Errorf("account is banned: %w", apperrors.ErrAuthentication)
	ErrSessionNotFound    = errors.New("session not found")
)

type SessionRecord struct {
	SID       string
	UserID    int64
	Roles     []enums.Role
	ExpiresAt time.Time
}

type AccessClaims struct {
	UserID    int64
	SID       string
	Roles     []enums.Role
	ExpiresAt time.Time
}

type RegisterInput struct {
	Username string
	Email    string
	Password string
}

type AuthResult struct {
	Token     string
	ExpiresAt time.Time
	User      model.User
}
