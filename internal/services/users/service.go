package users

import (
	"context"
	"fmt"
	"strings"

	"github.com/gamerverse/backend/internal/domain/apperrors"
	"github.com/gamerverse/backend/internal/domain/model"
)

const (
	maxBioLength    = 500
	maxAvatarLength = 2048
)

type Store interface {
	GetByID(ctx context.Context, userID int64) (model.User, error)
	UpdateProfile(ctx context.Context, userID int64, avatar, bio string) (model.User, error)
}

type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

func (s *Service) Me(ctx context.Context, userID int64) (model.User, error) {
	if userID <= 0 {
		return model.User{}, fmt.Errorf("user id is required: %w", apperrors.ErrValidation)
	}
	return s.store.GetByID(ctx, userID)
}

func (s *Service) UpdateProfile(ctx context.Context, userID int64, avatar, bio string) (model.User, error) {
	avatar = strings.TrimSpace(avatar)
	bio = strings.TrimSpace(bio)
	switch {
	case userID <= 0:
		return model.User{}, fmt.Errorf("user id is required: %w", apperrors.ErrValidation)
	case len(bio) > maxBioLength:
		return model.User{}, fmt.Errorf("bio must be at most %d characters: %w", maxBioLength, apperrors.ErrValidation)
	case len(avatar) > maxAvatarLength:
		return model.User{}, fmt.Errorf("avatar url is too long: %w", apperrors.ErrValidation)
	case avatar != "" && !strings.HasPrefix(avatar, "http://") && !strings.HasPrefix(avatar, "https://"):
		return model.User{}, fmt.Errorf("avatar must be an http(s) url: %w", apperrors.ErrValidation)
	}
	return s.store.UpdateProfile(ctx, userID, avatar, bio)
}
