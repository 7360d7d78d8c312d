package appeals

import (
	"context"
	"fmt"
	"strings"

	"github.com/gamerverse/backend/internal/domain/apperrors"
	"github.com/gamerverse/backend/internal/domain/enums"
	"github.com/gamerverse/backend/internal/domain/model"
	pgrepo "github.com/gamerverse/backend/internal/repo/postgres"
)

const maxTextLength = 2000

type Store interface {
	Create(ctx context.Context, in pgrepo.NewAppeal) (model.Appeal, error)
	Decide(ctx context.Context, appealID int64, to enums.AppealStatus, moderatorID int64, resolution string) (model.Appeal, error)
	GetByID(ctx context.Context, appealID int64) (model.Appeal, error)
	ListByStatus(ctx context.Context, status enums.AppealStatus) ([]model.Appeal, error)
	CountByStatus(ctx context.Context, status enums.AppealStatus) (int, error)
}

type FileInput struct {
	UserID      int64
	ContentID   int64
	ContentType enums.ContentType
	Reason      string
}

type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

func (s *Service) File(ctx context.Context, in FileInput) (model.Appeal, error) {
	reason := strings.TrimSpace(in.Reason)
	switch {
	case in.UserID <= 0:
		return model.Appeal{}, fmt.Errorf("appellant is required: %w", apperrors.ErrValidation)
	case in.ContentID <= 0:
		return model.Appeal{}, fmt.Errorf("content id is required: %w", apperrors.ErrValidation)
	case !in.ContentType.Valid():
		return model.Appeal{}, fmt.Errorf("content type %q is not supported: %w", in.ContentType, apperrors.ErrValidation)
	case reason == "":
		return model.Appeal{}, fmt.Errorf("reason is required: %w", apperrors.ErrValidation)
	case len(reason) > maxTextLength:
		return model.Appeal{}, fmt.Errorf("reason is too long: %w", apperrors.ErrValidation)
	}

	return s.store.Create(ctx, pgrepo.NewAppeal{
		UserID:      in.UserID,
		ContentID:   in.ContentID,
		ContentType: in.ContentType,
		Reason:      reason,
	})
}

func (s *Service) Approve(ctx context.Context, appealID, moderatorID int64, resolution string) (model.Appeal, error) {
	return s.decide(ctx, appealID, enums.AppealStatusApproved, moderatorID, resolution)
}

func (s *Service) Reject(ctx context.Context, appealID, moderatorID int64, resolution string) (model.Appeal, error) {
	return s.decide(ctx, appealID, enums.AppealStatusRejected, moderatorID, resolution)
}

func (s *Service) decide(ctx context.Context, appealID int64, to enums.AppealStatus, moderatorID int64, resolution string) (model.Appeal, error) {
	resolution = strings.TrimSpace(resolution)
	switch {
	case appealID <= 0:
		return model.Appeal{}, fmt.Errorf("appeal id is required: %w", apperrors.ErrValidation)
	case moderatorID <= 0:
		return model.Appeal{}, fmt.Errorf("moderator id is required: %w", apperrors.ErrValidation)
	case resolution == "":
		return model.Appeal{}, fmt.Errorf("resolution is required: %w", apperrors.ErrValidation)
	case len(resolution) > maxTextLength:
		return model.Appeal{}, fmt.Errorf("resolution is too long: %w", apperrors.ErrValidation)
	}
	return s.store.Decide(ctx, appealID, to, moderatorID, resolution)
}

func (s *Service) Get(ctx context.Context, appealID int64) (model.Appeal, error) {
	return s.store.GetByID(ctx, appealID)
}

func (s *Service) ListPending(ctx context.Context) ([]model.Appeal, error) {
	return s.store.ListByStatus(ctx, enums.AppealStatusPending)
}

func (s *Service) CountPending(ctx context.Context) (int, error) {
	return s.store.CountByStatus(ctx, enums.AppealStatusPending)
}
