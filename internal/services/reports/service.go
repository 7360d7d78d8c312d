package reports

import (
	"context"
	"fmt"
	"strings"

	"github.com/gamerverse/backend/internal/domain/apperrors"
	"github.com/gamerverse/backend/internal/domain/enums"
	"github.com/gamerverse/backend/internal/domain/model"
	pgrepo "github.com/gamerverse/backend/internal/repo/postgres"
)

const maxReasonLength = 1000

type Store interface {
	Create(ctx context.Context, in pgrepo.NewReport) (model.Report, error)
	Resolve(ctx context.Context, reportID int64, moderatorAction string) (model.Report, error)
	GetByID(ctx context.Context, reportID int64) (model.Report, error)
	ListByStatus(ctx context.Context, status enums.ReportStatus) ([]model.Report, error)
	CountByStatus(ctx context.Context, status enums.ReportStatus) (int, error)
}

type FileInput struct {
	ReportedBy  int64
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

func (s *Service) File(ctx context.Context, in FileInput) (model.Report, error) {
	if err := ValidateFile(in); err != nil {
		return model.Report{}, err
	}
	return s.store.Create(ctx, pgrepo.NewReport{
		ReportedBy:  in.ReportedBy,
		ContentID:   in.ContentID,
		ContentType: in.ContentType,
		Reason:      strings.TrimSpace(in.Reason),
	})
}

// Resolve closes an under_review report exactly once.
func (s *Service) Resolve(ctx context.Context, reportID int64, moderatorAction string) (model.Report, error) {
	if reportID <= 0 {
		return model.Report{}, fmt.Errorf("report id is required: %w", apperrors.ErrValidation)
	}
	return s.store.Resolve(ctx, reportID, moderatorAction)
}

func (s *Service) Get(ctx context.Context, reportID int64) (model.Report, error) {
	return s.store.GetByID(ctx, reportID)
}

func (s *Service) ListUnderReview(ctx context.Context) ([]model.Report, error) {
	return s.store.ListByStatus(ctx, enums.ReportStatusUnderReview)
}

func (s *Service) CountUnderReview(ctx context.Context) (int, error) {
	return s.store.CountByStatus(ctx, enums.ReportStatusUnderReview)
}

func ValidateFile(in FileInput) error {
	reason := strings.TrimSpace(in.Reason)
	switch {
	case in.ReportedBy <= 0:
		return fmt.Errorf("reporter is required: %w", apperrors.ErrValidation)
	case in.ContentID <= 0:
		return fmt.Errorf("content id is required: %w", apperrors.ErrValidation)
	case !in.ContentType.Valid():
		return fmt.Errorf("content type %q is not supported: %w", in.ContentType, apperrors.ErrValidation)
	case reason == "":
		return fmt.Errorf("reason is required: %w", apperrors.ErrValidation)
	case len(reason) > maxReasonLength:
		return fmt.Errorf("reason is too long: %w", apperrors.ErrValidation)
	}
	return nil
}
