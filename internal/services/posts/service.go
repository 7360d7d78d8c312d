// Package posts covers the user-facing side of content: publishing, flagging and appealing.
package posts

import (
	"context"
	"fmt"
	"strings"

	"github.com/gamerverse/backend/internal/domain/apperrors"
	"github.com/gamerverse/backend/internal/domain/enums"
	"github.com/gamerverse/backend/internal/domain/model"
	pgrepo "github.com/gamerverse/backend/internal/repo/postgres"
	"github.com/gamerverse/backend/internal/services/appeals"
	"github.com/gamerverse/backend/internal/services/reports"
)

const maxTextLength = 5000

type Store interface {
	Create(ctx context.Context, in pgrepo.NewPost) (model.Post, error)
	GetByID(ctx context.Context, postID int64) (model.Post, error)
	AddReport(ctx context.Context, postID, reportedBy int64, reason string) (model.Report, error)
}

type AttemptLimiter interface {
	Allow(ctx context.Context, subject string) (int64, bool, error)
}

type Service struct {
	store   Store
	appeals *appeals.Service
	limiter AttemptLimiter
}

func NewService(store Store, appealService *appeals.Service, limiter AttemptLimiter) *Service {
	return &Service{store: store, appeals: appealService, limiter: limiter}
}

func (s *Service) Create(ctx context.Context, authorID int64, text, image string, nsfw bool) (model.Post, error) {
	text = strings.TrimSpace(text)
	switch {
	case authorID <= 0:
		return model.Post{}, fmt.Errorf("author is required: %w", apperrors.ErrValidation)
	case text == "":
		return model.Post{}, fmt.Errorf("text is required: %w", apperrors.ErrValidation)
	case len(text) > maxTextLength:
		return model.Post{}, fmt.Errorf("text is too long: %w", apperrors.ErrValidation)
	}
	return s.store.Create(ctx, pgrepo.NewPost{UserID: authorID, Text: text, Image: image, NSFW: nsfw})
}

func (s *Service) Get(ctx context.Context, postID int64) (model.Post, error) {
	if postID <= 0 {
		return model.Post{}, fmt.Errorf("post id is required: %w", apperrors.ErrValidation)
	}
	return s.store.GetByID(ctx, postID)
}

// Report lets any signed-in user flag a post. The flag is embedded in the post
// and filed as an under_review report in the same transaction.
func (s *Service) Report(ctx context.Context, reporterID, postID int64, reason string) (model.Report, error) {
	if err := reports.ValidateFile(reports.FileInput{
		ReportedBy:  reporterID,
		ContentID:   postID,
		ContentType: enums.ContentTypePost,
		Reason:      reason,
	}); err != nil {
		return model.Report{}, err
	}

	if s.limiter != nil {
		retryAfter, allowed, err := s.limiter.Allow(ctx, fmt.Sprintf("%d", reporterID))
		if err != nil {
			return model.Report{}, fmt.Errorf("check report rate: %w", err)
		}
		if !allowed {
			return model.Report{}, fmt.Errorf("too many reports, retry in %ds: %w", retryAfter, apperrors.ErrRateLimited)
		}
	}

	return s.store.AddReport(ctx, postID, reporterID, strings.TrimSpace(reason))
}

func (s *Service) Appeal(ctx context.Context, userID, contentID int64, contentType enums.ContentType, reason string) (model.Appeal, error) {
	if contentType == "" {
		contentType = enums.ContentTypePost
	}
	return s.appeals.File(ctx, appeals.FileInput{
		UserID:      userID,
		ContentID:   contentID,
		ContentType: contentType,
		Reason:      reason,
	})
}
