package posts

import (
	"context"
	"errors"
	"testing"

	"github.com/gamerverse/backend/internal/domain/apperrors"
	"github.com/gamerverse/backend/internal/domain/enums"
	"github.com/gamerverse/backend/internal/domain/model"
	pgrepo "github.com/gamerverse/backend/internal/repo/postgres"
	"github.com/gamerverse/backend/internal/services/appeals"
)

type stubPosts struct {
	posts   map[int64]*model.Post
	reports []model.Report
}

func (s *stubPosts) Create(_ context.Context, in pgrepo.NewPost) (model.Post, error) {
	p := &model.Post{ID: int64(len(s.posts) + 1), UserID: in.UserID, Text: in.Text, Status: enums.ContentStatusActive}
	s.posts[p.ID] = p
	return *p, nil
}

func (s *stubPosts) GetByID(_ context.Context, id int64) (model.Post, error) {
	p, ok := s.posts[id]
	if !ok {
		return model.Post{}, apperrors.ErrNotFound
	}
	return *p, nil
}

func (s *stubPosts) AddReport(_ context.Context, postID, reportedBy int64, reason string) (model.Report, error) {
	p, ok := s.posts[postID]
	if !ok {
		return model.Report{}, apperrors.ErrNotFound
	}
	p.Reports = append(p.Reports, model.PostReport{ReportedBy: reportedBy, Reason: reason})
	r := model.Report{ID: int64(len(s.reports) + 1), ReportedBy: reportedBy, ReportedContentID: postID, ContentType: enums.ContentTypePost, Reason: reason, Status: enums.ReportStatusUnderReview}
	s.reports = append(s.reports, r)
	return r, nil
}

type stubAppeals struct{}

func (stubAppeals) Create(_ context.Context, in pgrepo.NewAppeal) (model.Appeal, error) {
	return model.Appeal{ID: 1, UserID: in.UserID, ContentID: in.ContentID, ContentType: in.ContentType, Reason: in.Reason, Status: enums.AppealStatusPending}, nil
}
func (stubAppeals) Decide(context.Context, int64, enums.AppealStatus, int64, string) (model.Appeal, error) {
	return model.Appeal{}, nil
}
func (stubAppeals) GetByID(context.Context, int64) (model.Appeal, error) { return model.Appeal{}, nil }
func (stubAppeals) ListByStatus(context.Context, enums.AppealStatus) ([]model.Appeal, error) {
	return nil, nil
}
func (stubAppeals) CountByStatus(context.Context, enums.AppealStatus) (int, error) { return 0, nil }

type budgetLimiter struct{ left int }

func (b *budgetLimiter) Allow(context.Context, string) (int64, bool, error) {
	if b.left <= 0 {
		return 60, false, nil
	}
	b.left--
	return 0, true, nil
}

func newService(limiter AttemptLimiter) (*Service, *stubPosts) {
	store := &stubPosts{posts: map[int64]*model.Post{}}
	return NewService(store, appeals.NewService(stubAppeals{}), limiter), store
}

func TestReportEmbedsAndFiles(t *testing.T) {
	svc, store := newService(nil)
	ctx := context.Background()

	post, err := svc.Create(ctx, 1, "gg wp", "", false)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	report, err := svc.Report(ctx, 2, post.ID, " cheating ")
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	if report.Status != enums.ReportStatusUnderReview || report.Reason != "cheating" {
		t.Fatalf("unexpected report: %+v", report)
	}
	if len(store.posts[post.ID].Reports) != 1 {
		t.Fatalf("expected embedded report on post")
	}
}

func TestReportValidationAndRate(t *testing.T) {
	svc, _ := newService(&budgetLimiter{left: 1})
	ctx := context.Background()
	post, _ := svc.Create(ctx, 1, "hello", "", false)

	if _, err := svc.Report(ctx, 2, post.ID, ""); !errors.Is(err, apperrors.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, err := svc.Report(ctx, 2, post.ID, "spam"); err != nil {
		t.Fatalf("first report: %v", err)
	}
	if _, err := svc.Report(ctx, 2, post.ID, "spam"); !errors.Is(err, apperrors.ErrRateLimited) {
		t.Fatalf("expected rate limited, got %v", err)
	}
}

func TestReportMissingPost(t *testing.T) {
	svc, _ := newService(nil)
	if _, err := svc.Report(context.Background(), 2, 99, "spam"); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestAppealDefaultsToPost(t *testing.T) {
	svc, _ := newService(nil)
	appeal, err := svc.Appeal(context.Background(), 5, 7, "", "I did nothing wrong")
	if err != nil {
		t.Fatalf("appeal: %v", err)
	}
	if appeal.ContentType != enums.ContentTypePost || appeal.Status != enums.AppealStatusPending {
		t.Fatalf("unexpected appeal: %+v", appeal)
	}
}

func TestCreateValidation(t *testing.T) {
	svc, _ := newService(nil)
	if _, err := svc.Create(context.Background(), 1, "   ", "", false); !errors.Is(err, apperrors.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
