package handlers

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/gamerverse/backend/internal/domain/apperrors"
	"github.com/gamerverse/backend/internal/domain/enums"
	"github.com/gamerverse/backend/internal/domain/model"
	pgrepo "github.com/gamerverse/backend/internal/repo/postgres"
)

type memoryUsers struct {
	mu     sync.Mutex
	nextID int64
	byID   map[int64]model.User
}

func newMemoryUsers() *memoryUsers {
	return &memoryUsers{byID: map[int64]model.User{}}
}

func (m *memoryUsers) Create(_ context.Context, in pgrepo.NewUser) (model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.byID {
		if strings.EqualFold(u.Email, in.Email) || u.Username == in.Username {
			return model.User{}, fmt.Errorf("user already exists: %w", apperrors.ErrValidation)
		}
	}
	m.nextID++
	roles := in.Roles
	if len(roles) == 0 {
		roles = []enums.Role{enums.RoleUser}
	}
	user := model.User{ID: m.nextID, Username: in.Username, Email: in.Email, PasswordHash: in.PasswordHash, Roles: roles}
	m.byID[user.ID] = user
	return user, nil
}

func (m *memoryUsers) GetByEmail(_ context.Context, email string) (model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.byID {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return model.User{}, apperrors.ErrNotFound
}

type memoryPosts struct {
	byID map[int64]model.Post
}

func (m *memoryPosts) GetByID(_ context.Context, postID int64) (model.Post, error) {
	post, ok := m.byID[postID]
	if !ok {
		return model.Post{}, fmt.Errorf("post %d: %w", postID, apperrors.ErrNotFound)
	}
	return post, nil
}

func (m *memoryPosts) Delete(ctx context.Context, postID int64) (model.Post, error) {
	post, err := m.GetByID(ctx, postID)
	if err != nil {
		return model.Post{}, err
	}
	delete(m.byID, postID)
	return post, nil
}

type memoryReports struct {
	byID map[int64]model.Report
}

func (m *memoryReports) Create(_ context.Context, in pgrepo.NewReport) (model.Report, error) {
	id := int64(len(m.byID) + 1)
	report := model.Report{
		ID:                id,
		ReportedBy:        in.ReportedBy,
		ReportedContentID: in.ContentID,
		ContentType:       in.ContentType,
		Reason:            in.Reason,
		Status:            enums.ReportStatusUnderReview,
	}
	m.byID[id] = report
	return report, nil
}

func (m *memoryReports) Resolve(_ context.Context, reportID int64, action string) (model.Report, error) {
	report, ok := m.byID[reportID]
	if !ok {
		return model.Report{}, apperrors.ErrNotFound
	}
	if report.Status != enums.ReportStatusUnderReview {
		return model.Report{}, apperrors.ErrInvalidState
	}
	report.Status = enums.ReportStatusResolved
	report.ModeratorAction = &action
	m.byID[reportID] = report
	return report, nil
}

func (m *memoryReports) GetByID(_ context.Context, reportID int64) (model.Report, error) {
	report, ok := m.byID[reportID]
	if !ok {
		return model.Report{}, apperrors.ErrNotFound
	}
	return report, nil
}

func (m *memoryReports) ListByStatus(_ context.Context, status enums.ReportStatus) ([]model.Report, error) {
	var out []model.Report
	for _, r := range m.byID {
		if r.Status == status {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memoryReports) CountByStatus(ctx context.Context, status enums.ReportStatus) (int, error) {
	items, _ := m.ListByStatus(ctx, status)
	return len(items), nil
}

type memoryAppeals struct {
	byID map[int64]model.Appeal
}

func (m *memoryAppeals) Create(_ context.Context, in pgrepo.NewAppeal) (model.Appeal, error) {
	id := int64(len(m.byID) + 1)
	appeal := model.Appeal{
		ID:          id,
		UserID:      in.UserID,
		ContentID:   in.ContentID,
		ContentType: in.ContentType,
		Reason:      in.Reason,
		Status:      enums.AppealStatusPending,
	}
	m.byID[id] = appeal
	return appeal, nil
}

func (m *memoryAppeals) Decide(_ context.Context, appealID int64, to enums.AppealStatus, moderatorID int64, resolution string) (model.Appeal, error) {
	appeal, ok := m.byID[appealID]
	if !ok {
		return model.Appeal{}, fmt.Errorf("appeal %d: %w", appealID, apperrors.ErrNotFound)
	}
	if appeal.Status != enums.AppealStatusPending {
		return model.Appeal{}, fmt.Errorf("appeal %d is %s: %w", appealID, appeal.Status, apperrors.ErrInvalidState)
	}
	appeal.Status = to
	appeal.ModeratorID = &moderatorID
	appeal.Resolution = &resolution
	m.byID[appealID] = appeal
	return appeal, nil
}

func (m *memoryAppeals) GetByID(_ context.Context, appealID int64) (model.Appeal, error) {
	appeal, ok := m.byID[appealID]
	if !ok {
		return model.Appeal{}, apperrors.ErrNotFound
	}
	return appeal, nil
}

func (m *memoryAppeals) ListByStatus(_ context.Context, status enums.AppealStatus) ([]model.Appeal, error) {
	var out []model.Appeal
	for _, a := range m.byID {
		if a.Status == status {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *memoryAppeals) CountByStatus(ctx context.Context, status enums.AppealStatus) (int, error) {
	items, _ := m.ListByStatus(ctx, status)
	return len(items), nil
}

type memoryLog struct {
	entries []model.LogEntry
}

func (m *memoryLog) Append(_ context.Context, entry model.LogEntry) (model.LogEntry, error) {
	entry.ID = int64(len(m.entries) + 1)
	m.entries = append(m.entries, entry)
	return entry, nil
}

func (m *memoryLog) ListRecent(_ context.Context, limit int, since time.Time) ([]model.LogEntry, error) {
	var out []model.LogEntry
	for i := len(m.entries) - 1; i >= 0; i-- {
		if !since.IsZero() && m.entries[i].Date.Before(since) {
			continue
		}
		out = append(out, m.entries[i])
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (m *memoryLog) CountSince(_ context.Context, since time.Time) (int, error) {
	n := 0
	for _, e := range m.entries {
		if !e.Date.Before(since) {
			n++
		}
	}
	return n, nil
}
