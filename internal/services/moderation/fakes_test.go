package moderation

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/gamerverse/backend/internal/domain/apperrors"
	"github.com/gamerverse/backend/internal/domain/enums"
	"github.com/gamerverse/backend/internal/domain/model"
	pgrepo "github.com/gamerverse/backend/internal/repo/postgres"
	"github.com/gamerverse/backend/internal/services/notify"
)

type memoryPosts struct {
	mu    sync.Mutex
	items map[int64]model.Post
}

func (m *memoryPosts) GetByID(_ context.Context, id int64) (model.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.items[id]
	if !ok {
		return model.Post{}, fmt.Errorf("post %d: %w", id, apperrors.ErrNotFound)
	}
	return p, nil
}

func (m *memoryPosts) Delete(_ context.Context, id int64) (model.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.items[id]
	if !ok {
		return model.Post{}, fmt.Errorf("post %d: %w", id, apperrors.ErrNotFound)
	}
	delete(m.items, id)
	return p, nil
}

type memoryReports struct {
	mu    sync.Mutex
	items []model.Report
}

func (m *memoryReports) Create(_ context.Context, in pgrepo.NewReport) (model.Report, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r := model.Report{
		ID:                int64(len(m.items) + 1),
		ReportedBy:        in.ReportedBy,
		ReportedContentID: in.ContentID,
		ContentType:       in.ContentType,
		Reason:            in.Reason,
		Status:            enums.ReportStatusUnderReview,
	}
	m.items = append(m.items, r)
	return r, nil
}

func (m *memoryReports) Resolve(_ context.Context, id int64, action string) (model.Report, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.items {
		if m.items[i].ID != id {
			continue
		}
		if m.items[i].Status != enums.ReportStatusUnderReview {
			return model.Report{}, fmt.Errorf("report %d: %w", id, apperrors.ErrInvalidState)
		}
		m.items[i].Status = enums.ReportStatusResolved
		m.items[i].ModeratorAction = &action
		return m.items[i], nil
	}
	return model.Report{}, fmt.Errorf("report %d: %w", id, apperrors.ErrNotFound)
}

func (m *memoryReports) GetByID(_ context.Context, id int64) (model.Report, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.items {
		if r.ID == id {
			return r, nil
		}
	}
	return model.Report{}, apperrors.ErrNotFound
}

func (m *memoryReports) ListByStatus(_ context.Context, status enums.ReportStatus) ([]model.Report, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.Report, 0)
	for _, r := range m.items {
		if r.Status == status {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memoryReports) CountByStatus(ctx context.Context, status enums.ReportStatus) (int, error) {
	items, err := m.ListByStatus(ctx, status)
	return len(items), err
}

type memoryAppeals struct {
	mu    sync.Mutex
	items []model.Appeal
}

func (m *memoryAppeals) Create(_ context.Context, in pgrepo.NewAppeal) (model.Appeal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a := model.Appeal{
		ID:          int64(len(m.items) + 1),
		UserID:      in.UserID,
		ContentID:   in.ContentID,
		ContentType: in.ContentType,
		Reason:      in.Reason,
		Status:      enums.AppealStatusPending,
	}
	m.items = append(m.items, a)
	return a, nil
}

// Decide mirrors the conditional update: only a pending row transitions.
func (m *memoryAppeals) Decide(_ context.Context, id int64, to enums.AppealStatus, moderatorID int64, resolution string) (model.Appeal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.items {
		if m.items[i].ID != id {
			continue
		}
		if m.items[i].Status != enums.AppealStatusPending {
			return model.Appeal{}, fmt.Errorf("appeal %d: %w", id, apperrors.ErrInvalidState)
		}
		m.items[i].Status = to
		m.items[i].ModeratorID = &moderatorID
		m.items[i].Resolution = &resolution
		return m.items[i], nil
	}
	return model.Appeal{}, fmt.Errorf("appeal %d: %w", id, apperrors.ErrNotFound)
}

func (m *memoryAppeals) GetByID(_ context.Context, id int64) (model.Appeal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.items {
		if a.ID == id {
			return a, nil
		}
	}
	return model.Appeal{}, apperrors.ErrNotFound
}

func (m *memoryAppeals) ListByStatus(_ context.Context, status enums.AppealStatus) ([]model.Appeal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.Appeal, 0)
	for _, a := range m.items {
		if a.Status == status {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *memoryAppeals) CountByStatus(ctx context.Context, status enums.AppealStatus) (int, error) {
	items, err := m.ListByStatus(ctx, status)
	return len(items), err
}

type memoryLog struct {
	mu      sync.Mutex
	entries []model.LogEntry
	failAll bool
}

func (m *memoryLog) Append(_ context.Context, entry model.LogEntry) (model.LogEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failAll {
		return model.LogEntry{}, apperrors.Storage("insert moderation log", errors.New("connection reset"))
	}
	entry.ID = int64(len(m.entries) + 1)
	m.entries = append(m.entries, entry)
	return entry, nil
}

func (m *memoryLog) ListRecent(_ context.Context, limit int, since time.Time) ([]model.LogEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.LogEntry, 0)
	for _, e := range m.entries {
		if since.IsZero() || !e.Date.Before(since) {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Date.Equal(out[j].Date) {
			return out[i].ID > out[j].ID
		}
		return out[i].Date.After(out[j].Date)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memoryLog) CountSince(ctx context.Context, since time.Time) (int, error) {
	items, err := m.ListRecent(ctx, 0, since)
	return len(items), err
}

func (m *memoryLog) count(action enums.AuditAction) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, e := range m.entries {
		if e.Action == action {
			n++
		}
	}
	return n
}

func (m *memoryLog) len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

type recordingNotifier struct {
	mu   sync.Mutex
	msgs []notify.Message
	err  error
}

func (r *recordingNotifier) Notify(_ context.Context, msg notify.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.msgs = append(r.msgs, msg)
	return nil
}

func (r *recordingNotifier) kinds() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.msgs))
	for _, m := range r.msgs {
		out = append(out, m.Kind)
	}
	return out
}
