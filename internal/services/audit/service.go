// Package audit writes and reads the append-only moderation trail.
package audit

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gamerverse/backend/internal/domain/apperrors"
	"github.com/gamerverse/backend/internal/domain/enums"
	"github.com/gamerverse/backend/internal/domain/model"
)

type Store interface {
	Append(ctx context.Context, entry model.LogEntry) (model.LogEntry, error)
	ListRecent(ctx context.Context, limit int, since time.Time) ([]model.LogEntry, error)
	CountSince(ctx context.Context, since time.Time) (int, error)
}

type Entry struct {
	ModeratorID int64
	Action      enums.AuditAction
	UserID      *int64
	Reason      *string
}

type Service struct {
	store Store
	now   func() time.Time
}

func NewService(store Store) *Service {
	return &Service{store: store, now: time.Now}
}

// Record appends one entry stamped with the server clock.
func (s *Service) Record(ctx context.Context, in Entry) (model.LogEntry, error) {
	if in.ModeratorID <= 0 {
		return model.LogEntry{}, fmt.Errorf("moderator id is required: %w", apperrors.ErrValidation)
	}
	if strings.TrimSpace(string(in.Action)) == "" {
		return model.LogEntry{}, fmt.Errorf("audit action is required: %w", apperrors.ErrValidation)
	}
	if s.store == nil {
		return model.LogEntry{}, fmt.Errorf("audit store is not configured")
	}

	entry, err := s.store.Append(ctx, model.LogEntry{
		ModeratorID: in.ModeratorID,
		Action:      in.Action,
		UserID:      in.UserID,
		Reason:      in.Reason,
		Date:        s.now().UTC(),
	})
	if err != nil {
		return model.LogEntry{}, fmt.Errorf("append audit entry %s: %w", in.Action, err)
	}
	return entry, nil
}

// Recent returns entries newest first. limit <= 0 returns every match.
func (s *Service) Recent(ctx context.Context, limit int, since *time.Time) ([]model.LogEntry, error) {
	var from time.Time
	if since != nil {
		from = since.UTC()
	}
	entries, err := s.store.ListRecent(ctx, limit, from)
	if err != nil {
		return nil, fmt.Errorf("list audit entries: %w", err)
	}
	return entries, nil
}

func (s *Service) CountSince(ctx context.Context, since time.Time) (int, error) {
	n, err := s.store.CountSince(ctx, since.UTC())
	if err != nil {
		return 0, fmt.Errorf("count audit entries: %w", err)
	}
	return n, nil
}

// StringPtr returns nil for blank input.
func StringPtr(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func Int64Ptr(v int64) *int64 {
	if v <= 0 {
		return nil
	}
	return &v
}
