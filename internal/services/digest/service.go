// Package digest aggregates the recent moderation trail into a summary notification.
package digest

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/gamerverse/backend/internal/domain/enums"
	"github.com/gamerverse/backend/internal/domain/model"
	"github.com/gamerverse/backend/internal/services/audit"
	"github.com/gamerverse/backend/internal/services/notify"
)

const manualTriggerReason = "Manual daily moderation summary triggered."

type AuditLog interface {
	Recent(ctx context.Context, limit int, since *time.Time) ([]model.LogEntry, error)
	Record(ctx context.Context, in audit.Entry) (model.LogEntry, error)
}

type Archiver interface {
	Put(ctx context.Context, key string, body []byte, contentType string) error
}

type Summary struct {
	Since       time.Time
	Entries     int
	Sent        bool
	ArchiveKey  string
	DeliveryErr error
}

type Config struct {
	Window     time.Duration
	MaxEntries int
}

type Service struct {
	audit    AuditLog
	notifier notify.Notifier
	archive  Archiver
	cfg      Config
	log      *zap.Logger
	now      func() time.Time
}

// NewService builds the digest notifier. archive may be nil.
func NewService(auditLog AuditLog, notifier notify.Notifier, archive Archiver, cfg Config, log *zap.Logger) *Service {
	if cfg.Window <= 0 {
		cfg.Window = 24 * time.Hour
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		audit:    auditLog,
		notifier: notifier,
		archive:  archive,
		cfg:      cfg,
		log:      log,
		now:      time.Now,
	}
}

// SendDailySummary notifies moderators about the entries of the last window.
// Nothing is sent when the window is empty. Delivery failures end up in
// Summary.DeliveryErr and are never returned. A non-nil triggeredBy is
// recorded as a manual trigger after the aggregation.
func (s *Service) SendDailySummary(ctx context.Context, triggeredBy *int64) (Summary, error) {
	now := s.now().UTC()
	summary := Summary{Since: now.Add(-s.cfg.Window)}

	entries, err := s.audit.Recent(ctx, s.cfg.MaxEntries, &summary.Since)
	if err != nil {
		return Summary{}, fmt.Errorf("aggregate moderation entries: %w", err)
	}
	summary.Entries = len(entries)

	if len(entries) > 0 {
		summary.ArchiveKey, summary.DeliveryErr = s.deliver(ctx, now, summary.Since, entries)
		summary.Sent = summary.DeliveryErr == nil
		if summary.DeliveryErr != nil {
			s.log.Warn("moderation summary delivery failed",
				zap.Int("entries", len(entries)),
				zap.Error(summary.DeliveryErr),
			)
		}
	}

	if triggeredBy != nil {
		reason := manualTriggerReason
		if _, err := s.audit.Record(ctx, audit.Entry{
			ModeratorID: *triggeredBy,
			Action:      enums.AuditActionManualSummaryTrigger,
			Reason:      &reason,
		}); err != nil {
			s.log.Error("audit append failed after summary",
				zap.Bool("audit_gap", true),
				zap.Int64("moderator_id", *triggeredBy),
				zap.Error(err),
			)
			return summary, fmt.Errorf("record manual summary trigger: %w", err)
		}
	}

	s.log.Info("moderation summary processed",
		zap.Int("entries", summary.Entries),
		zap.Bool("sent", summary.Sent),
		zap.Bool("manual", triggeredBy != nil),
	)
	return summary, nil
}

func (s *Service) deliver(ctx context.Context, now, since time.Time, entries []model.LogEntry) (string, error) {
	msg, err := notify.SummaryMessage(since, entries)
	if err != nil {
		return "", err
	}

	var key string
	if s.archive != nil {
		key = fmt.Sprintf("digests/%s/%d.html", now.Format("2006-01-02"), now.Unix())
		if err := s.archive.Put(ctx, key, []byte(msg.HTML), "text/html; charset=utf-8"); err != nil {
			s.log.Warn("moderation summary archive failed", zap.String("key", key), zap.Error(err))
			key = ""
		}
	}

	if s.notifier == nil {
		return key, fmt.Errorf("notifier is not configured")
	}
	if err := s.notifier.Notify(ctx, msg); err != nil {
		return key, err
	}
	return key, nil
}
