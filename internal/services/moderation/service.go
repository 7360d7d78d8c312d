// Package moderation composes the role gate, the content and review stores,
// the audit trail and notifications into the operations moderators call.
package moderation

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/gamerverse/backend/internal/domain/apperrors"
	"github.com/gamerverse/backend/internal/domain/enums"
	"github.com/gamerverse/backend/internal/domain/model"
	"github.com/gamerverse/backend/internal/services/access"
	"github.com/gamerverse/backend/internal/services/appeals"
	"github.com/gamerverse/backend/internal/services/audit"
	"github.com/gamerverse/backend/internal/services/digest"
	"github.com/gamerverse/backend/internal/services/notify"
	"github.com/gamerverse/backend/internal/services/reports"
)

const (
	MsgPostDeleted     = "Post deleted, logged, and moderators notified."
	MsgPostFlagged     = "Post flagged, logged, and moderators notified."
	MsgReportResolved  = "Report resolved and logged."
	MsgAppealApproved  = "Appeal approved, logged, and moderators notified."
	MsgAppealRejected  = "Appeal rejected, logged, and moderators notified."
	MsgSummarySent     = "Moderation summary sent successfully."
	MsgSummarySkipped  = "No moderation activity in the last 24 hours; summary skipped."
	MsgSummaryDeferred = "Moderation summary could not be queued for delivery; the trigger was logged."

	deleteReason    = "Post removed by admin/moderator"
	defaultPageSize = 20
	statsWindow     = 24 * time.Hour
)

type PostStore interface {
	GetByID(ctx context.Context, postID int64) (model.Post, error)
	Delete(ctx context.Context, postID int64) (model.Post, error)
}

type DigestSender interface {
	SendDailySummary(ctx context.Context, triggeredBy *int64) (digest.Summary, error)
}

type Config struct {
	LogPageSize int
}

type Service struct {
	posts    PostStore
	reports  *reports.Service
	appeals  *appeals.Service
	audit    *audit.Service
	digest   DigestSender
	notifier notify.Notifier
	cfg      Config
	log      *zap.Logger
	now      func() time.Time
}

func NewService(
	posts PostStore,
	reportService *reports.Service,
	appealService *appeals.Service,
	auditService *audit.Service,
	digestSender DigestSender,
	notifier notify.Notifier,
	cfg Config,
	log *zap.Logger,
) *Service {
	if cfg.LogPageSize <= 0 {
		cfg.LogPageSize = defaultPageSize
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		posts:    posts,
		reports:  reportService,
		appeals:  appealService,
		audit:    auditService,
		digest:   digestSender,
		notifier: notifier,
		cfg:      cfg,
		log:      log,
		now:      time.Now,
	}
}

func (s *Service) DeleteContent(ctx context.Context, caller *access.Caller, postID int64) (string, error) {
	if err := access.CheckRole(caller, access.ModeratorRoles()...); err != nil {
		return "", err
	}
	if postID <= 0 {
		return "", fmt.Errorf("post id is required: %w", apperrors.ErrValidation)
	}

	post, err := s.posts.Delete(ctx, postID)
	if err != nil {
		return "", fmt.Errorf("delete post %d: %w", postID, err)
	}

	if err := s.record(ctx, caller, enums.AuditActionDeletePost, audit.Int64Ptr(post.UserID), deleteReason); err != nil {
		return "", err
	}
	s.notify(ctx, notify.KindPostDeleted, caller.UserID, postID, "")
	return MsgPostDeleted, nil
}

func (s *Service) FlagContent(ctx context.Context, caller *access.Caller, postID int64, reason string) (string, error) {
	if err := access.CheckRole(caller, access.ModeratorRoles()...); err != nil {
		return "", err
	}
	in := reports.FileInput{
		ReportedBy:  caller.UserID,
		ContentID:   postID,
		ContentType: enums.ContentTypePost,
		Reason:      reason,
	}
	if err := reports.ValidateFile(in); err != nil {
		return "", err
	}
	if _, err := s.posts.GetByID(ctx, postID); err != nil {
		return "", fmt.Errorf("flag post %d: %w", postID, err)
	}

	if _, err := s.reports.File(ctx, in); err != nil {
		return "", fmt.Errorf("file report for post %d: %w", postID, err)
	}

	reason = strings.TrimSpace(reason)
	if err := s.record(ctx, caller, enums.AuditActionFlagPost, nil, reason); err != nil {
		return "", err
	}
	s.notify(ctx, notify.KindPostFlagged, caller.UserID, postID, reason)
	return MsgPostFlagged, nil
}

func (s *Service) ResolveReport(ctx context.Context, caller *access.Caller, reportID int64, moderatorAction string) (string, error) {
	if err := access.CheckRole(caller, access.ModeratorRoles()...); err != nil {
		return "", err
	}
	moderatorAction = strings.TrimSpace(moderatorAction)
	if moderatorAction == "" {
		return "", fmt.Errorf("moderator action is required: %w", apperrors.ErrValidation)
	}

	if _, err := s.reports.Resolve(ctx, reportID, moderatorAction); err != nil {
		return "", fmt.Errorf("resolve report %d: %w", reportID, err)
	}

	if err := s.record(ctx, caller, enums.AuditActionResolveReport, nil, moderatorAction); err != nil {
		return "", err
	}
	return MsgReportResolved, nil
}

func (s *Service) ApproveAppeal(ctx context.Context, caller *access.Caller, appealID int64, resolution string) (string, error) {
	if err := access.CheckRole(caller, access.AdminRoles()...); err != nil {
		return "", err
	}

	appeal, err := s.appeals.Approve(ctx, appealID, caller.UserID, resolution)
	if err != nil {
		return "", fmt.Errorf("approve appeal %d: %w", appealID, err)
	}

	resolution = strings.TrimSpace(resolution)
	if err := s.record(ctx, caller, enums.AuditActionApproveAppeal, audit.Int64Ptr(appeal.UserID), resolution); err != nil {
		return "", err
	}
	s.notify(ctx, notify.KindAppealApproved, caller.UserID, appealID, resolution)
	return MsgAppealApproved, nil
}

func (s *Service) RejectAppeal(ctx context.Context, caller *access.Caller, appealID int64, resolution string) (string, error) {
	if err := access.CheckRole(caller, access.AdminRoles()...); err != nil {
		return "", err
	}

	appeal, err := s.appeals.Reject(ctx, appealID, caller.UserID, resolution)
	if err != nil {
		return "", fmt.Errorf("reject appeal %d: %w", appealID, err)
	}

	resolution = strings.TrimSpace(resolution)
	if err := s.record(ctx, caller, enums.AuditActionRejectAppeal, audit.Int64Ptr(appeal.UserID), resolution); err != nil {
		return "", err
	}
	s.notify(ctx, notify.KindAppealRejected, caller.UserID, appealID, resolution)
	return MsgAppealRejected, nil
}

func (s *Service) TriggerDigest(ctx context.Context, caller *access.Caller) (string, error) {
	if err := access.CheckRole(caller, access.AdminRoles()...); err != nil {
		return "", err
	}

	triggeredBy := caller.UserID
	summary, err := s.digest.SendDailySummary(ctx, &triggeredBy)
	if err != nil {
		return "", fmt.Errorf("send daily summary: %w", err)
	}

	switch {
	case summary.Entries == 0:
		return MsgSummarySkipped, nil
	case summary.DeliveryErr != nil:
		return MsgSummaryDeferred, nil
	default:
		return MsgSummarySent, nil
	}
}

func (s *Service) ListAuditLog(ctx context.Context, caller *access.Caller) ([]model.LogEntry, error) {
	if err := access.CheckRole(caller, access.ModeratorRoles()...); err != nil {
		return nil, err
	}
	return s.audit.Recent(ctx, s.cfg.LogPageSize, nil)
}

func (s *Service) ListPendingAppeals(ctx context.Context, caller *access.Caller) ([]model.Appeal, error) {
	if err := access.CheckRole(caller, access.ModeratorRoles()...); err != nil {
		return nil, err
	}
	return s.appeals.ListPending(ctx)
}

func (s *Service) ListOpenReports(ctx context.Context, caller *access.Caller) ([]model.Report, error) {
	if err := access.CheckRole(caller, access.ModeratorRoles()...); err != nil {
		return nil, err
	}
	return s.reports.ListUnderReview(ctx)
}

func (s *Service) GetDailyStats(ctx context.Context, caller *access.Caller) (model.DailyStats, error) {
	if err := access.CheckRole(caller, access.ModeratorRoles()...); err != nil {
		return model.DailyStats{}, err
	}

	logs, err := s.audit.CountSince(ctx, s.now().UTC().Add(-statsWindow))
	if err != nil {
		return model.DailyStats{}, err
	}
	pending, err := s.appeals.CountPending(ctx)
	if err != nil {
		return model.DailyStats{}, err
	}
	open, err := s.reports.CountUnderReview(ctx)
	if err != nil {
		return model.DailyStats{}, err
	}

	return model.DailyStats{CountLogs: logs, CountAppeals: pending, CountReports: open}, nil
}

// record appends the audit entry for a mutation that has already committed.
// A failure here leaves a change without a trace, so it is logged as an audit gap.
func (s *Service) record(ctx context.Context, caller *access.Caller, action enums.AuditAction, affected *int64, reason string) error {
	_, err := s.audit.Record(ctx, audit.Entry{
		ModeratorID: caller.UserID,
		Action:      action,
		UserID:      affected,
		Reason:      audit.StringPtr(reason),
	})
	if err == nil {
		return nil
	}

	s.log.Error("audit append failed after mutation",
		zap.Bool("audit_gap", true),
		zap.String("action", string(action)),
		zap.Int64("moderator_id", caller.UserID),
		zap.Error(err),
	)
	return fmt.Errorf("record %s: %w", action, err)
}

func (s *Service) notify(ctx context.Context, kind string, moderatorID, targetID int64, text string) {
	if s.notifier == nil {
		return
	}
	msg, err := notify.ActionMessage(kind, moderatorID, targetID, text)
	if err == nil {
		err = s.notifier.Notify(ctx, msg)
	}
	if err != nil {
		s.log.Warn("moderation notification failed",
			zap.String("kind", kind),
			zap.Int64("target_id", targetID),
			zap.Error(err),
		)
	}
}
