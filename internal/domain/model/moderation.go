package model

import (
	"time"

	"github.com/gamerverse/backend/internal/domain/enums"
)

type Report struct {
	ID                int64              `json:"id"`
	ReportedBy        int64              `json:"reported_by"`
	ReportedContentID int64              `json:"reported_content_id"`
	ContentType       enums.ContentType  `json:"content_type"`
	Reason            string             `json:"reason"`
	Status            enums.ReportStatus `json:"status"`
	ModeratorAction   *string            `json:"moderator_action,omitempty"`
	CreatedAt         time.Time          `json:"created_at"`
	UpdatedAt         time.Time          `json:"updated_at"`
}

type Appeal struct {
	ID          int64              `json:"id"`
	UserID      int64              `json:"user_id"`
	ContentID   int64              `json:"content_id"`
	ContentType enums.ContentType  `json:"content_type"`
	Reason      string             `json:"reason"`
	Status      enums.AppealStatus `json:"status"`
	ModeratorID *int64             `json:"moderator_id,omitempty"`
	Resolution  *string            `json:"resolution,omitempty"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

// LogEntry is one row of the moderation audit trail. Rows are written once and never changed.
type LogEntry struct {
	ID          int64             `json:"id"`
	ModeratorID int64             `json:"moderator_id"`
	Action      enums.AuditAction `json:"action"`
	UserID      *int64            `json:"user_id,omitempty"`
	Reason      *string           `json:"reason,omitempty"`
	Date        time.Time         `json:"date"`
}

type DailyStats struct {
	CountLogs    int `json:"countLogs"`
	CountAppeals int `json:"countAppeals"`
	CountReports int `json:"countReports"`
}
