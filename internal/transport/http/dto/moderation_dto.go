package dto

import "github.com/gamerverse/backend/internal/domain/model"

type FlagRequest struct {
	Reason string `json:"reason"`
}

type ResolveReportRequest struct {
	ModeratorAction string `json:"moderator_action"`
}

type DecideAppealRequest struct {
	Resolution string `json:"resolution"`
}

type AuditLogResponse struct {
	Items []model.LogEntry `json:"items"`
}

type AppealsResponse struct {
	Items []model.Appeal `json:"items"`
}

type ReportsResponse struct {
	Items []model.Report `json:"items"`
}
