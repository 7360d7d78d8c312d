package enums

type AuditAction string

const (
	AuditActionDeletePost           AuditAction = "delete_post"
	AuditActionFlagPost             AuditAction = "flag_post"
	AuditActionResolveReport        AuditAction = "resolve_report"
	AuditActionApproveAppeal        AuditAction = "approve_appeal"
	AuditActionRejectAppeal         AuditAction = "reject_appeal"
	AuditActionManualSummaryTrigger AuditAction = "manual_summary_trigger"
)
