package enums

type ReportStatus string

const (
	ReportStatusUnderReview ReportStatus = "under_review"
	ReportStatusResolved    ReportStatus = "resolved"
)

type AppealStatus string

const (
	AppealStatusPending  AppealStatus = "pending"
	AppealStatusApproved AppealStatus = "approved"
	AppealStatusRejected AppealStatus = "rejected"
)

func (s AppealStatus) Terminal() bool {
	return s == AppealStatusApproved || s == AppealStatusRejected
}
