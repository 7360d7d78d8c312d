package notify

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"github.com/gamerverse/backend/internal/domain/model"
)

const (
	KindPostDeleted    = "post_deleted"
	KindPostFlagged    = "post_flagged"
	KindAppealApproved = "appeal_approved"
	KindAppealRejected = "appeal_rejected"
	KindDailySummary   = "daily_summary"
)

var templates = template.Must(template.New("notify").Funcs(template.FuncMap{
	"deref": func(v any) any {
		switch p := v.(type) {
		case *int64:
			if p == nil {
				return "N/A"
			}
			return *p
		case *string:
			if p == nil {
				return "N/A"
			}
			return *p
		default:
			return v
		}
	},
	"day": func(t time.Time) string { return t.UTC().Format("Mon Jan 02 2006") },
}).Parse(`
{{define "post_deleted"}}<h2>Post Deleted</h2>
<p>Moderator <strong>{{.ModeratorID}}</strong> deleted post with ID <strong>{{.TargetID}}</strong>.</p>{{end}}

{{define "post_flagged"}}<h2>Post Flagged</h2>
<p>Moderator <strong>{{.ModeratorID}}</strong> flagged post <strong>{{.TargetID}}</strong>.</p>
<p><strong>Reason:</strong> {{.Text}}</p>{{end}}

{{define "appeal_approved"}}<h2>Appeal Approved</h2>
<p>Moderator <strong>{{.ModeratorID}}</strong> approved appeal <strong>{{.TargetID}}</strong>.</p>
<p><strong>Resolution:</strong> {{.Text}}</p>{{end}}

{{define "appeal_rejected"}}<h2>Appeal Rejected</h2>
<p>Moderator <strong>{{.ModeratorID}}</strong> rejected appeal <strong>{{.TargetID}}</strong>.</p>
<p><strong>Resolution:</strong> {{.Text}}</p>{{end}}

{{define "daily_summary"}}<h2>Daily Moderation Summary</h2>
<p>{{len .Entries}} action(s) since {{day .Since}}.</p>
{{range .Entries}}<div style="margin-bottom:10px;">
<p><strong>Action:</strong> {{.Action}}</p>
<p><strong>Moderator:</strong> {{.ModeratorID}}</p>
<p><strong>User Affected:</strong> {{deref .UserID}}</p>
<p><strong>Reason:</strong> {{deref .Reason}}</p>
<p><strong>Date:</strong> {{day .Date}}</p>
</div>
{{end}}{{end}}
`))

var subjects = map[string]string{
	KindPostDeleted:    "Post Deleted Notification",
	KindPostFlagged:    "Post Flagged Notification",
	KindAppealApproved: "Appeal Approved Notification",
	KindAppealRejected: "Appeal Rejected Notification",
	KindDailySummary:   "Daily Moderation Summary",
}

type actionData struct {
	ModeratorID int64
	TargetID    int64
	Text        string
}

type summaryData struct {
	Since   time.Time
	Entries []model.LogEntry
}

// ActionMessage renders the notification for a single moderator action.
func ActionMessage(kind string, moderatorID, targetID int64, text string) (Message, error) {
	return render(kind, actionData{ModeratorID: moderatorID, TargetID: targetID, Text: text})
}

func SummaryMessage(since time.Time, entries []model.LogEntry) (Message, error) {
	return render(KindDailySummary, summaryData{Since: since, Entries: entries})
}

func render(kind string, data any) (Message, error) {
	subject, ok := subjects[kind]
	if !ok {
		return Message{}, fmt.Errorf("unknown notification kind %q", kind)
	}

	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, kind, data); err != nil {
		return Message{}, fmt.Errorf("render %s: %w", kind, err)
	}
	return Message{Kind: kind, Subject: subject, HTML: buf.String()}, nil
}
