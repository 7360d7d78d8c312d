package digest

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	digestsvc "github.com/gamerverse/backend/internal/services/digest"
)

type Sender interface {
	SendDailySummary(ctx context.Context, triggeredBy *int64) (digestsvc.Summary, error)
}

// Job is the scheduled path of the daily summary. It never passes a trigger,
// so scheduled runs leave no manual_summary_trigger entry. Runs are aligned to
// multiples of the interval (UTC midnight for 24h), so a restart neither repeats
// nor skips a cycle.
type Job struct {
	sender   Sender
	interval time.Duration
	logger   *zap.Logger
}

func New(sender Sender, interval time.Duration, logger *zap.Logger) *Job {
	if interval <= 0 {
		interval = 24 * time.Hour
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Job{sender: sender, interval: interval, logger: logger}
}

func (j *Job) Interval() time.Duration {
	return j.interval
}

func (j *Job) FirstDelay(now time.Time) time.Duration {
	next := now.UTC().Truncate(j.interval).Add(j.interval)
	return next.Sub(now)
}

func (j *Job) Run(ctx context.Context) error {
	if j.sender == nil {
		return nil
	}

	summary, err := j.sender.SendDailySummary(ctx, nil)
	if err != nil {
		return fmt.Errorf("scheduled daily summary: %w", err)
	}

	j.logger.Info("scheduled daily summary completed",
		zap.Int("entries", summary.Entries),
		zap.Bool("sent", summary.Sent),
		zap.String("archive_key", summary.ArchiveKey),
	)
	return nil
}
