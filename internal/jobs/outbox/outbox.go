package outbox

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/gamerverse/backend/internal/services/notify"
)

type Dispatcher interface {
	DispatchOnce(ctx context.Context) (notify.DispatchResult, error)
}

// Job drains the notification outbox on every tick.
type Job struct {
	dispatcher Dispatcher
	interval   time.Duration
	logger     *zap.Logger
}

func New(dispatcher Dispatcher, interval time.Duration, logger *zap.Logger) *Job {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Job{dispatcher: dispatcher, interval: interval, logger: logger}
}

func (j *Job) Interval() time.Duration {
	return j.interval
}

// FirstDelay is zero: pending notifications are drained as soon as the worker starts.
func (j *Job) FirstDelay(time.Time) time.Duration {
	return 0
}

func (j *Job) Run(ctx context.Context) error {
	if j.dispatcher == nil {
		return nil
	}

	res, err := j.dispatcher.DispatchOnce(ctx)
	if err != nil {
		return fmt.Errorf("dispatch outbox: %w", err)
	}
	if res.Sent+res.Retried+res.Dead > 0 {
		j.logger.Info("outbox dispatch completed",
			zap.Int("sent", res.Sent),
			zap.Int("retried", res.Retried),
			zap.Int("dead", res.Dead),
		)
	}
	return nil
}
