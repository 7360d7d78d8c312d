package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/gamerverse/backend/internal/infra/mailer"
)

// DispatchQueue hands out claimed messages that stay recoverable until they are
// acked, retried or buried.
type DispatchQueue interface {
	Claim(ctx context.Context, n int) ([][]byte, error)
	Ack(ctx context.Context, claimed []byte) error
	Retry(ctx context.Context, claimed, updated []byte) error
	Bury(ctx context.Context, claimed, updated []byte) error
	Restore(ctx context.Context) (int, error)
}

type DispatchResult struct {
	Sent    int
	Retried int
	Dead    int
}

// Dispatcher drains the outbox through a mail sender. Failed messages go back
// to the tail of the queue until maxAttempts, then to the dead-letter list.
// Only one dispatcher may run against a queue: each pass first restores
// messages an earlier pass claimed but did not settle.
type Dispatcher struct {
	queue       DispatchQueue
	sender      mailer.Sender
	batchSize   int
	maxAttempts int
	log         *zap.Logger
}

func NewDispatcher(queue DispatchQueue, sender mailer.Sender, batchSize, maxAttempts int, log *zap.Logger) *Dispatcher {
	if batchSize <= 0 {
		batchSize = 50
	}
	if maxAttempts <= 0 {
		maxAttempts = 5
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Dispatcher{
		queue:       queue,
		sender:      sender,
		batchSize:   batchSize,
		maxAttempts: maxAttempts,
		log:         log,
	}
}

func (d *Dispatcher) DispatchOnce(ctx context.Context) (DispatchResult, error) {
	var result DispatchResult

	restored, err := d.queue.Restore(ctx)
	if err != nil {
		return result, fmt.Errorf("restore claimed messages: %w", err)
	}
	if restored > 0 {
		d.log.Warn("restored unsettled outbox messages", zap.Int("count", restored))
	}

	batch, err := d.queue.Claim(ctx, d.batchSize)
	if err != nil {
		return result, fmt.Errorf("claim outbox batch: %w", err)
	}

	// On any queue error the rest of the batch stays claimed and is restored
	// on the next pass.
	for _, payload := range batch {
		var msg Message
		if err := json.Unmarshal(payload, &msg); err != nil {
			d.log.Error("outbox message undecodable", zap.Error(err))
			if buryErr := d.queue.Bury(ctx, payload, payload); buryErr != nil {
				return result, fmt.Errorf("dead-letter undecodable message: %w", buryErr)
			}
			result.Dead++
			continue
		}

		sendErr := d.sender.Send(ctx, mailer.Email{To: msg.To, Subject: msg.Subject, HTML: msg.HTML})
		if sendErr == nil {
			if err := d.queue.Ack(ctx, payload); err != nil {
				return result, fmt.Errorf("ack message %s: %w", msg.ID, err)
			}
			result.Sent++
			continue
		}

		msg.Attempts++
		msg.LastError = sendErr.Error()
		encoded, err := json.Marshal(msg)
		if err != nil {
			return result, fmt.Errorf("encode failed message: %w", err)
		}

		if msg.Attempts >= d.maxAttempts {
			d.log.Error("notification dead-lettered",
				zap.String("message_id", msg.ID),
				zap.String("kind", msg.Kind),
				zap.Int("attempts", msg.Attempts),
				zap.Error(sendErr),
			)
			if err := d.queue.Bury(ctx, payload, encoded); err != nil {
				return result, fmt.Errorf("dead-letter message %s: %w", msg.ID, err)
			}
			result.Dead++
			continue
		}

		d.log.Warn("notification delivery failed",
			zap.String("message_id", msg.ID),
			zap.String("kind", msg.Kind),
			zap.Int("attempts", msg.Attempts),
			zap.Error(sendErr),
		)
		if err := d.queue.Retry(ctx, payload, encoded); err != nil {
			return result, fmt.Errorf("requeue message %s: %w", msg.ID, err)
		}
		result.Retried++
	}

	return result, nil
}
