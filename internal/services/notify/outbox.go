package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Queue interface {
	Enqueue(ctx context.Context, payload []byte) error
}

// Outbox queues messages for the dispatcher instead of sending them inline.
type Outbox struct {
	queue     Queue
	defaultTo string
	now       func() time.Time
}

func NewOutbox(queue Queue, defaultTo string) *Outbox {
	return &Outbox{queue: queue, defaultTo: strings.TrimSpace(defaultTo), now: time.Now}
}

func (o *Outbox) Notify(ctx context.Context, msg Message) error {
	if o.queue == nil {
		return fmt.Errorf("outbox queue is not configured")
	}
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	if strings.TrimSpace(msg.To) == "" {
		msg.To = o.defaultTo
	}
	if msg.To == "" {
		return fmt.Errorf("notification %s has no recipient", msg.ID)
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = o.now().UTC()
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encode notification: %w", err)
	}
	if err := o.queue.Enqueue(ctx, payload); err != nil {
		return fmt.Errorf("enqueue notification %s: %w", msg.Kind, err)
	}
	return nil
}
