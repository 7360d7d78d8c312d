package redis

import (
	"context"
	"errors"

	goredis "github.com/redis/go-redis/v9"

	"github.com/gamerverse/backend/internal/domain/apperrors"
)

const (
	OutboxKey     = "notify:outbox"
	ProcessingKey = "notify:processing"
	DeadLetterKey = "notify:dead"
)

// OutboxRepo is a FIFO of encoded notification messages backed by Redis lists.
// Claimed messages sit in the processing list until they are acked, retried or
// buried, so a failed or interrupted dispatch never drops them.
type OutboxRepo struct {
	client *goredis.Client
}

func NewOutboxRepo(client *goredis.Client) *OutboxRepo {
	return &OutboxRepo{client: client}
}

func (r *OutboxRepo) Enqueue(ctx context.Context, payload []byte) error {
	if r.client == nil {
		return errClientNil()
	}
	if err := r.client.RPush(ctx, OutboxKey, payload).Err(); err != nil {
		return apperrors.Storage("enqueue outbox message", err)
	}
	return nil
}

// Claim moves up to n messages from the head of the outbox to the processing list.
func (r *OutboxRepo) Claim(ctx context.Context, n int) ([][]byte, error) {
	if r.client == nil {
		return nil, errClientNil()
	}

	out := make([][]byte, 0, n)
	for len(out) < n {
		v, err := r.client.LMove(ctx, OutboxKey, ProcessingKey, "LEFT", "RIGHT").Result()
		if errors.Is(err, goredis.Nil) {
			break
		}
		if err != nil {
			return out, apperrors.Storage("claim outbox message", err)
		}
		out = append(out, []byte(v))
	}
	return out, nil
}

func (r *OutboxRepo) Ack(ctx context.Context, claimed []byte) error {
	if r.client == nil {
		return errClientNil()
	}
	if err := r.client.LRem(ctx, ProcessingKey, 1, claimed).Err(); err != nil {
		return apperrors.Storage("ack outbox message", err)
	}
	return nil
}

// Retry swaps a claimed message for its updated copy at the tail of the outbox.
func (r *OutboxRepo) Retry(ctx context.Context, claimed, updated []byte) error {
	return r.swap(ctx, "retry outbox message", OutboxKey, claimed, updated)
}

// Bury swaps a claimed message for its updated copy on the dead-letter list.
func (r *OutboxRepo) Bury(ctx context.Context, claimed, updated []byte) error {
	return r.swap(ctx, "dead-letter outbox message", DeadLetterKey, claimed, updated)
}

func (r *OutboxRepo) swap(ctx context.Context, op, target string, claimed, updated []byte) error {
	if r.client == nil {
		return errClientNil()
	}
	_, err := r.client.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.RPush(ctx, target, updated)
		pipe.LRem(ctx, ProcessingKey, 1, claimed)
		return nil
	})
	if err != nil {
		return apperrors.Storage(op, err)
	}
	return nil
}

// Restore returns every message left in the processing list to the head of the
// outbox, keeping their order. It assumes a single dispatcher.
func (r *OutboxRepo) Restore(ctx context.Context) (int, error) {
	if r.client == nil {
		return 0, errClientNil()
	}

	restored := 0
	for {
		err := r.client.LMove(ctx, ProcessingKey, OutboxKey, "RIGHT", "LEFT").Err()
		if errors.Is(err, goredis.Nil) {
			return restored, nil
		}
		if err != nil {
			return restored, apperrors.Storage("restore outbox messages", err)
		}
		restored++
	}
}

func (r *OutboxRepo) Pending(ctx context.Context) (int64, error) {
	return r.length(ctx, "outbox length", OutboxKey)
}

func (r *OutboxRepo) InFlight(ctx context.Context) (int64, error) {
	return r.length(ctx, "processing length", ProcessingKey)
}

func (r *OutboxRepo) Dead(ctx context.Context) (int64, error) {
	return r.length(ctx, "dead-letter length", DeadLetterKey)
}

func (r *OutboxRepo) length(ctx context.Context, op, key string) (int64, error) {
	if r.client == nil {
		return 0, errClientNil()
	}
	n, err := r.client.LLen(ctx, key).Result()
	if err != nil {
		return 0, apperrors.Storage(op, err)
	}
	return n, nil
}
