package outbox

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/gamerverse/backend/internal/services/notify"
)

type stubDispatcher struct {
	res notify.DispatchResult
	err error
}

func (s stubDispatcher) DispatchOnce(context.Context) (notify.DispatchResult, error) {
	return s.res, s.err
}

func TestRunLogsOnlyWhenWorkWasDone(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)

	if err := New(stubDispatcher{}, 0, zap.New(core)).Run(context.Background()); err != nil {
		t.Fatalf("run idle: %v", err)
	}
	if logs.Len() != 0 {
		t.Fatalf("idle run must not log, got %d entries", logs.Len())
	}

	if err := New(stubDispatcher{res: notify.DispatchResult{Sent: 2}}, 0, zap.New(core)).Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if logs.FilterMessage("outbox dispatch completed").Len() != 1 {
		t.Fatalf("expected completion log")
	}
}

func TestRunWrapsError(t *testing.T) {
	if err := New(stubDispatcher{err: errors.New("redis down")}, 0, nil).Run(context.Background()); err == nil {
		t.Fatalf("expected error")
	}
}

func TestOutboxJobStartsImmediately(t *testing.T) {
	if d := New(stubDispatcher{}, 0, nil).FirstDelay(time.Now()); d != 0 {
		t.Fatalf("unexpected first delay: %s", d)
	}
}
