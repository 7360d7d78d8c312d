package rate

import (
	"context"
	"fmt"
	"strings"
	"time"
)

type WindowStore interface {
	IncrementWindow(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error)
	WindowState(ctx context.Context, key string) (int64, time.Duration, error)
}

// Limiter allows at most max actions per subject in a fixed window.
type Limiter struct {
	store  WindowStore
	scope  string
	max    int
	window time.Duration
}

func NewLimiter(store WindowStore, scope string, max int, window time.Duration) *Limiter {
	if max < 0 {
		max = 0
	}

	return &Limiter{
		store:  store,
		scope:  scope,
		max:    max,
		window: window,
	}
}

// Allow records one attempt and reports whether it fits in the window.
// When it does not, the first value is the number of seconds until the window resets.
func (l *Limiter) Allow(ctx context.Context, subject string) (int64, bool, error) {
	if err := l.check(subject); err != nil {
		return 0, false, err
	}
	if l.max == 0 || l.window <= 0 {
		return 0, true, nil
	}

	count, ttl, err := l.store.IncrementWindow(ctx, l.key(subject), l.window)
	if err != nil {
		return 0, false, err
	}
	if count > int64(l.max) {
		return ceilSeconds(ttl), false, nil
	}
	return 0, true, nil
}

func (l *Limiter) RetryAfter(ctx context.Context, subject string) (int64, error) {
	if err := l.check(subject); err != nil {
		return 0, err
	}
	if l.max == 0 || l.window <= 0 {
		return 0, nil
	}

	count, ttl, err := l.store.WindowState(ctx, l.key(subject))
	if err != nil {
		return 0, err
	}
	if count >= int64(l.max) {
		return ceilSeconds(ttl), nil
	}
	return 0, nil
}

func (l *Limiter) check(subject string) error {
	if strings.TrimSpace(subject) == "" {
		return fmt.Errorf("rate subject is required")
	}
	if l.store == nil {
		return fmt.Errorf("rate limiter store is nil")
	}
	return nil
}

func (l *Limiter) key(subject string) string {
	return "rate:" + l.scope + ":" + strings.ToLower(strings.TrimSpace(subject))
}

func ceilSeconds(d time.Duration) int64 {
	if d <= 0 {
		return 0
	}
	sec := int64(d / time.Second)
	if d%time.Second != 0 {
		sec++
	}
	if sec <= 0 {
		sec = 1
	}
	return sec
}
