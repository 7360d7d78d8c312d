package rate

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"

	redrepo "github.com/gamerverse/backend/internal/repo/redis"
)

func TestLimiterBlocksAfterMax(t *testing.T) {
	mr, client := newMiniRedisClient(t)
	defer mr.Close()
	defer func() { _ = client.Close() }()

	limiter := NewLimiter(redrepo.NewRateRepo(client), "login", 2, 10*time.Second)

	ctx := context.Background()
	subject := "alice@example.com"

	for i := 0; i < 2; i++ {
		retryAfter, allowed, err := limiter.Allow(ctx, subject)
		if err != nil {
			t.Fatalf("allow #%d: %v", i+1, err)
		}
		if !allowed || retryAfter != 0 {
			t.Fatalf("unexpected result on allow #%d: allowed=%v retry_after=%d", i+1, allowed, retryAfter)
		}
	}

	retryAfter, allowed, err := limiter.Allow(ctx, subject)
	if err != nil {
		t.Fatalf("allow #3: %v", err)
	}
	if allowed {
		t.Fatalf("expected limiter block on third attempt in window")
	}
	if retryAfter <= 0 {
		t.Fatalf("expected positive retry_after, got %d", retryAfter)
	}

	currentRetry, err := limiter.RetryAfter(ctx, subject)
	if err != nil {
		t.Fatalf("retry_after state: %v", err)
	}
	if currentRetry <= 0 {
		t.Fatalf("expected positive retry_after state, got %d", currentRetry)
	}

	mr.FastForward(11 * time.Second)

	retryAfter, allowed, err = limiter.Allow(ctx, subject)
	if err != nil {
		t.Fatalf("allow after window: %v", err)
	}
	if !allowed || retryAfter != 0 {
		t.Fatalf("unexpected result after fast forward: allowed=%v retry_after=%d", allowed, retryAfter)
	}
}

func TestLimiterScopesAreIndependent(t *testing.T) {
	mr, client := newMiniRedisClient(t)
	defer mr.Close()
	defer func() { _ = client.Close() }()

	repo := redrepo.NewRateRepo(client)
	login := NewLimiter(repo, "login", 1, time.Minute)
	report := NewLimiter(repo, "report", 1, time.Minute)

	ctx := context.Background()
	if _, allowed, err := login.Allow(ctx, "42"); err != nil || !allowed {
		t.Fatalf("login allow: allowed=%v err=%v", allowed, err)
	}
	if _, allowed, err := report.Allow(ctx, "42"); err != nil || !allowed {
		t.Fatalf("report allow: allowed=%v err=%v", allowed, err)
	}
	if _, allowed, _ := login.Allow(ctx, "42"); allowed {
		t.Fatalf("expected second login attempt to be blocked")
	}
}

func TestLimiterZeroMaxDisables(t *testing.T) {
	mr, client := newMiniRedisClient(t)
	defer mr.Close()
	defer func() { _ = client.Close() }()

	limiter := NewLimiter(redrepo.NewRateRepo(client), "login", 0, time.Minute)
	for i := 0; i < 5; i++ {
		if _, allowed, err := limiter.Allow(context.Background(), "x"); err != nil || !allowed {
			t.Fatalf("allow #%d: allowed=%v err=%v", i+1, allowed, err)
		}
	}
}

func newMiniRedisClient(t *testing.T) (*miniredis.Miniredis, *goredis.Client) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}

	client := goredis.NewClient(&goredis.Options{
		Addr: mr.Addr(),
	})

	return mr, client
}
