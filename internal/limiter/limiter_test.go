package limiter

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func setupTestLimiter(t *testing.T) *Limiter {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	return New(client, logger)
}

func TestLimiter_AllowsWithinLimit(t *testing.T) {
	l := setupTestLimiter(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if !l.Allow(ctx, "dispatch", 5) {
			t.Errorf("request %d should be allowed (limit=5)", i+1)
		}
	}
}

func TestLimiter_BlocksOverLimit(t *testing.T) {
	l := setupTestLimiter(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		l.Allow(ctx, "dispatch", 3)
	}

	if l.Allow(ctx, "dispatch", 3) {
		t.Error("request should be blocked when over limit")
	}
}

func TestLimiter_ZeroLimitAllowsAll(t *testing.T) {
	l := setupTestLimiter(t)
	ctx := context.Background()

	for i := 0; i < 100; i++ {
		if !l.Allow(ctx, "dispatch", 0) {
			t.Errorf("request %d should be allowed with limit=0 (unlimited)", i+1)
		}
	}
}

func TestLimiter_IsolationBetweenScopes(t *testing.T) {
	l := setupTestLimiter(t)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		l.Allow(ctx, "dispatch", 2)
	}

	if l.Allow(ctx, "dispatch", 2) {
		t.Error("dispatch scope should be blocked")
	}

	if !l.Allow(ctx, "check", 2) {
		t.Error("check scope should be allowed — windows are per-scope")
	}
}
