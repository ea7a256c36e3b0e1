package store

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func setupRunStore(t *testing.T) *RedisStore {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisFromClient(client)
}

func TestRunHistory_NewestFirst(t *testing.T) {
	rs := setupRunStore(t)
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		err := rs.RecordRun(ctx, RunRecord{
			Trigger:   "api",
			Sent:      i,
			StartedAt: time.Now(),
		})
		if err != nil {
			t.Fatalf("failed to record run %d: %v", i, err)
		}
	}

	runs, err := rs.RecentRuns(ctx, 2)
	if err != nil {
		t.Fatalf("failed to read runs: %v", err)
	}

	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].Sent != 3 || runs[1].Sent != 2 {
		t.Errorf("runs not newest-first: %+v", runs)
	}
}

func TestRunHistory_Empty(t *testing.T) {
	rs := setupRunStore(t)

	runs, err := rs.RecentRuns(context.Background(), 10)
	if err != nil {
		t.Fatalf("failed to read runs: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected no runs, got %d", len(runs))
	}
}

func TestRunHistory_Trimmed(t *testing.T) {
	rs := setupRunStore(t)
	ctx := context.Background()

	for i := 0; i < runHistoryMax+5; i++ {
		if err := rs.RecordRun(ctx, RunRecord{Trigger: "poller", Sent: i}); err != nil {
			t.Fatalf("failed to record run %d: %v", i, err)
		}
	}

	runs, err := rs.RecentRuns(ctx, 0)
	if err != nil {
		t.Fatalf("failed to read runs: %v", err)
	}

	if len(runs) != runHistoryMax {
		t.Errorf("expected history trimmed to %d, got %d", runHistoryMax, len(runs))
	}
	if runs[0].Sent != runHistoryMax+4 {
		t.Errorf("newest entry = %d, want %d", runs[0].Sent, runHistoryMax+4)
	}
}

func TestRunHistory_SkipsMalformedEntries(t *testing.T) {
	rs := setupRunStore(t)
	ctx := context.Background()

	rs.Client().LPush(ctx, runHistoryKey, "not-json")
	if err := rs.RecordRun(ctx, RunRecord{Trigger: "api", Sent: 1}); err != nil {
		t.Fatalf("failed to record run: %v", err)
	}

	runs, err := rs.RecentRuns(ctx, 10)
	if err != nil {
		t.Fatalf("failed to read runs: %v", err)
	}
	if len(runs) != 1 {
		t.Errorf("malformed entries should be skipped, got %d runs", len(runs))
	}
}

func TestRunRecord_ErrorRoundTrip(t *testing.T) {
	rs := setupRunStore(t)
	ctx := context.Background()

	rec := RunRecord{
		Trigger:    "api",
		Error:      "loading active subscriptions: connection refused",
		StartedAt:  time.Now().Truncate(time.Millisecond),
		DurationMs: 12,
	}
	if err := rs.RecordRun(ctx, rec); err != nil {
		t.Fatalf("failed to record run: %v", err)
	}

	runs, err := rs.RecentRuns(ctx, 1)
	if err != nil {
		t.Fatalf("failed to read runs: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected 1 run, got %d", len(runs))
	}
	if runs[0].Error != rec.Error {
		t.Errorf("error = %q, want %q", runs[0].Error, rec.Error)
	}
	if runs[0].DurationMs != 12 {
		t.Errorf("duration = %d, want 12", runs[0].DurationMs)
	}
}
