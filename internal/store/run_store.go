package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

const (
	runHistoryKey = "dispatch:runs"
	runHistoryMax = 50
)

// RunRecord is one dispatch pass summary kept for the dashboard.
type RunRecord struct {
	Trigger       string    `json:"trigger"` // "api" or "poller"
	Sent          int       `json:"sent"`
	Notifications int       `json:"notifications"`
	Subscribers   int       `json:"subscribers"`
	Failed        int       `json:"failed"`
	Error         string    `json:"error,omitempty"`
	StartedAt     time.Time `json:"started_at"`
	DurationMs    int64     `json:"duration_ms"`
}

// RecordRun prepends a run summary to the history list, keeping the most
// recent runHistoryMax entries.
func (s *RedisStore) RecordRun(ctx context.Context, rec RunRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshaling run record: %w", err)
	}

	pipe := s.client.Pipeline()
	pipe.LPush(ctx, runHistoryKey, data)
	pipe.LTrim(ctx, runHistoryKey, 0, runHistoryMax-1)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("recording run: %w", err)
	}
	return nil
}

// RecentRuns returns up to n run summaries, newest first.
func (s *RedisStore) RecentRuns(ctx context.Context, n int) ([]RunRecord, error) {
	if n <= 0 || n > runHistoryMax {
		n = runHistoryMax
	}

	raw, err := s.client.LRange(ctx, runHistoryKey, 0, int64(n-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("reading run history: %w", err)
	}

	runs := make([]RunRecord, 0, len(raw))
	for _, item := range raw {
		var rec RunRecord
		if err := json.Unmarshal([]byte(item), &rec); err != nil {
			// Skip entries written by an older revision
			continue
		}
		runs = append(runs, rec)
	}

	return runs, nil
}
