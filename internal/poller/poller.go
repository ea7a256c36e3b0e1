package poller

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// peekLimit bounds the existence check; the poller only needs to know
// whether any pending rows exist, not how many in total.
const peekLimit = 10

// PendingChecker is the slice of the notification log the poller reads.
type PendingChecker interface {
	CountPending(ctx context.Context, limit int) (int, error)
}

// Result is the timer entrypoint's outcome: either an idle message or the
// relayed dispatch summary.
type Result struct {
	Message string          `json:"message,omitempty"`
	Success bool            `json:"success,omitempty"`
	Checked int             `json:"checked,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
}

// Poller periodically peeks at the notification log and, when pending rows
// exist, invokes the dispatch endpoint over the network. It holds no state
// of its own.
type Poller struct {
	store       PendingChecker
	dispatchURL string
	httpClient  *http.Client
	logger      *slog.Logger
	interval    time.Duration
}

func New(store PendingChecker, siteURL string, logger *slog.Logger, interval time.Duration) *Poller {
	return &Poller{
		store:       store,
		dispatchURL: siteURL + "/api/v1/dispatch",
		httpClient:  &http.Client{Timeout: 30 * time.Second},
		logger:      logger,
		interval:    interval,
	}
}

// Start begins the polling loop. It runs until the context is cancelled.
func (p *Poller) Start(ctx context.Context) {
	p.logger.Info("poller started", "interval", p.interval.String())

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("poller stopping")
			return
		case <-ticker.C:
			if _, err := p.Check(ctx); err != nil {
				p.logger.Error("poll failed", "error", err)
			}
		}
	}
}

// Check performs one poll: peek at the pending rows, and if any exist,
// delegate to the dispatch endpoint and relay its summary.
func (p *Poller) Check(ctx context.Context) (*Result, error) {
	pending, err := p.store.CountPending(ctx, peekLimit)
	if err != nil {
		return nil, fmt.Errorf("checking pending notifications: %w", err)
	}

	if pending == 0 {
		return &Result{Message: "no pending notifications"}, nil
	}

	p.logger.Info("pending notifications found", "count", pending)

	summary, err := p.delegate(ctx)
	if err != nil {
		return nil, err
	}

	return &Result{
		Success: true,
		Checked: pending,
		Result:  summary,
	}, nil
}

// delegate POSTs a drain-pending request to the dispatch endpoint.
func (p *Poller) delegate(ctx context.Context) (json.RawMessage, error) {
	body := bytes.NewReader([]byte(`{"sendAll":true}`))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.dispatchURL, body)
	if err != nil {
		return nil, fmt.Errorf("creating dispatch request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling dispatch endpoint: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err != nil {
		return nil, fmt.Errorf("reading dispatch response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("dispatch endpoint returned %d: %s", resp.StatusCode, string(data))
	}

	return json.RawMessage(data), nil
}
