package push

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	webpush "github.com/SherClockHolmes/webpush-go"
	"github.com/Sandeep2229/push-notification-relay/internal/domain"
)

// ErrSubscriptionGone is the terminal delivery outcome: the push service
// reported the endpoint will never accept further messages.
var ErrSubscriptionGone = errors.New("push subscription gone")

// Sender delivers an encrypted payload to one subscription endpoint.
type Sender interface {
	Send(ctx context.Context, sub domain.Subscription, payload []byte) error
}

// Config carries the VAPID credentials for the push protocol.
type Config struct {
	PublicKey  string
	PrivateKey string
	Subject    string // contact identity, mailto: or https: URL
}

// Client sends Web Push messages signed with VAPID credentials.
type Client struct {
	options webpush.Options
	logger  *slog.Logger
}

// NewClient creates a push client with a bounded-timeout HTTP transport.
func NewClient(cfg Config, logger *slog.Logger) *Client {
	return &Client{
		options: webpush.Options{
			HTTPClient:      &http.Client{Timeout: 10 * time.Second},
			Subscriber:      cfg.Subject,
			VAPIDPublicKey:  cfg.PublicKey,
			VAPIDPrivateKey: cfg.PrivateKey,
			TTL:             60 * 60 * 24,
		},
		logger: logger,
	}
}

// Send encrypts and posts the payload to the subscription's endpoint.
// A 404 or 410 from the push service is surfaced as ErrSubscriptionGone;
// any other non-2xx status is a plain error.
func (c *Client) Send(ctx context.Context, sub domain.Subscription, payload []byte) error {
	resp, err := webpush.SendNotificationWithContext(ctx, payload, &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.P256dh,
			Auth:   sub.Auth,
		},
	}, &c.options)
	if err != nil {
		return fmt.Errorf("sending push: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusGone || resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("endpoint returned %d: %w", resp.StatusCode, ErrSubscriptionGone)
	case resp.StatusCode >= 400:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("push service returned %d: %s", resp.StatusCode, string(body))
	}

	return nil
}
