package dispatch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Sandeep2229/push-notification-relay/internal/domain"
	"github.com/Sandeep2229/push-notification-relay/internal/push"
	ws "github.com/Sandeep2229/push-notification-relay/internal/websocket"
)

// Notification asset paths baked into every payload.
const (
	iconPath  = "/icons/icon-192x192.png"
	badgePath = "/icons/icon-96x96.png"
)

var (
	// ErrInvalidRequest means neither an explicit notification id nor a
	// drain-pending request was supplied.
	ErrInvalidRequest = errors.New("missing notificationId or sendAll")

	// ErrNotificationNotFound means an explicit id resolved to no row.
	ErrNotificationNotFound = errors.New("notification not found")
)

// Request selects what a dispatch pass should deliver: exactly one
// notification by id, or all pending rows up to the batch bound.
type Request struct {
	NotificationID string
	SendAll        bool
}

// Summary reports the outcome of one dispatch pass.
type Summary struct {
	Sent          int `json:"sent"`
	Notifications int `json:"notifications"`
	Subscribers   int `json:"subscribers"`
	Failed        int `json:"failed"`
}

// NotificationSource is the notification-log side of the datastore.
type NotificationSource interface {
	GetNotification(ctx context.Context, id string) (*domain.Notification, error)
	ListPendingNotifications(ctx context.Context, limit int) ([]domain.Notification, error)
	MarkNotificationSent(ctx context.Context, id string) error
}

// SubscriptionSource is the push-subscription side of the datastore.
type SubscriptionSource interface {
	ListActiveSubscriptions(ctx context.Context) ([]domain.Subscription, error)
	TouchSubscription(ctx context.Context, id string) error
	DeactivateSubscription(ctx context.Context, id string) error
}

// Dispatcher drains the notification log into push deliveries. All
// collaborators are passed in at construction so tests can substitute fakes.
type Dispatcher struct {
	notifications NotificationSource
	subscriptions SubscriptionSource
	sender        push.Sender
	events        *ws.Hub
	logger        *slog.Logger
	batchSize     int
}

func NewDispatcher(n NotificationSource, s SubscriptionSource, sender push.Sender, events *ws.Hub, logger *slog.Logger, batchSize int) *Dispatcher {
	if batchSize <= 0 {
		batchSize = 50
	}
	return &Dispatcher{
		notifications: n,
		subscriptions: s,
		sender:        sender,
		events:        events,
		logger:        logger,
		batchSize:     batchSize,
	}
}

// Run executes one dispatch pass: resolve notifications, resolve targets,
// deliver sequentially, and record outcomes. A notification is marked sent
// once its fan-out has been attempted, regardless of per-target failures.
// Two concurrent runs may select the same pending rows; duplicate delivery
// is an accepted outcome of overlapping invocations.
func (d *Dispatcher) Run(ctx context.Context, req Request) (*Summary, error) {
	notifications, err := d.resolve(ctx, req)
	if err != nil {
		return nil, err
	}

	if len(notifications) == 0 {
		d.logger.Info("no notifications to send")
		return &Summary{}, nil
	}

	subs, err := d.subscriptions.ListActiveSubscriptions(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading active subscriptions: %w", err)
	}

	if len(subs) == 0 {
		// Delivery was never attempted, so the rows stay pending for a
		// later pass.
		d.logger.Info("no active subscriptions", "pending", len(notifications))
		return &Summary{Notifications: len(notifications)}, nil
	}

	summary := &Summary{
		Notifications: len(notifications),
		Subscribers:   len(subs),
	}

	for _, n := range notifications {
		payload, err := buildPayload(n)
		if err != nil {
			return summary, fmt.Errorf("building payload for notification %s: %w", n.ID, err)
		}

		for _, sub := range Targets(n, subs) {
			d.deliver(ctx, n, sub, payload, summary)
		}

		if err := d.notifications.MarkNotificationSent(ctx, n.ID); err != nil {
			return summary, fmt.Errorf("marking notification %s sent: %w", n.ID, err)
		}
	}

	d.logger.Info("dispatch pass complete",
		"sent", summary.Sent,
		"notifications", summary.Notifications,
		"subscribers", summary.Subscribers,
		"failed", summary.Failed,
	)

	d.events.Broadcast(ws.Event{
		Type:          ws.EventRunComplete,
		Sent:          summary.Sent,
		Notifications: summary.Notifications,
		Failed:        summary.Failed,
	})

	return summary, nil
}

// resolve turns the request into an ordered sequence of notifications.
func (d *Dispatcher) resolve(ctx context.Context, req Request) ([]domain.Notification, error) {
	switch {
	case req.NotificationID != "":
		n, err := d.notifications.GetNotification(ctx, req.NotificationID)
		if err != nil {
			return nil, fmt.Errorf("loading notification %s: %w", req.NotificationID, err)
		}
		if n == nil {
			return nil, fmt.Errorf("notification %s: %w", req.NotificationID, ErrNotificationNotFound)
		}
		return []domain.Notification{*n}, nil

	case req.SendAll:
		notifications, err := d.notifications.ListPendingNotifications(ctx, d.batchSize)
		if err != nil {
			return nil, fmt.Errorf("loading pending notifications: %w", err)
		}
		return notifications, nil

	default:
		return nil, ErrInvalidRequest
	}
}

// deliver attempts one send and applies its outcome. Per-target errors never
// abort the pass: a terminal "gone" deactivates the subscription, anything
// else is logged and skipped.
func (d *Dispatcher) deliver(ctx context.Context, n domain.Notification, sub domain.Subscription, payload []byte, summary *Summary) {
	err := d.sender.Send(ctx, sub, payload)
	if err == nil {
		summary.Sent++
		if touchErr := d.subscriptions.TouchSubscription(ctx, sub.ID); touchErr != nil {
			d.logger.Error("failed to refresh last_used",
				"error", touchErr,
				"subscription_id", sub.ID,
			)
		}
		d.events.Broadcast(ws.Event{
			Type:           ws.EventPushSent,
			NotificationID: n.ID,
			SubscriptionID: sub.ID,
			Endpoint:       sub.Endpoint,
		})
		return
	}

	d.logger.Warn("delivery failed",
		"error", err,
		"notification_id", n.ID,
		"subscription_id", sub.ID,
	)

	if errors.Is(err, push.ErrSubscriptionGone) {
		summary.Failed++
		if deactErr := d.subscriptions.DeactivateSubscription(ctx, sub.ID); deactErr != nil {
			d.logger.Error("failed to deactivate subscription",
				"error", deactErr,
				"subscription_id", sub.ID,
			)
		}
		d.events.Broadcast(ws.Event{
			Type:           ws.EventSubscriptionGone,
			NotificationID: n.ID,
			SubscriptionID: sub.ID,
			Endpoint:       sub.Endpoint,
			Error:          err.Error(),
		})
		return
	}

	d.events.Broadcast(ws.Event{
		Type:           ws.EventPushFailed,
		NotificationID: n.ID,
		SubscriptionID: sub.ID,
		Endpoint:       sub.Endpoint,
		Error:          err.Error(),
	})
}

type pushPayload struct {
	Title string                  `json:"title"`
	Body  string                  `json:"body"`
	Icon  string                  `json:"icon"`
	Badge string                  `json:"badge"`
	URL   string                  `json:"url"`
	Data  domain.NotificationData `json:"data"`
}

// buildPayload serializes the wire format the service worker expects.
func buildPayload(n domain.Notification) ([]byte, error) {
	return json.Marshal(pushPayload{
		Title: n.Title,
		Body:  n.Message,
		Icon:  iconPath,
		Badge: badgePath,
		URL:   n.Data.URL(),
		Data:  n.Data,
	})
}
