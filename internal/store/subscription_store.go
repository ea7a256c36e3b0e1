package store

import (
	"context"
	"fmt"

	"github.com/Sandeep2229/push-notification-relay/internal/domain"
	"github.com/jackc/pgx/v5"
)

const subscriptionColumns = "id, endpoint, p256dh, auth, device_type, is_active, last_used, created_at"

// RegisterSubscription inserts a push subscription, or refreshes the keys and
// re-activates the row when the endpoint is already known. Browsers re-issue
// subscriptions for the same endpoint after a key rotation.
func (s *PostgresStore) RegisterSubscription(ctx context.Context, req domain.RegisterSubscriptionRequest) (*domain.Subscription, error) {
	deviceType := req.DeviceType
	if deviceType == "" {
		deviceType = domain.DeviceTypeWeb
	}

	var sub domain.Subscription
	err := s.pool.QueryRow(ctx, `
		INSERT INTO push_subscriptions (endpoint, p256dh, auth, device_type)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (endpoint) DO UPDATE
		SET p256dh = EXCLUDED.p256dh,
		    auth = EXCLUDED.auth,
		    device_type = EXCLUDED.device_type,
		    is_active = true
		RETURNING `+subscriptionColumns,
		req.Endpoint, req.Keys.P256dh, req.Keys.Auth, deviceType,
	).Scan(
		&sub.ID, &sub.Endpoint, &sub.P256dh, &sub.Auth,
		&sub.DeviceType, &sub.IsActive, &sub.LastUsed, &sub.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("registering subscription: %w", err)
	}
	return &sub, nil
}

func (s *PostgresStore) GetSubscription(ctx context.Context, id string) (*domain.Subscription, error) {
	var sub domain.Subscription
	err := s.pool.QueryRow(ctx,
		"SELECT "+subscriptionColumns+" FROM push_subscriptions WHERE id = $1", id,
	).Scan(
		&sub.ID, &sub.Endpoint, &sub.P256dh, &sub.Auth,
		&sub.DeviceType, &sub.IsActive, &sub.LastUsed, &sub.CreatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("querying subscription: %w", err)
	}
	return &sub, nil
}

func (s *PostgresStore) ListSubscriptions(ctx context.Context) ([]domain.Subscription, error) {
	return s.querySubscriptions(ctx,
		"SELECT "+subscriptionColumns+" FROM push_subscriptions ORDER BY created_at DESC")
}

// ListActiveSubscriptions returns every subscription still accepting pushes.
func (s *PostgresStore) ListActiveSubscriptions(ctx context.Context) ([]domain.Subscription, error) {
	return s.querySubscriptions(ctx,
		"SELECT "+subscriptionColumns+" FROM push_subscriptions WHERE is_active = true ORDER BY created_at")
}

func (s *PostgresStore) querySubscriptions(ctx context.Context, query string, args ...interface{}) ([]domain.Subscription, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying subscriptions: %w", err)
	}
	defer rows.Close()

	var subs []domain.Subscription
	for rows.Next() {
		var sub domain.Subscription
		err := rows.Scan(
			&sub.ID, &sub.Endpoint, &sub.P256dh, &sub.Auth,
			&sub.DeviceType, &sub.IsActive, &sub.LastUsed, &sub.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning subscription: %w", err)
		}
		subs = append(subs, sub)
	}

	if subs == nil {
		subs = []domain.Subscription{}
	}

	return subs, nil
}

// TouchSubscription refreshes last_used after a successful delivery.
func (s *PostgresStore) TouchSubscription(ctx context.Context, id string) error {
	_, err := s.pool.Exec(ctx,
		"UPDATE push_subscriptions SET last_used = NOW() WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("touching subscription: %w", err)
	}
	return nil
}

// DeactivateSubscription marks an endpoint as no longer deliverable.
// Rows are never hard-deleted; re-activation happens through re-registration.
func (s *PostgresStore) DeactivateSubscription(ctx context.Context, id string) error {
	_, err := s.pool.Exec(ctx,
		"UPDATE push_subscriptions SET is_active = false WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("deactivating subscription: %w", err)
	}
	return nil
}
