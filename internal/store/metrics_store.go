package store

import (
	"context"
	"fmt"
)

// DispatchMetrics holds aggregated relay statistics.
type DispatchMetrics struct {
	TotalNotifications       int `json:"total_notifications"`
	SentNotifications        int `json:"sent_notifications"`
	PendingNotifications     int `json:"pending_notifications"`
	TotalSubscriptions       int `json:"total_subscriptions"`
	ActiveSubscriptions      int `json:"active_subscriptions"`
	AdminSubscriptions       int `json:"admin_subscriptions"`
	DeactivatedSubscriptions int `json:"deactivated_subscriptions"`
}

// GetDispatchMetrics returns aggregated statistics from the database.
func (s *PostgresStore) GetDispatchMetrics(ctx context.Context) (*DispatchMetrics, error) {
	var m DispatchMetrics

	err := s.pool.QueryRow(ctx, `
		SELECT
			COUNT(*) AS total,
			COUNT(*) FILTER (WHERE is_sent) AS sent,
			COUNT(*) FILTER (WHERE NOT is_sent) AS pending
		FROM notifications_log
	`).Scan(&m.TotalNotifications, &m.SentNotifications, &m.PendingNotifications)
	if err != nil {
		return nil, fmt.Errorf("querying notification metrics: %w", err)
	}

	err = s.pool.QueryRow(ctx, `
		SELECT
			COUNT(*) AS total,
			COUNT(*) FILTER (WHERE is_active) AS active,
			COUNT(*) FILTER (WHERE is_active AND device_type = 'admin') AS admin,
			COUNT(*) FILTER (WHERE NOT is_active) AS deactivated
		FROM push_subscriptions
	`).Scan(&m.TotalSubscriptions, &m.ActiveSubscriptions, &m.AdminSubscriptions, &m.DeactivatedSubscriptions)
	if err != nil {
		return nil, fmt.Errorf("querying subscription metrics: %w", err)
	}

	return &m, nil
}
