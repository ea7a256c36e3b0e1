package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Sandeep2229/push-notification-relay/internal/domain"
	"github.com/jackc/pgx/v5"
)

const notificationColumns = "id, title, message, notification_data, is_sent, created_at"

func (s *PostgresStore) CreateNotification(ctx context.Context, req domain.CreateNotificationRequest) (*domain.Notification, error) {
	data := req.Data
	if data == nil {
		data = domain.NotificationData{}
	}
	encoded, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("encoding notification data: %w", err)
	}

	var n domain.Notification
	err = s.pool.QueryRow(ctx, `
		INSERT INTO notifications_log (title, message, notification_data)
		VALUES ($1, $2, $3)
		RETURNING `+notificationColumns,
		req.Title, req.Message, encoded,
	).Scan(&n.ID, &n.Title, &n.Message, &n.Data, &n.IsSent, &n.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("inserting notification: %w", err)
	}
	return &n, nil
}

func (s *PostgresStore) GetNotification(ctx context.Context, id string) (*domain.Notification, error) {
	var n domain.Notification
	err := s.pool.QueryRow(ctx,
		"SELECT "+notificationColumns+" FROM notifications_log WHERE id = $1", id,
	).Scan(&n.ID, &n.Title, &n.Message, &n.Data, &n.IsSent, &n.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("querying notification: %w", err)
	}
	return &n, nil
}

// ListPendingNotifications returns unsent rows oldest-first, so older alerts
// are never starved by newer ones.
func (s *PostgresStore) ListPendingNotifications(ctx context.Context, limit int) ([]domain.Notification, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+notificationColumns+`
		FROM notifications_log
		WHERE is_sent = false
		ORDER BY created_at ASC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying pending notifications: %w", err)
	}
	defer rows.Close()

	return scanNotifications(rows)
}

func (s *PostgresStore) ListNotifications(ctx context.Context, onlyPending bool, limit int) ([]domain.Notification, error) {
	query := "SELECT " + notificationColumns + " FROM notifications_log"
	if onlyPending {
		query += " WHERE is_sent = false"
	}
	query += " ORDER BY created_at DESC LIMIT $1"

	rows, err := s.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("querying notifications: %w", err)
	}
	defer rows.Close()

	return scanNotifications(rows)
}

func scanNotifications(rows pgx.Rows) ([]domain.Notification, error) {
	var notifications []domain.Notification
	for rows.Next() {
		var n domain.Notification
		err := rows.Scan(&n.ID, &n.Title, &n.Message, &n.Data, &n.IsSent, &n.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scanning notification: %w", err)
		}
		notifications = append(notifications, n)
	}

	if notifications == nil {
		notifications = []domain.Notification{}
	}

	return notifications, nil
}

// MarkNotificationSent flips is_sent after a delivery pass processed the row.
func (s *PostgresStore) MarkNotificationSent(ctx context.Context, id string) error {
	_, err := s.pool.Exec(ctx,
		"UPDATE notifications_log SET is_sent = true WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("marking notification sent: %w", err)
	}
	return nil
}

// CountPending reports how many unsent rows exist, counting at most limit.
// The poller only needs an existence check, not an exact total.
func (s *PostgresStore) CountPending(ctx context.Context, limit int) (int, error) {
	var count int
	err := s.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM (
			SELECT 1 FROM notifications_log WHERE is_sent = false LIMIT $1
		) pending
	`, limit).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting pending notifications: %w", err)
	}
	return count, nil
}
