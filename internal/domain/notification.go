package domain

import (
	"time"
)

// NotificationData is the free-form payload stored alongside a notification.
// Two keys carry meaning for dispatch: "url" (click-through target) and
// "admin_only" (restricts delivery to admin devices).
type NotificationData map[string]interface{}

// Notification is one row of the notification log.
type Notification struct {
	ID        string           `json:"id"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	Data      NotificationData `json:"notification_data"`
	IsSent    bool             `json:"is_sent"`
	CreatedAt time.Time        `json:"created_at"`
}

type CreateNotificationRequest struct {
	Title   string           `json:"title"`
	Message string           `json:"message"`
	Data    NotificationData `json:"notification_data,omitempty"`
}

// AdminOnly reports whether the admin_only flag is set and truthy.
// Stored JSON may carry it as a bool, a number, or a string.
func (d NotificationData) AdminOnly() bool {
	switch v := d["admin_only"].(type) {
	case bool:
		return v
	case float64:
		return v != 0
	case string:
		return v != "" && v != "false" && v != "0"
	}
	return false
}

// URL returns the click-through target, defaulting to the site root.
func (d NotificationData) URL() string {
	if s, ok := d["url"].(string); ok && s != "" {
		return s
	}
	return "/"
}
