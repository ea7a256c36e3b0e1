package domain

import (
	"time"
)

// Device classifications. Admin devices receive admin-only notifications.
const (
	DeviceTypeAdmin = "admin"
	DeviceTypeWeb   = "web"
)

// Subscription is one registered browser push endpoint.
type Subscription struct {
	ID         string     `json:"id"`
	Endpoint   string     `json:"endpoint"`
	P256dh     string     `json:"p256dh"`
	Auth       string     `json:"auth"`
	DeviceType string     `json:"device_type"`
	IsActive   bool       `json:"is_active"`
	LastUsed   *time.Time `json:"last_used,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

// SubscriptionKeys mirrors the keys object of a browser PushSubscription.
type SubscriptionKeys struct {
	P256dh string `json:"p256dh"`
	Auth   string `json:"auth"`
}

type RegisterSubscriptionRequest struct {
	Endpoint   string           `json:"endpoint"`
	Keys       SubscriptionKeys `json:"keys"`
	DeviceType string           `json:"device_type,omitempty"`
}
