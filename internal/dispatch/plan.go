package dispatch

import (
	"github.com/Sandeep2229/push-notification-relay/internal/domain"
)

// Delivery is one (notification, subscription) pair of the fan-out matrix.
type Delivery struct {
	Notification domain.Notification
	Subscription domain.Subscription
}

// Targets returns the subscriptions a notification should reach: all of the
// given subscriptions, narrowed to admin devices when the notification is
// flagged admin_only.
func Targets(n domain.Notification, subs []domain.Subscription) []domain.Subscription {
	if !n.Data.AdminOnly() {
		return subs
	}

	var admins []domain.Subscription
	for _, sub := range subs {
		if sub.DeviceType == domain.DeviceTypeAdmin {
			admins = append(admins, sub)
		}
	}
	return admins
}

// PlanDeliveries computes the full delivery matrix in execution order:
// one notification's complete fan-out before the next notification begins.
// The plan is deterministic and side-effect free; executing it is the
// dispatcher's job.
func PlanDeliveries(notifications []domain.Notification, subs []domain.Subscription) []Delivery {
	var plan []Delivery
	for _, n := range notifications {
		for _, sub := range Targets(n, subs) {
			plan = append(plan, Delivery{Notification: n, Subscription: sub})
		}
	}
	return plan
}
