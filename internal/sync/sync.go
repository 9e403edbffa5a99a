// Package sync implements the background engines that keep client state
// aligned with the storefront API: product prices and stock, a single watched
// order, the user's order list, and the admin order list. Each engine owns
// its own baseline snapshots and polling loop; merges go through the store,
// user-facing deltas go through the notifier.
package sync

import (
	"fmt"
	"strings"

	"storefront/internal/models"
	"storefront/internal/notify"
)

// Notifier is the sink engines emit user-facing messages to.
type Notifier interface {
	Notify(message string, severity notify.Severity) string
}

// importantIDs returns the product ids eligible for price/stock
// notifications: anything currently in the cart or wishlist. Recomputed
// fresh each cycle.
func importantIDs(cartIDs, wishlistIDs []string) map[string]bool {
	ids := make(map[string]bool, len(cartIDs)+len(wishlistIDs))
	for _, id := range cartIDs {
		ids[id] = true
	}
	for _, id := range wishlistIDs {
		ids[id] = true
	}
	return ids
}

// shortOrderID is the display form of an order id: last 6 characters,
// upper-cased.
func shortOrderID(id string) string {
	if len(id) > 6 {
		id = id[len(id)-6:]
	}
	return strings.ToUpper(id)
}

// statusNotification maps an order status to its notification wording and
// severity. Unknown statuses get a generic message.
func statusNotification(status models.OrderStatus) (string, notify.Severity) {
	switch status {
	case models.OrderDelivered:
		return "🎉 Your order has been delivered!", notify.SeveritySuccess
	case models.OrderShipped:
		return "📦 Your order has been shipped!", notify.SeveritySuccess
	case models.OrderOutForDelivery:
		return "🚚 Your order is out for delivery!", notify.SeverityInfo
	case models.OrderCancelled:
		return "Your order has been cancelled", notify.SeverityError
	case models.OrderProcessing:
		return "Your order is being processed", notify.SeverityInfo
	case models.OrderConfirmed:
		return "✅ Your order has been confirmed", notify.SeveritySuccess
	default:
		return fmt.Sprintf("Order status updated to %s", status), notify.SeverityInfo
	}
}
