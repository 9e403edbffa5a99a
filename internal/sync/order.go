package sync

import (
	"context"
	"fmt"
	"time"

	"storefront/internal/api"
	"storefront/internal/logger"
	"storefront/internal/models"
	"storefront/internal/notify"
)

type orderSnapshot struct {
	status            models.OrderStatus
	trackingNumber    string
	estimatedDelivery *time.Time
}

// OrderSync watches a single order. It is not self-scheduling: the owner
// calls Sync on its own cadence and decides what to do with the returned
// order.
type OrderSync struct {
	client   *api.Client
	notifier Notifier
	logger   *logger.Logger
	orderID  string

	baseline orderSnapshot
	seeded   bool
}

// OrderResult carries the freshly fetched order back to the caller.
// HasChanges is true when any watched field moved against the baseline.
type OrderResult struct {
	Order      *models.Order
	HasChanges bool
}

func NewOrderSync(client *api.Client, notifier Notifier, logger *logger.Logger, orderID string) *OrderSync {
	return &OrderSync{
		client:   client,
		notifier: notifier,
		logger:   logger,
		orderID:  orderID,
	}
}

// Sync fetches the order and compares status, tracking number and estimated
// delivery against the previous observation. The three checks are
// independent; any combination may notify in one cycle. Returns nil when
// there is nothing to do (no order id, no token) or the fetch failed.
func (s *OrderSync) Sync(ctx context.Context) *OrderResult {
	if s.orderID == "" || !s.client.Authenticated() {
		return nil
	}

	order, err := s.client.Order(ctx, s.orderID)
	if err != nil {
		s.logger.Error("Order sync: fetch failed for %s: %v", s.orderID, err)
		return nil
	}

	hasChanges := false
	if s.seeded {
		if order.OrderStatus != s.baseline.status {
			message, severity := statusNotification(order.OrderStatus)
			s.notifier.Notify(message, severity)
			hasChanges = true
		}
		if s.baseline.trackingNumber == "" && order.TrackingNumber != "" {
			s.notifier.Notify(fmt.Sprintf("Tracking number added: %s", order.TrackingNumber), notify.SeverityInfo)
			hasChanges = true
		}
		if order.EstimatedDelivery != nil && !timesEqual(order.EstimatedDelivery, s.baseline.estimatedDelivery) {
			s.notifier.Notify(fmt.Sprintf("Estimated delivery: %s", order.EstimatedDelivery.Format("Jan 2, 2006")), notify.SeverityInfo)
			hasChanges = true
		}
	}

	s.baseline = orderSnapshot{
		status:            order.OrderStatus,
		trackingNumber:    order.TrackingNumber,
		estimatedDelivery: order.EstimatedDelivery,
	}
	s.seeded = true

	return &OrderResult{Order: order, HasChanges: hasChanges}
}

func timesEqual(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}
