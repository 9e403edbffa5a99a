package sync

import (
	"context"
	"fmt"
	"time"

	"storefront/internal/api"
	"storefront/internal/config"
	"storefront/internal/events"
	"storefront/internal/logger"
	"storefront/internal/models"
	"storefront/internal/notify"
	"storefront/internal/store"
)

type orderListSnapshot struct {
	status         models.OrderStatus
	trackingNumber string
}

// OrdersListSync polls a page of the user's orders, notifies per-order
// status and tracking changes, and replaces the store's order list only when
// the fetched page actually differs from the held one.
type OrdersListSync struct {
	client    *api.Client
	store     *store.Store
	notifier  Notifier
	publisher *events.Publisher
	logger    *logger.Logger
	interval  time.Duration
	page      int
	limit     int

	seen   map[string]orderListSnapshot
	seeded bool
}

func NewOrdersListSync(cfg *config.Config, client *api.Client, st *store.Store, notifier Notifier, publisher *events.Publisher, logger *logger.Logger, page, limit int) *OrdersListSync {
	return &OrdersListSync{
		client:    client,
		store:     st,
		notifier:  notifier,
		publisher: publisher,
		logger:    logger,
		interval:  cfg.OrdersSyncInterval,
		page:      page,
		limit:     limit,
		seen:      make(map[string]orderListSnapshot),
	}
}

// Run polls until ctx is cancelled, starting with an immediate cycle.
func (s *OrdersListSync) Run(ctx context.Context) {
	s.syncOnce(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.syncOnce(ctx)
		}
	}
}

func (s *OrdersListSync) syncOnce(ctx context.Context) {
	if !s.client.Authenticated() {
		return
	}

	page, err := s.client.MyOrders(ctx, s.page, s.limit)
	if err != nil {
		s.logger.Error("Orders sync: fetch failed: %v", err)
		return
	}

	for _, order := range page.Orders {
		prev, known := s.seen[order.ID]
		if s.seeded && known {
			if order.OrderStatus != prev.status {
				message, severity := statusNotification(order.OrderStatus)
				s.notifier.Notify(fmt.Sprintf("Order #%s: %s", shortOrderID(order.ID), message), severity)
			}
			if prev.trackingNumber == "" && order.TrackingNumber != "" {
				s.notifier.Notify(fmt.Sprintf("Tracking number added for order #%s: %s", shortOrderID(order.ID), order.TrackingNumber), notify.SeverityInfo)
			}
		}
		s.seen[order.ID] = orderListSnapshot{status: order.OrderStatus, trackingNumber: order.TrackingNumber}
	}
	s.seeded = true

	if ordersDiffer(s.store.Orders(), page.Orders) {
		s.store.SetOrders(page.Orders, page.Pagination)
		s.publisher.Publish("orders.updated", "orders", map[string]interface{}{
			"count": len(page.Orders),
			"page":  page.Pagination.Page,
		})
	}
}

// ordersDiffer is the cheap positional compare gating the store write: a
// length change or any index-wise id/status/tracking mismatch counts, so a
// pure reorder counts too.
func ordersDiffer(current, fetched []models.Order) bool {
	if len(current) != len(fetched) {
		return true
	}
	for i := range fetched {
		if current[i].ID != fetched[i].ID ||
			current[i].OrderStatus != fetched[i].OrderStatus ||
			current[i].TrackingNumber != fetched[i].TrackingNumber {
			return true
		}
	}
	return false
}
