package sync

import (
	"context"
	"fmt"
	"time"

	"storefront/internal/api"
	"storefront/internal/config"
	"storefront/internal/events"
	"storefront/internal/logger"
	"storefront/internal/notify"
	"storefront/internal/store"
)

const (
	adminStartDelay = 1 * time.Second
	adminPageLimit  = 20
)

// AdminOrdersSync polls the admin order list. Unlike the user-facing
// engines it tracks only the total order count: growth produces a single
// "N new orders" notification, and the fetched page is pushed into the store
// unconditionally every cycle.
type AdminOrdersSync struct {
	client    *api.Client
	store     *store.Store
	notifier  Notifier
	publisher *events.Publisher
	logger    *logger.Logger
	interval  time.Duration

	prevTotal int
	seeded    bool
}

func NewAdminOrdersSync(cfg *config.Config, client *api.Client, st *store.Store, notifier Notifier, publisher *events.Publisher, logger *logger.Logger) *AdminOrdersSync {
	return &AdminOrdersSync{
		client:    client,
		store:     st,
		notifier:  notifier,
		publisher: publisher,
		logger:    logger,
		interval:  cfg.AdminSyncInterval,
	}
}

// Run waits out the start delay, then polls until ctx is cancelled.
func (s *AdminOrdersSync) Run(ctx context.Context) {
	select {
	case <-ctx.Done():
		return
	case <-time.After(adminStartDelay):
	}

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

func (s *AdminOrdersSync) syncOnce(ctx context.Context) {
	if !s.client.Authenticated() {
		return
	}

	// Query is re-derived each tick so paging in the UI carries over.
	page, status := s.store.AdminQuery()

	resp, err := s.client.AdminOrders(ctx, page, adminPageLimit, status)
	if err != nil {
		s.logger.Error("Admin sync: fetch failed: %v", err)
		return
	}

	total := resp.Pagination.Total
	if s.seeded && total > s.prevTotal {
		delta := total - s.prevTotal
		s.notifier.Notify(fmt.Sprintf("%d new orders received!", delta), notify.SeveritySuccess)
		s.store.AddAdminNewOrders(delta)
		s.publisher.Publish("admin.orders.received", "orders", map[string]interface{}{
			"new":   delta,
			"total": total,
		})
	}
	s.prevTotal = total
	s.seeded = true

	s.store.SetAdminOrders(resp.Orders, resp.Pagination)
}
