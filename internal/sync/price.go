package sync

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"storefront/internal/api"
	"storefront/internal/config"
	"storefront/internal/events"
	"storefront/internal/logger"
	"storefront/internal/models"
	"storefront/internal/notify"
	"storefront/internal/store"

	"golang.org/x/sync/errgroup"
)

const (
	productListWindow = 20
	specialListLimit  = 8
	lowStockThreshold = 5
)

type productSnapshot struct {
	price    float64
	discount int
	inStock  int
}

// PriceSync polls the batch product endpoint for every product the client
// currently cares about and reconciles prices, discounts and stock back into
// the store. Notifications fire only for cart/wishlist members, and only
// after the first cycle has seeded the baselines.
type PriceSync struct {
	client    *api.Client
	store     *store.Store
	notifier  Notifier
	publisher *events.Publisher
	logger    *logger.Logger
	interval  time.Duration

	snapshots map[string]productSnapshot
	seeded    bool
}

func NewPriceSync(cfg *config.Config, client *api.Client, st *store.Store, notifier Notifier, publisher *events.Publisher, logger *logger.Logger) *PriceSync {
	return &PriceSync{
		client:    client,
		store:     st,
		notifier:  notifier,
		publisher: publisher,
		logger:    logger,
		interval:  cfg.PriceSyncInterval,
		snapshots: make(map[string]productSnapshot),
	}
}

// Run polls until ctx is cancelled, starting with an immediate cycle. Each
// cycle runs to completion before the next tick is taken, so a slow round
// trip delays polling instead of overlapping it.
func (s *PriceSync) Run(ctx context.Context) {
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

func (s *PriceSync) syncOnce(ctx context.Context) {
	// The featured/discounted refresh runs every cycle, even when there is
	// nothing to batch-fetch.
	s.refreshSpecialLists(ctx)

	ids := s.targetIDs()
	if len(ids) == 0 {
		return
	}

	products, err := s.client.BatchProducts(ctx, ids)
	if err != nil {
		s.logger.Error("Price sync: batch fetch failed: %v", err)
		return
	}

	important := importantIDs(s.store.CartIDs(), s.store.WishlistIDs())

	updates := make(map[string]models.ProductUpdate, len(products))
	for _, p := range products {
		prev, known := s.snapshots[p.ID]
		if s.seeded && known && important[p.ID] {
			s.compare(prev, p)
		}
		// Every observed id re-baselines, important or not.
		s.snapshots[p.ID] = productSnapshot{price: p.Price, discount: p.Discount, inStock: p.InStock}
		updates[p.ID] = p.Update()
	}
	s.seeded = true

	if s.store.ApplyProductUpdates(updates) {
		s.publisher.Publish("products.merged", "products", map[string]interface{}{
			"count": len(updates),
		})
	}
}

// targetIDs unions every product id the client is currently showing or
// holding: cart, wishlist, current product, the first products-page window,
// featured and discounted.
func (s *PriceSync) targetIDs() []string {
	var ids []string
	seen := make(map[string]bool)
	add := func(batch []string) {
		for _, id := range batch {
			if id != "" && !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}

	add(s.store.CartIDs())
	add(s.store.WishlistIDs())
	if p := s.store.CurrentProduct(); p != nil {
		add([]string{p.ID})
	}
	add(s.store.ProductIDs(productListWindow))
	add(s.store.FeaturedIDs())
	add(s.store.DiscountedIDs())

	return ids
}

// refreshSpecialLists re-fetches the featured and discounted lists in
// parallel and replaces each in the store only when its id set changed.
func (s *PriceSync) refreshSpecialLists(ctx context.Context) {
	var featured, discounted []models.Product

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		featured, err = s.client.FeaturedProducts(gctx, specialListLimit)
		return err
	})
	g.Go(func() error {
		var err error
		discounted, err = s.client.DiscountedProducts(gctx, specialListLimit)
		return err
	})
	if err := g.Wait(); err != nil {
		s.logger.Error("Price sync: list refresh failed: %v", err)
		return
	}

	if idKey(productIDs(featured)) != idKey(s.store.FeaturedIDs()) {
		s.store.SetFeatured(featured)
	}
	if idKey(productIDs(discounted)) != idKey(s.store.DiscountedIDs()) {
		s.store.SetDiscounted(discounted)
	}
}

func (s *PriceSync) compare(prev productSnapshot, p models.Product) {
	name := p.Name
	if name == "" {
		name = p.ID
	}

	if p.Price > prev.price {
		s.notifier.Notify(fmt.Sprintf("Price increased for %s: now ₹%.0f", name, p.Price), notify.SeverityPrice)
	} else if p.Price < prev.price {
		s.notifier.Notify(fmt.Sprintf("Price dropped for %s: now ₹%.0f", name, p.Price), notify.SeverityPrice)
	}

	if p.Discount > prev.discount {
		s.notifier.Notify(fmt.Sprintf("%s is now %d%% off!", name, p.Discount), notify.SeveritySuccess)
	} else if p.Discount == 0 && prev.discount > 0 {
		s.notifier.Notify(fmt.Sprintf("Discount on %s has ended", name), notify.SeverityWarning)
	}

	// Stock checks are mutually exclusive: at most one fires per cycle, in
	// this priority order.
	if prev.inStock == 0 && p.InStock > 0 {
		s.notifier.Notify(fmt.Sprintf("%s is back in stock!", name), notify.SeveritySuccess)
	} else if prev.inStock > 0 && p.InStock == 0 {
		s.notifier.Notify(fmt.Sprintf("%s is out of stock", name), notify.SeverityWarning)
	} else if p.InStock > 0 && p.InStock <= lowStockThreshold && prev.inStock > lowStockThreshold {
		s.notifier.Notify(fmt.Sprintf("Only %d left: %s", p.InStock, name), notify.SeverityWarning)
	}
}

func productIDs(products []models.Product) []string {
	ids := make([]string, 0, len(products))
	for _, p := range products {
		ids = append(ids, p.ID)
	}
	return ids
}

// idKey builds an order-insensitive comparison key for a list of ids.
func idKey(ids []string) string {
	sorted := append([]string(nil), ids...)
	sort.Strings(sorted)
	return strings.Join(sorted, ",")
}
