package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storefront/internal/api"
	"storefront/internal/config"
	"storefront/internal/database"
	"storefront/internal/events"
	"storefront/internal/logger"
	"storefront/internal/notify"
	"storefront/internal/store"
	"storefront/internal/sync"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	// Initialize logger
	logger := logger.New(cfg.LogLevel)

	// Open local state database
	db, err := database.New(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("Failed to open local database: %v", err)
	}
	defer db.Close()

	// Seed the store from the persisted cart snapshot
	st := store.New()
	if items, err := db.CartSnapshot(); err != nil {
		logger.Error("Failed to load cart snapshot: %v", err)
	} else if len(items) > 0 {
		st.SetCart(items)
		logger.Info("Restored cart with %d items", len(items))
	}

	client := api.NewClient(cfg.APIBaseURL, func() string {
		token, err := db.Token()
		if err != nil {
			logger.Error("Failed to read auth token: %v", err)
			return ""
		}
		return token
	}, logger)

	publisher := events.NewPublisher(cfg.KafkaBrokers, logger)
	defer publisher.Close()

	notifier := notify.New(publisher)
	defer notifier.Stop()
	notifier.OnChange(func(items []notify.Notification) {
		if len(items) > 0 {
			latest := items[len(items)-1]
			logger.Info("[%s] %s", latest.Severity, latest.Message)
		}
	})

	ctx, cancel := context.WithCancel(context.Background())

	// Start sync engines
	priceSync := sync.NewPriceSync(cfg, client, st, notifier, publisher, logger)
	go priceSync.Run(ctx)

	ordersSync := sync.NewOrdersListSync(cfg, client, st, notifier, publisher, logger, 1, 10)
	go ordersSync.Run(ctx)

	if cfg.AdminMode {
		adminSync := sync.NewAdminOrdersSync(cfg, client, st, notifier, publisher, logger)
		go adminSync.Run(ctx)
	}

	if cfg.WatchOrderID != "" {
		orderSync := sync.NewOrderSync(client, notifier, logger, cfg.WatchOrderID)
		go watchOrder(ctx, cfg, orderSync, st)
	}

	logger.Info("Sync engines started (api=%s)", cfg.APIBaseURL)

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down...")
	cancel()

	if err := db.SaveCartSnapshot(st.Cart()); err != nil {
		logger.Error("Failed to persist cart snapshot: %v", err)
	}
}

// watchOrder drives the single-order engine: a short delay so the primary
// fetch lands first, then a fixed cadence. The store's current order is only
// replaced when the engine saw a real change.
func watchOrder(ctx context.Context, cfg *config.Config, orderSync *sync.OrderSync, st *store.Store) {
	select {
	case <-ctx.Done():
		return
	case <-time.After(1 * time.Second):
	}

	ticker := time.NewTicker(cfg.OrderSyncInterval)
	defer ticker.Stop()

	for {
		if result := orderSync.Sync(ctx); result != nil && result.HasChanges {
			st.SetCurrentOrder(result.Order)
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
