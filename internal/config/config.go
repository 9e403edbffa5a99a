package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Storefront API
	APIBaseURL string

	// Local state database
	DatabaseURL string

	// Kafka
	KafkaBrokers string

	// Sync intervals
	PriceSyncInterval  time.Duration
	OrderSyncInterval  time.Duration
	OrdersSyncInterval time.Duration
	AdminSyncInterval  time.Duration

	// Optional order to watch on startup
	WatchOrderID string

	// Admin mode
	AdminMode bool

	// Environment
	Env      string
	LogLevel string
}

func Load() (*Config, error) {
	// Load .env file
	godotenv.Load()

	return &Config{
		APIBaseURL:         getEnv("API_BASE_URL", "http://localhost:5000/api"),
		DatabaseURL:        getEnv("DATABASE_URL", "sqlite://storefront.db"),
		KafkaBrokers:       getEnv("KAFKA_BROKERS", ""),
		PriceSyncInterval:  getEnvAsDuration("PRICE_SYNC_INTERVAL_MS", 3000),
		OrderSyncInterval:  getEnvAsDuration("ORDER_SYNC_INTERVAL_MS", 3000),
		OrdersSyncInterval: getEnvAsDuration("ORDERS_SYNC_INTERVAL_MS", 5000),
		AdminSyncInterval:  getEnvAsDuration("ADMIN_SYNC_INTERVAL_MS", 5000),
		WatchOrderID:       getEnv("WATCH_ORDER_ID", ""),
		AdminMode:          getEnv("ADMIN_MODE", "") == "true",
		Env:                getEnv("ENV", "development"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultMs int) time.Duration {
	return time.Duration(getEnvAsInt(key, defaultMs)) * time.Millisecond
}
