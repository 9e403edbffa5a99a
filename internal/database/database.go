// Package database is the client-local state file: the auth token and cart
// snapshot live in a small key/value table (the analog of browser storage),
// and the audit worker appends consumed sync events next to them.
package database

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"storefront/internal/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	tokenKey = "storefront_token"
	cartKey  = "storefront_cart"
)

type Database struct {
	DB *gorm.DB
}

func New(databaseURL string) (*Database, error) {
	dbPath := strings.TrimPrefix(databaseURL, "sqlite://")

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Create tables manually with raw SQL
	createTablesSQL := `
	CREATE TABLE IF NOT EXISTS local_state (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS sync_events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		type TEXT NOT NULL,
		entity TEXT NOT NULL,
		payload TEXT,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);
	`

	err = db.Exec(createTablesSQL).Error
	if err != nil {
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return &Database{DB: db}, nil
}

// Get returns the stored value for key, or "" when absent.
func (d *Database) Get(key string) (string, error) {
	var value string
	err := d.DB.Raw("SELECT value FROM local_state WHERE key = ?", key).Row().Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", key, err)
	}
	return value, nil
}

func (d *Database) Set(key, value string) error {
	err := d.DB.Exec(
		"INSERT INTO local_state (key, value, updated_at) VALUES (?, ?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at",
		key, value, time.Now(),
	).Error
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

func (d *Database) Token() (string, error) {
	return d.Get(tokenKey)
}

func (d *Database) SetToken(token string) error {
	return d.Set(tokenKey, token)
}

// CartSnapshot loads the persisted cart, if any.
func (d *Database) CartSnapshot() ([]models.CartItem, error) {
	raw, err := d.Get(cartKey)
	if err != nil || raw == "" {
		return nil, err
	}

	var items []models.CartItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, fmt.Errorf("failed to decode cart snapshot: %w", err)
	}
	return items, nil
}

func (d *Database) SaveCartSnapshot(items []models.CartItem) error {
	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to encode cart snapshot: %w", err)
	}
	return d.Set(cartKey, string(raw))
}

// AppendSyncEvent records a consumed sync event in the audit table.
func (d *Database) AppendSyncEvent(eventType, entity, payload string, at time.Time) error {
	err := d.DB.Exec(
		"INSERT INTO sync_events (type, entity, payload, created_at) VALUES (?, ?, ?, ?)",
		eventType, entity, payload, at,
	).Error
	if err != nil {
		return fmt.Errorf("failed to append sync event: %w", err)
	}
	return nil
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
