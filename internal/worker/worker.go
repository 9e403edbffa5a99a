package worker

import (
	"context"
	"encoding/json"
	"time"

	"storefront/internal/config"
	"storefront/internal/database"
	"storefront/internal/events"
	"storefront/internal/logger"

	"github.com/segmentio/kafka-go"
)

// Worker consumes the sync-event topic and appends each event to the local
// audit table.
type Worker struct {
	config *config.Config
	logger *logger.Logger
	reader *kafka.Reader
	db     *database.Database
}

func New(cfg *config.Config, logger *logger.Logger, db *database.Database) *Worker {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        []string{cfg.KafkaBrokers},
		GroupID:        "storefront-audit",
		Topic:          events.Topic,
		MinBytes:       10e3, // 10KB
		MaxBytes:       10e6, // 10MB
		CommitInterval: time.Second,
	})

	return &Worker{
		config: cfg,
		logger: logger,
		reader: reader,
		db:     db,
	}
}

func (w *Worker) Start() {
	w.logger.Info("Audit worker started, listening for sync events...")

	for {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		message, err := w.reader.ReadMessage(ctx)
		cancel()

		if err != nil {
			w.logger.Error("Failed to read message: %v", err)
			continue
		}

		var event events.Event
		if err := json.Unmarshal(message.Value, &event); err != nil {
			w.logger.Error("Failed to parse event: %v", err)
			continue
		}

		payload, _ := json.Marshal(event.Data)
		if err := w.db.AppendSyncEvent(event.Type, event.Entity, string(payload), event.Timestamp); err != nil {
			w.logger.Error("Failed to record event: %v", err)
			continue
		}

		w.logger.Debug("Recorded %s event for %s", event.Type, event.Entity)
	}
}

func (w *Worker) Stop() {
	w.logger.Info("Stopping audit worker...")
	w.reader.Close()
}
