package events

import (
	"context"
	"encoding/json"
	"time"

	"storefront/internal/logger"

	"github.com/segmentio/kafka-go"
)

const Topic = "storefront-sync-events"

type Event struct {
	Type      string                 `json:"type"`
	Entity    string                 `json:"entity"`
	Data      map[string]interface{} `json:"data"`
	Timestamp time.Time              `json:"timestamp"`
}

// Publisher mirrors sync activity onto a Kafka topic for downstream
// consumers. A nil Publisher is valid and drops everything, so callers never
// have to check whether eventing is configured.
type Publisher struct {
	writer *kafka.Writer
	logger *logger.Logger
}

func NewPublisher(brokers string, logger *logger.Logger) *Publisher {
	if brokers == "" {
		return nil
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers),
		Topic:        Topic,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 100 * time.Millisecond,
	}

	return &Publisher{
		writer: writer,
		logger: logger,
	}
}

// Publish sends one event, best effort. Failures are logged and dropped;
// sync cycles never block on eventing.
func (p *Publisher) Publish(eventType, entity string, data map[string]interface{}) {
	if p == nil {
		return
	}

	event := Event{
		Type:      eventType,
		Entity:    entity,
		Data:      data,
		Timestamp: time.Now(),
	}

	value, err := json.Marshal(event)
	if err != nil {
		p.logger.Error("Failed to marshal event: %v", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(entity),
		Value: value,
	}); err != nil {
		p.logger.Error("Failed to publish event: %v", err)
	}
}

func (p *Publisher) Close() error {
	if p == nil {
		return nil
	}
	return p.writer.Close()
}
