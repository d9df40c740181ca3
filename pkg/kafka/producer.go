package kafka

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/Ramsey-B/clover/pkg/models"
	"github.com/Ramsey-B/clover/pkg/tracing"
)

// Producer handles Kafka event emission
type Producer struct {
	writer *kafka.Writer
	logger *zap.Logger
	topic  string
}

// ProducerConfig holds Kafka producer configuration
type ProducerConfig struct {
	Brokers      []string
	Topic        string
	BatchSize    int
	BatchTimeout time.Duration
	RequiredAcks int
	Compression  string
}

// NewProducer creates a new Kafka producer
func NewProducer(cfg ProducerConfig, logger *zap.Logger) *Producer {
	compression := kafka.Snappy
	switch cfg.Compression {
	case "gzip":
		compression = kafka.Gzip
	case "lz4":
		compression = kafka.Lz4
	case "zstd":
		compression = kafka.Zstd
	case "none":
		compression = 0
	}

	requiredAcks := kafka.RequiredAcks(cfg.RequiredAcks)

	writer := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Balancer:               &kafka.LeastBytes{},
		BatchSize:              cfg.BatchSize,
		BatchTimeout:           cfg.BatchTimeout,
		RequiredAcks:           requiredAcks,
		Compression:            compression,
		AllowAutoTopicCreation: true,
	}

	return &Producer{
		writer: writer,
		logger: logger,
		topic:  cfg.Topic,
	}
}

// Close closes the producer
func (p *Producer) Close() error {
	return p.writer.Close()
}

// EventMessage is the canonical event notification envelope.
type EventMessage struct {
	EventType string                 `json:"event_type"` // created
	EventID   string                 `json:"event_id"`
	Source    string                 `json:"source"`
	City      string                 `json:"city"`
	Event     *models.CanonicalEvent `json:"event"`
	Timestamp time.Time              `json:"timestamp"`
}

// PublishEventCreated publishes an event-created notification. Keyed by city
// so all events of a city land on the same partition, in insert order.
func (p *Producer) PublishEventCreated(ctx context.Context, event *models.CanonicalEvent) error {
	ctx, span := tracing.StartSpan(ctx, "kafka.Producer.PublishEventCreated")
	defer span.End()

	payload := &EventMessage{
		EventType: "event.created",
		EventID:   event.ID,
		Source:    event.Source,
		City:      event.City,
		Event:     event,
		Timestamp: time.Now().UTC(),
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	msg := kafka.Message{
		Topic: p.topic,
		Key:   []byte(event.City),
		Value: data,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(payload.EventType)},
			{Key: "source", Value: []byte(event.Source)},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Error("Failed to publish event", zap.String("event_id", event.ID), zap.Error(err))
		return err
	}

	p.logger.Debug("Published event",
		zap.String("event_id", event.ID),
		zap.String("city", event.City),
		zap.String("source", event.Source),
	)
	return nil
}
