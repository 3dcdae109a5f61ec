package kafka

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"rentalcar-backend/internal/config"
	"rentalcar-backend/internal/logger"
	"rentalcar-backend/internal/messaging"

	"github.com/segmentio/kafka-go"
)

type publisher struct {
	writer *kafka.Writer
	log    *slog.Logger
}

// NewPublisher returns a Kafka-backed messaging.Publisher. Messages are
// partitioned by key hash, which is what preserves per-aggregate ordering.
func NewPublisher(cfg *config.KafkaConfig) messaging.Publisher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		BatchTimeout: 10 * time.Millisecond,
	}
	return &publisher{
		writer: writer,
		log:    logger.WithComponent("kafka-publisher"),
	}
}

func (p *publisher) Publish(ctx context.Context, topic, key string, value []byte) error {
	msg := kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: value,
		Time:  time.Now(),
		Headers: []kafka.Header{
			{Key: "content-type", Value: []byte("application/json")},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.log.Error("failed to publish message", "topic", topic, "key", key, "error", err)
		return fmt.Errorf("write message to %s: %w", topic, err)
	}

	p.log.Debug("message published", "topic", topic, "key", key)
	return nil
}

func (p *publisher) Close() error {
	return p.writer.Close()
}
