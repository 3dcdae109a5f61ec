package kafka

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"rentalcar-backend/internal/config"
	"rentalcar-backend/internal/logger"
	"rentalcar-backend/internal/messaging"

	"github.com/segmentio/kafka-go"
)

// disposition is the routing decision for a failed message.
type disposition int

const (
	// retryInPlace re-runs the handler after a backoff.
	retryInPlace disposition = iota
	// deferToErrorTopic hands the message to the error topic, from where
	// the reprocessor feeds it back onto the main topic.
	deferToErrorTopic
	// parkInDeadLetter sends the message to the dead-letter topic. Nothing
	// reads that topic back; parked messages need operator attention.
	parkInDeadLetter
)

// messageWriter is the slice of kafka.Writer the consumer needs for its
// failure topics.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Consumer runs a single consumer-group member over the event topic. One
// goroutine fetches and processes messages in order, so events sharing a
// partition key are always applied in the order they were published.
//
// Retryable handler failures are retried in place with backoff; when the
// budget is spent the message moves to the error topic, where the
// reprocessor loop feeds it back into the main topic. Non-retryable
// failures are parked on the dead-letter topic, which the reprocessor
// never touches, so a malformed event cannot circulate back onto the
// main topic.
type Consumer struct {
	reader           *kafka.Reader
	errorWriter      messageWriter
	deadLetterWriter messageWriter
	cfg              *config.KafkaConfig
	handler          messaging.Handler
	log              *slog.Logger
}

func NewConsumer(cfg *config.KafkaConfig, handler messaging.Handler) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  cfg.Brokers,
		Topic:    cfg.Topic,
		GroupID:  cfg.ConsumerGroup,
		MinBytes: 1,
		MaxBytes: 10e6,
	})
	return &Consumer{
		reader:           reader,
		errorWriter:      newFailureWriter(cfg, cfg.ErrorTopic),
		deadLetterWriter: newFailureWriter(cfg, cfg.DeadLetterTopic),
		cfg:              cfg,
		handler:          handler,
		log:              logger.WithComponent("kafka-consumer"),
	}
}

func newFailureWriter(cfg *config.KafkaConfig, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
	}
}

// Start begins consuming until ctx is cancelled.
func (c *Consumer) Start(ctx context.Context) {
	c.log.Info("starting consumer", "topic", c.cfg.Topic, "group", c.cfg.ConsumerGroup)
	go c.run(ctx)
}

func (c *Consumer) run(ctx context.Context) {
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				c.log.Info("consumer stopped")
				return
			}
			c.log.Error("failed to fetch message", "error", err)
			continue
		}

		if err := c.processMessage(ctx, msg); err != nil {
			if ctx.Err() != nil {
				return
			}
			// The message could not be handed off anywhere. Leave the
			// offset uncommitted so it is fetched again instead of lost.
			c.log.Error("failed to hand off message, will refetch",
				"key", string(msg.Key), "offset", msg.Offset, "error", err)
			continue
		}

		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			c.log.Error("failed to commit message", "key", string(msg.Key), "error", err)
		}
	}
}

func (c *Consumer) processMessage(ctx context.Context, msg kafka.Message) error {
	key := string(msg.Key)

	for attempt := 0; ; attempt++ {
		err := c.handler(ctx, key, msg.Value)
		if err == nil {
			c.log.Debug("message processed", "key", key, "offset", msg.Offset)
			return nil
		}

		switch c.dispositionFor(err, attempt) {
		case parkInDeadLetter:
			c.log.Error("irrecoverable message, parking on dead-letter topic",
				"key", key, "offset", msg.Offset, "error", err)
			return c.forward(ctx, c.deadLetterWriter, msg, attempt)
		case deferToErrorTopic:
			c.log.Warn("retry budget exhausted, deferring to error topic",
				"key", key, "offset", msg.Offset, "attempts", attempt+1, "error", err)
			return c.forward(ctx, c.errorWriter, msg, attempt+1)
		}

		c.log.Warn("message failed, retrying", "key", key, "attempt", attempt+1, "error", err)
		backoff := time.Duration(attempt+1) * c.cfg.RetryBackoff
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
	}
}

func (c *Consumer) dispositionFor(err error, attempt int) disposition {
	if !messaging.IsRetryable(err) {
		return parkInDeadLetter
	}
	if attempt+1 >= c.cfg.MaxRetry {
		return deferToErrorTopic
	}
	return retryInPlace
}

func (c *Consumer) forward(ctx context.Context, w messageWriter, msg kafka.Message, retries int) error {
	return w.WriteMessages(ctx, failureMessage(msg, retries))
}

func failureMessage(msg kafka.Message, retries int) kafka.Message {
	return kafka.Message{
		Key:   msg.Key,
		Value: msg.Value,
		Headers: append(msg.Headers, kafka.Header{
			Key: "retry-count", Value: []byte(strconv.Itoa(retries)),
		}),
	}
}

// StartErrorReprocessor moves messages from the error topic back onto the
// main topic after a delay, so a deferred event (for example one that raced
// ahead of its prerequisite) is eventually redelivered and applied. It only
// reads the error topic; parked dead-letter messages stay parked.
func (c *Consumer) StartErrorReprocessor(ctx context.Context, publisher messaging.Publisher, delay time.Duration) {
	errorReader := kafka.NewReader(kafka.ReaderConfig{
		Brokers: c.cfg.Brokers,
		Topic:   c.cfg.ErrorTopic,
		GroupID: c.cfg.ConsumerGroup + "-reprocessor",
	})

	c.log.Info("starting error topic reprocessor", "error_topic", c.cfg.ErrorTopic)

	go func() {
		defer errorReader.Close()
		for {
			msg, err := errorReader.FetchMessage(ctx)
			if err != nil {
				if errors.Is(err, context.Canceled) {
					c.log.Info("error reprocessor stopped")
					return
				}
				c.log.Error("failed to fetch error message", "error", err)
				continue
			}

			select {
			case <-ctx.Done():
				return
			case <-time.After(delay):
			}

			if err := publisher.Publish(ctx, c.cfg.Topic, string(msg.Key), msg.Value); err != nil {
				c.log.Error("failed to requeue error message", "key", string(msg.Key), "error", err)
				continue
			}
			if err := errorReader.CommitMessages(ctx, msg); err != nil {
				c.log.Error("failed to commit error message", "error", err)
			}
		}
	}()
}

func (c *Consumer) Close() error {
	if err := c.reader.Close(); err != nil {
		return err
	}
	if err := c.errorWriter.Close(); err != nil {
		return err
	}
	return c.deadLetterWriter.Close()
}
