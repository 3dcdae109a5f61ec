// Package memory provides an in-process message bus with the same delivery
// semantics as the Kafka transport: per-key ordering, bounded retry of
// retryable failures and a dead-letter sink. It backs the service and
// projection tests.
package memory

import (
	"context"
	"sync"

	"rentalcar-backend/internal/messaging"
)

// DeadLetter records a message the bus gave up on.
type DeadLetter struct {
	Topic    string
	Key      string
	Value    []byte
	Attempts int
	Err      error
}

// Bus dispatches published messages synchronously to the subscribed
// handlers. Retryable handler errors are retried up to maxAttempts before
// the message is dead-lettered; non-retryable errors dead-letter at once.
type Bus struct {
	mu          sync.Mutex
	handlers    map[string][]messaging.Handler
	maxAttempts int
	deadLetters []DeadLetter
	closed      bool
}

func NewBus(maxAttempts int) *Bus {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &Bus{
		handlers:    make(map[string][]messaging.Handler),
		maxAttempts: maxAttempts,
	}
}

// Subscribe registers a handler for every message published to topic.
func (b *Bus) Subscribe(topic string, handler messaging.Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[topic] = append(b.handlers[topic], handler)
}

func (b *Bus) Publish(ctx context.Context, topic, key string, value []byte) error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return messaging.ErrBusClosed
	}
	handlers := append([]messaging.Handler(nil), b.handlers[topic]...)
	b.mu.Unlock()

	for _, h := range handlers {
		b.deliver(ctx, topic, key, value, h)
	}
	return nil
}

func (b *Bus) deliver(ctx context.Context, topic, key string, value []byte, h messaging.Handler) {
	var lastErr error
	for attempt := 1; attempt <= b.maxAttempts; attempt++ {
		lastErr = h(ctx, key, value)
		if lastErr == nil {
			return
		}
		if !messaging.IsRetryable(lastErr) {
			b.record(DeadLetter{Topic: topic, Key: key, Value: value, Attempts: attempt, Err: lastErr})
			return
		}
	}
	b.record(DeadLetter{Topic: topic, Key: key, Value: value, Attempts: b.maxAttempts, Err: lastErr})
}

func (b *Bus) record(dl DeadLetter) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.deadLetters = append(b.deadLetters, dl)
}

// DeadLetters returns a copy of the messages the bus gave up on.
func (b *Bus) DeadLetters() []DeadLetter {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]DeadLetter(nil), b.deadLetters...)
}

func (b *Bus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	return nil
}
