package kafka

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rentalcar-backend/internal/config"
	"rentalcar-backend/internal/logger"
	"rentalcar-backend/internal/messaging"
)

type stubWriter struct {
	messages []kafka.Message
	err      error
}

func (w *stubWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *stubWriter) Close() error { return nil }

func testConsumer(maxRetry int) *Consumer {
	return &Consumer{
		cfg:              &config.KafkaConfig{MaxRetry: maxRetry, RetryBackoff: time.Millisecond},
		errorWriter:      &stubWriter{},
		deadLetterWriter: &stubWriter{},
		log:              logger.WithComponent("kafka-consumer"),
	}
}

func TestDispositionForIrrecoverableFailure(t *testing.T) {
	c := testConsumer(5)

	// Malformed or unknown events fail with a plain error. They must be
	// parked, never routed to the error topic, because the reprocessor
	// would feed them straight back onto the main topic.
	for attempt := 0; attempt < 10; attempt++ {
		assert.Equal(t, parkInDeadLetter, c.dispositionFor(errors.New("unmarshal event: bad json"), attempt))
	}

	wrapped := fmt.Errorf("handle event: %w", errors.New("unknown event type"))
	assert.Equal(t, parkInDeadLetter, c.dispositionFor(wrapped, 0))
}

func TestDispositionForRetryableFailure(t *testing.T) {
	c := testConsumer(3)
	err := messaging.Retryable(errors.New("view not projected yet"))

	assert.Equal(t, retryInPlace, c.dispositionFor(err, 0))
	assert.Equal(t, retryInPlace, c.dispositionFor(err, 1))
	assert.Equal(t, deferToErrorTopic, c.dispositionFor(err, 2))
}

func TestDispositionForSingleAttemptBudget(t *testing.T) {
	c := testConsumer(1)
	err := messaging.Retryable(errors.New("transient"))

	assert.Equal(t, deferToErrorTopic, c.dispositionFor(err, 0))
}

func TestProcessMessageParksIrrecoverableFailure(t *testing.T) {
	c := testConsumer(5)
	c.handler = func(context.Context, string, []byte) error {
		return errors.New("unmarshal event: bad json")
	}

	msg := kafka.Message{Key: []byte("rental-1"), Value: []byte(`{not json`)}
	require.NoError(t, c.processMessage(context.Background(), msg))

	parked := c.deadLetterWriter.(*stubWriter)
	require.Len(t, parked.messages, 1)
	assert.Equal(t, msg.Value, parked.messages[0].Value)
	assert.Empty(t, c.errorWriter.(*stubWriter).messages)
}

func TestProcessMessageDefersExhaustedRetries(t *testing.T) {
	c := testConsumer(2)
	attempts := 0
	c.handler = func(context.Context, string, []byte) error {
		attempts++
		return messaging.Retryable(errors.New("view not projected yet"))
	}

	msg := kafka.Message{Key: []byte("rental-1"), Value: []byte(`{}`)}
	require.NoError(t, c.processMessage(context.Background(), msg))

	assert.Equal(t, 2, attempts)
	deferred := c.errorWriter.(*stubWriter)
	require.Len(t, deferred.messages, 1)
	assert.Empty(t, c.deadLetterWriter.(*stubWriter).messages)
}

func TestProcessMessageSurfacesParkFailure(t *testing.T) {
	c := testConsumer(5)
	c.deadLetterWriter = &stubWriter{err: errors.New("broker unreachable")}
	c.handler = func(context.Context, string, []byte) error {
		return errors.New("unknown event type")
	}

	// When the message cannot be parked, the caller must see the failure
	// so the offset stays uncommitted and the message is fetched again.
	err := c.processMessage(context.Background(), kafka.Message{Key: []byte("rental-1")})
	require.Error(t, err)
}

func TestFailureMessageCarriesRetryCount(t *testing.T) {
	in := kafka.Message{
		Key:   []byte("rental-1"),
		Value: []byte(`{"event_type":"RentalCreated"}`),
		Headers: []kafka.Header{
			{Key: "content-type", Value: []byte("application/json")},
		},
	}

	out := failureMessage(in, 3)

	assert.Equal(t, in.Key, out.Key)
	assert.Equal(t, in.Value, out.Value)
	require.Len(t, out.Headers, 2)
	assert.Equal(t, "retry-count", out.Headers[1].Key)
	assert.Equal(t, "3", string(out.Headers[1].Value))
}
