// Package messaging defines the event transport ports. The broker behind
// them is assumed to be at-least-once with per-key ordering inside a topic.
package messaging

import (
	"context"
	"errors"
)

// Publisher delivers one serialized event envelope to a topic. The key
// selects the partition, so all events sharing a key keep their order.
type Publisher interface {
	Publish(ctx context.Context, topic, key string, value []byte) error
	Close() error
}

// ErrBusClosed is returned by Publish after the transport has been closed.
var ErrBusClosed = errors.New("messaging: bus closed")

// Handler processes one delivered event. Returning a retryable error asks the
// transport to redeliver; any other error routes the event to the dead-letter
// path without stopping the consumer.
type Handler func(ctx context.Context, key string, value []byte) error

type retryableError struct {
	err error
}

func (e *retryableError) Error() string { return e.err.Error() }
func (e *retryableError) Unwrap() error { return e.err }

// Retryable marks err as safe to redeliver.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &retryableError{err: err}
}

func IsRetryable(err error) bool {
	var re *retryableError
	return errors.As(err, &re)
}
