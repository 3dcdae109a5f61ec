package jobs

import (
	"context"
	"encoding/json"

	"rentalcar-backend/internal/logger"
)

// RelayOutbox publishes staged events in insertion order and marks each row
// only after the broker confirms delivery. A publish failure stops the batch
// there, so a later event is never delivered ahead of an earlier one for the
// same rental; the failed tail is retried on the next tick. Redelivery after
// a crash between publish and mark is expected and absorbed by the
// idempotent projection.
func (jr *JobRunner) RelayOutbox() {
	jr.runWithRecovery("RelayOutbox", func() {
		ctx := context.Background()

		events, err := jr.outbox.ListUnpublished(ctx, jr.config.Outbox.BatchSize)
		if err != nil {
			logger.Error("Failed to list unpublished events", "error", err)
			return
		}
		if len(events) == 0 {
			return
		}

		published := 0
		for _, event := range events {
			value, err := json.Marshal(event.Envelope)
			if err != nil {
				logger.Error("Failed to encode outbox event", "outbox_id", event.ID, "error", err)
				return
			}
			if err := jr.publisher.Publish(ctx, event.Topic, event.PartitionKey, value); err != nil {
				logger.Error("Failed to publish outbox event, stopping batch",
					"outbox_id", event.ID, "topic", event.Topic, "error", err)
				return
			}
			if err := jr.outbox.MarkPublished(ctx, event.ID); err != nil {
				logger.Error("Failed to mark event published", "outbox_id", event.ID, "error", err)
				return
			}
			published++
		}

		logger.Info("Relayed outbox events", "count", published)
	})
}
