package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"rentalcar-backend/internal/domain"
	"rentalcar-backend/internal/repository"
)

type outboxRepository struct {
	db DBTX
}

func NewOutboxRepository(db DBTX) repository.OutboxRepository {
	return &outboxRepository{db: db}
}

func (r *outboxRepository) Enqueue(ctx context.Context, topic, partitionKey string, envelope domain.EventEnvelope) error {
	raw, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("marshal event envelope: %w", err)
	}
	query := `INSERT INTO outbox_events (event_id, topic, partition_key, envelope, created_on)
	          VALUES ($1, $2, $3, $4, now())`
	if _, err := r.db.ExecContext(ctx, query, envelope.EventID, topic, partitionKey, raw); err != nil {
		return fmt.Errorf("enqueue outbox event: %w", translateErr(err))
	}
	return nil
}

// ListUnpublished returns rows in insertion order so the relay preserves
// per-aggregate event ordering.
func (r *outboxRepository) ListUnpublished(ctx context.Context, limit int) ([]domain.OutboxEvent, error) {
	query := `SELECT id, topic, partition_key, envelope, created_on, published_on
	          FROM outbox_events WHERE published_on IS NULL ORDER BY id LIMIT $1`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, translateErr(err)
	}
	defer rows.Close()

	var events []domain.OutboxEvent
	for rows.Next() {
		var evt domain.OutboxEvent
		var raw []byte
		if err := rows.Scan(&evt.ID, &evt.Topic, &evt.PartitionKey, &raw, &evt.CreatedOn, &evt.PublishedOn); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(raw, &evt.Envelope); err != nil {
			return nil, fmt.Errorf("unmarshal outbox envelope %d: %w", evt.ID, err)
		}
		events = append(events, evt)
	}
	return events, rows.Err()
}

func (r *outboxRepository) MarkPublished(ctx context.Context, id int64) error {
	query := `UPDATE outbox_events SET published_on = now() WHERE id = $1 AND published_on IS NULL`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("mark outbox event published: %w", translateErr(err))
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
