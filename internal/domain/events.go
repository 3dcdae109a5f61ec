package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RentalEventsTopic carries every rental lifecycle event, keyed by rental id
// so the broker preserves per-rental ordering.
const RentalEventsTopic = "rental-events"

const aggregateTypeRental = "Rental"

type EventType string

const (
	EventRentalCreated   EventType = "RentalCreated"
	EventRentalStarted   EventType = "RentalStarted"
	EventRentalCompleted EventType = "RentalCompleted"
	EventRentalCancelled EventType = "RentalCancelled"
)

// EventEnvelope is the wire form of a domain event. EventType is the
// discriminant for the payload variant; consumers must match on it
// exhaustively. Events are immutable facts: version starts at 1 and an event
// is never amended, only superseded by a later event for the same aggregate.
type EventEnvelope struct {
	EventID       string          `json:"event_id"`
	OccurredOn    time.Time       `json:"occurred_on"`
	AggregateID   string          `json:"aggregate_id"`
	AggregateType string          `json:"aggregate_type"`
	Version       int64           `json:"version"`
	EventType     EventType       `json:"event_type"`
	Payload       json.RawMessage `json:"payload"`
}

func (e EventEnvelope) UnmarshalPayload(v any) error {
	return json.Unmarshal(e.Payload, v)
}

type RentalCreatedPayload struct {
	CustomerID        string          `json:"customer_id"`
	CarID             string          `json:"car_id"`
	StartDate         time.Time       `json:"start_date"`
	EndDate           time.Time       `json:"end_date"`
	TotalCostAmount   decimal.Decimal `json:"total_cost_amount"`
	TotalCostCurrency string          `json:"total_cost_currency"`
	Status            string          `json:"status"`
}

type RentalStartedPayload struct {
	StartOdometer int32     `json:"start_odometer"`
	PickedUpAt    time.Time `json:"picked_up_at"`
}

type RentalCompletedPayload struct {
	CarID       string    `json:"car_id"`
	EndOdometer int32     `json:"end_odometer"`
	ReturnedAt  time.Time `json:"returned_at"`
}

type RentalCancelledPayload struct {
	CarID  string `json:"car_id"`
	Reason string `json:"reason"`
}

// NewRentalCreatedEvent snapshots every field the projection needs, so the
// event is self-sufficient even if the write-side row is re-read later.
func NewRentalCreatedEvent(r *Rental) (EventEnvelope, error) {
	return newEnvelope(r.RentalID, EventRentalCreated, RentalCreatedPayload{
		CustomerID:        r.CustomerID,
		CarID:             r.CarID,
		StartDate:         r.Period.StartDate,
		EndDate:           r.Period.EndDate,
		TotalCostAmount:   r.TotalCost.Amount,
		TotalCostCurrency: r.TotalCost.Currency,
		Status:            string(RentalStatusReserved),
	})
}

func NewRentalStartedEvent(r *Rental) (EventEnvelope, error) {
	return newEnvelope(r.RentalID, EventRentalStarted, RentalStartedPayload{
		StartOdometer: *r.StartOdometer,
		PickedUpAt:    *r.PickedUpAt,
	})
}

func NewRentalCompletedEvent(r *Rental) (EventEnvelope, error) {
	return newEnvelope(r.RentalID, EventRentalCompleted, RentalCompletedPayload{
		CarID:       r.CarID,
		EndOdometer: *r.EndOdometer,
		ReturnedAt:  *r.ReturnedAt,
	})
}

func NewRentalCancelledEvent(r *Rental, reason string) (EventEnvelope, error) {
	return newEnvelope(r.RentalID, EventRentalCancelled, RentalCancelledPayload{
		CarID:  r.CarID,
		Reason: reason,
	})
}

func newEnvelope(aggregateID string, eventType EventType, payload any) (EventEnvelope, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return EventEnvelope{}, err
	}
	return EventEnvelope{
		EventID:       uuid.New().String(),
		OccurredOn:    time.Now().UTC(),
		AggregateID:   aggregateID,
		AggregateType: aggregateTypeRental,
		Version:       1,
		EventType:     eventType,
		Payload:       raw,
	}, nil
}

// OutboxEvent is an envelope staged in the write-side store, in the same
// transaction as the aggregate change it describes. The relay publishes rows
// in insertion order and marks them only on confirmed delivery.
type OutboxEvent struct {
	ID           int64
	Topic        string
	PartitionKey string
	Envelope     EventEnvelope
	CreatedOn    time.Time
	PublishedOn  *time.Time
}
