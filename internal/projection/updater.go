// Package projection maintains the rental read model from the event stream.
package projection

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"rentalcar-backend/internal/cache"
	"rentalcar-backend/internal/domain"
	"rentalcar-backend/internal/logger"
	"rentalcar-backend/internal/messaging"
	"rentalcar-backend/internal/pricing"
	"rentalcar-backend/internal/repository"
)

// Updater applies rental events to the view store. HandleEvent is idempotent:
// replaying a delivered event converges on the same view row, so the
// at-least-once transport never corrupts the read model.
//
// Errors split two ways. An event that arrived before its prerequisite (a
// RentalStarted before the view exists) is retryable and comes back through
// redelivery. A malformed or unknown event can never succeed and is reported
// as a plain error so the transport dead-letters it instead of looping.
type Updater struct {
	rentals   repository.RentalRepository
	customers repository.CustomerRepository
	cars      repository.CarRepository
	views     repository.RentalViewRepository
	cache     cache.RentalViewCache
	log       *slog.Logger
}

func NewUpdater(
	rentals repository.RentalRepository,
	customers repository.CustomerRepository,
	cars repository.CarRepository,
	views repository.RentalViewRepository,
	viewCache cache.RentalViewCache,
) *Updater {
	return &Updater{
		rentals:   rentals,
		customers: customers,
		cars:      cars,
		views:     views,
		cache:     viewCache,
		log:       logger.WithComponent("projection"),
	}
}

// HandleEvent is the messaging.Handler for the rental events topic.
func (u *Updater) HandleEvent(ctx context.Context, key string, value []byte) error {
	var envelope domain.EventEnvelope
	if err := json.Unmarshal(value, &envelope); err != nil {
		return fmt.Errorf("malformed event for key %s: %w", key, err)
	}

	u.log.DebugContext(ctx, "applying event",
		"event_id", envelope.EventID, "event_type", envelope.EventType, "aggregate_id", envelope.AggregateID)

	switch envelope.EventType {
	case domain.EventRentalCreated:
		return u.applyCreated(ctx, envelope)
	case domain.EventRentalStarted:
		return u.applyStarted(ctx, envelope)
	case domain.EventRentalCompleted:
		return u.applyCompleted(ctx, envelope)
	case domain.EventRentalCancelled:
		return u.applyCancelled(ctx, envelope)
	default:
		return fmt.Errorf("unknown event type %q for event %s", envelope.EventType, envelope.EventID)
	}
}

func (u *Updater) applyCreated(ctx context.Context, envelope domain.EventEnvelope) error {
	var payload domain.RentalCreatedPayload
	if err := envelope.UnmarshalPayload(&payload); err != nil {
		return fmt.Errorf("decode RentalCreated payload: %w", err)
	}

	rental, err := u.rentals.GetByID(ctx, envelope.AggregateID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			// The write-side row is not visible yet, come back later.
			return messaging.Retryable(fmt.Errorf("rental %s not readable yet: %w", envelope.AggregateID, err))
		}
		return messaging.Retryable(fmt.Errorf("load rental %s: %w", envelope.AggregateID, err))
	}

	customer, err := u.customers.GetByID(ctx, payload.CustomerID)
	if err != nil {
		return fmt.Errorf("load customer %s: %w", payload.CustomerID, err)
	}
	car, err := u.cars.GetByID(ctx, payload.CarID)
	if err != nil {
		return fmt.Errorf("load car %s: %w", payload.CarID, err)
	}

	totalCost := domain.Money{Amount: payload.TotalCostAmount, Currency: payload.TotalCostCurrency}
	view := &domain.RentalView{
		RentalID: envelope.AggregateID,

		CustomerID:    customer.CustomerID,
		CustomerName:  customer.FullName(),
		CustomerEmail: customer.Contact.Email,
		CustomerPhone: customer.Contact.Phone,

		CarID:           car.CarID,
		CarMake:         car.Specification.Make,
		CarModel:        car.Specification.Model,
		CarYear:         car.Specification.Year,
		CarCategory:     string(car.Specification.Category),
		CarLicensePlate: car.LicensePlate,

		StartDate:    payload.StartDate,
		EndDate:      payload.EndDate,
		DurationDays: rental.Period.DurationDays(),

		TotalCostAmount:    payload.TotalCostAmount,
		TotalCostCurrency:  payload.TotalCostCurrency,
		FormattedTotalCost: totalCost.String(),

		Status:      payload.Status,
		CreatedAt:   rental.CreatedAt,
		LastUpdated: envelope.OccurredOn,
	}
	return u.store(ctx, view)
}

func (u *Updater) applyStarted(ctx context.Context, envelope domain.EventEnvelope) error {
	var payload domain.RentalStartedPayload
	if err := envelope.UnmarshalPayload(&payload); err != nil {
		return fmt.Errorf("decode RentalStarted payload: %w", err)
	}

	view, err := u.loadView(ctx, envelope)
	if err != nil {
		return err
	}

	view.Status = string(domain.RentalStatusActive)
	view.PickedUpAt = timePtr(payload.PickedUpAt)
	view.StartOdometer = int32Ptr(payload.StartOdometer)
	view.LastUpdated = envelope.OccurredOn
	return u.store(ctx, view)
}

func (u *Updater) applyCompleted(ctx context.Context, envelope domain.EventEnvelope) error {
	var payload domain.RentalCompletedPayload
	if err := envelope.UnmarshalPayload(&payload); err != nil {
		return fmt.Errorf("decode RentalCompleted payload: %w", err)
	}

	view, err := u.loadView(ctx, envelope)
	if err != nil {
		return err
	}

	view.Status = string(domain.RentalStatusCompleted)
	view.ReturnedAt = timePtr(payload.ReturnedAt)
	view.EndOdometer = int32Ptr(payload.EndOdometer)
	if view.StartOdometer != nil {
		view.TotalKilometers = int32Ptr(payload.EndOdometer - *view.StartOdometer)
	}
	view.LastUpdated = envelope.OccurredOn
	return u.store(ctx, view)
}

func (u *Updater) applyCancelled(ctx context.Context, envelope domain.EventEnvelope) error {
	var payload domain.RentalCancelledPayload
	if err := envelope.UnmarshalPayload(&payload); err != nil {
		return fmt.Errorf("decode RentalCancelled payload: %w", err)
	}

	view, err := u.loadView(ctx, envelope)
	if err != nil {
		return err
	}

	view.Status = string(domain.RentalStatusCancelled)
	view.CancellationReason = payload.Reason
	view.LastUpdated = envelope.OccurredOn
	return u.store(ctx, view)
}

// loadView fetches the view a lifecycle event amends. A missing view means
// the RentalCreated event has not been applied yet, which redelivery fixes.
func (u *Updater) loadView(ctx context.Context, envelope domain.EventEnvelope) (*domain.RentalView, error) {
	view, err := u.views.GetByID(ctx, envelope.AggregateID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, messaging.Retryable(fmt.Errorf("view for rental %s not projected yet", envelope.AggregateID))
		}
		return nil, messaging.Retryable(fmt.Errorf("load view %s: %w", envelope.AggregateID, err))
	}
	return view, nil
}

func (u *Updater) store(ctx context.Context, view *domain.RentalView) error {
	if err := u.views.Upsert(ctx, view); err != nil {
		return messaging.Retryable(fmt.Errorf("upsert view %s: %w", view.RentalID, err))
	}
	if u.cache != nil {
		if err := u.cache.Invalidate(ctx, view.RentalID); err != nil {
			u.log.WarnContext(ctx, "cache invalidation failed", "rental_id", view.RentalID, "error", err)
		}
	}
	return nil
}

// CostPerDay is used by view consumers that want the per-day figure; it is
// derived, never stored.
func CostPerDay(view *domain.RentalView) (domain.Money, error) {
	period := domain.RentalPeriod{StartDate: view.StartDate, EndDate: view.EndDate}
	total := domain.Money{Amount: view.TotalCostAmount, Currency: view.TotalCostCurrency}
	return pricing.CostPerDay(total, period)
}

func timePtr(t time.Time) *time.Time { return &t }
func int32Ptr(v int32) *int32        { return &v }
