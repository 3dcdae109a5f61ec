package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"rentalcar-backend/internal/domain"
	"rentalcar-backend/internal/logger"
	"rentalcar-backend/internal/pricing"
	"rentalcar-backend/internal/repository"
)

type rentalCommandService struct {
	tx  repository.TxRunner
	log *slog.Logger
}

func NewRentalCommandService(tx repository.TxRunner) RentalCommandService {
	return &rentalCommandService{
		tx:  tx,
		log: logger.WithService("rental-commands"),
	}
}

// CreateRental reserves a car for an eligible customer. The availability
// check and the status flip to RENTED happen in the same transaction as the
// rental insert, and the car write is version-checked, so two concurrent
// reservations for one car cannot both commit.
func (s *rentalCommandService) CreateRental(ctx context.Context, customerID, carID string, startDate, endDate time.Time) (*domain.Rental, error) {
	period, err := domain.NewRentalPeriod(startDate, endDate)
	if err != nil {
		return nil, err
	}

	var rental *domain.Rental
	err = s.tx.ExecTx(ctx, func(r *repository.Repositories) error {
		customer, err := r.Customers.GetByID(ctx, customerID)
		if err != nil {
			return fmt.Errorf("load customer %s: %w", customerID, err)
		}
		if !customer.IsEligibleToRent() {
			return domain.ErrCustomerNotEligible
		}

		car, err := r.Cars.GetByID(ctx, carID)
		if err != nil {
			return fmt.Errorf("load car %s: %w", carID, err)
		}
		if !car.IsAvailable() {
			return domain.ErrCarUnavailable
		}

		totalCost, err := pricing.TotalCost(car.DailyRate, period)
		if err != nil {
			return err
		}

		rental, err = domain.NewRental(customer.CustomerID, car.CarID, period, totalCost)
		if err != nil {
			return err
		}
		if err := car.MarkRented(); err != nil {
			return err
		}

		if err := r.Rentals.Create(ctx, rental); err != nil {
			return fmt.Errorf("persist rental: %w", err)
		}
		if err := r.Cars.Update(ctx, car); err != nil {
			return fmt.Errorf("persist car: %w", err)
		}
		return s.enqueue(ctx, r, rental, domain.NewRentalCreatedEvent)
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "rental created",
		"rental_id", rental.RentalID, "customer_id", customerID, "car_id", carID,
		"total_cost", rental.TotalCost.String())
	return rental, nil
}

// StartRental records the pickup and moves the rental to ACTIVE.
func (s *rentalCommandService) StartRental(ctx context.Context, rentalID string, startOdometer int32) (*domain.Rental, error) {
	var rental *domain.Rental
	err := s.tx.ExecTx(ctx, func(r *repository.Repositories) error {
		var err error
		rental, err = r.Rentals.GetByID(ctx, rentalID)
		if err != nil {
			return fmt.Errorf("load rental %s: %w", rentalID, err)
		}
		if err := rental.Start(startOdometer); err != nil {
			return err
		}
		if err := r.Rentals.Update(ctx, rental); err != nil {
			return fmt.Errorf("persist rental: %w", err)
		}
		return s.enqueue(ctx, r, rental, domain.NewRentalStartedEvent)
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "rental started", "rental_id", rentalID, "start_odometer", startOdometer)
	return rental, nil
}

// CompleteRental records the return, updates the car odometer and frees the
// car, all in one transaction.
func (s *rentalCommandService) CompleteRental(ctx context.Context, rentalID string, endOdometer int32) (*domain.Rental, error) {
	var rental *domain.Rental
	err := s.tx.ExecTx(ctx, func(r *repository.Repositories) error {
		var err error
		rental, err = r.Rentals.GetByID(ctx, rentalID)
		if err != nil {
			return fmt.Errorf("load rental %s: %w", rentalID, err)
		}
		if err := rental.Complete(endOdometer); err != nil {
			return err
		}

		car, err := r.Cars.GetByID(ctx, rental.CarID)
		if err != nil {
			return fmt.Errorf("load car %s: %w", rental.CarID, err)
		}
		if err := car.UpdateOdometer(endOdometer); err != nil {
			return err
		}
		if err := car.MarkAvailable(); err != nil {
			return err
		}

		if err := r.Rentals.Update(ctx, rental); err != nil {
			return fmt.Errorf("persist rental: %w", err)
		}
		if err := r.Cars.Update(ctx, car); err != nil {
			return fmt.Errorf("persist car: %w", err)
		}
		return s.enqueue(ctx, r, rental, domain.NewRentalCompletedEvent)
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "rental completed", "rental_id", rentalID, "end_odometer", endOdometer)
	return rental, nil
}

// CancelRental is only legal while the rental is RESERVED; it frees the car.
func (s *rentalCommandService) CancelRental(ctx context.Context, rentalID, reason string) (*domain.Rental, error) {
	var rental *domain.Rental
	err := s.tx.ExecTx(ctx, func(r *repository.Repositories) error {
		var err error
		rental, err = r.Rentals.GetByID(ctx, rentalID)
		if err != nil {
			return fmt.Errorf("load rental %s: %w", rentalID, err)
		}
		if err := rental.Cancel(); err != nil {
			return err
		}

		car, err := r.Cars.GetByID(ctx, rental.CarID)
		if err != nil {
			return fmt.Errorf("load car %s: %w", rental.CarID, err)
		}
		if err := car.MarkAvailable(); err != nil {
			return err
		}

		if err := r.Rentals.Update(ctx, rental); err != nil {
			return fmt.Errorf("persist rental: %w", err)
		}
		if err := r.Cars.Update(ctx, car); err != nil {
			return fmt.Errorf("persist car: %w", err)
		}

		event, err := domain.NewRentalCancelledEvent(rental, reason)
		if err != nil {
			return err
		}
		return r.Outbox.Enqueue(ctx, domain.RentalEventsTopic, rental.RentalID, event)
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "rental cancelled", "rental_id", rentalID, "reason", reason)
	return rental, nil
}

func (s *rentalCommandService) enqueue(ctx context.Context, r *repository.Repositories, rental *domain.Rental, build func(*domain.Rental) (domain.EventEnvelope, error)) error {
	event, err := build(rental)
	if err != nil {
		return err
	}
	if err := r.Outbox.Enqueue(ctx, domain.RentalEventsTopic, rental.RentalID, event); err != nil {
		return fmt.Errorf("stage event: %w", err)
	}
	return nil
}
