package domain

import (
	"time"

	"github.com/google/uuid"
)

type RentalStatus string

const (
	RentalStatusReserved  RentalStatus = "RESERVED"
	RentalStatusActive    RentalStatus = "ACTIVE"
	RentalStatusCompleted RentalStatus = "COMPLETED"
	RentalStatusCancelled RentalStatus = "CANCELLED"
)

// Rental is the aggregate root of a car rental. It references the Customer
// and Car aggregates by id only; it never holds them as objects, so it can
// be validated and persisted on its own.
//
// Legal transitions: RESERVED -> ACTIVE -> COMPLETED, RESERVED -> CANCELLED.
// COMPLETED and CANCELLED are terminal.
type Rental struct {
	RentalID      string       `json:"rental_id"`
	CustomerID    string       `json:"customer_id"`
	CarID         string       `json:"car_id"`
	Period        RentalPeriod `json:"period"`
	TotalCost     Money        `json:"total_cost"`
	Status        RentalStatus `json:"status"`
	CreatedAt     time.Time    `json:"created_at"`
	PickedUpAt    *time.Time   `json:"picked_up_at,omitempty"`
	ReturnedAt    *time.Time   `json:"returned_at,omitempty"`
	StartOdometer *int32       `json:"start_odometer,omitempty"`
	EndOdometer   *int32       `json:"end_odometer,omitempty"`
}

// NewRental creates a rental in RESERVED status with a generated id.
func NewRental(customerID, carID string, period RentalPeriod, totalCost Money) (*Rental, error) {
	if customerID == "" {
		return nil, NewValidationError("customer id cannot be empty")
	}
	if carID == "" {
		return nil, NewValidationError("car id cannot be empty")
	}
	return &Rental{
		RentalID:   uuid.New().String(),
		CustomerID: customerID,
		CarID:      carID,
		Period:     period,
		TotalCost:  totalCost,
		Status:     RentalStatusReserved,
		CreatedAt:  time.Now().UTC(),
	}, nil
}

// Start records the car pickup and moves the rental to ACTIVE.
func (r *Rental) Start(startOdometer int32) error {
	if r.Status != RentalStatusReserved {
		return &InvalidStateTransitionError{Aggregate: "Rental", Current: string(r.Status), Requested: "start"}
	}
	if startOdometer < 0 {
		return NewValidationError("start odometer cannot be negative: %d", startOdometer)
	}
	now := time.Now().UTC()
	r.Status = RentalStatusActive
	r.PickedUpAt = &now
	r.StartOdometer = &startOdometer
	return nil
}

// Complete records the car return and moves the rental to COMPLETED.
func (r *Rental) Complete(endOdometer int32) error {
	if r.Status != RentalStatusActive {
		return &InvalidStateTransitionError{Aggregate: "Rental", Current: string(r.Status), Requested: "complete"}
	}
	if r.StartOdometer == nil || endOdometer < *r.StartOdometer {
		return NewValidationError("end odometer %d cannot be less than start odometer", endOdometer)
	}
	now := time.Now().UTC()
	r.Status = RentalStatusCompleted
	r.ReturnedAt = &now
	r.EndOdometer = &endOdometer
	return nil
}

// Cancel is only legal while the rental is still RESERVED.
func (r *Rental) Cancel() error {
	if r.Status != RentalStatusReserved {
		return &InvalidStateTransitionError{Aggregate: "Rental", Current: string(r.Status), Requested: "cancel"}
	}
	r.Status = RentalStatusCancelled
	return nil
}

// DistanceDriven returns nil until both odometer readings are recorded.
func (r *Rental) DistanceDriven() *int32 {
	if r.StartOdometer == nil || r.EndOdometer == nil {
		return nil
	}
	d := *r.EndOdometer - *r.StartOdometer
	return &d
}

func (r *Rental) IsActive() bool {
	return r.Status == RentalStatusActive
}

func (r *Rental) CanBeModified() bool {
	return r.Status == RentalStatusReserved
}
