// Package service hosts the application layer. Command services run every
// state change inside one write-side transaction and stage the resulting
// events in the outbox; the query service only ever touches the read model.
package service

import (
	"context"
	"time"

	"rentalcar-backend/internal/domain"
)

// RentalCommandService drives the rental lifecycle. Each call loads the
// aggregates it needs, applies the transition, and commits the aggregate
// writes together with the outbox entry in a single transaction.
type RentalCommandService interface {
	CreateRental(ctx context.Context, customerID, carID string, startDate, endDate time.Time) (*domain.Rental, error)
	StartRental(ctx context.Context, rentalID string, startOdometer int32) (*domain.Rental, error)
	CompleteRental(ctx context.Context, rentalID string, endOdometer int32) (*domain.Rental, error)
	CancelRental(ctx context.Context, rentalID, reason string) (*domain.Rental, error)
}

type FleetService interface {
	AddCar(ctx context.Context, vin, licensePlate, make, model string, year int32, category string, dailyRate domain.Money) (*domain.Car, error)
	GetCar(ctx context.Context, carID string) (*domain.Car, error)
	ListAvailableCars(ctx context.Context) ([]domain.Car, error)
	SendToMaintenance(ctx context.Context, carID string) (*domain.Car, error)
	ReturnFromMaintenance(ctx context.Context, carID string) (*domain.Car, error)
}

type CustomerService interface {
	RegisterCustomer(ctx context.Context, firstName, lastName string, dateOfBirth time.Time, contact domain.ContactInfo, license domain.LicenseInfo) (*domain.Customer, error)
	GetCustomer(ctx context.Context, customerID string) (*domain.Customer, error)
	VerifyCustomer(ctx context.Context, customerID string) (*domain.Customer, error)
	UpdateContactInfo(ctx context.Context, customerID string, contact domain.ContactInfo) (*domain.Customer, error)
	UpdateLicenseInfo(ctx context.Context, customerID string, license domain.LicenseInfo) (*domain.Customer, error)
}

// RentalQueryService serves the denormalized rental views. Results may lag
// the write side briefly while the projection catches up.
type RentalQueryService interface {
	GetRentalView(ctx context.Context, rentalID string) (*domain.RentalView, error)
	ListRentalsByCustomer(ctx context.Context, customerID string) ([]domain.RentalView, error)
	ListRentalsByStatus(ctx context.Context, status string) ([]domain.RentalView, error)
	ListRentalsByCar(ctx context.Context, carID string) ([]domain.RentalView, error)
}
