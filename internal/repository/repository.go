package repository

import (
	"context"

	"rentalcar-backend/internal/domain"
)

type CustomerRepository interface {
	Create(ctx context.Context, customer *domain.Customer) error
	GetByID(ctx context.Context, id string) (*domain.Customer, error)
	Update(ctx context.Context, customer *domain.Customer) error
}

type CarRepository interface {
	Create(ctx context.Context, car *domain.Car) error
	GetByID(ctx context.Context, id string) (*domain.Car, error)
	// Update performs a version-checked write and returns
	// domain.ErrConcurrencyConflict when the row moved underneath us.
	Update(ctx context.Context, car *domain.Car) error
	ListAvailable(ctx context.Context) ([]domain.Car, error)
}

type RentalRepository interface {
	Create(ctx context.Context, rental *domain.Rental) error
	GetByID(ctx context.Context, id string) (*domain.Rental, error)
	Update(ctx context.Context, rental *domain.Rental) error
}

// OutboxRepository stages domain events in the write-side store so they are
// committed atomically with the aggregate changes that produced them.
type OutboxRepository interface {
	Enqueue(ctx context.Context, topic, partitionKey string, envelope domain.EventEnvelope) error
	ListUnpublished(ctx context.Context, limit int) ([]domain.OutboxEvent, error)
	MarkPublished(ctx context.Context, id int64) error
}

// RentalViewRepository is the read-side store. Upsert is the only write path;
// it must be idempotent so event redelivery converges on the same document.
type RentalViewRepository interface {
	Upsert(ctx context.Context, view *domain.RentalView) error
	GetByID(ctx context.Context, rentalID string) (*domain.RentalView, error)
	ListByCustomer(ctx context.Context, customerID string) ([]domain.RentalView, error)
	ListByStatus(ctx context.Context, status string) ([]domain.RentalView, error)
	ListByCar(ctx context.Context, carID string) ([]domain.RentalView, error)
}

// Repositories bundles the write-side repositories that share one transaction.
type Repositories struct {
	Customers CustomerRepository
	Cars      CarRepository
	Rentals   RentalRepository
	Outbox    OutboxRepository
}

// TxRunner runs fn inside a single write-side transaction. Either every write
// made through the passed repositories commits, or none do.
type TxRunner interface {
	ExecTx(ctx context.Context, fn func(r *Repositories) error) error
}
