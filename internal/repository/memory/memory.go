// Package memory holds map-backed repositories with the same contracts as
// the postgres store, including the version check on car updates and
// snapshot rollback in ExecTx. The service and projection tests run on it.
package memory

import (
	"context"
	"sync"
	"time"

	"rentalcar-backend/internal/domain"
	"rentalcar-backend/internal/repository"
)

// Store keeps every table in memory behind one mutex. ExecTx serializes
// writers, which mirrors how the SQL store isolates command transactions.
type Store struct {
	mu sync.Mutex

	customers map[string]domain.Customer
	cars      map[string]domain.Car
	rentals   map[string]domain.Rental
	views     map[string]domain.RentalView

	outbox   []domain.OutboxEvent
	outboxID int64
}

func NewStore() *Store {
	return &Store{
		customers: make(map[string]domain.Customer),
		cars:      make(map[string]domain.Car),
		rentals:   make(map[string]domain.Rental),
		views:     make(map[string]domain.RentalView),
	}
}

// ExecTx runs fn under the store lock. On error every table is restored to
// its pre-transaction snapshot, so partial writes never leak out.
func (s *Store) ExecTx(ctx context.Context, fn func(r *repository.Repositories) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.snapshot()
	repos := &repository.Repositories{
		Customers: &customerRepo{s: s},
		Cars:      &carRepo{s: s},
		Rentals:   &rentalRepo{s: s},
		Outbox:    &outboxRepo{s: s},
	}
	if err := fn(repos); err != nil {
		s.restore(snapshot)
		return err
	}
	return nil
}

type storeSnapshot struct {
	customers map[string]domain.Customer
	cars      map[string]domain.Car
	rentals   map[string]domain.Rental
	outbox    []domain.OutboxEvent
	outboxID  int64
}

func (s *Store) snapshot() storeSnapshot {
	return storeSnapshot{
		customers: cloneMap(s.customers),
		cars:      cloneMap(s.cars),
		rentals:   cloneMap(s.rentals),
		outbox:    append([]domain.OutboxEvent(nil), s.outbox...),
		outboxID:  s.outboxID,
	}
}

func (s *Store) restore(snap storeSnapshot) {
	s.customers = snap.customers
	s.cars = snap.cars
	s.rentals = snap.rentals
	s.outbox = snap.outbox
	s.outboxID = snap.outboxID
}

func cloneMap[V any](m map[string]V) map[string]V {
	out := make(map[string]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Customers, Cars, Rentals, Outbox and Views expose the repositories outside
// a transaction, locking per call. The projection reads through these.
func (s *Store) Customers() repository.CustomerRepository { return &lockedCustomerRepo{s: s} }
func (s *Store) Cars() repository.CarRepository           { return &lockedCarRepo{s: s} }
func (s *Store) Rentals() repository.RentalRepository     { return &lockedRentalRepo{s: s} }
func (s *Store) Outbox() repository.OutboxRepository      { return &lockedOutboxRepo{s: s} }
func (s *Store) Views() repository.RentalViewRepository   { return &viewRepo{s: s} }

type customerRepo struct{ s *Store }

func (r *customerRepo) Create(_ context.Context, customer *domain.Customer) error {
	r.s.customers[customer.CustomerID] = *customer
	return nil
}

func (r *customerRepo) GetByID(_ context.Context, id string) (*domain.Customer, error) {
	c, ok := r.s.customers[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := c
	return &out, nil
}

func (r *customerRepo) Update(_ context.Context, customer *domain.Customer) error {
	if _, ok := r.s.customers[customer.CustomerID]; !ok {
		return domain.ErrNotFound
	}
	r.s.customers[customer.CustomerID] = *customer
	return nil
}

type carRepo struct{ s *Store }

func (r *carRepo) Create(_ context.Context, car *domain.Car) error {
	car.Version = 1
	r.s.cars[car.CarID] = *car
	return nil
}

func (r *carRepo) GetByID(_ context.Context, id string) (*domain.Car, error) {
	c, ok := r.s.cars[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := c
	return &out, nil
}

func (r *carRepo) Update(_ context.Context, car *domain.Car) error {
	current, ok := r.s.cars[car.CarID]
	if !ok {
		return domain.ErrNotFound
	}
	if current.Version != car.Version {
		return domain.ErrConcurrencyConflict
	}
	car.Version++
	r.s.cars[car.CarID] = *car
	return nil
}

func (r *carRepo) ListAvailable(_ context.Context) ([]domain.Car, error) {
	var out []domain.Car
	for _, c := range r.s.cars {
		if c.IsAvailable() {
			out = append(out, c)
		}
	}
	return out, nil
}

type rentalRepo struct{ s *Store }

func (r *rentalRepo) Create(_ context.Context, rental *domain.Rental) error {
	r.s.rentals[rental.RentalID] = *rental
	return nil
}

func (r *rentalRepo) GetByID(_ context.Context, id string) (*domain.Rental, error) {
	rr, ok := r.s.rentals[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := rr
	return &out, nil
}

func (r *rentalRepo) Update(_ context.Context, rental *domain.Rental) error {
	if _, ok := r.s.rentals[rental.RentalID]; !ok {
		return domain.ErrNotFound
	}
	r.s.rentals[rental.RentalID] = *rental
	return nil
}

type outboxRepo struct{ s *Store }

func (r *outboxRepo) Enqueue(_ context.Context, topic, partitionKey string, envelope domain.EventEnvelope) error {
	r.s.outboxID++
	r.s.outbox = append(r.s.outbox, domain.OutboxEvent{
		ID:           r.s.outboxID,
		Topic:        topic,
		PartitionKey: partitionKey,
		Envelope:     envelope,
		CreatedOn:    time.Now().UTC(),
	})
	return nil
}

func (r *outboxRepo) ListUnpublished(_ context.Context, limit int) ([]domain.OutboxEvent, error) {
	var out []domain.OutboxEvent
	for _, e := range r.s.outbox {
		if e.PublishedOn == nil {
			out = append(out, e)
			if len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

func (r *outboxRepo) MarkPublished(_ context.Context, id int64) error {
	for i := range r.s.outbox {
		if r.s.outbox[i].ID == id {
			now := time.Now().UTC()
			r.s.outbox[i].PublishedOn = &now
			return nil
		}
	}
	return domain.ErrNotFound
}
