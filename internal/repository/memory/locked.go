package memory

import (
	"context"
	"sort"

	"rentalcar-backend/internal/domain"
)

// The locked repositories take the store mutex per call. They serve readers
// that live outside a command transaction, primarily the projection.

type lockedCustomerRepo struct{ s *Store }

func (r *lockedCustomerRepo) Create(ctx context.Context, customer *domain.Customer) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return (&customerRepo{s: r.s}).Create(ctx, customer)
}

func (r *lockedCustomerRepo) GetByID(ctx context.Context, id string) (*domain.Customer, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return (&customerRepo{s: r.s}).GetByID(ctx, id)
}

func (r *lockedCustomerRepo) Update(ctx context.Context, customer *domain.Customer) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return (&customerRepo{s: r.s}).Update(ctx, customer)
}

type lockedCarRepo struct{ s *Store }

func (r *lockedCarRepo) Create(ctx context.Context, car *domain.Car) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return (&carRepo{s: r.s}).Create(ctx, car)
}

func (r *lockedCarRepo) GetByID(ctx context.Context, id string) (*domain.Car, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return (&carRepo{s: r.s}).GetByID(ctx, id)
}

func (r *lockedCarRepo) Update(ctx context.Context, car *domain.Car) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return (&carRepo{s: r.s}).Update(ctx, car)
}

func (r *lockedCarRepo) ListAvailable(ctx context.Context) ([]domain.Car, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return (&carRepo{s: r.s}).ListAvailable(ctx)
}

type lockedRentalRepo struct{ s *Store }

func (r *lockedRentalRepo) Create(ctx context.Context, rental *domain.Rental) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return (&rentalRepo{s: r.s}).Create(ctx, rental)
}

func (r *lockedRentalRepo) GetByID(ctx context.Context, id string) (*domain.Rental, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return (&rentalRepo{s: r.s}).GetByID(ctx, id)
}

func (r *lockedRentalRepo) Update(ctx context.Context, rental *domain.Rental) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return (&rentalRepo{s: r.s}).Update(ctx, rental)
}

type lockedOutboxRepo struct{ s *Store }

func (r *lockedOutboxRepo) Enqueue(ctx context.Context, topic, partitionKey string, envelope domain.EventEnvelope) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return (&outboxRepo{s: r.s}).Enqueue(ctx, topic, partitionKey, envelope)
}

func (r *lockedOutboxRepo) ListUnpublished(ctx context.Context, limit int) ([]domain.OutboxEvent, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return (&outboxRepo{s: r.s}).ListUnpublished(ctx, limit)
}

func (r *lockedOutboxRepo) MarkPublished(ctx context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return (&outboxRepo{s: r.s}).MarkPublished(ctx, id)
}

type viewRepo struct{ s *Store }

func (r *viewRepo) Upsert(_ context.Context, view *domain.RentalView) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.views[view.RentalID] = *view
	return nil
}

func (r *viewRepo) GetByID(_ context.Context, rentalID string) (*domain.RentalView, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	v, ok := r.s.views[rentalID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := v
	return &out, nil
}

func (r *viewRepo) ListByCustomer(ctx context.Context, customerID string) ([]domain.RentalView, error) {
	return r.list(func(v domain.RentalView) bool { return v.CustomerID == customerID })
}

func (r *viewRepo) ListByStatus(ctx context.Context, status string) ([]domain.RentalView, error) {
	return r.list(func(v domain.RentalView) bool { return v.Status == status })
}

func (r *viewRepo) ListByCar(ctx context.Context, carID string) ([]domain.RentalView, error) {
	return r.list(func(v domain.RentalView) bool { return v.CarID == carID })
}

func (r *viewRepo) list(match func(domain.RentalView) bool) ([]domain.RentalView, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []domain.RentalView
	for _, v := range r.s.views {
		if match(v) {
			out = append(out, v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}
