package service

import (
	"context"
	"errors"
	"log/slog"

	"rentalcar-backend/internal/cache"
	"rentalcar-backend/internal/domain"
	"rentalcar-backend/internal/logger"
	"rentalcar-backend/internal/repository"
)

type rentalQueryService struct {
	views repository.RentalViewRepository
	cache cache.RentalViewCache
	log   *slog.Logger
}

// NewRentalQueryService serves rental views, read-through via the cache when
// one is configured. Pass a nil cache to read straight from the view store.
func NewRentalQueryService(views repository.RentalViewRepository, viewCache cache.RentalViewCache) RentalQueryService {
	return &rentalQueryService{
		views: views,
		cache: viewCache,
		log:   logger.WithService("rental-queries"),
	}
}

func (s *rentalQueryService) GetRentalView(ctx context.Context, rentalID string) (*domain.RentalView, error) {
	if s.cache != nil {
		view, err := s.cache.Get(ctx, rentalID)
		if err == nil {
			return view, nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			s.log.WarnContext(ctx, "cache read failed, falling through", "rental_id", rentalID, "error", err)
		}
	}

	view, err := s.views.GetByID(ctx, rentalID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, view); err != nil {
			s.log.WarnContext(ctx, "cache write failed", "rental_id", rentalID, "error", err)
		}
	}
	return view, nil
}

func (s *rentalQueryService) ListRentalsByCustomer(ctx context.Context, customerID string) ([]domain.RentalView, error) {
	return s.views.ListByCustomer(ctx, customerID)
}

func (s *rentalQueryService) ListRentalsByStatus(ctx context.Context, status string) ([]domain.RentalView, error) {
	return s.views.ListByStatus(ctx, status)
}

func (s *rentalQueryService) ListRentalsByCar(ctx context.Context, carID string) ([]domain.RentalView, error) {
	return s.views.ListByCar(ctx, carID)
}
