// Package cache defines the read-model cache port.
package cache

import (
	"context"
	"errors"

	"rentalcar-backend/internal/domain"
)

// ErrCacheMiss is returned by Get when the view is not cached.
var ErrCacheMiss = errors.New("cache: miss")

// RentalViewCache keeps denormalized rental views close to the query side.
// A miss is reported with ErrCacheMiss; any other error means the cache is
// unreachable and callers should fall through to the view store.
type RentalViewCache interface {
	Get(ctx context.Context, rentalID string) (*domain.RentalView, error)
	Set(ctx context.Context, view *domain.RentalView) error
	Invalidate(ctx context.Context, rentalID string) error
}
