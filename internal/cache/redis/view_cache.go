package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"rentalcar-backend/internal/cache"
	"rentalcar-backend/internal/config"
	"rentalcar-backend/internal/domain"
	"rentalcar-backend/internal/logger"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "rental-view:"

// ViewCache stores rental views as JSON values with a TTL. Cache errors are
// surfaced but never fatal; the query service treats them as misses.
type ViewCache struct {
	client *redis.Client
	ttl    time.Duration
	log    *slog.Logger
}

func NewViewCache(cfg *config.RedisConfig) *ViewCache {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	return &ViewCache{
		client: client,
		ttl:    cfg.TTL,
		log:    logger.WithComponent("view-cache"),
	}
}

func (c *ViewCache) Get(ctx context.Context, rentalID string) (*domain.RentalView, error) {
	data, err := c.client.Get(ctx, keyPrefix+rentalID).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, cache.ErrCacheMiss
		}
		return nil, fmt.Errorf("redis get: %w", err)
	}

	var view domain.RentalView
	if err := json.Unmarshal(data, &view); err != nil {
		// A corrupt entry is unrecoverable, drop it.
		c.log.Warn("evicting undecodable cache entry", "rental_id", rentalID, "error", err)
		c.client.Del(ctx, keyPrefix+rentalID)
		return nil, cache.ErrCacheMiss
	}
	return &view, nil
}

func (c *ViewCache) Set(ctx context.Context, view *domain.RentalView) error {
	data, err := json.Marshal(view)
	if err != nil {
		return fmt.Errorf("marshal view: %w", err)
	}
	if err := c.client.Set(ctx, keyPrefix+view.RentalID, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (c *ViewCache) Invalidate(ctx context.Context, rentalID string) error {
	if err := c.client.Del(ctx, keyPrefix+rentalID).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

func (c *ViewCache) Close() error {
	return c.client.Close()
}
