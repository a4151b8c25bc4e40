package repositories

import (
	"context"
	"strconv"
	"time"

	"github.com/shashiranjanraj/catalog/app/models"
	"github.com/shashiranjanraj/catalog/pkg/cache"
	"github.com/shashiranjanraj/catalog/pkg/logger"
)

// CachedProductStore decorates a ProductStore with a read-through cache of
// Find. Update and Destroy evict the product's entry. Cache failures are
// logged and never fail the request.
type CachedProductStore struct {
	ProductStore
	cache cache.Store
	ttl   time.Duration
}

func NewCachedProductStore(next ProductStore, c cache.Store, ttl time.Duration) *CachedProductStore {
	return &CachedProductStore{ProductStore: next, cache: c, ttl: ttl}
}

func productKey(id uint) string { return "product:" + strconv.FormatUint(uint64(id), 10) }

func (s *CachedProductStore) Find(ctx context.Context, id uint) (models.Product, error) {
	key := productKey(id)

	var p models.Product
	hit, err := s.cache.Get(ctx, key, &p)
	if err != nil {
		logger.WithCtx(ctx).Warn("cache read failed", "key", key, "error", err)
	}
	if hit && err == nil {
		return p, nil
	}

	p, err = s.ProductStore.Find(ctx, id)
	if err != nil {
		return p, err
	}
	if err := s.cache.Set(ctx, key, p, s.ttl); err != nil {
		logger.WithCtx(ctx).Warn("cache write failed", "key", key, "error", err)
	}
	return p, nil
}

func (s *CachedProductStore) Update(ctx context.Context, id uint, in ProductInput) (models.Product, error) {
	p, err := s.ProductStore.Update(ctx, id, in)
	if err == nil {
		s.evict(ctx, id)
	}
	return p, err
}

func (s *CachedProductStore) Destroy(ctx context.Context, id uint) error {
	err := s.ProductStore.Destroy(ctx, id)
	if err == nil {
		s.evict(ctx, id)
	}
	return err
}

func (s *CachedProductStore) evict(ctx context.Context, id uint) {
	if err := s.cache.Del(ctx, productKey(id)); err != nil {
		logger.WithCtx(ctx).Warn("cache evict failed", "product_id", id, "error", err)
	}
}
