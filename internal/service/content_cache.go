package service

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/egannguyen/storefront-backend/internal/apperror"
	"github.com/egannguyen/storefront-backend/internal/cache"
)

// listCache holds whole storefront lists as JSON under one key each. Cache
// failures are logged and fall through to the store.
type listCache struct {
	cache cache.Cache
	ttl   time.Duration
	log   *zap.Logger
}

func cachedList[T any](ctx context.Context, lc listCache, key string, load func(ctx context.Context) ([]T, error)) ([]T, error) {
	if cached, ok, err := lc.cache.Get(ctx, key); err != nil {
		lc.log.Warn("Cache read failed", zap.String("key", key), zap.Error(err))
	} else if ok {
		var out []T
		if err := json.Unmarshal(cached, &out); err == nil {
			return out, nil
		}
		lc.log.Warn("Discarding unreadable cache entry", zap.String("key", key))
	}

	out, err := load(ctx)
	if err != nil {
		return nil, apperror.FromBackend(err)
	}
	if payload, err := json.Marshal(out); err == nil {
		if err := lc.cache.Set(ctx, key, payload, lc.ttl); err != nil {
			lc.log.Warn("Cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
	return out, nil
}

func (lc listCache) invalidate(ctx context.Context, key string) {
	if err := lc.cache.Delete(ctx, key); err != nil {
		lc.log.Warn("Cache invalidation failed", zap.String("key", key), zap.Error(err))
	}
}
