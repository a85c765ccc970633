package lookup

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go-household-inventory/pkg/logger"

	"github.com/redis/go-redis/v9"
)

const cacheKeyPrefix = "inventory:lookup:"

type cmdable interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
}

// CachedProvider memoizes successful lookups in Redis. Cache failures fall
// through to the wrapped provider.
type CachedProvider struct {
	next  Provider
	store cmdable
	ttl   time.Duration
	logg  *logger.Logger
}

func NewCachedProvider(next Provider, store cmdable, ttl time.Duration, logg *logger.Logger) *CachedProvider {
	if logg == nil {
		logg = logger.Nop()
	}
	return &CachedProvider{next: next, store: store, ttl: ttl, logg: logg}
}

func CacheKey(barcode string) string {
	return cacheKeyPrefix + barcode
}

func (p *CachedProvider) Lookup(ctx context.Context, barcode string) (*ProductInfo, error) {
	key := CacheKey(barcode)

	raw, err := p.store.Get(ctx, key).Result()
	switch {
	case err == nil:
		var info ProductInfo
		if jsonErr := json.Unmarshal([]byte(raw), &info); jsonErr == nil {
			return &info, nil
		}
		p.logg.Warn(p.logg.WithField(ctx, "key", key), "discarding undecodable lookup cache entry")
	case !errors.Is(err, redis.Nil):
		p.logg.Error(p.logg.WithField(ctx, "key", key), "lookup cache read failed", err)
	}

	info, err := p.next.Lookup(ctx, barcode)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(info); err == nil {
		if err := p.store.Set(ctx, key, payload, p.ttl).Err(); err != nil {
			p.logg.Error(p.logg.WithField(ctx, "key", key), "lookup cache write failed", err)
		}
	}
	return info, nil
}
