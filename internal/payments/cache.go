package payments

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"agency-backend/internal/models"
)

// Checkout matches lifecycle.Checkout.
type Checkout interface {
	CheckoutURL(ctx context.Context, e *models.Estimate) (string, error)
}

type RedisCache struct {
	client *redis.Client
}

func NewRedisCache(addr, password string) *RedisCache {
	return &RedisCache{
		client: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
		}),
	}
}

func NewRedisCacheWithClient(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

func checkoutKey(estimateID string) string {
	return fmt.Sprintf("checkout:%s", estimateID)
}

func (r *RedisCache) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Get returns ("", false, nil) on a cache miss.
func (r *RedisCache) Get(ctx context.Context, estimateID string) (string, bool, error) {
	url, err := r.client.Get(ctx, checkoutKey(estimateID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return url, true, nil
}

func (r *RedisCache) Set(ctx context.Context, estimateID, url string, ttl time.Duration) error {
	return r.client.Set(ctx, checkoutKey(estimateID), url, ttl).Err()
}

func (r *RedisCache) Delete(ctx context.Context, estimateID string) error {
	return r.client.Del(ctx, checkoutKey(estimateID)).Err()
}

func (r *RedisCache) Close() error {
	return r.client.Close()
}

// CachedCheckout reuses a resolved checkout URL for ttl so repeated finalize clicks
// share one gateway preference. Cache errors fall through to the wrapped Checkout.
type CachedCheckout struct {
	next   Checkout
	cache  *RedisCache
	ttl    time.Duration
	logger *zap.Logger
}

func NewCachedCheckout(next Checkout, cache *RedisCache, ttl time.Duration, logger *zap.Logger) *CachedCheckout {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedCheckout{next: next, cache: cache, ttl: ttl, logger: logger}
}

func (c *CachedCheckout) CheckoutURL(ctx context.Context, e *models.Estimate) (string, error) {
	id := e.ID.String()

	url, ok, err := c.cache.Get(ctx, id)
	if err != nil {
		c.logger.Warn("checkout cache read failed", zap.String("estimate_id", id), zap.Error(err))
	} else if ok {
		return url, nil
	}

	url, err = c.next.CheckoutURL(ctx, e)
	if err != nil {
		return "", err
	}

	if err := c.cache.Set(ctx, id, url, c.ttl); err != nil {
		c.logger.Warn("checkout cache write failed", zap.String("estimate_id", id), zap.Error(err))
	}
	return url, nil
}

// Invalidate drops the cached URL, e.g. once the estimate is paid.
func (c *CachedCheckout) Invalidate(ctx context.Context, estimateID string) error {
	return c.cache.Delete(ctx, estimateID)
}
