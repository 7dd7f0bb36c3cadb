package redis

import (
	"context"
	"encoding/json"
	"math/rand"
	"time"

	"quizbot/internal/domain"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// PoolLoader fetches the question pool from a backing store.
type PoolLoader interface {
	List(ctx context.Context) ([]domain.Question, error)
}

const poolKey = "quizbot:questions"

// PoolCache keeps the serialized question pool in Redis and falls back to
// the loader on a miss. Useful when several bot replicas share one Redis.
type PoolCache struct {
	client *redis.Client
	loader PoolLoader
	ttl    time.Duration
	sf     singleflight.Group
	rnd    *rand.Rand
}

func NewPoolCache(client *redis.Client, loader PoolLoader, ttl time.Duration) *PoolCache {
	return &PoolCache{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (c *PoolCache) Questions(ctx context.Context) ([]domain.Question, error) {
	// ttl <= 0 disables caching; never store a key without an expiry, or
	// authoring changes would stay invisible forever.
	if c.ttl <= 0 {
		return c.loader.List(ctx)
	}
	if pool, ok := c.cached(ctx); ok {
		return pool, nil
	}

	result, err, _ := c.sf.Do(poolKey, func() (interface{}, error) {
		// Re-check in case another goroutine filled the cache.
		if pool, ok := c.cached(ctx); ok {
			return pool, nil
		}

		pool, err := c.loader.List(ctx)
		if err != nil {
			return nil, err
		}

		if data, err := json.Marshal(pool); err == nil {
			// best-effort: a failed cache write just means a reload next time
			_ = c.client.Set(ctx, poolKey, data, c.ttlWithJitter()).Err()
		}
		return pool, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.Question), nil
}

func (c *PoolCache) cached(ctx context.Context) ([]domain.Question, bool) {
	data, err := c.client.Get(ctx, poolKey).Bytes()
	if err != nil || len(data) == 0 {
		return nil, false
	}
	var pool []domain.Question
	if err := json.Unmarshal(data, &pool); err != nil {
		return nil, false
	}
	return pool, true
}

func (c *PoolCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	jitterMax := int64(c.ttl) / 10
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}
