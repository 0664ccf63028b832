// Package cache provides a redis-backed JSON lookup cache for read paths.
// The transfer engine and the accrual sweep never read through it: they CAS
// on the stored version token and must always see the store directly.
package cache

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// NewClient connects to redis and verifies the connection. An empty addr
// returns nil, which every Lookup treats as "cache disabled".
func NewClient(addr, password string) (*redis.Client, error) {
	if addr == "" {
		return nil, nil
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return rdb, nil
}

// Lookup is a typed JSON cache over one key namespace. Values expire after
// the TTL; writers additionally evict on every mutation, so the TTL only
// bounds staleness from background accrual.
type Lookup[T any] struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func NewLookup[T any](client *redis.Client, prefix string, ttl time.Duration) *Lookup[T] {
	return &Lookup[T]{client: client, prefix: prefix, ttl: ttl}
}

// Get returns the cached value, or (zero, false) on miss, disabled cache or
// decode failure. Cache errors are never surfaced to callers.
func (c *Lookup[T]) Get(ctx context.Context, key string) (T, bool) {
	var v T
	if c == nil || c.client == nil {
		return v, false
	}
	data, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if err != nil {
		return v, false
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return v, false
	}
	return v, true
}

// Set stores the value under key. Failures are logged, not returned: a
// missed cache write costs one extra store read later, nothing more.
func (c *Lookup[T]) Set(ctx context.Context, key string, v T) {
	if c == nil || c.client == nil {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		log.Printf("[cache] marshal %s%s: %v", c.prefix, key, err)
		return
	}
	if err := c.client.Set(ctx, c.prefix+key, data, c.ttl).Err(); err != nil {
		log.Printf("[cache] set %s%s: %v", c.prefix, key, err)
	}
}

// Evict drops the key after a write so the next read sees fresh state.
func (c *Lookup[T]) Evict(ctx context.Context, key string) {
	if c == nil || c.client == nil {
		return
	}
	if err := c.client.Del(ctx, c.prefix+key).Err(); err != nil {
		log.Printf("[cache] evict %s%s: %v", c.prefix, key, err)
	}
}
