package cache

import (
	"context"
	"log"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/medifarma/backend/internal/domain"
)

type entry struct {
	rs         domain.ResultSet
	expiration time.Time
}

// ResultCache stores merged ResultSets keyed by normalized query identity.
// A singleflight group guarantees at most one computation per key: concurrent
// identical queries wait for the in-flight scrape and share its ResultSet.
// It implements domain.ResultCache.
type ResultCache struct {
	ttl   time.Duration
	group singleflight.Group

	mu   sync.RWMutex
	data map[string]entry
}

// NewResultCache builds a cache whose entries expire after ttl. External
// price pages change on their own schedule, so the TTL should stay in the
// minutes range.
func NewResultCache(ttl time.Duration) *ResultCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	c := &ResultCache{
		ttl:  ttl,
		data: make(map[string]entry),
	}
	go c.sweep()
	return c
}

func (c *ResultCache) get(key string) (domain.ResultSet, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.data[key]
	if !ok || time.Now().After(e.expiration) {
		return domain.ResultSet{}, false
	}
	return e.rs, true
}

// GetOrCompute returns the cached ResultSet for the query or invokes compute
// synchronously. Failed computations are shared with concurrent waiters but
// never stored.
func (c *ResultCache) GetOrCompute(ctx context.Context, q domain.SearchQuery, compute func(context.Context) (domain.ResultSet, error)) (domain.ResultSet, error) {
	key := q.Key()

	if rs, ok := c.get(key); ok {
		return rs, nil
	}

	v, err, shared := c.group.Do(key, func() (any, error) {
		// A concurrent caller may have stored the entry between our miss
		// and acquiring the flight.
		if rs, ok := c.get(key); ok {
			return rs, nil
		}
		rs, err := compute(ctx)
		if err != nil {
			return domain.ResultSet{}, err
		}
		c.mu.Lock()
		c.data[key] = entry{rs: rs, expiration: time.Now().Add(c.ttl)}
		c.mu.Unlock()
		return rs, nil
	})
	if err != nil {
		return domain.ResultSet{}, err
	}
	if shared {
		log.Printf("[cache] shared in-flight result for %q", key)
	}
	return v.(domain.ResultSet), nil
}

// InvalidateAll drops every cached entry. A BASE mutation can affect any
// query whose mode includes BASE data, so invalidation is whole-cache.
func (c *ResultCache) InvalidateAll() {
	c.mu.Lock()
	n := len(c.data)
	c.data = make(map[string]entry)
	c.mu.Unlock()
	if n > 0 {
		log.Printf("[cache] invalidated %d entries", n)
	}
}

// Len reports the current number of live entries.
func (c *ResultCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.data)
}

// sweep drops expired entries periodically so abandoned queries do not pin
// memory until the next lookup.
func (c *ResultCache) sweep() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		now := time.Now()
		c.mu.Lock()
		for key, e := range c.data {
			if now.After(e.expiration) {
				delete(c.data, key)
			}
		}
		c.mu.Unlock()
	}
}
