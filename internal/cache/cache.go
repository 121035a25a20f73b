// Package cache memoizes transpilation results in a bounded LRU with a
// time-to-live. It is safe for concurrent use.
package cache

import (
	"context"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/golang/groupcache/lru"
	"go.opentelemetry.io/otel/metric"
)

// Default cache settings.
const (
	DefaultCapacity = 100
	DefaultTTL      = 5 * time.Minute
)

// Key identifies one transpilation request.
type Key uint64

// NewKey hashes the source text together with the dialect and any other
// settings that change the generated SQL.
func NewKey(source, dialect string, settings ...string) Key {
	d := xxhash.New()
	_, _ = d.WriteString(source)
	_, _ = d.Write([]byte{0})
	_, _ = d.WriteString(dialect)
	for _, s := range settings {
		_, _ = d.Write([]byte{0})
		_, _ = d.WriteString(s)
	}
	return Key(d.Sum64())
}

type entry struct {
	sql        string
	created    time.Time
	processing time.Duration
	hits       uint64
}

// Cache is an LRU of generated SQL keyed by Key.
type Cache struct {
	mu      sync.Mutex
	entries *lru.Cache
	ttl     time.Duration
	now     func() time.Time
	stats   Stats
	metrics *metrics
}

// Option configures a Cache.
type Option func(*Cache)

// WithTTL sets how long an entry stays valid. Zero or negative disables
// expiry.
func WithTTL(ttl time.Duration) Option {
	return func(c *Cache) {
		c.ttl = ttl
	}
}

// WithMeterProvider records hits, misses, evictions and transpile
// durations through mp.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(c *Cache) {
		if mp != nil {
			c.metrics = newMetrics(mp)
		}
	}
}

// New creates a cache holding at most capacity entries.
func New(capacity int, opts ...Option) *Cache {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	c := &Cache{
		ttl:     DefaultTTL,
		now:     time.Now,
		metrics: newNoopMetrics(),
	}
	for _, opt := range opts {
		opt(c)
	}

	c.entries = lru.New(capacity)
	c.entries.OnEvicted = func(lru.Key, interface{}) {
		c.stats.Evictions++
		c.metrics.evictions.Add(context.Background(), 1)
	}
	c.stats.Capacity = capacity
	return c
}

// Get returns the cached SQL for key. Expired entries are dropped.
func (c *Cache) Get(ctx context.Context, key Key) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	v, ok := c.entries.Get(key)
	if ok {
		e := v.(*entry)
		if c.expired(e) {
			c.removeExpired(key)
		} else {
			e.hits++
			c.stats.Hits++
			c.metrics.hits.Add(ctx, 1)
			return e.sql, true
		}
	}

	c.stats.Misses++
	c.metrics.misses.Add(ctx, 1)
	return "", false
}

// Put stores sql under key. processing is how long producing it took.
func (c *Cache) Put(key Key, sql string, processing time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries.Add(key, &entry{sql: sql, created: c.now(), processing: processing})
}

// GetOrTranspile returns the cached SQL for key, or runs transpile and
// caches its result. Errors are returned but never cached. The second
// result reports whether the value came from the cache.
func (c *Cache) GetOrTranspile(ctx context.Context, key Key, transpile func() (string, error)) (string, bool, error) {
	if sql, ok := c.Get(ctx, key); ok {
		return sql, true, nil
	}

	start := c.now()
	sql, err := transpile()
	elapsed := c.now().Sub(start)
	c.metrics.duration.Record(ctx, float64(elapsed.Microseconds())/1000)
	if err != nil {
		return "", false, err
	}

	c.Put(key, sql, elapsed)
	return sql, false, nil
}

// Clear drops every entry and resets the statistics.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	onEvicted := c.entries.OnEvicted
	c.entries.OnEvicted = nil
	c.entries.Clear()
	c.entries.OnEvicted = onEvicted
	c.stats = Stats{Capacity: c.stats.Capacity}
}

// Len returns the number of entries, including expired ones not yet
// dropped.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.entries.Len()
}

// Stats returns a snapshot of the cache statistics.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.stats
	s.Size = c.entries.Len()
	return s
}

// removeExpired drops key without counting it as a capacity eviction.
func (c *Cache) removeExpired(key Key) {
	onEvicted := c.entries.OnEvicted
	c.entries.OnEvicted = nil
	c.entries.Remove(key)
	c.entries.OnEvicted = onEvicted
	c.stats.Expirations++
}

func (c *Cache) expired(e *entry) bool {
	return c.ttl > 0 && c.now().Sub(e.created) > c.ttl
}
