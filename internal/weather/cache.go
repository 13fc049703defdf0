package weather

import (
	"fmt"
	"sync"
	"time"

	"github.com/UnknownOlympus/warden/internal/models"
	"github.com/jonboulle/clockwork"
)

// DefaultCacheTTL is how long a fetched conditions bundle stays valid.
const DefaultCacheTTL = 5 * time.Minute

// Key quantizes a coordinate pair to four decimal digits (roughly 11 meters)
// so nearby properties share one cache entry and one external call.
func Key(lat, lng float64) string {
	return fmt.Sprintf("%.4f,%.4f", lat, lng)
}

// Cache defines the interface for conditions caching implementations.
// Get returns cached data if present and not expired, Set stores data with TTL.
type Cache interface {
	Get(key string) (models.WeatherData, bool)
	Set(key string, value models.WeatherData, ttl time.Duration)
}

// cacheEntry stores cached conditions with an expiration timestamp. Entries
// are replaced wholesale on refetch, never mutated in place.
type cacheEntry struct {
	value     models.WeatherData
	expiresAt time.Time
}

// MemoryCache implements Cache using an in-memory map with TTL-based
// expiration measured from insertion (no sliding expiry). Expired entries are
// removed lazily on access. Safe for concurrent use; growth is unbounded,
// which is acceptable for the thousands of distinct keys this service sees.
type MemoryCache struct {
	mu      sync.RWMutex
	clock   clockwork.Clock
	entries map[string]cacheEntry
}

// NewMemoryCache creates a new in-memory cache instance using the wall clock.
func NewMemoryCache() *MemoryCache {
	return NewMemoryCacheWithClock(clockwork.NewRealClock())
}

// NewMemoryCacheWithClock creates a cache with an injected clock.
// Useful for testing expiry with a fake clock.
func NewMemoryCacheWithClock(clock clockwork.Clock) *MemoryCache {
	return &MemoryCache{
		clock:   clock,
		entries: make(map[string]cacheEntry),
	}
}

// Get retrieves cached conditions for the key if present and not expired.
// Returns (data, true) on cache hit, (zero, false) on miss or expiration.
func (c *MemoryCache) Get(key string) (models.WeatherData, bool) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		return models.WeatherData{}, false
	}

	if c.clock.Now().After(entry.expiresAt) {
		c.mu.Lock()
		// Recheck under the write lock; a concurrent Set may have refreshed it.
		if current, stillThere := c.entries[key]; stillThere && c.clock.Now().After(current.expiresAt) {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		return models.WeatherData{}, false
	}

	return entry.value, true
}

// Set stores conditions in the cache with the specified TTL duration.
// An existing entry for the key is overwritten.
func (c *MemoryCache) Set(key string, value models.WeatherData, ttl time.Duration) {
	c.mu.Lock()
	c.entries[key] = cacheEntry{
		value:     value,
		expiresAt: c.clock.Now().Add(ttl),
	}
	c.mu.Unlock()
}
