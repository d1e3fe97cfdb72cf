package middleware

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rentora/rentora/internal/domain"
)

const (
	partyCacheTTL      = 5 * time.Minute
	negativeCacheTTL   = 30 * time.Second
	maxCacheEntries    = 10000
	cacheCleanupPeriod = 60 * time.Second
)

// errCachedNotFound is returned for negative cache hits.
var errCachedNotFound = errors.New("party not found (cached)")

type cachedParty struct {
	partyID   uuid.UUID
	negative  bool
	fetchedAt time.Time
}

// ttl returns the appropriate TTL for this entry.
func (cp cachedParty) ttl() time.Duration {
	if cp.negative {
		return negativeCacheTTL
	}
	return partyCacheTTL
}

// hashKey returns a hex-encoded SHA-256 hash of the API key so raw keys
// are never stored in memory.
func hashKey(apiKey string) string {
	h := sha256.Sum256([]byte(apiKey))
	return hex.EncodeToString(h[:])
}

// CachedPartyLookup wraps a PartyLookup with a bounded in-memory cache.
type CachedPartyLookup struct {
	inner domain.PartyLookup
	mu    sync.RWMutex
	cache map[string]cachedParty
}

// NewCachedPartyLookup creates a caching wrapper around the given PartyLookup.
// The provided context controls the lifetime of the background eviction goroutine.
func NewCachedPartyLookup(ctx context.Context, inner domain.PartyLookup) *CachedPartyLookup {
	c := &CachedPartyLookup{
		inner: inner,
		cache: make(map[string]cachedParty),
	}
	go c.evictLoop(ctx)
	return c
}

// evictLoop periodically removes expired entries from the cache.
func (c *CachedPartyLookup) evictLoop(ctx context.Context) {
	ticker := time.NewTicker(cacheCleanupPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.mu.Lock()
			now := time.Now()
			for k, v := range c.cache {
				if now.Sub(v.fetchedAt) >= v.ttl() {
					delete(c.cache, k)
				}
			}
			c.mu.Unlock()
		}
	}
}

// GetPartyByAPIKey returns a cached party ID or delegates to the inner lookup.
// Failed lookups are negatively cached for 30s to prevent brute-force DB hammering.
func (c *CachedPartyLookup) GetPartyByAPIKey(ctx context.Context, apiKey string) (uuid.UUID, error) {
	hk := hashKey(apiKey)

	// Read path with RLock so concurrent cache hits don't serialize.
	c.mu.RLock()
	entry, ok := c.cache[hk]
	if ok && time.Since(entry.fetchedAt) < entry.ttl() {
		c.mu.RUnlock()
		if entry.negative {
			return uuid.Nil, errCachedNotFound
		}
		return entry.partyID, nil
	}
	c.mu.RUnlock()

	// Cache miss or expired: fetch from inner.
	partyID, err := c.inner.GetPartyByAPIKey(ctx, apiKey)
	if err != nil {
		// Negative cache: store failed lookup with short TTL.
		c.mu.Lock()
		c.cache[hk] = cachedParty{negative: true, fetchedAt: time.Now()}
		c.mu.Unlock()
		return uuid.Nil, err
	}

	c.mu.Lock()
	if len(c.cache) >= maxCacheEntries {
		// Evict expired entries, then trim if still over limit.
		now := time.Now()
		for k, v := range c.cache {
			if now.Sub(v.fetchedAt) >= v.ttl() {
				delete(c.cache, k)
			}
		}
		for k := range c.cache {
			if len(c.cache) < maxCacheEntries {
				break
			}
			delete(c.cache, k)
		}
	}
	c.cache[hk] = cachedParty{partyID: partyID, fetchedAt: time.Now()}
	c.mu.Unlock()

	return partyID, nil
}
