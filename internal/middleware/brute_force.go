package middleware

import (
	"context"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/rentora/rentora/internal/httputil"
)

const (
	lockoutThreshold = 5
	failureWindow    = 15 * time.Minute
	lockoutDuration  = 5 * time.Minute
	guardSweepEvery  = 60 * time.Second
	guardMaxRecords  = 10000
)

type failureRecord struct {
	attempts  int
	firstFail time.Time
	lockedAt  time.Time
}

func (r *failureRecord) locked(now time.Time) bool {
	return !r.lockedAt.IsZero() && now.Sub(r.lockedAt) < lockoutDuration
}

func (r *failureRecord) stale(now time.Time) bool {
	if !r.lockedAt.IsZero() {
		return now.Sub(r.lockedAt) >= lockoutDuration
	}

	return now.Sub(r.firstFail) >= failureWindow
}

// BruteForceGuard locks out API keys that fail authentication repeatedly.
// Keys are tracked by SHA-256 hash so raw key material never sits in memory
// longer than the request that carried it.
type BruteForceGuard struct {
	mu      sync.Mutex
	records map[string]*failureRecord
	log     *logrus.Logger
}

// NewBruteForceGuard creates a guard whose background sweeper runs until ctx
// is cancelled.
func NewBruteForceGuard(ctx context.Context, log *logrus.Logger) *BruteForceGuard {
	g := &BruteForceGuard{
		records: make(map[string]*failureRecord),
		log:     log,
	}
	go g.sweepLoop(ctx)

	return g
}

// IsBlocked reports whether the key is currently locked out.
func (g *BruteForceGuard) IsBlocked(apiKey string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	rec, ok := g.records[hashKey(apiKey)]

	return ok && rec.locked(time.Now())
}

// RecordFailure counts a failed authentication attempt against the key and
// locks it once the threshold is crossed within the failure window.
func (g *BruteForceGuard) RecordFailure(apiKey string) {
	kh := hashKey(apiKey)
	now := time.Now()

	g.mu.Lock()
	defer g.mu.Unlock()

	rec, ok := g.records[kh]
	if !ok {
		g.records[kh] = &failureRecord{attempts: 1, firstFail: now}

		return
	}

	if now.Sub(rec.firstFail) > failureWindow {
		*rec = failureRecord{attempts: 1, firstFail: now}

		return
	}

	rec.attempts++
	if rec.attempts >= lockoutThreshold {
		rec.lockedAt = now
		g.log.WithField("key_hash", kh[:16]+"...").Warn("api key locked out after repeated auth failures")
	}
}

// ResetKey clears tracking for a key after a successful authentication.
func (g *BruteForceGuard) ResetKey(apiKey string) {
	g.mu.Lock()
	delete(g.records, hashKey(apiKey))
	g.mu.Unlock()
}

func (g *BruteForceGuard) sweepLoop(ctx context.Context) {
	ticker := time.NewTicker(guardSweepEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			g.mu.Lock()
			for k, rec := range g.records {
				if rec.stale(now) {
					delete(g.records, k)
				}
			}
			if over := len(g.records) - guardMaxRecords; over > 0 {
				g.evictOldest(over)
			}
			g.mu.Unlock()
		}
	}
}

// evictOldest drops the n records with the oldest first failure. Caller must
// hold g.mu.
func (g *BruteForceGuard) evictOldest(n int) {
	type aged struct {
		key       string
		firstFail time.Time
	}

	entries := make([]aged, 0, len(g.records))
	for k, rec := range g.records {
		entries = append(entries, aged{k, rec.firstFail})
	}

	slices.SortFunc(entries, func(a, b aged) int {
		return a.firstFail.Compare(b.firstFail)
	})

	for i := range n {
		delete(g.records, entries[i].key)
	}
}

// BruteForceMiddleware rejects requests bearing a locked-out API key before
// they reach the party lookup.
func BruteForceMiddleware(guard *BruteForceGuard) gin.HandlerFunc {
	return func(c *gin.Context) {
		apiKey := ExtractBearerToken(c)
		if apiKey != "" && guard.IsBlocked(apiKey) {
			httputil.RespondError(c, http.StatusTooManyRequests, "rate_limited", "too many failed authentication attempts")

			return
		}

		c.Next()
	}
}
