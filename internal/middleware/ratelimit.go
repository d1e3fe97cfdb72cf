// Package middleware provides HTTP middleware for the lease registry server.
package middleware

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rentora/rentora/internal/httputil"
)

const (
	// maxTrackedClients bounds the bucket table so a scan across many
	// source addresses cannot exhaust memory.
	maxTrackedClients = 100_000

	sweepInterval = 5 * time.Minute
	bucketTTL     = 10 * time.Minute
)

// tokenBucket refills fractionally so low rates still smooth out instead of
// releasing tokens in whole-second steps.
type tokenBucket struct {
	tokens   float64
	lastSeen time.Time
}

// RateLimiter applies a per-client-IP token bucket.
type RateLimiter struct {
	mu      sync.Mutex
	clients map[string]*tokenBucket
	rate    float64
	burst   float64
}

// NewRateLimiter creates a limiter allowing ratePerSec sustained requests
// with the given burst per client IP. A background sweeper evicts idle
// buckets until ctx is cancelled.
func NewRateLimiter(ctx context.Context, ratePerSec, burst int) *RateLimiter {
	rl := &RateLimiter{
		clients: make(map[string]*tokenBucket),
		rate:    float64(ratePerSec),
		burst:   float64(burst),
	}
	go rl.sweep(ctx)

	return rl
}

func (rl *RateLimiter) sweep(ctx context.Context) {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			rl.mu.Lock()
			for ip, b := range rl.clients {
				if now.Sub(b.lastSeen) > bucketTTL {
					delete(rl.clients, ip)
				}
			}
			rl.mu.Unlock()
		}
	}
}

// take reports whether the client identified by ip may proceed. It returns
// false both when the bucket is empty and when the table is full and ip is
// not yet tracked.
func (rl *RateLimiter) take(ip string) bool {
	now := time.Now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	b, ok := rl.clients[ip]
	if !ok {
		if len(rl.clients) >= maxTrackedClients {
			return false
		}

		rl.clients[ip] = &tokenBucket{tokens: rl.burst - 1, lastSeen: now}

		return true
	}

	b.tokens += now.Sub(b.lastSeen).Seconds() * rl.rate
	if b.tokens > rl.burst {
		b.tokens = rl.burst
	}

	b.lastSeen = now

	if b.tokens < 1 {
		return false
	}

	b.tokens--

	return true
}

// Handler returns Gin middleware enforcing the limit per client IP.
func (rl *RateLimiter) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		// ClientIP is spoof-safe because the router disables trusted
		// proxy headers with SetTrustedProxies(nil).
		if !rl.take(c.ClientIP()) {
			httputil.RespondError(c, http.StatusTooManyRequests, "rate_limited", "rate limit exceeded")

			return
		}

		c.Next()
	}
}
