package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/rentora/rentora/internal/middleware"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func limitedRouter(tb testing.TB, ratePerSec, burst int) *gin.Engine {
	tb.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	tb.Cleanup(cancel)

	r := gin.New()
	r.Use(middleware.NewRateLimiter(ctx, ratePerSec, burst).Handler())
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	return r
}

func hit(r *gin.Engine, remoteAddr string) int {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", http.NoBody)
	req.RemoteAddr = remoteAddr
	r.ServeHTTP(w, req)

	return w.Code
}

func TestRateLimiterAllowsBurstThenBlocks(t *testing.T) {
	r := limitedRouter(t, 1, 2)

	for i := range 2 {
		if code := hit(r, "1.2.3.4:1234"); code != http.StatusOK {
			t.Fatalf("request %d: got %d, want 200", i, code)
		}
	}

	if code := hit(r, "1.2.3.4:1234"); code != http.StatusTooManyRequests {
		t.Fatalf("burst exhausted: got %d, want 429", code)
	}
}

func TestRateLimiterBucketsArePerIP(t *testing.T) {
	r := limitedRouter(t, 1, 1)

	hit(r, "1.1.1.1:1000")

	if code := hit(r, "2.2.2.2:1000"); code != http.StatusOK {
		t.Fatalf("second IP got %d, want 200", code)
	}
}

func TestRateLimiterRefills(t *testing.T) {
	// Rate high enough that the bucket refills between two requests.
	r := limitedRouter(t, 1_000_000, 2)

	for range 2 {
		hit(r, "5.5.5.5:1000")
	}

	if code := hit(r, "5.5.5.5:1000"); code != http.StatusOK {
		t.Fatalf("got %d after refill, want 200", code)
	}
}
