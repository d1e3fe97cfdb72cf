// Package store provides focused, single-concern data access stores for
// the rentora lease registry.
//
// Each store owns one domain (parties, properties, leases, audit) and
// embeds shared helpers (Pool, logger) via the Base struct. Stores never
// import each other. Lease writes are special: they only happen inside a
// Transition scope, a single database transaction that the service layer
// aborts when an outbound transfer fails, so a rejected transition leaves
// no partial row behind.
package store

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/rentora/rentora/internal/dbpool"
)

const defaultQueryTimeout = 30 * time.Second

// Base contains shared dependencies for all stores.
// Embed this in each store struct.
type Base struct {
	Pool *dbpool.Pool
	Log  *logrus.Logger
}

// withTimeout creates a context with the default query timeout.
func withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, defaultQueryTimeout)
}
