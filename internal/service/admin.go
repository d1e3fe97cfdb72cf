package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/rentora/rentora/internal/domain"
	"github.com/rentora/rentora/internal/models"
)

// Compile-time check: *Admin must satisfy domain.AdminService.
var _ domain.AdminService = (*Admin)(nil)

// Admin holds the process-wide mutable configuration: the default-claim
// grace period. Only the configured platform owner may change it.
type Admin struct {
	mu          sync.RWMutex
	gracePeriod time.Duration
	owner       uuid.UUID
	audit       AuditEnqueuer
	log         *logrus.Logger
}

// NewAdmin creates the admin config with its initial grace period.
func NewAdmin(owner uuid.UUID, gracePeriod time.Duration, audit AuditEnqueuer, log *logrus.Logger) *Admin {
	return &Admin{gracePeriod: gracePeriod, owner: owner, audit: audit, log: log}
}

// GracePeriod returns the current grace period.
func (a *Admin) GracePeriod() time.Duration {
	a.mu.RLock()
	defer a.mu.RUnlock()

	return a.gracePeriod
}

// SetGracePeriod updates the grace period. Owner-only; rejects non-positive
// values.
func (a *Admin) SetGracePeriod(_ context.Context, caller uuid.UUID, seconds int64) error {
	if caller != a.owner {
		return models.Authorizationf("only the platform owner may set the grace period")
	}

	if seconds <= 0 {
		return models.Validationf("grace period must be positive")
	}

	a.mu.Lock()
	a.gracePeriod = time.Duration(seconds) * time.Second
	a.mu.Unlock()

	a.log.WithFields(logrus.Fields{"grace_period_seconds": seconds}).Info("grace period updated")
	auditAsync(a.audit, 0, "admin.set_grace_period", caller, map[string]any{"seconds": seconds})

	return nil
}
