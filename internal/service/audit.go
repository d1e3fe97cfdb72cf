package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/rentora/rentora/internal/domain"
	"github.com/rentora/rentora/internal/models"
)

// AuditQueryStore is the data-access interface AuditService depends on.
// It reuses domain.AuditService since the method sets are identical.
type AuditQueryStore = domain.AuditService

// Compile-time check: *AuditService must satisfy domain.AuditService.
var _ domain.AuditService = (*AuditService)(nil)

// AuditService exposes the transition audit trail.
type AuditService struct {
	store AuditQueryStore
	log   *logrus.Logger
}

// NewAuditService creates an AuditService.
func NewAuditService(store AuditQueryStore, log *logrus.Logger) *AuditService {
	return &AuditService{store: store, log: log}
}

// RecordAudit inserts an audit entry (pass-through to store).
func (s *AuditService) RecordAudit(
	ctx context.Context, propertyID int64, action string, actor uuid.UUID, detail map[string]any,
) error {
	return s.store.RecordAudit(ctx, propertyID, action, actor, detail)
}

// QueryAudit returns audit entries matching the given filters (pass-through).
func (s *AuditService) QueryAudit(
	ctx context.Context, opts models.AuditQueryOpts,
) ([]models.AuditEntry, bool, error) {
	return s.store.QueryAudit(ctx, opts)
}

// auditAsync enqueues an audit entry without blocking the transition.
func auditAsync(w AuditEnqueuer, propertyID int64, action string, actor uuid.UUID, detail map[string]any) {
	if w == nil {
		return
	}

	w.Enqueue(&AuditJob{PropertyID: propertyID, Action: action, Actor: actor, Detail: detail})
}
