// Package domain defines the canonical service and store interfaces shared
// across API layers (REST, client) and the service implementations.
// Consumers should depend on these interfaces rather than re-declaring
// equivalent ones.
package domain

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/rentora/rentora/internal/models"
)

// PropertyService defines property registry operations.
type PropertyService interface {
	MintProperty(ctx context.Context, caller uuid.UUID, req models.MintPropertyRequest) (*models.Property, error)
	GetProperty(ctx context.Context, id int64) (*models.Property, *models.Lease, error)
	ListProperties(ctx context.Context, limit, offset int) ([]models.Property, bool, error)
	UpdateCondition(ctx context.Context, caller uuid.UUID, id int64, condition int) (*models.Property, error)
	Quote(ctx context.Context, id int64, durationMonths, userScore int, currentUsage, usageCap int64) (*models.Quote, error)
}

// LeaseService defines every lease lifecycle entry point. All methods take
// the authenticated caller; record-level authorization happens inside.
type LeaseService interface {
	Apply(ctx context.Context, caller uuid.UUID, propertyID int64, req models.ApplyRequest) (*models.Lease, error)
	Confirm(ctx context.Context, caller uuid.UUID, propertyID int64) (*models.Lease, error)
	PayRent(ctx context.Context, caller uuid.UUID, propertyID int64, req models.PayRentRequest) (*models.Lease, error)
	Extend(ctx context.Context, caller uuid.UUID, propertyID int64, req models.ExtendRequest) (*models.Lease, error)
	Terminate(ctx context.Context, caller uuid.UUID, propertyID int64) (refunded int64, err error)
	ClaimDefault(ctx context.Context, caller uuid.UUID, propertyID int64) (claimed int64, err error)
	Switch(ctx context.Context, caller uuid.UUID, req models.SwitchRequest) (*models.Lease, error)
}

// AdminService holds the process-wide owner-settable configuration.
type AdminService interface {
	GracePeriod() time.Duration
	SetGracePeriod(ctx context.Context, caller uuid.UUID, seconds int64) error
}

// AuditService defines audit trail query operations.
type AuditService interface {
	Auditor
	QueryAudit(ctx context.Context, opts models.AuditQueryOpts) ([]models.AuditEntry, bool, error)
}

// Auditor is the minimal interface for recording audit entries. Used by
// services for fire-and-forget transition logging.
type Auditor interface {
	RecordAudit(ctx context.Context, propertyID int64, action string, actor uuid.UUID, detail map[string]any) error
}

// PropertyStore is the persistence surface for property records.
type PropertyStore interface {
	CreateProperty(ctx context.Context, req models.MintPropertyRequest) (*models.Property, error)
	GetProperty(ctx context.Context, id int64) (*models.Property, error)
	ListProperties(ctx context.Context, limit, offset int) ([]models.Property, bool, error)
}

// LeaseStore is the persistence surface for lease records. Reads run
// standalone; every write happens inside a Transition scope so a transition
// either fully commits or leaves no trace.
type LeaseStore interface {
	GetLease(ctx context.Context, propertyID int64) (*models.Lease, error)
	Transition(ctx context.Context, fn func(ops LeaseOps) error) error
}

// LeaseOps is the write surface available inside one atomic transition.
type LeaseOps interface {
	UpsertLease(ctx context.Context, lease *models.Lease) error
	DeleteLease(ctx context.Context, propertyID int64) error
	SetPropertyLeased(ctx context.Context, propertyID int64, leased bool) error
}

// PartyLookup resolves an API key to the party it authenticates.
type PartyLookup interface {
	GetPartyByAPIKey(ctx context.Context, apiKey string) (uuid.UUID, error)
}
