package api_test

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/rentora/rentora/internal/models"
)

// mockPropertySvc implements domain.PropertyService for testing.
type mockPropertySvc struct {
	mintFn      func(ctx context.Context, caller uuid.UUID, req models.MintPropertyRequest) (*models.Property, error)
	getFn       func(ctx context.Context, id int64) (*models.Property, *models.Lease, error)
	listFn      func(ctx context.Context, limit, offset int) ([]models.Property, bool, error)
	conditionFn func(ctx context.Context, caller uuid.UUID, id int64, condition int) (*models.Property, error)
	quoteFn     func(ctx context.Context, id int64, durationMonths, userScore int, currentUsage, usageCap int64) (*models.Quote, error)
}

func (m *mockPropertySvc) MintProperty(ctx context.Context, caller uuid.UUID, req models.MintPropertyRequest) (*models.Property, error) {
	return m.mintFn(ctx, caller, req)
}

func (m *mockPropertySvc) GetProperty(ctx context.Context, id int64) (*models.Property, *models.Lease, error) {
	return m.getFn(ctx, id)
}

func (m *mockPropertySvc) ListProperties(ctx context.Context, limit, offset int) ([]models.Property, bool, error) {
	return m.listFn(ctx, limit, offset)
}

func (m *mockPropertySvc) UpdateCondition(ctx context.Context, caller uuid.UUID, id int64, condition int) (*models.Property, error) {
	return m.conditionFn(ctx, caller, id, condition)
}

func (m *mockPropertySvc) Quote(ctx context.Context, id int64, durationMonths, userScore int, currentUsage, usageCap int64) (*models.Quote, error) {
	return m.quoteFn(ctx, id, durationMonths, userScore, currentUsage, usageCap)
}

// mockLeaseSvc implements domain.LeaseService for testing.
type mockLeaseSvc struct {
	applyFn     func(ctx context.Context, caller uuid.UUID, propertyID int64, req models.ApplyRequest) (*models.Lease, error)
	confirmFn   func(ctx context.Context, caller uuid.UUID, propertyID int64) (*models.Lease, error)
	payFn       func(ctx context.Context, caller uuid.UUID, propertyID int64, req models.PayRentRequest) (*models.Lease, error)
	extendFn    func(ctx context.Context, caller uuid.UUID, propertyID int64, req models.ExtendRequest) (*models.Lease, error)
	terminateFn func(ctx context.Context, caller uuid.UUID, propertyID int64) (int64, error)
	claimFn     func(ctx context.Context, caller uuid.UUID, propertyID int64) (int64, error)
	switchFn    func(ctx context.Context, caller uuid.UUID, req models.SwitchRequest) (*models.Lease, error)
}

func (m *mockLeaseSvc) Apply(ctx context.Context, caller uuid.UUID, propertyID int64, req models.ApplyRequest) (*models.Lease, error) {
	return m.applyFn(ctx, caller, propertyID, req)
}

func (m *mockLeaseSvc) Confirm(ctx context.Context, caller uuid.UUID, propertyID int64) (*models.Lease, error) {
	return m.confirmFn(ctx, caller, propertyID)
}

func (m *mockLeaseSvc) PayRent(ctx context.Context, caller uuid.UUID, propertyID int64, req models.PayRentRequest) (*models.Lease, error) {
	return m.payFn(ctx, caller, propertyID, req)
}

func (m *mockLeaseSvc) Extend(ctx context.Context, caller uuid.UUID, propertyID int64, req models.ExtendRequest) (*models.Lease, error) {
	return m.extendFn(ctx, caller, propertyID, req)
}

func (m *mockLeaseSvc) Terminate(ctx context.Context, caller uuid.UUID, propertyID int64) (int64, error) {
	return m.terminateFn(ctx, caller, propertyID)
}

func (m *mockLeaseSvc) ClaimDefault(ctx context.Context, caller uuid.UUID, propertyID int64) (int64, error) {
	return m.claimFn(ctx, caller, propertyID)
}

func (m *mockLeaseSvc) Switch(ctx context.Context, caller uuid.UUID, req models.SwitchRequest) (*models.Lease, error) {
	return m.switchFn(ctx, caller, req)
}

// mockAdminSvc implements domain.AdminService for testing.
type mockAdminSvc struct {
	gracePeriod time.Duration
	setFn       func(ctx context.Context, caller uuid.UUID, seconds int64) error
}

func (m *mockAdminSvc) GracePeriod() time.Duration { return m.gracePeriod }

func (m *mockAdminSvc) SetGracePeriod(ctx context.Context, caller uuid.UUID, seconds int64) error {
	return m.setFn(ctx, caller, seconds)
}

// mockAuditSvc implements domain.AuditService for testing.
type mockAuditSvc struct {
	queryFn func(ctx context.Context, opts models.AuditQueryOpts) ([]models.AuditEntry, bool, error)
}

func (m *mockAuditSvc) RecordAudit(context.Context, int64, string, uuid.UUID, map[string]any) error {
	return nil
}

func (m *mockAuditSvc) QueryAudit(ctx context.Context, opts models.AuditQueryOpts) ([]models.AuditEntry, bool, error) {
	return m.queryFn(ctx, opts)
}
