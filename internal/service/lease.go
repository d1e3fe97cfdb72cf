// Package service implements the lease lifecycle state machine and the
// business logic between API handlers and data stores.
//
// Every transition follows the same shape: validate input, acquire the
// per-property guard, check authorization and timing against loaded
// records, stage record mutations and escrow movements, then commit them in
// a single atomic scope where all internal effects land before any outbound
// fund or asset transfer. A failed transfer aborts the scope, so no partial
// mutation ever survives a rejected transition.
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/rentora/rentora/internal/domain"
	"github.com/rentora/rentora/internal/escrow"
	"github.com/rentora/rentora/internal/metrics"
	"github.com/rentora/rentora/internal/models"
	"github.com/rentora/rentora/internal/pricing"
	"github.com/rentora/rentora/internal/registry"
)

// Compile-time check: *LeaseService must satisfy domain.LeaseService.
var _ domain.LeaseService = (*LeaseService)(nil)

// LeaseService drives the lease lifecycle for all properties.
type LeaseService struct {
	props      domain.PropertyStore
	leases     domain.LeaseStore
	ledger     *escrow.Ledger
	assets     registry.AssetRegistry
	admin      domain.AdminService
	clock      Clock
	escrowAcct uuid.UUID
	events     EventSink
	audit      AuditEnqueuer
	log        *logrus.Logger
	guard      *propertyLocks
}

// NewLeaseService creates a LeaseService. escrowAcct is the platform
// identity that custodies assets while a lease is active.
func NewLeaseService(
	props domain.PropertyStore,
	leases domain.LeaseStore,
	ledger *escrow.Ledger,
	assets registry.AssetRegistry,
	admin domain.AdminService,
	clock Clock,
	escrowAcct uuid.UUID,
	events EventSink,
	audit AuditEnqueuer,
	log *logrus.Logger,
) *LeaseService {
	return &LeaseService{
		props:      props,
		leases:     leases,
		ledger:     ledger,
		assets:     assets,
		admin:      admin,
		clock:      clock,
		escrowAcct: escrowAcct,
		events:     events,
		audit:      audit,
		log:        log,
		guard:      newPropertyLocks(),
	}
}

// observe records the transition outcome metric.
func observe(op string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "rejected"
		if kind := models.KindOf(err); kind != "" {
			outcome = string(kind)
		}
	}

	metrics.LeaseTransitions.WithLabelValues(op, outcome).Inc()
}

// Apply executes the None -> Pending transition: the tenant applies for a
// lease and escrows exactly three months of the quoted rent.
func (s *LeaseService) Apply(
	ctx context.Context, caller uuid.UUID, propertyID int64, req models.ApplyRequest,
) (lease *models.Lease, err error) {
	defer func() { observe("apply", err) }()

	if err = req.Validate(); err != nil {
		return nil, err
	}

	if !s.guard.acquire(propertyID) {
		return nil, models.ErrReentrancy
	}
	defer s.guard.release(propertyID)

	prop, err := s.props.GetProperty(ctx, propertyID)
	if err != nil {
		return nil, err
	}

	if prop.Leased {
		return nil, models.Statef("property %d is already leased", propertyID)
	}

	monthly, err := pricing.Monthly(
		prop.BaseValue, prop.Condition, req.CurrentUsage, req.UsageCap, req.UserScore, req.DurationMonths,
	)
	if err != nil {
		return nil, err
	}

	required := monthly * models.DepositMultiplier
	if req.Amount != required {
		return nil, models.Paymentf("deposit must be exactly %d, got %d", required, req.Amount)
	}

	now := s.clock.Now()
	lease = &models.Lease{
		PropertyID:     propertyID,
		State:          models.StatePending,
		Tenant:         caller,
		MonthlyRent:    monthly,
		DepositHeld:    required,
		DurationMonths: req.DurationMonths,
		UserScore:      req.UserScore,
		CurrentUsage:   req.CurrentUsage,
		UsageCap:       req.UsageCap,
		UpdatedAt:      now,
	}

	ltx := s.ledger.Begin(propertyID)
	if err = ltx.Credit(required); err != nil {
		return nil, err
	}

	err = s.leases.Transition(ctx, func(ops domain.LeaseOps) error {
		if err := ops.UpsertLease(ctx, lease); err != nil {
			return err
		}

		if err := ops.SetPropertyLeased(ctx, propertyID, true); err != nil {
			return err
		}

		return ltx.Commit(ctx)
	})
	if err != nil {
		return nil, err
	}

	s.committed(propertyID, "lease.apply", caller, map[string]any{
		"deposit": required, "monthly_rent": monthly, "duration_months": req.DurationMonths,
	})
	emit(s.events, models.LeaseApplied{ID: propertyID, Tenant: caller, Deposit: required})

	return lease, nil
}

// Confirm executes the Pending -> Active transition: the landlord accepts
// the application and moves the asset into escrow custody.
func (s *LeaseService) Confirm(
	ctx context.Context, caller uuid.UUID, propertyID int64,
) (lease *models.Lease, err error) {
	defer func() { observe("confirm", err) }()

	if !s.guard.acquire(propertyID) {
		return nil, models.ErrReentrancy
	}
	defer s.guard.release(propertyID)

	lease, err = s.loadLease(ctx, propertyID, models.StatePending)
	if err != nil {
		return nil, err
	}

	prop, err := s.props.GetProperty(ctx, propertyID)
	if err != nil {
		return nil, err
	}

	if caller != prop.Landlord {
		return nil, models.Authorizationf("only the landlord may confirm the lease")
	}

	holder, err := s.assets.OwnerOf(ctx, propertyID)
	if err != nil {
		return nil, fmt.Errorf("querying asset holder: %w", err)
	}

	if holder != caller {
		return nil, models.Authorizationf("landlord does not currently hold the asset")
	}

	now := s.clock.Now()
	due := now.Add(models.MonthInterval)
	lease.State = models.StateActive
	lease.StartTimestamp = &now
	lease.NextPaymentDue = &due
	lease.UpdatedAt = now

	err = s.leases.Transition(ctx, func(ops domain.LeaseOps) error {
		if err := ops.UpsertLease(ctx, lease); err != nil {
			return err
		}

		if err := s.assets.Transfer(ctx, caller, s.escrowAcct, propertyID); err != nil {
			return models.PaymentWrap("asset custody transfer failed", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.committed(propertyID, "lease.confirm", caller, map[string]any{
		"start": now.Unix(), "next_payment_due": due.Unix(),
	})
	emit(s.events, models.LeaseConfirmed{ID: propertyID, Landlord: caller})

	return lease, nil
}

// PayRent accepts an exact on-time rent payment, forwards it to the
// landlord and advances the due date by one fixed month.
func (s *LeaseService) PayRent(
	ctx context.Context, caller uuid.UUID, propertyID int64, req models.PayRentRequest,
) (lease *models.Lease, err error) {
	defer func() { observe("pay_rent", err) }()

	if err = req.Validate(); err != nil {
		return nil, err
	}

	if !s.guard.acquire(propertyID) {
		return nil, models.ErrReentrancy
	}
	defer s.guard.release(propertyID)

	lease, err = s.loadLease(ctx, propertyID, models.StateActive)
	if err != nil {
		return nil, err
	}

	if caller != lease.Tenant {
		return nil, models.Authorizationf("only the tenant may pay rent")
	}

	if req.Amount != lease.MonthlyRent {
		return nil, models.Paymentf("rent is exactly %d, got %d", lease.MonthlyRent, req.Amount)
	}

	now := s.clock.Now()
	if now.After(*lease.NextPaymentDue) {
		return nil, models.Timingf("payment was due by %s", lease.NextPaymentDue.UTC().Format("2006-01-02 15:04:05"))
	}

	prop, err := s.props.GetProperty(ctx, propertyID)
	if err != nil {
		return nil, err
	}

	due := lease.NextPaymentDue.Add(models.MonthInterval)
	lease.NextPaymentDue = &due
	lease.UpdatedAt = now

	ltx := s.ledger.Begin(propertyID)
	if err = ltx.Forward(prop.Landlord, req.Amount, "rent payment"); err != nil {
		return nil, err
	}

	err = s.leases.Transition(ctx, func(ops domain.LeaseOps) error {
		if err := ops.UpsertLease(ctx, lease); err != nil {
			return err
		}

		return ltx.Commit(ctx)
	})
	if err != nil {
		return nil, err
	}

	s.committed(propertyID, "lease.pay_rent", caller, map[string]any{
		"amount": req.Amount, "next_payment_due": due.Unix(),
	})
	emit(s.events, models.LeasePaid{ID: propertyID, Tenant: caller, Amount: req.Amount, NextPaymentDue: due.Unix()})

	return lease, nil
}

// Extend lengthens an active lease, reprices it for the new duration and
// adjusts the escrowed deposit to exactly three months of the new rent:
// the tenant supplies the exact top-up, or receives the exact excess back.
func (s *LeaseService) Extend(
	ctx context.Context, caller uuid.UUID, propertyID int64, req models.ExtendRequest,
) (lease *models.Lease, err error) {
	defer func() { observe("extend", err) }()

	if err = req.Validate(); err != nil {
		return nil, err
	}

	if !s.guard.acquire(propertyID) {
		return nil, models.ErrReentrancy
	}
	defer s.guard.release(propertyID)

	lease, err = s.loadLease(ctx, propertyID, models.StateActive)
	if err != nil {
		return nil, err
	}

	if caller != lease.Tenant {
		return nil, models.Authorizationf("only the tenant may extend the lease")
	}

	prop, err := s.props.GetProperty(ctx, propertyID)
	if err != nil {
		return nil, err
	}

	newDuration := lease.DurationMonths + req.ExtensionMonths

	monthly, err := pricing.Monthly(
		prop.BaseValue, prop.Condition, lease.CurrentUsage, lease.UsageCap, lease.UserScore, newDuration,
	)
	if err != nil {
		return nil, err
	}

	newDeposit := monthly * models.DepositMultiplier
	delta := newDeposit - lease.DepositHeld

	ltx := s.ledger.Begin(propertyID)

	switch {
	case delta > 0:
		if req.Amount != delta {
			return nil, models.Paymentf("deposit top-up must be exactly %d, got %d", delta, req.Amount)
		}

		if err = ltx.Credit(delta); err != nil {
			return nil, err
		}
	case delta < 0:
		if req.Amount != 0 {
			return nil, models.Paymentf("no top-up required, got %d", req.Amount)
		}

		if err = ltx.Payout(lease.Tenant, -delta, "excess deposit refund"); err != nil {
			return nil, err
		}
	default:
		if req.Amount != 0 {
			return nil, models.Paymentf("no top-up required, got %d", req.Amount)
		}
	}

	lease.DurationMonths = newDuration
	lease.MonthlyRent = monthly
	lease.DepositHeld = newDeposit
	lease.UpdatedAt = s.clock.Now()

	err = s.leases.Transition(ctx, func(ops domain.LeaseOps) error {
		if err := ops.UpsertLease(ctx, lease); err != nil {
			return err
		}

		return ltx.Commit(ctx)
	})
	if err != nil {
		return nil, err
	}

	s.committed(propertyID, "lease.extend", caller, map[string]any{
		"new_duration": newDuration, "new_monthly_rent": monthly, "new_deposit": newDeposit,
	})
	emit(s.events, models.LeaseExtended{ID: propertyID, NewDuration: newDuration, NewMonthlyRent: monthly})

	return lease, nil
}

// Terminate ends an expired lease: the asset returns to the landlord, the
// full deposit returns to the tenant and the lease record resets so the
// property becomes leasable again.
func (s *LeaseService) Terminate(
	ctx context.Context, caller uuid.UUID, propertyID int64,
) (refunded int64, err error) {
	defer func() { observe("terminate", err) }()

	if !s.guard.acquire(propertyID) {
		return 0, models.ErrReentrancy
	}
	defer s.guard.release(propertyID)

	lease, err := s.loadLease(ctx, propertyID, models.StateActive)
	if err != nil {
		return 0, err
	}

	if caller != lease.Tenant {
		return 0, models.Authorizationf("only the tenant may terminate the lease")
	}

	now := s.clock.Now()
	if now.Before(lease.Expiry()) {
		return 0, models.Timingf("lease runs until %s", lease.Expiry().UTC().Format("2006-01-02 15:04:05"))
	}

	prop, err := s.props.GetProperty(ctx, propertyID)
	if err != nil {
		return 0, err
	}

	refund := lease.DepositHeld

	ltx := s.ledger.Begin(propertyID)
	if refund > 0 {
		if err = ltx.Payout(lease.Tenant, refund, "deposit refund"); err != nil {
			return 0, err
		}
	}

	err = s.release(ctx, propertyID, prop.Landlord, ltx)
	if err != nil {
		return 0, err
	}

	s.committed(propertyID, "lease.terminate", caller, map[string]any{
		"outcome": string(models.StateTerminated), "refunded": refund,
	})
	emit(s.events, models.LeaseTerminated{ID: propertyID, Tenant: caller, Refunded: refund})

	return refund, nil
}

// ClaimDefault lets the landlord claim the full deposit after a missed
// payment has survived the grace period, returning the asset and resetting
// the lease.
func (s *LeaseService) ClaimDefault(
	ctx context.Context, caller uuid.UUID, propertyID int64,
) (claimed int64, err error) {
	defer func() { observe("claim_default", err) }()

	if !s.guard.acquire(propertyID) {
		return 0, models.ErrReentrancy
	}
	defer s.guard.release(propertyID)

	lease, err := s.loadLease(ctx, propertyID, models.StateActive)
	if err != nil {
		return 0, err
	}

	prop, err := s.props.GetProperty(ctx, propertyID)
	if err != nil {
		return 0, err
	}

	if caller != prop.Landlord {
		return 0, models.Authorizationf("only the landlord may claim a default")
	}

	if lease.StartTimestamp == nil || lease.NextPaymentDue == nil {
		return 0, models.Statef("lease has no recorded start")
	}

	deadline := lease.NextPaymentDue.Add(s.admin.GracePeriod())
	if !s.clock.Now().After(deadline) {
		return 0, models.Timingf("grace period runs until %s", deadline.UTC().Format("2006-01-02 15:04:05"))
	}

	claim := lease.DepositHeld

	ltx := s.ledger.Begin(propertyID)
	if claim > 0 {
		if err = ltx.Payout(prop.Landlord, claim, "default claim"); err != nil {
			return 0, err
		}
	}

	err = s.release(ctx, propertyID, prop.Landlord, ltx)
	if err != nil {
		return 0, err
	}

	s.committed(propertyID, "lease.claim_default", caller, map[string]any{
		"outcome": string(models.StateDefaulted), "claimed": claim, "tenant": lease.Tenant.String(),
	})
	emit(s.events, models.LeaseDefaultClaimed{
		ID: propertyID, Landlord: caller, Tenant: lease.Tenant, AmountClaimed: claim,
	})

	return claim, nil
}

// Switch is the cross-property convenience entry: apply to a new property,
// provided any existing lease on the old property is not Active.
func (s *LeaseService) Switch(
	ctx context.Context, caller uuid.UUID, req models.SwitchRequest,
) (*models.Lease, error) {
	if err := req.Validate(); err != nil {
		observe("switch", err)

		return nil, err
	}

	if req.OldPropertyID != 0 {
		old, err := s.leases.GetLease(ctx, req.OldPropertyID)
		if err != nil && !errors.Is(err, models.ErrLeaseNotFound) {
			observe("switch", err)

			return nil, err
		}

		if old != nil && old.State == models.StateActive {
			err = models.Statef("lease on property %d is still active", req.OldPropertyID)
			observe("switch", err)

			return nil, err
		}
	}

	return s.Apply(ctx, caller, req.NewPropertyID, req.Apply)
}

// release runs the shared terminal-transition scope: delete the lease
// record, clear the leased flag, hand the asset back to the landlord and
// commit the staged escrow payout. A failed payout rolls the record changes
// back and returns custody of the asset to the escrow account.
func (s *LeaseService) release(ctx context.Context, propertyID int64, landlord uuid.UUID, ltx *escrow.Tx) error {
	return s.leases.Transition(ctx, func(ops domain.LeaseOps) error {
		if err := ops.DeleteLease(ctx, propertyID); err != nil {
			return err
		}

		if err := ops.SetPropertyLeased(ctx, propertyID, false); err != nil {
			return err
		}

		if err := s.assets.Transfer(ctx, s.escrowAcct, landlord, propertyID); err != nil {
			return models.PaymentWrap("asset custody return failed", err)
		}

		if err := ltx.Commit(ctx); err != nil {
			// Undo the custody hand-back so the aborted transition leaves
			// the asset exactly where it was.
			if cerr := s.assets.Transfer(ctx, landlord, s.escrowAcct, propertyID); cerr != nil {
				s.log.WithError(cerr).WithField("property_id", propertyID).
					Error("failed to restore asset custody after aborted payout")
			}

			return err
		}

		return nil
	})
}

// loadLease fetches the lease and checks it is in the required state.
func (s *LeaseService) loadLease(ctx context.Context, propertyID int64, want models.LeaseState) (*models.Lease, error) {
	lease, err := s.leases.GetLease(ctx, propertyID)
	if err != nil {
		if errors.Is(err, models.ErrLeaseNotFound) {
			return nil, models.Statef("no lease exists for property %d", propertyID)
		}

		return nil, err
	}

	if lease.State != want {
		return nil, models.Statef("lease is %s, not %s", lease.State, want)
	}

	return lease, nil
}

// committed logs and audits a successful transition and refreshes the
// escrow gauge.
func (s *LeaseService) committed(propertyID int64, action string, actor uuid.UUID, detail map[string]any) {
	metrics.EscrowHeld.Set(float64(s.ledger.HeldTotal()))

	fields := logrus.Fields{"action": action, "property_id": propertyID, "actor": actor.String()}
	for k, v := range detail {
		fields[k] = v
	}

	s.log.WithFields(fields).Info("audit")
	auditAsync(s.audit, propertyID, action, actor, detail)
}
