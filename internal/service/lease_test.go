package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/rentora/rentora/internal/escrow"
	"github.com/rentora/rentora/internal/models"
	"github.com/rentora/rentora/internal/registry"
)

// Reference pricing for the fixture property: base 12_000_000, wear 90,
// no usage cap, score 5, 12 months.
const (
	refMonthlyRent = 982_350
	refDeposit     = refMonthlyRent * models.DepositMultiplier
)

type fixture struct {
	store    *memStore
	bank     *escrow.Bank
	transfer *flakyTransfer
	ledger   *escrow.Ledger
	assets   *registry.Memory
	clock    *fakeClock
	admin    *Admin
	events   *eventRec
	audit    *mockAuditQueue
	props    *PropertyService
	leases   *LeaseService
	owner    uuid.UUID
	escrowID uuid.UUID
	landlord uuid.UUID
	tenant   uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)

	f := &fixture{
		store:    newMemStore(),
		bank:     escrow.NewBank(),
		assets:   registry.NewMemory(),
		clock:    newFakeClock(),
		events:   &eventRec{},
		audit:    &mockAuditQueue{},
		owner:    uuid.New(),
		escrowID: uuid.New(),
		landlord: uuid.New(),
		tenant:   uuid.New(),
	}
	f.transfer = &flakyTransfer{inner: f.bank}
	f.ledger = escrow.NewLedger(f.transfer)
	f.admin = NewAdmin(f.owner, 24*time.Hour, f.audit, log)
	f.props = NewPropertyService(f.store, f.store, f.assets, f.owner, f.events, f.audit, log)
	f.leases = NewLeaseService(
		f.store, f.store, f.ledger, f.assets, f.admin, f.clock, f.escrowID, f.events, f.audit, log,
	)

	return f
}

func (f *fixture) mint(t *testing.T) int64 {
	t.Helper()

	prop, err := f.props.MintProperty(context.Background(), f.owner, models.MintPropertyRequest{
		Landlord:  f.landlord,
		Location:  "14 Harbor Lane",
		Size:      82,
		Rooms:     3,
		YearBuilt: 1998,
		BaseValue: 12_000_000,
		Condition: 90,
	})
	if err != nil {
		t.Fatalf("MintProperty: %v", err)
	}

	return prop.ID
}

func (f *fixture) apply(t *testing.T, propertyID int64) *models.Lease {
	t.Helper()

	lease, err := f.leases.Apply(context.Background(), f.tenant, propertyID, models.ApplyRequest{
		DurationMonths: 12,
		UserScore:      5,
		Amount:         refDeposit,
	})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}

	return lease
}

func (f *fixture) confirm(t *testing.T, propertyID int64) *models.Lease {
	t.Helper()

	lease, err := f.leases.Confirm(context.Background(), f.landlord, propertyID)
	if err != nil {
		t.Fatalf("Confirm: %v", err)
	}

	return lease
}

// checkInvariant asserts that the recorded deposit equals the custodied
// funds at rest.
func (f *fixture) checkInvariant(t *testing.T, propertyID int64) {
	t.Helper()

	held := f.ledger.Held(propertyID)

	lease, err := f.store.GetLease(context.Background(), propertyID)
	if errors.Is(err, models.ErrLeaseNotFound) {
		if held != 0 {
			t.Fatalf("no lease but %d still held", held)
		}

		return
	}

	if err != nil {
		t.Fatalf("GetLease: %v", err)
	}

	if lease.DepositHeld != held {
		t.Fatalf("deposit drift: record says %d, ledger holds %d", lease.DepositHeld, held)
	}
}

func TestApply_ExactDepositRequired(t *testing.T) {
	f := newFixture(t)
	id := f.mint(t)
	ctx := context.Background()

	// One unit short must fail with a payment error and no state change.
	_, err := f.leases.Apply(ctx, f.tenant, id, models.ApplyRequest{
		DurationMonths: 12, UserScore: 5, Amount: refDeposit - 1,
	})
	if models.KindOf(err) != models.KindPayment {
		t.Fatalf("short deposit: kind = %q, want payment", models.KindOf(err))
	}

	if _, err := f.store.GetLease(ctx, id); !errors.Is(err, models.ErrLeaseNotFound) {
		t.Fatal("rejected apply left a lease record")
	}

	prop, _ := f.store.GetProperty(ctx, id)
	if prop.Leased {
		t.Fatal("rejected apply marked the property leased")
	}

	// Exact deposit succeeds and lands in Pending.
	lease := f.apply(t, id)

	if lease.State != models.StatePending {
		t.Fatalf("state = %s, want pending", lease.State)
	}

	if lease.MonthlyRent != refMonthlyRent {
		t.Fatalf("monthly rent = %d, want %d", lease.MonthlyRent, refMonthlyRent)
	}

	if lease.DepositHeld != refDeposit {
		t.Fatalf("deposit = %d, want %d", lease.DepositHeld, refDeposit)
	}

	f.checkInvariant(t, id)

	prop, _ = f.store.GetProperty(ctx, id)
	if !prop.Leased {
		t.Fatal("property not marked leased")
	}

	applied, ok := f.events.last().(models.LeaseApplied)
	if !ok {
		t.Fatalf("last event = %T, want LeaseApplied", f.events.last())
	}

	if applied.ID != id || applied.Tenant != f.tenant || applied.Deposit != refDeposit {
		t.Fatalf("LeaseApplied = %+v", applied)
	}

	actions := f.audit.actions()
	if len(actions) == 0 || actions[len(actions)-1] != "lease.apply" {
		t.Fatalf("audit actions = %v, want trailing lease.apply", actions)
	}
}

func TestApply_AlreadyLeased(t *testing.T) {
	f := newFixture(t)
	id := f.mint(t)
	f.apply(t, id)

	_, err := f.leases.Apply(context.Background(), uuid.New(), id, models.ApplyRequest{
		DurationMonths: 12, UserScore: 5, Amount: refDeposit,
	})
	if models.KindOf(err) != models.KindState {
		t.Fatalf("kind = %q, want state", models.KindOf(err))
	}
}

func TestConfirm_WrongCallerRejected(t *testing.T) {
	f := newFixture(t)
	id := f.mint(t)
	f.apply(t, id)
	ctx := context.Background()

	_, err := f.leases.Confirm(ctx, f.tenant, id)
	if models.KindOf(err) != models.KindAuthorization {
		t.Fatalf("kind = %q, want authorization", models.KindOf(err))
	}

	lease, _ := f.store.GetLease(ctx, id)
	if lease.State != models.StatePending {
		t.Fatalf("state = %s after rejected confirm, want pending", lease.State)
	}
}

func TestConfirm_MovesAssetIntoEscrow(t *testing.T) {
	f := newFixture(t)
	id := f.mint(t)
	f.apply(t, id)

	lease := f.confirm(t, id)

	if lease.State != models.StateActive {
		t.Fatalf("state = %s, want active", lease.State)
	}

	if lease.StartTimestamp == nil || !lease.StartTimestamp.Equal(f.clock.Now()) {
		t.Fatalf("start timestamp = %v, want %v", lease.StartTimestamp, f.clock.Now())
	}

	wantDue := f.clock.Now().Add(models.MonthInterval)
	if lease.NextPaymentDue == nil || !lease.NextPaymentDue.Equal(wantDue) {
		t.Fatalf("next due = %v, want %v", lease.NextPaymentDue, wantDue)
	}

	holder, err := f.assets.OwnerOf(context.Background(), id)
	if err != nil {
		t.Fatalf("OwnerOf: %v", err)
	}

	if holder != f.escrowID {
		t.Fatal("asset not in escrow custody after confirm")
	}

	if _, ok := f.events.last().(models.LeaseConfirmed); !ok {
		t.Fatalf("last event = %T, want LeaseConfirmed", f.events.last())
	}
}

func TestConfirm_LandlordWithoutAssetRejected(t *testing.T) {
	f := newFixture(t)
	id := f.mint(t)
	f.apply(t, id)
	ctx := context.Background()

	// Landlord hands the asset to someone else before confirming.
	if err := f.assets.Transfer(ctx, f.landlord, uuid.New(), id); err != nil {
		t.Fatalf("Transfer: %v", err)
	}

	_, err := f.leases.Confirm(ctx, f.landlord, id)
	if models.KindOf(err) != models.KindAuthorization {
		t.Fatalf("kind = %q, want authorization", models.KindOf(err))
	}
}

func TestPayRent(t *testing.T) {
	f := newFixture(t)
	id := f.mint(t)
	f.apply(t, id)
	f.confirm(t, id)
	ctx := context.Background()

	firstDue := f.clock.Now().Add(models.MonthInterval)

	// Wrong amount.
	_, err := f.leases.PayRent(ctx, f.tenant, id, models.PayRentRequest{Amount: refMonthlyRent + 1})
	if models.KindOf(err) != models.KindPayment {
		t.Fatalf("wrong amount: kind = %q, want payment", models.KindOf(err))
	}

	// Wrong caller.
	_, err = f.leases.PayRent(ctx, f.landlord, id, models.PayRentRequest{Amount: refMonthlyRent})
	if models.KindOf(err) != models.KindAuthorization {
		t.Fatalf("wrong caller: kind = %q, want authorization", models.KindOf(err))
	}

	// On time: due date advances from the stored due date, not from now.
	f.clock.advance(10 * 24 * time.Hour)

	lease, err := f.leases.PayRent(ctx, f.tenant, id, models.PayRentRequest{Amount: refMonthlyRent})
	if err != nil {
		t.Fatalf("PayRent: %v", err)
	}

	wantDue := firstDue.Add(models.MonthInterval)
	if !lease.NextPaymentDue.Equal(wantDue) {
		t.Fatalf("next due = %v, want %v", lease.NextPaymentDue, wantDue)
	}

	if got := f.bank.Balance(f.landlord); got != refMonthlyRent {
		t.Fatalf("landlord received %d, want %d", got, refMonthlyRent)
	}

	// Deposit untouched by rent payments.
	f.checkInvariant(t, id)

	// Late: one second past the due date.
	f.clock.advance(2*models.MonthInterval + time.Second)

	_, err = f.leases.PayRent(ctx, f.tenant, id, models.PayRentRequest{Amount: refMonthlyRent})
	if models.KindOf(err) != models.KindTiming {
		t.Fatalf("late payment: kind = %q, want timing", models.KindOf(err))
	}
}

func TestExtend_TopUp(t *testing.T) {
	f := newFixture(t)
	id := f.mint(t)
	f.apply(t, id)
	f.confirm(t, id)
	ctx := context.Background()

	// 12 -> 36 months: same 0.85 step bracket change, new monthly rent =
	// 12_000_000 * 1.18 * 0.925 * 0.85 / 12 = 927_775.
	newRent := int64(927_775)
	newDeposit := newRent * models.DepositMultiplier
	delta := newDeposit - refDeposit

	if delta >= 0 {
		// 36 months is cheaper per month; the deposit shrinks, so this
		// branch exercises the refund path below instead.
		t.Fatalf("fixture expectation broken: delta = %d", delta)
	}

	// A shrinking deposit must reject any supplied top-up.
	_, err := f.leases.Extend(ctx, f.tenant, id, models.ExtendRequest{ExtensionMonths: 24, Amount: 10})
	if models.KindOf(err) != models.KindPayment {
		t.Fatalf("unneeded top-up: kind = %q, want payment", models.KindOf(err))
	}

	lease, err := f.leases.Extend(ctx, f.tenant, id, models.ExtendRequest{ExtensionMonths: 24})
	if err != nil {
		t.Fatalf("Extend: %v", err)
	}

	if lease.DurationMonths != 36 {
		t.Fatalf("duration = %d, want 36", lease.DurationMonths)
	}

	if lease.MonthlyRent != newRent {
		t.Fatalf("monthly rent = %d, want %d", lease.MonthlyRent, newRent)
	}

	if lease.DepositHeld != newDeposit {
		t.Fatalf("deposit = %d, want %d", lease.DepositHeld, newDeposit)
	}

	// The excess came back to the tenant.
	if got := f.bank.Balance(f.tenant); got != -delta {
		t.Fatalf("tenant refunded %d, want %d", got, -delta)
	}

	f.checkInvariant(t, id)

	ext, ok := f.events.last().(models.LeaseExtended)
	if !ok {
		t.Fatalf("last event = %T, want LeaseExtended", f.events.last())
	}

	if ext.NewDuration != 36 || ext.NewMonthlyRent != newRent {
		t.Fatalf("LeaseExtended = %+v", ext)
	}
}

func TestExtend_RequiresExactTopUp(t *testing.T) {
	f := newFixture(t)
	id := f.mint(t)
	ctx := context.Background()

	f.apply(t, id)
	f.confirm(t, id)

	// Wear increased since application, so repricing for 14 months (same
	// duration bracket) raises the rent: 12_000_000 * 1.20 * 0.925 * 0.90
	// / 12 = 999_000, and the deposit must grow to match.
	f.store.mu.Lock()
	f.store.props[id].Condition = 100
	f.store.mu.Unlock()

	newRent := int64(999_000)
	delta := newRent*models.DepositMultiplier - refDeposit

	// Anything but the exact delta is rejected with no state change.
	_, err := f.leases.Extend(ctx, f.tenant, id, models.ExtendRequest{ExtensionMonths: 2, Amount: delta - 1})
	if models.KindOf(err) != models.KindPayment {
		t.Fatalf("short top-up: kind = %q, want payment", models.KindOf(err))
	}

	f.checkInvariant(t, id)

	lease, err := f.leases.Extend(ctx, f.tenant, id, models.ExtendRequest{ExtensionMonths: 2, Amount: delta})
	if err != nil {
		t.Fatalf("Extend: %v", err)
	}

	if lease.DurationMonths != 14 {
		t.Fatalf("duration = %d, want 14", lease.DurationMonths)
	}

	if lease.DepositHeld != newRent*models.DepositMultiplier {
		t.Fatalf("deposit = %d, want %d", lease.DepositHeld, newRent*models.DepositMultiplier)
	}

	f.checkInvariant(t, id)
}

func TestTerminate_AfterExpiry(t *testing.T) {
	f := newFixture(t)
	id := f.mint(t)
	f.apply(t, id)
	f.confirm(t, id)
	ctx := context.Background()

	// Too early: 11 months in on a 12-month lease.
	f.clock.advance(11 * models.MonthInterval)

	_, err := f.leases.Terminate(ctx, f.tenant, id)
	if models.KindOf(err) != models.KindTiming {
		t.Fatalf("early terminate: kind = %q, want timing", models.KindOf(err))
	}

	// 13 fixed months past the start.
	f.clock.advance(2 * models.MonthInterval)

	refunded, err := f.leases.Terminate(ctx, f.tenant, id)
	if err != nil {
		t.Fatalf("Terminate: %v", err)
	}

	if refunded != refDeposit {
		t.Fatalf("refunded %d, want %d", refunded, refDeposit)
	}

	if got := f.bank.Balance(f.tenant); got != refDeposit {
		t.Fatalf("tenant balance = %d, want %d", got, refDeposit)
	}

	holder, _ := f.assets.OwnerOf(ctx, id)
	if holder != f.landlord {
		t.Fatal("asset not returned to landlord")
	}

	// Lease reset to none; property leasable again.
	if _, err := f.store.GetLease(ctx, id); !errors.Is(err, models.ErrLeaseNotFound) {
		t.Fatal("lease record survived termination")
	}

	prop, _ := f.store.GetProperty(ctx, id)
	if prop.Leased {
		t.Fatal("property still marked leased")
	}

	f.checkInvariant(t, id)

	done, ok := f.events.last().(models.LeaseTerminated)
	if !ok {
		t.Fatalf("last event = %T, want LeaseTerminated", f.events.last())
	}

	if done.ID != id || done.Tenant != f.tenant || done.Refunded != refDeposit {
		t.Fatalf("LeaseTerminated = %+v", done)
	}

	// The property can be leased again immediately.
	f.apply(t, id)
}

// restart rebuilds the ledger and services over the same persisted records,
// the way a fresh process does at boot: a new empty ledger restored from the
// deposit balances on the lease rows.
func (f *fixture) restart(t *testing.T) {
	t.Helper()

	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)

	held := make(map[int64]int64)

	f.store.mu.Lock()
	for id, lease := range f.store.leases {
		held[id] = lease.DepositHeld
	}
	f.store.mu.Unlock()

	f.ledger = escrow.NewLedger(f.transfer)
	f.ledger.Restore(held)
	f.props = NewPropertyService(f.store, f.store, f.assets, f.owner, f.events, f.audit, log)
	f.leases = NewLeaseService(
		f.store, f.store, f.ledger, f.assets, f.admin, f.clock, f.escrowID, f.events, f.audit, log,
	)
}

func TestTerminate_SurvivesRestart(t *testing.T) {
	f := newFixture(t)
	id := f.mint(t)
	f.apply(t, id)
	f.confirm(t, id)
	ctx := context.Background()

	f.restart(t)

	if got := f.ledger.Held(id); got != refDeposit {
		t.Fatalf("restored ledger holds %d, want %d", got, refDeposit)
	}

	f.checkInvariant(t, id)

	f.clock.advance(13 * models.MonthInterval)

	refunded, err := f.leases.Terminate(ctx, f.tenant, id)
	if err != nil {
		t.Fatalf("Terminate after restart: %v", err)
	}

	if refunded != refDeposit {
		t.Fatalf("refunded %d, want %d", refunded, refDeposit)
	}

	if got := f.bank.Balance(f.tenant); got != refDeposit {
		t.Fatalf("tenant balance = %d, want %d", got, refDeposit)
	}

	f.checkInvariant(t, id)
}

func TestClaimDefault_SurvivesRestart(t *testing.T) {
	f := newFixture(t)
	id := f.mint(t)
	f.apply(t, id)
	f.confirm(t, id)

	// Miss the first payment, then restart past the grace period.
	f.clock.advance(models.MonthInterval + 25*time.Hour)
	f.restart(t)

	claimed, err := f.leases.ClaimDefault(context.Background(), f.landlord, id)
	if err != nil {
		t.Fatalf("ClaimDefault after restart: %v", err)
	}

	if claimed != refDeposit {
		t.Fatalf("claimed %d, want %d", claimed, refDeposit)
	}

	if got := f.bank.Balance(f.landlord); got != refDeposit {
		t.Fatalf("landlord balance = %d, want %d", got, refDeposit)
	}

	f.checkInvariant(t, id)
}

func TestTerminate_WrongCaller(t *testing.T) {
	f := newFixture(t)
	id := f.mint(t)
	f.apply(t, id)
	f.confirm(t, id)
	f.clock.advance(13 * models.MonthInterval)

	_, err := f.leases.Terminate(context.Background(), f.landlord, id)
	if models.KindOf(err) != models.KindAuthorization {
		t.Fatalf("kind = %q, want authorization", models.KindOf(err))
	}
}

func TestClaimDefault(t *testing.T) {
	f := newFixture(t)
	id := f.mint(t)
	f.apply(t, id)
	f.confirm(t, id)
	ctx := context.Background()

	if err := f.admin.SetGracePeriod(ctx, f.owner, 1); err != nil {
		t.Fatalf("SetGracePeriod: %v", err)
	}

	// Exactly at due date + grace: not yet claimable (strictly after).
	f.clock.advance(models.MonthInterval + time.Second)

	_, err := f.leases.ClaimDefault(ctx, f.landlord, id)
	if models.KindOf(err) != models.KindTiming {
		t.Fatalf("at deadline: kind = %q, want timing", models.KindOf(err))
	}

	f.clock.advance(time.Second)

	// Wrong caller.
	_, err = f.leases.ClaimDefault(ctx, f.tenant, id)
	if models.KindOf(err) != models.KindAuthorization {
		t.Fatalf("wrong caller: kind = %q, want authorization", models.KindOf(err))
	}

	claimed, err := f.leases.ClaimDefault(ctx, f.landlord, id)
	if err != nil {
		t.Fatalf("ClaimDefault: %v", err)
	}

	if claimed != refDeposit {
		t.Fatalf("claimed %d, want %d", claimed, refDeposit)
	}

	if got := f.bank.Balance(f.landlord); got != refDeposit {
		t.Fatalf("landlord balance = %d, want %d", got, refDeposit)
	}

	holder, _ := f.assets.OwnerOf(ctx, id)
	if holder != f.landlord {
		t.Fatal("asset not returned to landlord")
	}

	if _, err := f.store.GetLease(ctx, id); !errors.Is(err, models.ErrLeaseNotFound) {
		t.Fatal("lease record survived default claim")
	}

	f.checkInvariant(t, id)

	claimedEv, ok := f.events.last().(models.LeaseDefaultClaimed)
	if !ok {
		t.Fatalf("last event = %T, want LeaseDefaultClaimed", f.events.last())
	}

	if claimedEv.Landlord != f.landlord || claimedEv.Tenant != f.tenant || claimedEv.AmountClaimed != refDeposit {
		t.Fatalf("LeaseDefaultClaimed = %+v", claimedEv)
	}
}

func TestSwitch(t *testing.T) {
	f := newFixture(t)
	first := f.mint(t)
	second := f.mint(t)
	ctx := context.Background()

	f.apply(t, first)
	f.confirm(t, first)

	// Active old lease blocks the switch.
	_, err := f.leases.Switch(ctx, f.tenant, models.SwitchRequest{
		OldPropertyID: first,
		NewPropertyID: second,
		Apply:         models.ApplyRequest{DurationMonths: 12, UserScore: 5, Amount: refDeposit},
	})
	if models.KindOf(err) != models.KindState {
		t.Fatalf("kind = %q, want state", models.KindOf(err))
	}

	// After the old lease ends, the switch applies to the new property.
	f.clock.advance(13 * models.MonthInterval)

	if _, err := f.leases.Terminate(ctx, f.tenant, first); err != nil {
		t.Fatalf("Terminate: %v", err)
	}

	lease, err := f.leases.Switch(ctx, f.tenant, models.SwitchRequest{
		OldPropertyID: first,
		NewPropertyID: second,
		Apply:         models.ApplyRequest{DurationMonths: 12, UserScore: 5, Amount: refDeposit},
	})
	if err != nil {
		t.Fatalf("Switch: %v", err)
	}

	if lease.PropertyID != second || lease.State != models.StatePending {
		t.Fatalf("lease = %+v", lease)
	}
}
