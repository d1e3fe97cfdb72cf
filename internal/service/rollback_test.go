package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rentora/rentora/internal/models"
)

// A failed refund transfer must abort the whole termination: lease record,
// leased flag, escrow balance and asset custody all stay exactly as they
// were.
func TestTerminate_FailedRefundRollsEverythingBack(t *testing.T) {
	f := newFixture(t)
	id := f.mint(t)
	f.apply(t, id)
	f.confirm(t, id)
	ctx := context.Background()

	f.clock.advance(13 * models.MonthInterval)

	f.transfer.fail = errors.New("payment rail down")

	_, err := f.leases.Terminate(ctx, f.tenant, id)
	if models.KindOf(err) != models.KindPayment {
		t.Fatalf("kind = %q, want payment", models.KindOf(err))
	}

	lease, gerr := f.store.GetLease(ctx, id)
	if gerr != nil {
		t.Fatalf("lease record gone after aborted termination: %v", gerr)
	}

	if lease.State != models.StateActive {
		t.Fatalf("state = %s, want active", lease.State)
	}

	if lease.DepositHeld != refDeposit {
		t.Fatalf("deposit = %d, want %d", lease.DepositHeld, refDeposit)
	}

	prop, _ := f.store.GetProperty(ctx, id)
	if !prop.Leased {
		t.Fatal("leased flag cleared by aborted termination")
	}

	holder, _ := f.assets.OwnerOf(ctx, id)
	if holder != f.escrowID {
		t.Fatal("asset custody changed by aborted termination")
	}

	f.checkInvariant(t, id)

	// Once the rail recovers the same call succeeds.
	f.transfer.fail = nil

	if _, err := f.leases.Terminate(ctx, f.tenant, id); err != nil {
		t.Fatalf("Terminate after recovery: %v", err)
	}
}

func TestClaimDefault_FailedPayoutRollsEverythingBack(t *testing.T) {
	f := newFixture(t)
	id := f.mint(t)
	f.apply(t, id)
	f.confirm(t, id)
	ctx := context.Background()

	if err := f.admin.SetGracePeriod(ctx, f.owner, 1); err != nil {
		t.Fatalf("SetGracePeriod: %v", err)
	}

	f.clock.advance(models.MonthInterval + 2*time.Second)

	f.transfer.fail = errors.New("payment rail down")

	_, err := f.leases.ClaimDefault(ctx, f.landlord, id)
	if models.KindOf(err) != models.KindPayment {
		t.Fatalf("kind = %q, want payment", models.KindOf(err))
	}

	lease, gerr := f.store.GetLease(ctx, id)
	if gerr != nil {
		t.Fatalf("lease record gone after aborted claim: %v", gerr)
	}

	if lease.State != models.StateActive || lease.DepositHeld != refDeposit {
		t.Fatalf("lease mutated by aborted claim: %+v", lease)
	}

	holder, _ := f.assets.OwnerOf(ctx, id)
	if holder != f.escrowID {
		t.Fatal("asset custody changed by aborted claim")
	}

	f.checkInvariant(t, id)
}

// An outbound transfer that calls back into a state-mutating entry point
// must be rejected by the reentrancy guard instead of observing the
// half-finished transition.
func TestReentrancyGuard(t *testing.T) {
	f := newFixture(t)
	id := f.mint(t)
	f.apply(t, id)
	f.confirm(t, id)
	ctx := context.Background()

	f.clock.advance(13 * models.MonthInterval)

	var nested error
	reentered := false
	f.transfer.onSend = func() {
		if reentered {
			return
		}
		reentered = true
		_, nested = f.leases.PayRent(ctx, f.tenant, id, models.PayRentRequest{Amount: refMonthlyRent})
	}

	if _, err := f.leases.Terminate(ctx, f.tenant, id); err != nil {
		t.Fatalf("Terminate: %v", err)
	}

	if !reentered {
		t.Fatal("transfer hook never ran")
	}

	if !errors.Is(nested, models.ErrReentrancy) {
		t.Fatalf("nested call error = %v, want ErrReentrancy", nested)
	}
}
