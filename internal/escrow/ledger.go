// Package escrow provides custody accounting for lease deposits.
//
// The ledger owns one rule: outside of an in-flight transition, the held
// balance for a lease equals exactly the deposit recorded on the lease. All
// mutations go through a Tx journal that stages balance changes and queues
// outbound transfers; Commit executes the transfers in order and persists
// the staged balance only when every transfer succeeded. A failed transfer
// leaves the ledger untouched, which lets the calling transition abort with
// no partial mutation anywhere.
package escrow

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/rentora/rentora/internal/models"
)

// ValueTransfer sends funds to an external recipient. Implementations must
// report failure via the returned error; the ledger treats any error as
// "no funds moved".
type ValueTransfer interface {
	Send(ctx context.Context, recipient uuid.UUID, amount int64) error
}

// Ledger tracks funds held per lease, keyed by property id.
type Ledger struct {
	mu       sync.Mutex
	held     map[int64]int64
	transfer ValueTransfer
}

// NewLedger creates a Ledger backed by the given transfer primitive.
func NewLedger(transfer ValueTransfer) *Ledger {
	return &Ledger{held: make(map[int64]int64), transfer: transfer}
}

// Restore replaces the ledger's balances with held, dropping entries with a
// zero or negative amount. Lease records outlive the process but the ledger
// does not, so startup must rebuild it from the persisted deposit balances
// before any transition runs; otherwise every live lease would hold zero and
// valid refunds and claims would be rejected.
func (l *Ledger) Restore(held map[int64]int64) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.held = make(map[int64]int64, len(held))
	for propertyID, amount := range held {
		if amount > 0 {
			l.held[propertyID] = amount
		}
	}
}

// Held returns the funds currently custodied for a lease.
func (l *Ledger) Held(propertyID int64) int64 {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.held[propertyID]
}

// HeldTotal returns the sum of all custodied funds.
func (l *Ledger) HeldTotal() int64 {
	l.mu.Lock()
	defer l.mu.Unlock()

	var total int64
	for _, amount := range l.held {
		total += amount
	}

	return total
}

// Begin starts a journal for one transition on one lease.
func (l *Ledger) Begin(propertyID int64) *Tx {
	l.mu.Lock()
	defer l.mu.Unlock()

	return &Tx{ledger: l, propertyID: propertyID, staged: l.held[propertyID]}
}

// Tx is a staged set of ledger mutations for a single transition. It is not
// safe for concurrent use; transitions are already serialized per property.
type Tx struct {
	ledger     *Ledger
	propertyID int64
	staged     int64
	sends      []pendingSend
	committed  bool
}

type pendingSend struct {
	recipient uuid.UUID
	amount    int64
	reason    string
}

// Staged returns the balance the lease would hold if the Tx committed now.
func (t *Tx) Staged() int64 { return t.staged }

// Credit records funds received into escrow for this lease.
func (t *Tx) Credit(amount int64) error {
	if amount <= 0 {
		return models.Paymentf("credit amount must be positive")
	}

	t.staged += amount

	return nil
}

// Payout queues an outbound transfer paid from the held balance: a tenant
// refund or a landlord default claim.
func (t *Tx) Payout(recipient uuid.UUID, amount int64, reason string) error {
	if amount <= 0 {
		return models.Paymentf("payout amount must be positive")
	}

	if amount > t.staged {
		return models.Paymentf("payout of %d exceeds held balance of %d", amount, t.staged)
	}

	t.staged -= amount
	t.sends = append(t.sends, pendingSend{recipient: recipient, amount: amount, reason: reason})

	return nil
}

// Forward queues a pass-through transfer that never touches the held
// balance, such as a rent payment forwarded to the landlord.
func (t *Tx) Forward(recipient uuid.UUID, amount int64, reason string) error {
	if amount <= 0 {
		return models.Paymentf("forward amount must be positive")
	}

	t.sends = append(t.sends, pendingSend{recipient: recipient, amount: amount, reason: reason})

	return nil
}

// Commit executes the queued transfers in order, then persists the staged
// balance. If any transfer fails the ledger is left untouched and the error
// is returned wrapped as a payment error. Commit must be called at most
// once.
func (t *Tx) Commit(ctx context.Context) error {
	if t.committed {
		return models.Paymentf("ledger transaction already committed")
	}

	for _, s := range t.sends {
		if err := t.ledger.transfer.Send(ctx, s.recipient, s.amount); err != nil {
			return models.PaymentWrap(s.reason+" transfer failed", err)
		}
	}

	t.committed = true

	t.ledger.mu.Lock()
	defer t.ledger.mu.Unlock()

	if t.staged == 0 {
		delete(t.ledger.held, t.propertyID)
	} else {
		t.ledger.held[t.propertyID] = t.staged
	}

	return nil
}
