package escrow

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// Bank is an in-process ValueTransfer that credits per-party balances. It
// backs the dev/demo deployment where no external payment rail is wired,
// and makes transfer outcomes observable in tests and /stats.
type Bank struct {
	mu       sync.Mutex
	balances map[uuid.UUID]int64
}

// NewBank creates an empty Bank.
func NewBank() *Bank {
	return &Bank{balances: make(map[uuid.UUID]int64)}
}

// Send credits the recipient's balance. It never fails.
func (b *Bank) Send(_ context.Context, recipient uuid.UUID, amount int64) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.balances[recipient] += amount

	return nil
}

// Balance returns the accumulated balance for a party.
func (b *Bank) Balance(party uuid.UUID) int64 {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.balances[party]
}
