package service

import "sync"

// propertyLocks serializes transitions per property and doubles as the
// reentrancy guard: TryLock fails instead of blocking, so a callback from
// an outbound transfer that re-enters a state-mutating entry point is
// rejected rather than deadlocked.
type propertyLocks struct {
	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

func newPropertyLocks() *propertyLocks {
	return &propertyLocks{locks: make(map[int64]*sync.Mutex)}
}

// acquire locks the property's mutex, blocking behind concurrent callers
// from other goroutines but failing fast on same-call reentry. It returns
// false when the lock is already held by an in-flight transition.
func (p *propertyLocks) acquire(propertyID int64) bool {
	p.mu.Lock()
	l, ok := p.locks[propertyID]
	if !ok {
		l = &sync.Mutex{}
		p.locks[propertyID] = l
	}
	p.mu.Unlock()

	return l.TryLock()
}

func (p *propertyLocks) release(propertyID int64) {
	p.mu.Lock()
	l := p.locks[propertyID]
	p.mu.Unlock()

	if l != nil {
		l.Unlock()
	}
}
