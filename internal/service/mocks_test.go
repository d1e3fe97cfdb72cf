package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rentora/rentora/internal/domain"
	"github.com/rentora/rentora/internal/escrow"
	"github.com/rentora/rentora/internal/models"
)

// fakeClock is a manually advanced Clock.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.now
}

func (c *fakeClock) advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

// eventRec records emitted events.
type eventRec struct {
	mu     sync.Mutex
	events []models.Event
}

func (r *eventRec) Emit(event models.Event) {
	r.mu.Lock()
	r.events = append(r.events, event)
	r.mu.Unlock()
}

func (r *eventRec) last() models.Event {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.events) == 0 {
		return nil
	}

	return r.events[len(r.events)-1]
}

// memStore is an in-memory PropertyStore + LeaseStore with real
// transaction semantics: Transition stages writes against cloned maps and
// swaps them in only when the scope returns nil.
type memStore struct {
	mu     sync.Mutex
	props  map[int64]*models.Property
	leases map[int64]*models.Lease
	nextID int64
}

func newMemStore() *memStore {
	return &memStore{
		props:  make(map[int64]*models.Property),
		leases: make(map[int64]*models.Lease),
		nextID: 1,
	}
}

func (m *memStore) CreateProperty(_ context.Context, req models.MintPropertyRequest) (*models.Property, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := m.nextID
	m.nextID++

	prop := &models.Property{
		ID:        id,
		Landlord:  req.Landlord,
		Location:  req.Location,
		Size:      req.Size,
		Rooms:     req.Rooms,
		YearBuilt: req.YearBuilt,
		BaseValue: req.BaseValue,
		Condition: req.Condition,
	}
	m.props[id] = prop

	cp := *prop

	return &cp, nil
}

func (m *memStore) GetProperty(_ context.Context, id int64) (*models.Property, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	prop, ok := m.props[id]
	if !ok {
		return nil, models.ErrPropertyNotFound
	}

	cp := *prop

	return &cp, nil
}

func (m *memStore) ListProperties(_ context.Context, limit, offset int) ([]models.Property, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]models.Property, 0, len(m.props))
	for _, p := range m.props {
		out = append(out, *p)
	}

	return out, false, nil
}

func (m *memStore) DeleteProperty(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.props, id)

	return nil
}

func (m *memStore) UpdateCondition(_ context.Context, id int64, condition int) (*models.Property, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	prop, ok := m.props[id]
	if !ok {
		return nil, models.ErrPropertyNotFound
	}

	prop.Condition = condition
	cp := *prop

	return &cp, nil
}

func (m *memStore) GetLease(_ context.Context, propertyID int64) (*models.Lease, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	lease, ok := m.leases[propertyID]
	if !ok {
		return nil, models.ErrLeaseNotFound
	}

	cp := *lease

	return &cp, nil
}

func (m *memStore) Transition(_ context.Context, fn func(ops domain.LeaseOps) error) error {
	m.mu.Lock()

	staged := &stagedOps{
		props:  make(map[int64]*models.Property, len(m.props)),
		leases: make(map[int64]*models.Lease, len(m.leases)),
	}
	for id, p := range m.props {
		cp := *p
		staged.props[id] = &cp
	}
	for id, l := range m.leases {
		cp := *l
		staged.leases[id] = &cp
	}

	m.mu.Unlock()

	if err := fn(staged); err != nil {
		return err
	}

	m.mu.Lock()
	m.props = staged.props
	m.leases = staged.leases
	m.mu.Unlock()

	return nil
}

type stagedOps struct {
	props  map[int64]*models.Property
	leases map[int64]*models.Lease
}

func (s *stagedOps) UpsertLease(_ context.Context, lease *models.Lease) error {
	cp := *lease
	s.leases[lease.PropertyID] = &cp

	return nil
}

func (s *stagedOps) DeleteLease(_ context.Context, propertyID int64) error {
	delete(s.leases, propertyID)

	return nil
}

func (s *stagedOps) SetPropertyLeased(_ context.Context, propertyID int64, leased bool) error {
	prop, ok := s.props[propertyID]
	if !ok {
		return models.ErrPropertyNotFound
	}

	prop.Leased = leased

	return nil
}

// flakyTransfer wraps a ValueTransfer with a failure switch and a send
// hook, for rollback and reentrancy tests.
type flakyTransfer struct {
	inner  escrow.ValueTransfer
	fail   error
	onSend func()
}

func (f *flakyTransfer) Send(ctx context.Context, recipient uuid.UUID, amount int64) error {
	if f.onSend != nil {
		f.onSend()
	}

	if f.fail != nil {
		return f.fail
	}

	return f.inner.Send(ctx, recipient, amount)
}

// mockAuditQueue collects enqueued audit jobs.
type mockAuditQueue struct {
	mu   sync.Mutex
	jobs []*AuditJob
}

func (q *mockAuditQueue) Enqueue(job *AuditJob) {
	q.mu.Lock()
	q.jobs = append(q.jobs, job)
	q.mu.Unlock()
}

func (q *mockAuditQueue) actions() []string {
	q.mu.Lock()
	defer q.mu.Unlock()

	out := make([]string, 0, len(q.jobs))
	for _, j := range q.jobs {
		out = append(out, j.Action)
	}

	return out
}
