package registry

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// Memory is an in-process AssetRegistry. It backs the dev/demo deployment
// and doubles as the registry used by service tests.
type Memory struct {
	mu        sync.Mutex
	owners    map[int64]uuid.UUID
	approvals map[int64]uuid.UUID
}

// Compile-time check: *Memory must satisfy AssetRegistry.
var _ AssetRegistry = (*Memory)(nil)

// NewMemory creates an empty in-memory registry.
func NewMemory() *Memory {
	return &Memory{owners: make(map[int64]uuid.UUID), approvals: make(map[int64]uuid.UUID)}
}

// Mint implements AssetRegistry.
func (m *Memory) Mint(_ context.Context, owner uuid.UUID, assetID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.owners[assetID]; ok {
		return ErrAssetExists
	}

	m.owners[assetID] = owner

	return nil
}

// OwnerOf implements AssetRegistry.
func (m *Memory) OwnerOf(_ context.Context, assetID int64) (uuid.UUID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	owner, ok := m.owners[assetID]
	if !ok {
		return uuid.Nil, ErrAssetNotFound
	}

	return owner, nil
}

// Transfer implements AssetRegistry. Clears any approval on success.
func (m *Memory) Transfer(_ context.Context, from, to uuid.UUID, assetID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	owner, ok := m.owners[assetID]
	if !ok {
		return ErrAssetNotFound
	}

	if owner != from && m.approvals[assetID] != from {
		return ErrNotAssetHolder
	}

	m.owners[assetID] = to
	delete(m.approvals, assetID)

	return nil
}

// Approve implements AssetRegistry.
func (m *Memory) Approve(_ context.Context, operator uuid.UUID, assetID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.owners[assetID]; !ok {
		return ErrAssetNotFound
	}

	m.approvals[assetID] = operator

	return nil
}
