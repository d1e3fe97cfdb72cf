// Package registry defines the external asset-custody capability the lease
// core depends on, plus an in-memory implementation for dev and tests.
//
// The core never inlines a token standard: it asks the registry who holds
// an asset and requests transfers, and treats any error as "custody did not
// change".
package registry

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// AssetRegistry tracks ownership of leasable assets. Asset ids are the
// property ids issued at minting.
type AssetRegistry interface {
	// Mint registers a new asset owned by the given party.
	Mint(ctx context.Context, owner uuid.UUID, assetID int64) error
	// OwnerOf returns the current holder of the asset.
	OwnerOf(ctx context.Context, assetID int64) (uuid.UUID, error)
	// Transfer moves the asset from its current holder to another party.
	// It fails if from does not hold the asset and is not approved.
	Transfer(ctx context.Context, from, to uuid.UUID, assetID int64) error
	// Approve allows an operator to transfer the asset on the holder's
	// behalf.
	Approve(ctx context.Context, operator uuid.UUID, assetID int64) error
}

// Registry errors.
var (
	ErrAssetNotFound  = errors.New("asset not found")
	ErrAssetExists    = errors.New("asset already minted")
	ErrNotAssetHolder = errors.New("party does not hold the asset")
)
