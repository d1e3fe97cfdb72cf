package registry

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
)

func TestMemory_MintAndOwnerOf(t *testing.T) {
	reg := NewMemory()
	ctx := context.Background()
	landlord := uuid.New()

	if err := reg.Mint(ctx, landlord, 1); err != nil {
		t.Fatalf("Mint: %v", err)
	}

	if err := reg.Mint(ctx, landlord, 1); !errors.Is(err, ErrAssetExists) {
		t.Fatalf("second mint: %v, want ErrAssetExists", err)
	}

	owner, err := reg.OwnerOf(ctx, 1)
	if err != nil {
		t.Fatalf("OwnerOf: %v", err)
	}

	if owner != landlord {
		t.Fatalf("owner = %v, want %v", owner, landlord)
	}

	if _, err := reg.OwnerOf(ctx, 99); !errors.Is(err, ErrAssetNotFound) {
		t.Fatalf("OwnerOf(99): %v, want ErrAssetNotFound", err)
	}
}

func TestMemory_Transfer(t *testing.T) {
	reg := NewMemory()
	ctx := context.Background()
	landlord, escrowAcct, stranger := uuid.New(), uuid.New(), uuid.New()

	if err := reg.Mint(ctx, landlord, 1); err != nil {
		t.Fatalf("Mint: %v", err)
	}

	if err := reg.Transfer(ctx, stranger, escrowAcct, 1); !errors.Is(err, ErrNotAssetHolder) {
		t.Fatalf("transfer by stranger: %v, want ErrNotAssetHolder", err)
	}

	if err := reg.Transfer(ctx, landlord, escrowAcct, 1); err != nil {
		t.Fatalf("Transfer: %v", err)
	}

	owner, _ := reg.OwnerOf(ctx, 1)
	if owner != escrowAcct {
		t.Fatalf("owner = %v, want escrow account", owner)
	}
}

func TestMemory_ApproveAllowsOperatorTransfer(t *testing.T) {
	reg := NewMemory()
	ctx := context.Background()
	landlord, operator, tenant := uuid.New(), uuid.New(), uuid.New()

	if err := reg.Mint(ctx, landlord, 1); err != nil {
		t.Fatalf("Mint: %v", err)
	}

	if err := reg.Approve(ctx, operator, 1); err != nil {
		t.Fatalf("Approve: %v", err)
	}

	if err := reg.Transfer(ctx, operator, tenant, 1); err != nil {
		t.Fatalf("operator transfer: %v", err)
	}

	// Approval is consumed by the transfer.
	if err := reg.Transfer(ctx, operator, landlord, 1); !errors.Is(err, ErrNotAssetHolder) {
		t.Fatalf("reused approval: %v, want ErrNotAssetHolder", err)
	}
}
