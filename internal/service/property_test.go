package service

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/rentora/rentora/internal/models"
)

func TestMintProperty_OwnerOnly(t *testing.T) {
	f := newFixture(t)

	_, err := f.props.MintProperty(context.Background(), f.landlord, models.MintPropertyRequest{
		Landlord: f.landlord, Location: "somewhere", Size: 10, Rooms: 1,
		YearBuilt: 1990, BaseValue: 1000, Condition: 50,
	})
	if models.KindOf(err) != models.KindAuthorization {
		t.Fatalf("kind = %q, want authorization", models.KindOf(err))
	}
}

func TestMintProperty_ValidationBounds(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	valid := models.MintPropertyRequest{
		Landlord: f.landlord, Location: "12 Foundry Row", Size: 40, Rooms: 2,
		YearBuilt: 1950, BaseValue: 5_000_000, Condition: 70,
	}

	tests := []struct {
		name   string
		mutate func(*models.MintPropertyRequest)
	}{
		{name: "missing landlord", mutate: func(r *models.MintPropertyRequest) { r.Landlord = uuid.Nil }},
		{name: "empty location", mutate: func(r *models.MintPropertyRequest) { r.Location = "" }},
		{name: "zero size", mutate: func(r *models.MintPropertyRequest) { r.Size = 0 }},
		{name: "zero rooms", mutate: func(r *models.MintPropertyRequest) { r.Rooms = 0 }},
		{name: "built too early", mutate: func(r *models.MintPropertyRequest) { r.YearBuilt = 1799 }},
		{name: "built in the future", mutate: func(r *models.MintPropertyRequest) { r.YearBuilt = 2026 }},
		{name: "zero base value", mutate: func(r *models.MintPropertyRequest) { r.BaseValue = 0 }},
		{name: "condition out of range", mutate: func(r *models.MintPropertyRequest) { r.Condition = 101 }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := valid
			tc.mutate(&req)

			_, err := f.props.MintProperty(ctx, f.owner, req)
			if models.KindOf(err) != models.KindValidation {
				t.Fatalf("kind = %q, want validation", models.KindOf(err))
			}
		})
	}

	// The valid request mints, registers the asset and emits the fact.
	prop, err := f.props.MintProperty(ctx, f.owner, valid)
	if err != nil {
		t.Fatalf("MintProperty: %v", err)
	}

	holder, err := f.assets.OwnerOf(ctx, prop.ID)
	if err != nil {
		t.Fatalf("OwnerOf: %v", err)
	}

	if holder != f.landlord {
		t.Fatalf("asset holder = %v, want landlord", holder)
	}

	minted, ok := f.events.last().(models.PropertyMinted)
	if !ok {
		t.Fatalf("last event = %T, want PropertyMinted", f.events.last())
	}

	want := models.PropertyMinted{
		ID: prop.ID, Location: "12 Foundry Row", Size: 40, Rooms: 2,
		YearBuilt: 1950, BaseValue: 5_000_000, Condition: 70,
	}
	if minted != want {
		t.Fatalf("PropertyMinted = %+v, want %+v", minted, want)
	}
}

func TestQuote(t *testing.T) {
	f := newFixture(t)
	id := f.mint(t)

	quote, err := f.props.Quote(context.Background(), id, 12, 5, 0, 0)
	if err != nil {
		t.Fatalf("Quote: %v", err)
	}

	if quote.MonthlyRent != refMonthlyRent {
		t.Fatalf("monthly rent = %d, want %d", quote.MonthlyRent, refMonthlyRent)
	}

	if quote.RequiredDeposit != refDeposit {
		t.Fatalf("required deposit = %d, want %d", quote.RequiredDeposit, refDeposit)
	}
}

func TestSequentialPropertyIDs(t *testing.T) {
	f := newFixture(t)

	first := f.mint(t)
	second := f.mint(t)

	if second != first+1 {
		t.Fatalf("ids not sequential: %d then %d", first, second)
	}
}
