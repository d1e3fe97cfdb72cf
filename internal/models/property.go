// Package models defines data types for properties, leases and the
// transition audit trail.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Bounds enforced when minting a property.
const (
	MinYearBuilt = 1800
	MaxYearBuilt = 2025
	MaxCondition = 100
)

// Property is a leasable asset record. Everything except the leased flag
// and the condition score is immutable after minting.
type Property struct {
	ID        int64     `json:"id"`
	Landlord  uuid.UUID `json:"landlord"`
	Location  string    `json:"location"`
	Size      int       `json:"size"`
	Rooms     int       `json:"rooms"`
	YearBuilt int       `json:"year_built"`
	BaseValue int64     `json:"base_value"` // smallest currency unit
	Condition int       `json:"condition"`  // wear score, 0-100
	Leased    bool      `json:"leased"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// MintPropertyRequest is the payload for registering a new property.
// The platform owner mints on behalf of a landlord.
type MintPropertyRequest struct {
	Landlord  uuid.UUID `json:"landlord"`
	Location  string    `json:"location"`
	Size      int       `json:"size"`
	Rooms     int       `json:"rooms"`
	YearBuilt int       `json:"year_built"`
	BaseValue int64     `json:"base_value"`
	Condition int       `json:"condition"`
}

// Validate checks the minting bounds.
func (r *MintPropertyRequest) Validate() error {
	if r.Landlord == uuid.Nil {
		return Validationf("landlord is required")
	}

	if r.Location == "" {
		return Validationf("location is required")
	}

	if r.Size <= 0 {
		return Validationf("size must be positive")
	}

	if r.Rooms <= 0 {
		return Validationf("rooms must be positive")
	}

	if r.YearBuilt < MinYearBuilt || r.YearBuilt > MaxYearBuilt {
		return Validationf("year_built must be between %d and %d", MinYearBuilt, MaxYearBuilt)
	}

	if r.BaseValue <= 0 {
		return Validationf("base_value must be positive")
	}

	if r.Condition < 0 || r.Condition > MaxCondition {
		return Validationf("condition must be between 0 and %d", MaxCondition)
	}

	return nil
}
