package models

import (
	"time"

	"github.com/google/uuid"
)

// LeaseState is the lifecycle state of a lease.
type LeaseState string

// Lease lifecycle states. Terminated and Defaulted are transient outcomes:
// a terminal transition records the outcome in the audit trail and resets
// the lease record to StateNone so the property is immediately leasable
// again.
const (
	StateNone       LeaseState = "none"
	StatePending    LeaseState = "pending"
	StateActive     LeaseState = "active"
	StateTerminated LeaseState = "terminated"
	StateDefaulted  LeaseState = "defaulted"
)

// MonthInterval is the fixed month approximation used for every timing
// computation: due dates, expirations and grace windows. Deliberately not a
// calendar month.
const MonthInterval = 30 * 24 * time.Hour

// DepositMultiplier is how many months of rent the escrowed deposit covers.
const DepositMultiplier = 3

// MaxUserScore is the upper bound of the tenant reliability score.
const MaxUserScore = 10

// Lease is the per-property lease record. At most one lease per property is
// in a non-None state at any time; it is keyed by the property id.
type Lease struct {
	PropertyID     int64      `json:"property_id"`
	State          LeaseState `json:"state"`
	Tenant         uuid.UUID  `json:"tenant"`
	MonthlyRent    int64      `json:"monthly_rent"`
	DepositHeld    int64      `json:"deposit_held"`
	DurationMonths int        `json:"duration_months"`
	// Pricing inputs captured at application time, reused when an
	// extension recomputes the rent.
	UserScore    int   `json:"user_score"`
	CurrentUsage int64 `json:"current_usage"`
	UsageCap     int64 `json:"usage_cap"`

	StartTimestamp *time.Time `json:"start_timestamp,omitempty"`
	NextPaymentDue *time.Time `json:"next_payment_due,omitempty"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// Expiry returns the earliest instant at which the tenant may terminate.
// Only meaningful while the lease is Active.
func (l *Lease) Expiry() time.Time {
	if l.StartTimestamp == nil {
		return time.Time{}
	}

	return l.StartTimestamp.Add(time.Duration(l.DurationMonths) * MonthInterval)
}

// ApplyRequest is the payload for applying to lease a property. Amount is
// the escrow deposit the tenant supplies; it must equal exactly
// DepositMultiplier times the quoted monthly rent.
type ApplyRequest struct {
	DurationMonths int   `json:"duration_months"`
	UserScore      int   `json:"user_score"`
	CurrentUsage   int64 `json:"current_usage"`
	UsageCap       int64 `json:"usage_cap"`
	Amount         int64 `json:"amount"`
}

// Validate checks the pricing preconditions.
func (r *ApplyRequest) Validate() error {
	if r.DurationMonths <= 0 {
		return Validationf("duration_months must be positive")
	}

	if r.UserScore < 0 || r.UserScore > MaxUserScore {
		return Validationf("user_score must be between 0 and %d", MaxUserScore)
	}

	if r.CurrentUsage < 0 || r.UsageCap < 0 {
		return Validationf("usage values must be non-negative")
	}

	if r.Amount <= 0 {
		return Validationf("amount must be positive")
	}

	return nil
}

// PayRentRequest is the payload for a monthly rent payment.
type PayRentRequest struct {
	Amount int64 `json:"amount"`
}

// Validate checks the payment amount shape.
func (r *PayRentRequest) Validate() error {
	if r.Amount <= 0 {
		return Validationf("amount must be positive")
	}

	return nil
}

// ExtendRequest is the payload for extending an active lease. Amount is the
// deposit top-up supplied by the tenant; it must equal exactly the computed
// delta when the new deposit exceeds the old, and zero otherwise.
type ExtendRequest struct {
	ExtensionMonths int   `json:"extension_months"`
	Amount          int64 `json:"amount"`
}

// Validate checks the extension shape.
func (r *ExtendRequest) Validate() error {
	if r.ExtensionMonths <= 0 {
		return Validationf("extension_months must be positive")
	}

	if r.Amount < 0 {
		return Validationf("amount must be non-negative")
	}

	return nil
}

// SwitchRequest is the payload for the startNewLease convenience entry:
// apply to a new property, provided any lease the caller holds on the old
// property is not Active.
type SwitchRequest struct {
	OldPropertyID int64        `json:"old_property_id"`
	NewPropertyID int64        `json:"new_property_id"`
	Apply         ApplyRequest `json:"apply"`
}

// Validate checks the switch shape.
func (r *SwitchRequest) Validate() error {
	if r.NewPropertyID <= 0 {
		return Validationf("new_property_id is required")
	}

	if r.OldPropertyID == r.NewPropertyID {
		return Validationf("old and new property must differ")
	}

	return r.Apply.Validate()
}

// Quote is the read-only pricing answer for a prospective application.
type Quote struct {
	PropertyID      int64 `json:"property_id"`
	MonthlyRent     int64 `json:"monthly_rent"`
	RequiredDeposit int64 `json:"required_deposit"`
}
