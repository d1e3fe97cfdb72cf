package models

import "github.com/google/uuid"

// Event is a literal fact emitted by a committed transition. Field sets are
// part of the wire contract: tests and downstream consumers assert on them.
type Event interface {
	EventType() string
}

// PropertyMinted is emitted when a property is registered.
type PropertyMinted struct {
	ID        int64  `json:"id"`
	Location  string `json:"location"`
	Size      int    `json:"size"`
	Rooms     int    `json:"rooms"`
	YearBuilt int    `json:"year_built"`
	BaseValue int64  `json:"base_value"`
	Condition int    `json:"condition"`
}

// EventType implements Event.
func (PropertyMinted) EventType() string { return "property.minted" }

// LeaseApplied is emitted when an application and deposit are accepted.
type LeaseApplied struct {
	ID      int64     `json:"id"`
	Tenant  uuid.UUID `json:"tenant"`
	Deposit int64     `json:"deposit"`
}

// EventType implements Event.
func (LeaseApplied) EventType() string { return "lease.applied" }

// LeaseConfirmed is emitted when the landlord confirms a pending lease.
type LeaseConfirmed struct {
	ID       int64     `json:"id"`
	Landlord uuid.UUID `json:"landlord"`
}

// EventType implements Event.
func (LeaseConfirmed) EventType() string { return "lease.confirmed" }

// LeasePaid is emitted when a rent payment is accepted and the due date
// advances.
type LeasePaid struct {
	ID             int64     `json:"id"`
	Tenant         uuid.UUID `json:"tenant"`
	Amount         int64     `json:"amount"`
	NextPaymentDue int64     `json:"next_payment_due"` // unix seconds
}

// EventType implements Event.
func (LeasePaid) EventType() string { return "lease.paid" }

// LeaseExtended is emitted when an extension commits.
type LeaseExtended struct {
	ID             int64 `json:"id"`
	NewDuration    int   `json:"new_duration"`
	NewMonthlyRent int64 `json:"new_monthly_rent"`
}

// EventType implements Event.
func (LeaseExtended) EventType() string { return "lease.extended" }

// LeaseTerminated is emitted when the tenant ends an expired lease.
type LeaseTerminated struct {
	ID       int64     `json:"id"`
	Tenant   uuid.UUID `json:"tenant"`
	Refunded int64     `json:"refunded"`
}

// EventType implements Event.
func (LeaseTerminated) EventType() string { return "lease.terminated" }

// LeaseDefaultClaimed is emitted when the landlord claims the deposit after
// a missed payment survives the grace period.
type LeaseDefaultClaimed struct {
	ID            int64     `json:"id"`
	Landlord      uuid.UUID `json:"landlord"`
	Tenant        uuid.UUID `json:"tenant"`
	AmountClaimed int64     `json:"amount_claimed"`
}

// EventType implements Event.
func (LeaseDefaultClaimed) EventType() string { return "lease.default_claimed" }
