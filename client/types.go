package client

import "time"

// Property is a leasable asset record.
type Property struct {
	ID        int64     `json:"id"`
	Landlord  string    `json:"landlord"`
	Location  string    `json:"location"`
	Size      int       `json:"size"`
	Rooms     int       `json:"rooms"`
	YearBuilt int       `json:"year_built"`
	BaseValue int64     `json:"base_value"`
	Condition int       `json:"condition"`
	Leased    bool      `json:"leased"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Lease is the per-property lease record.
type Lease struct {
	PropertyID     int64      `json:"property_id"`
	State          string     `json:"state"`
	Tenant         string     `json:"tenant"`
	MonthlyRent    int64      `json:"monthly_rent"`
	DepositHeld    int64      `json:"deposit_held"`
	DurationMonths int        `json:"duration_months"`
	UserScore      int        `json:"user_score"`
	CurrentUsage   int64      `json:"current_usage"`
	UsageCap       int64      `json:"usage_cap"`
	StartTimestamp *time.Time `json:"start_timestamp,omitempty"`
	NextPaymentDue *time.Time `json:"next_payment_due,omitempty"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// Quote is the read-only pricing answer for a prospective application.
type Quote struct {
	PropertyID      int64 `json:"property_id"`
	MonthlyRent     int64 `json:"monthly_rent"`
	RequiredDeposit int64 `json:"required_deposit"`
}

// AuditEntry is one recorded transition in the audit trail.
type AuditEntry struct {
	ID         int64          `json:"id"`
	PropertyID int64          `json:"property_id"`
	Action     string         `json:"action"`
	Actor      string         `json:"actor"`
	Detail     map[string]any `json:"detail,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
}

// MintPropertyRequest is the payload for registering a new property.
type MintPropertyRequest struct {
	Landlord  string `json:"landlord"`
	Location  string `json:"location"`
	Size      int    `json:"size"`
	Rooms     int    `json:"rooms"`
	YearBuilt int    `json:"year_built"`
	BaseValue int64  `json:"base_value"`
	Condition int    `json:"condition"`
}

// ApplyRequest is the payload for applying to lease a property.
type ApplyRequest struct {
	DurationMonths int   `json:"duration_months"`
	UserScore      int   `json:"user_score"`
	CurrentUsage   int64 `json:"current_usage"`
	UsageCap       int64 `json:"usage_cap"`
	Amount         int64 `json:"amount"`
}

// PayRentRequest is the payload for a monthly rent payment.
type PayRentRequest struct {
	Amount int64 `json:"amount"`
}

// ExtendRequest is the payload for extending an active lease.
type ExtendRequest struct {
	ExtensionMonths int   `json:"extension_months"`
	Amount          int64 `json:"amount"`
}

// SwitchRequest is the payload for moving to a new property in one call.
type SwitchRequest struct {
	OldPropertyID int64        `json:"old_property_id"`
	NewPropertyID int64        `json:"new_property_id"`
	Apply         ApplyRequest `json:"apply"`
}

// QuoteOptions carries the optional pricing inputs for a quote request.
type QuoteOptions struct {
	DurationMonths int
	UserScore      int
	CurrentUsage   int64
	UsageCap       int64
}

// PropertyListOptions controls property list pagination.
type PropertyListOptions struct {
	Limit  int
	Offset int
}

// AuditQueryOptions controls audit trail filtering and pagination.
type AuditQueryOptions struct {
	PropertyID int64
	Action     string
	Actor      string
	Since      *time.Time
	Limit      int
	Offset     int
}

// PropertyDetail is the combined property-and-lease response for a single
// property lookup. Lease is nil when the property has no lease record.
type PropertyDetail struct {
	Property Property `json:"property"`
	Lease    *Lease   `json:"lease,omitempty"`
}

// ConfigResponse is the admin configuration snapshot.
type ConfigResponse struct {
	GracePeriodSeconds int64 `json:"grace_period_seconds"`
	DepositMultiplier  int   `json:"deposit_multiplier"`
	MonthSeconds       int64 `json:"month_seconds"`
}

// HealthResponse is the liveness check payload.
type HealthResponse struct {
	Status        string  `json:"status"`
	Version       string  `json:"version"`
	Database      string  `json:"database"`
	Clients       int     `json:"ws_clients"`
	UptimeSeconds float64 `json:"uptime_seconds"`
}

// StatsResponse is the aggregate registry statistics payload.
type StatsResponse struct {
	Properties    int   `json:"properties"`
	Leased        int   `json:"leased"`
	ActiveLeases  int   `json:"active_leases"`
	PendingLeases int   `json:"pending_leases"`
	EscrowHeld    int64 `json:"escrow_held"`
	AuditEntries  int   `json:"audit_entries"`
}
