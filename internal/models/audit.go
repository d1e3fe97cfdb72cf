package models

import (
	"time"

	"github.com/google/uuid"
)

// AuditEntry is one recorded transition in the audit trail.
type AuditEntry struct {
	ID         int64          `json:"id"`
	PropertyID int64          `json:"property_id"`
	Action     string         `json:"action"`
	Actor      uuid.UUID      `json:"actor"`
	Detail     map[string]any `json:"detail,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
}

// AuditQueryOpts holds filters for querying the audit trail.
type AuditQueryOpts struct {
	PropertyID int64
	Action     string
	Actor      uuid.UUID
	Since      *time.Time
	Limit      int
	Offset     int
}
