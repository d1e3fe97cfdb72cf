package models

import (
	"time"

	"github.com/google/uuid"
)

// Party is an authenticated participant: a landlord, a tenant, or the
// platform owner. Authorization is record-based: a party is "the landlord"
// only with respect to a specific property.
type Party struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}
