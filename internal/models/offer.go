package models

import (
	"time"

	"github.com/google/uuid"
)

// Offer is a standing advertisement of a service at a fixed time-credit cost.
// Ids are BIGSERIAL-assigned: monotonic from 1, never reused. An offer is
// immutable except for the active flag, which its owner may flip off.
type Offer struct {
	ID           int64     `json:"id"`
	ProviderID   uuid.UUID `json:"provider_id"`
	Category     string    `json:"category"`
	Description  string    `json:"description"`
	TimeRequired int64     `json:"time_required"`
	TimeCost     int64     `json:"time_cost"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"created_at"`
}
