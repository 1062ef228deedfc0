package models

import (
	"time"

	"github.com/google/uuid"
)

// Event kinds emitted by mutating ledger operations.
const (
	EventAccountRegistered = "account_registered"
	EventOfferCreated      = "offer_created"
	EventOfferDeactivated  = "offer_deactivated"
	EventRequestCreated    = "request_created"
	EventRequestSettled    = "request_settled"
)

// Event is an audit record of a ledger mutation, written asynchronously for
// external consumers. Reference fields are set only where they apply.
type Event struct {
	ID          uuid.UUID  `json:"id"`
	Kind        string     `json:"kind"`
	AccountID   *uuid.UUID `json:"account_id,omitempty"`
	ProviderID  *uuid.UUID `json:"provider_id,omitempty"`
	RequesterID *uuid.UUID `json:"requester_id,omitempty"`
	OfferID     *int64     `json:"offer_id,omitempty"`
	RequestID   *int64     `json:"request_id,omitempty"`
	Amount      *int64     `json:"amount,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}
