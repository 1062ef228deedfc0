package models

import (
	"time"

	"github.com/google/uuid"
)

// RequestStatus is the closed set of request lifecycle states.
type RequestStatus string

const (
	RequestStatusPending   RequestStatus = "pending"
	RequestStatusCompleted RequestStatus = "completed"
	// RequestStatusCancelled is reserved; no operation transitions into it yet.
	RequestStatusCancelled RequestStatus = "cancelled"
)

// Request is a commitment by a requester to consume a specific offer.
// ProviderID is copied from the offer at creation time and never re-resolved.
// The only transition is pending -> completed, performed by the provider.
type Request struct {
	ID          int64         `json:"id"`
	RequesterID uuid.UUID     `json:"requester_id"`
	ProviderID  uuid.UUID     `json:"provider_id"`
	OfferID     int64         `json:"offer_id"`
	Status      RequestStatus `json:"status"`
	CreatedAt   time.Time     `json:"created_at"`
	CompletedAt *time.Time    `json:"completed_at,omitempty"`
}
