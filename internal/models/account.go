package models

import (
	"time"

	"github.com/google/uuid"
)

// Ledger constants. Every account starts with the same one-time grant and a
// neutral reputation; reputation only moves up, one point per settled request.
const (
	InitialBalance    int64 = 100
	InitialReputation       = 50
	MaxReputation           = 100
)

// Account is a registered member's ledger entry. Accounts are created once by
// registration and never deleted; balance and reputation are mutated only by
// settlement.
type Account struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Skills     []string  `json:"skills"`
	Balance    int64     `json:"balance"`
	Reputation int       `json:"reputation"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
