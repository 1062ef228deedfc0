package exchange

import "errors"

// Every failure an operation can report. All validation happens before any
// mutation, so a returned error always means no state change occurred.
var (
	ErrInvalidInput        = errors.New("invalid input")
	ErrAlreadyRegistered   = errors.New("identity already registered")
	ErrNotFound            = errors.New("not found")
	ErrUnauthorized        = errors.New("caller not authorized")
	ErrOfferInactive       = errors.New("offer is inactive")
	ErrSelfRequest         = errors.New("cannot request own offer")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrInvalidState        = errors.New("request is not pending")
)
