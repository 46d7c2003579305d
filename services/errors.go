package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// Error taxonomy shared by every service. Handlers map these to HTTP statuses
// with errors.Is; nothing is coerced to a generic failure on the way up.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrInvalidState = errors.New("invalid state")
	ErrOutOfWindow  = errors.New("outside allowed window")
	ErrForbidden    = errors.New("forbidden")
	ErrStorage      = errors.New("storage error")
)

// Insufficient balances are a kind of invalid state for the caller.
var (
	ErrInsufficientCoins = fmt.Errorf("%w: insufficient coins", ErrInvalidState)
	ErrInsufficientXP    = fmt.Errorf("%w: insufficient xp", ErrInvalidState)
)

// translateDBErr folds storage errors into the taxonomy. A unique-constraint
// violation from a race means someone else already did this, so it surfaces
// as Conflict rather than a fatal error.
func translateDBErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrConflict
	default:
		return fmt.Errorf("%w: %v", ErrStorage, err)
	}
}
