// Package contribution encodes the business rules that decide whether a
// guest-initiated pledge amount is acceptable for a gift, independent of
// cart mechanics.
package contribution

import (
	"errors"
	"fmt"

	"github.com/dangelesl03/frontwedding/internal/domain"
)

// Mode distinguishes how the pledge amount was chosen.
type Mode string

const (
	// ModeCustom means the guest typed a partial amount themselves.
	ModeCustom Mode = "custom"
	// ModeAvailable means the system substituted the gift's remaining
	// available amount. Partial minimums do not apply in this mode: the
	// guest is covering everything that is left.
	ModeAvailable Mode = "available"
)

// Rule violations, in the order the rules are evaluated.
var (
	ErrInvalidAmount     = errors.New("contribution amount must be a positive number")
	ErrPartialNotOffered = errors.New("partial contributions are not offered for this gift")
	ErrBelowMinimum      = fmt.Errorf("minimum partial contribution is %s", domain.MinPartialAmount)
	ErrExceedsAvailable  = errors.New("contribution exceeds the remaining amount for this gift")
	ErrExceedsPrice      = errors.New("contribution exceeds the gift price")
	ErrAlreadyPledged    = errors.New("gift is already in the cart, remove it first to change the amount")
	ErrFullyFunded       = errors.New("gift is already fully funded")
)

// Validate applies the pledge rules in order and returns the first violation.
//
// Rules, in order:
//  1. The amount must be strictly positive.
//  2. A custom amount below the gift price is a partial pledge. Partials are
//     only offered when the price exceeds the partial threshold, and must be
//     at least the partial minimum. ModeAvailable skips both checks.
//  3. The amount must not exceed what remains unfunded.
//  4. The amount must never exceed the full price, checked independently of
//     rule 3.
//  5. A gift already pledged in the cart cannot be pledged again.
func Validate(amount domain.Money, gift *domain.Gift, mode Mode, alreadyInCart bool) error {
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}

	if mode == ModeCustom && amount < gift.Price {
		if !gift.PartialAllowed() {
			return ErrPartialNotOffered
		}
		if amount < domain.MinPartialAmount {
			return ErrBelowMinimum
		}
	}

	if amount > gift.AvailableAmount() {
		return ErrExceedsAvailable
	}

	if amount > gift.Price {
		return ErrExceedsPrice
	}

	if alreadyInCart {
		return ErrAlreadyPledged
	}

	return nil
}

// ResolveAmount determines the effective pledge amount for a request. In
// ModeAvailable the gift's remaining amount is substituted so a guest is
// never asked to pay more than what is left unfunded. A fully funded gift
// has nothing to substitute and is rejected.
func ResolveAmount(requested domain.Money, gift *domain.Gift, mode Mode) (domain.Money, error) {
	if mode == ModeAvailable {
		available := gift.AvailableAmount()
		if !available.IsPositive() {
			return 0, ErrFullyFunded
		}
		return available, nil
	}
	return requested, nil
}
