package repository

import (
	"context"

	"github.com/dangelesl03/frontwedding/internal/domain"
)

// CartRepository defines the interface for cart persistence operations.
// Carts are keyed by the guest session that owns them.
type CartRepository interface {
	// Get retrieves the cart for a guest session.
	Get(ctx context.Context, guestID string) (*domain.Cart, error)

	// Save persists a cart, overwriting any existing cart for the guest.
	Save(ctx context.Context, cart *domain.Cart) error

	// Delete removes the cart for a guest session.
	Delete(ctx context.Context, guestID string) error
}
