package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/dangelesl03/frontwedding/internal/contribution"
	"github.com/dangelesl03/frontwedding/internal/domain"
	"github.com/dangelesl03/frontwedding/internal/event"
	"github.com/dangelesl03/frontwedding/internal/repository"
	apperrors "github.com/dangelesl03/frontwedding/pkg/errors"
)

// MaxItemsPerCart caps the number of distinct pledges in one cart.
const MaxItemsPerCart = 50

// GiftProvider supplies the authoritative gift and funding state. Satisfied
// by both registry.Client and registry.FundingCache.
type GiftProvider interface {
	GetGift(ctx context.Context, giftID string) (*domain.Gift, error)
}

// AddPledgeInput holds the parameters for adding a pledge to the cart.
type AddPledgeInput struct {
	GiftID string `json:"gift_id" validate:"required"`
	Mode   string `json:"mode" validate:"required,oneof=full partial"`
	// Amount is the proposed partial amount in currency units. Ignored in
	// full mode, where the gift's available amount is substituted.
	Amount domain.Money `json:"amount" validate:"omitempty"`
}

// CartService implements the business logic for cart operations.
type CartService struct {
	repo     repository.CartRepository
	gifts    GiftProvider
	producer *event.Producer
	logger   *slog.Logger
}

// NewCartService creates a new cart service.
func NewCartService(repo repository.CartRepository, gifts GiftProvider, producer *event.Producer, logger *slog.Logger) *CartService {
	return &CartService{
		repo:     repo,
		gifts:    gifts,
		producer: producer,
		logger:   logger,
	}
}

// rejectPledge converts a contribution rule violation into a structured 400.
// The rule error stays in the chain so callers can still match it.
func rejectPledge(ruleErr error) error {
	return &apperrors.AppError{
		Code:    "CONTRIBUTION_REJECTED",
		Message: ruleErr.Error(),
		Status:  http.StatusBadRequest,
		Err:     fmt.Errorf("%w: %w", apperrors.ErrContribution, ruleErr),
	}
}

// GetCart retrieves the cart for a guest. If no cart exists yet, an empty
// cart is returned rather than an error.
func (s *CartService) GetCart(ctx context.Context, guestID string) (*domain.Cart, error) {
	if guestID == "" {
		return nil, apperrors.InvalidInput("guest id is required")
	}

	cart, err := s.repo.Get(ctx, guestID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return domain.NewCart(guestID), nil
		}
		return nil, fmt.Errorf("get cart: %w", err)
	}

	return cart, nil
}

// AddPledge validates and records a pledge for a gift. In full mode the
// gift's remaining available amount is substituted for the requested amount,
// so a guest never pledges more than what is left unfunded. In partial mode
// the guest's own amount is validated against the contribution rules.
func (s *CartService) AddPledge(ctx context.Context, guestID string, input AddPledgeInput) (*domain.Cart, error) {
	if guestID == "" {
		return nil, apperrors.InvalidInput("guest id is required")
	}
	if input.GiftID == "" {
		return nil, apperrors.InvalidInput("gift id is required")
	}

	mode := contribution.ModeAvailable
	if input.Mode == "partial" {
		mode = contribution.ModeCustom
	}

	gift, err := s.gifts.GetGift(ctx, input.GiftID)
	if err != nil {
		return nil, fmt.Errorf("fetch gift for pledge: %w", err)
	}

	amount, err := contribution.ResolveAmount(input.Amount, gift, mode)
	if err != nil {
		return nil, rejectPledge(err)
	}

	cart, err := s.GetCart(ctx, guestID)
	if err != nil {
		return nil, err
	}

	if len(cart.Items) >= MaxItemsPerCart {
		return nil, apperrors.InvalidInput(fmt.Sprintf("cart must not contain more than %d pledges", MaxItemsPerCart))
	}

	if err := contribution.Validate(amount, gift, mode, cart.HasGift(input.GiftID)); err != nil {
		return nil, rejectPledge(err)
	}

	cart.Add(domain.PledgeItem{
		GiftID:   gift.ID,
		GiftName: gift.Name,
		Amount:   amount,
		ImageURL: gift.ImageURL,
	})

	if err := s.repo.Save(ctx, cart); err != nil {
		return nil, fmt.Errorf("save cart: %w", err)
	}

	if err := s.producer.PublishCartUpdated(ctx, cart); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish cart.updated event",
			slog.String("guest_id", guestID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "pledge added to cart",
		slog.String("guest_id", guestID),
		slog.String("gift_id", gift.ID),
		slog.Int64("amount", amount.Cents()),
		slog.String("mode", string(mode)),
	)

	return cart, nil
}

// RemovePledge removes the pledge for a gift. Removing a gift that is not in
// the cart is a no-op, not an error.
func (s *CartService) RemovePledge(ctx context.Context, guestID, giftID string) (*domain.Cart, error) {
	if guestID == "" {
		return nil, apperrors.InvalidInput("guest id is required")
	}
	if giftID == "" {
		return nil, apperrors.InvalidInput("gift id is required")
	}

	cart, err := s.GetCart(ctx, guestID)
	if err != nil {
		return nil, err
	}

	if !cart.Remove(giftID) {
		return cart, nil
	}

	if err := s.repo.Save(ctx, cart); err != nil {
		return nil, fmt.Errorf("save cart: %w", err)
	}

	if err := s.producer.PublishCartUpdated(ctx, cart); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish cart.updated event",
			slog.String("guest_id", guestID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "pledge removed from cart",
		slog.String("guest_id", guestID),
		slog.String("gift_id", giftID),
	)

	return cart, nil
}

// UpdateQuantity replaces the quantity of an existing pledge. A quantity of
// zero or less removes the pledge entirely.
func (s *CartService) UpdateQuantity(ctx context.Context, guestID, giftID string, quantity int) (*domain.Cart, error) {
	if guestID == "" {
		return nil, apperrors.InvalidInput("guest id is required")
	}
	if giftID == "" {
		return nil, apperrors.InvalidInput("gift id is required")
	}

	if quantity <= 0 {
		return s.RemovePledge(ctx, guestID, giftID)
	}

	cart, err := s.GetCart(ctx, guestID)
	if err != nil {
		return nil, err
	}

	if !cart.SetQuantity(giftID, quantity) {
		return nil, apperrors.NotFound("pledge", giftID)
	}

	if err := s.repo.Save(ctx, cart); err != nil {
		return nil, fmt.Errorf("save cart: %w", err)
	}

	if err := s.producer.PublishCartUpdated(ctx, cart); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish cart.updated event",
			slog.String("guest_id", guestID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "pledge quantity updated",
		slog.String("guest_id", guestID),
		slog.String("gift_id", giftID),
		slog.Int("quantity", quantity),
	)

	return cart, nil
}

// ClearCart removes the guest's cart entirely.
func (s *CartService) ClearCart(ctx context.Context, guestID string) error {
	if guestID == "" {
		return apperrors.InvalidInput("guest id is required")
	}

	if err := s.repo.Delete(ctx, guestID); err != nil {
		return fmt.Errorf("delete cart: %w", err)
	}

	if err := s.producer.PublishCartCleared(ctx, guestID); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish cart.cleared event",
			slog.String("guest_id", guestID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "cart cleared", slog.String("guest_id", guestID))

	return nil
}
