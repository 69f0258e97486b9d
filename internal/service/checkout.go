package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/dangelesl03/frontwedding/internal/domain"
	"github.com/dangelesl03/frontwedding/internal/event"
	"github.com/dangelesl03/frontwedding/internal/payment"
	"github.com/dangelesl03/frontwedding/internal/repository"
	apperrors "github.com/dangelesl03/frontwedding/pkg/errors"
)

// CircuitOpenFallback is a circuit breaker fallback for downstream clients.
// When the circuit is open it returns a structured error with a retry hint
// instead of letting the raw breaker error propagate.
func CircuitOpenFallback(_ context.Context, _ error) (*http.Response, error) {
	return nil, apperrors.ServiceUnavailable("downstream service is temporarily unavailable, please retry shortly")
}

// PaymentConfirmer submits a payment confirmation to the payment backend.
// Satisfied by payment.Client.
type PaymentConfirmer interface {
	Confirm(ctx context.Context, req payment.ConfirmationRequest) (*payment.Confirmation, error)
}

// FundingInvalidator drops cached funding state after contributions change.
type FundingInvalidator interface {
	Invalidate(ctx context.Context, giftID string) error
}

// CheckoutInput holds the parameters for confirming payment of a cart.
type CheckoutInput struct {
	Method    string `json:"payment_method" validate:"omitempty,oneof=yape plin transfer"`
	Reference string `json:"payment_reference" validate:"omitempty,max=100"`
	Receipt   *payment.Receipt
}

// CheckoutResult summarizes a confirmed checkout.
type CheckoutResult struct {
	PaymentID   string       `json:"payment_id,omitempty"`
	GiftIDs     []string     `json:"gift_ids"`
	TotalAmount domain.Money `json:"total_amount"`
	ItemCount   int          `json:"item_count"`
}

// CheckoutService confirms payment for a whole cart in one operation.
type CheckoutService struct {
	repo     repository.CartRepository
	payments PaymentConfirmer
	funding  FundingInvalidator
	producer *event.Producer
	logger   *slog.Logger
}

// NewCheckoutService creates a new checkout service.
func NewCheckoutService(
	repo repository.CartRepository,
	payments PaymentConfirmer,
	funding FundingInvalidator,
	producer *event.Producer,
	logger *slog.Logger,
) *CheckoutService {
	return &CheckoutService{
		repo:     repo,
		payments: payments,
		funding:  funding,
		producer: producer,
		logger:   logger,
	}
}

// Checkout submits the cart's pledges as one payment confirmation. Payment
// confirmation is the only operation that durably advances funding state.
// On success the cart is cleared and cached funding for the affected gifts
// is invalidated. On failure the cart is left intact so the guest can retry.
func (s *CheckoutService) Checkout(ctx context.Context, guestID string, input CheckoutInput) (*CheckoutResult, error) {
	if guestID == "" {
		return nil, apperrors.InvalidInput("guest id is required")
	}

	cart, err := s.repo.Get(ctx, guestID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.InvalidInput("cart is empty")
		}
		return nil, fmt.Errorf("get cart for checkout: %w", err)
	}
	if cart.IsEmpty() {
		return nil, apperrors.InvalidInput("cart is empty")
	}

	giftIDs := cart.GiftIDs()
	amounts := cart.Amounts()

	confirmation, err := s.payments.Confirm(ctx, payment.ConfirmationRequest{
		GiftIDs:   giftIDs,
		Amounts:   amounts,
		Method:    input.Method,
		Reference: input.Reference,
		Receipt:   input.Receipt,
	})
	if err != nil {
		// Cart stays intact so the guest can retry.
		s.logger.WarnContext(ctx, "payment confirmation failed, cart preserved",
			slog.String("guest_id", guestID),
			slog.Int("item_count", cart.ItemCount()),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	result := &CheckoutResult{
		PaymentID:   confirmation.PaymentID,
		GiftIDs:     giftIDs,
		TotalAmount: cart.TotalAmount(),
		ItemCount:   cart.ItemCount(),
	}

	// The payment is durably confirmed; everything after this point is
	// cleanup that must not fail the checkout.
	if err := s.repo.Delete(ctx, guestID); err != nil {
		s.logger.ErrorContext(ctx, "failed to clear cart after confirmed payment",
			slog.String("guest_id", guestID),
			slog.String("error", err.Error()),
		)
	}

	for _, giftID := range giftIDs {
		if err := s.funding.Invalidate(ctx, giftID); err != nil {
			s.logger.WarnContext(ctx, "failed to invalidate funding cache",
				slog.String("gift_id", giftID),
				slog.String("error", err.Error()),
			)
		}
	}

	if err := s.producer.PublishContributionConfirmed(ctx, guestID, confirmation.PaymentID, input.Method, giftIDs, amounts); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish contribution.confirmed event",
			slog.String("guest_id", guestID),
			slog.String("error", err.Error()),
		)
	}
	if err := s.producer.PublishCartCleared(ctx, guestID); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish cart.cleared event",
			slog.String("guest_id", guestID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "checkout confirmed",
		slog.String("guest_id", guestID),
		slog.String("payment_id", confirmation.PaymentID),
		slog.Int("gift_count", len(giftIDs)),
		slog.Int64("total_amount", cart.TotalAmount().Cents()),
	)

	return result, nil
}
