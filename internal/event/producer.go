package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dangelesl03/frontwedding/internal/domain"
	pkgkafka "github.com/dangelesl03/frontwedding/pkg/kafka"
)

// Kafka topics for registry domain events.
const (
	TopicCartUpdated           = "registry.cart.updated"
	TopicCartCleared           = "registry.cart.cleared"
	TopicContributionConfirmed = "registry.contribution.confirmed"
)

// Source identifier for events originating from this service.
const SourceRegistryService = "registry-service"

// CartUpdatedData is the payload for a cart.updated event.
type CartUpdatedData struct {
	GuestID     string           `json:"guest_id"`
	Items       []PledgeItemData `json:"items"`
	ItemCount   int              `json:"item_count"`
	TotalAmount int64            `json:"total_amount"`
	Currency    string           `json:"currency"`
}

// PledgeItemData is the pledge payload within cart events.
type PledgeItemData struct {
	GiftID   string `json:"gift_id"`
	GiftName string `json:"gift_name"`
	Amount   int64  `json:"amount"`
	Quantity int    `json:"quantity"`
}

// CartClearedData is the payload for a cart.cleared event.
type CartClearedData struct {
	GuestID string `json:"guest_id"`
}

// ContributionConfirmedData is the payload for a contribution.confirmed
// event, emitted after the payment backend accepts a confirmation.
type ContributionConfirmedData struct {
	GuestID     string   `json:"guest_id"`
	GiftIDs     []string `json:"gift_ids"`
	Amounts     []int64  `json:"amounts"`
	TotalAmount int64    `json:"total_amount"`
	Method      string   `json:"method,omitempty"`
	PaymentID   string   `json:"payment_id,omitempty"`
}

// Producer publishes registry domain events to Kafka.
type Producer struct {
	kafka  *pkgkafka.Producer
	logger *slog.Logger
}

// NewProducer creates a new event producer for the registry service.
func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

// PublishCartUpdated publishes a cart.updated event.
func (p *Producer) PublishCartUpdated(ctx context.Context, cart *domain.Cart) error {
	items := make([]PledgeItemData, len(cart.Items))
	for i, item := range cart.Items {
		items[i] = PledgeItemData{
			GiftID:   item.GiftID,
			GiftName: item.GiftName,
			Amount:   item.Amount.Cents(),
			Quantity: item.Quantity,
		}
	}

	data := CartUpdatedData{
		GuestID:     cart.GuestID,
		Items:       items,
		ItemCount:   cart.ItemCount(),
		TotalAmount: cart.TotalAmount().Cents(),
		Currency:    cart.Currency,
	}

	event, err := pkgkafka.NewEvent(TopicCartUpdated, cart.GuestID, SourceRegistryService, data)
	if err != nil {
		return fmt.Errorf("create cart.updated event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicCartUpdated, event); err != nil {
		return fmt.Errorf("publish cart.updated event: %w", err)
	}

	p.logger.DebugContext(ctx, "published cart.updated event",
		slog.String("guest_id", cart.GuestID),
		slog.Int("item_count", cart.ItemCount()),
	)

	return nil
}

// PublishCartCleared publishes a cart.cleared event.
func (p *Producer) PublishCartCleared(ctx context.Context, guestID string) error {
	data := CartClearedData{GuestID: guestID}

	event, err := pkgkafka.NewEvent(TopicCartCleared, guestID, SourceRegistryService, data)
	if err != nil {
		return fmt.Errorf("create cart.cleared event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicCartCleared, event); err != nil {
		return fmt.Errorf("publish cart.cleared event: %w", err)
	}

	p.logger.DebugContext(ctx, "published cart.cleared event",
		slog.String("guest_id", guestID),
	)

	return nil
}

// PublishContributionConfirmed publishes a contribution.confirmed event.
func (p *Producer) PublishContributionConfirmed(ctx context.Context, guestID, paymentID, method string, giftIDs []string, amounts []domain.Money) error {
	rawAmounts := make([]int64, len(amounts))
	var total int64
	for i, a := range amounts {
		rawAmounts[i] = a.Cents()
		total += a.Cents()
	}

	data := ContributionConfirmedData{
		GuestID:     guestID,
		GiftIDs:     giftIDs,
		Amounts:     rawAmounts,
		TotalAmount: total,
		Method:      method,
		PaymentID:   paymentID,
	}

	event, err := pkgkafka.NewEvent(TopicContributionConfirmed, guestID, SourceRegistryService, data)
	if err != nil {
		return fmt.Errorf("create contribution.confirmed event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicContributionConfirmed, event); err != nil {
		return fmt.Errorf("publish contribution.confirmed event: %w", err)
	}

	p.logger.DebugContext(ctx, "published contribution.confirmed event",
		slog.String("guest_id", guestID),
		slog.Int("gift_count", len(giftIDs)),
	)

	return nil
}
