package event

import (
	"context"
	"fmt"
	"log/slog"

	pkgkafka "github.com/dangelesl03/frontwedding/pkg/kafka"
)

// FundingInvalidator drops cached funding state so the next read goes to the
// authoritative backend.
type FundingInvalidator interface {
	Invalidate(ctx context.Context, giftID string) error
	InvalidateAll(ctx context.Context) error
}

// NewFundingInvalidationHandler returns a consumer handler that invalidates
// cached funding state when a contribution is confirmed, by any instance of
// this service. Wrapped with idempotency so replayed events do not cause
// extra backend load.
func NewFundingInvalidationHandler(cache FundingInvalidator, store pkgkafka.IdempotencyStore, logger *slog.Logger) pkgkafka.Handler {
	inner := func(ctx context.Context, evt *pkgkafka.Event) error {
		var data ContributionConfirmedData
		if err := evt.UnmarshalData(&data); err != nil {
			return fmt.Errorf("decode contribution.confirmed payload: %w", err)
		}

		if len(data.GiftIDs) == 0 {
			logger.WarnContext(ctx, "contribution.confirmed event without gift ids, invalidating all funding entries",
				slog.String("event_id", evt.EventID),
			)
			return cache.InvalidateAll(ctx)
		}

		for _, giftID := range data.GiftIDs {
			if err := cache.Invalidate(ctx, giftID); err != nil {
				return err
			}
		}

		logger.DebugContext(ctx, "funding cache invalidated",
			slog.String("guest_id", data.GuestID),
			slog.Int("gift_count", len(data.GiftIDs)),
		)
		return nil
	}

	return pkgkafka.IdempotentHandler(store, inner, logger)
}
