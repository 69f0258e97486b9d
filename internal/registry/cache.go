package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dangelesl03/frontwedding/internal/domain"
)

const fundingKeyPrefix = "funding:"

// GiftSource is the upstream a FundingCache falls back to on a miss.
type GiftSource interface {
	GetGift(ctx context.Context, giftID string) (*domain.Gift, error)
}

// FundingCache is a read-through Redis cache in front of the registry
// backend. Funding state changes whenever any guest's payment is confirmed,
// so the TTL is short and confirmed-contribution events invalidate entries
// eagerly.
type FundingCache struct {
	source GiftSource
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewFundingCache creates a funding cache over the given source.
func NewFundingCache(source GiftSource, client *redis.Client, ttl time.Duration, logger *slog.Logger) *FundingCache {
	return &FundingCache{
		source: source,
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

// GetGift returns the gift from cache when fresh, otherwise fetches it from
// the backend and caches the result. Cache failures degrade to a direct
// fetch rather than failing the request.
func (c *FundingCache) GetGift(ctx context.Context, giftID string) (*domain.Gift, error) {
	key := fundingKeyPrefix + giftID

	data, err := c.client.Get(ctx, key).Bytes()
	if err == nil {
		var gift domain.Gift
		if jErr := json.Unmarshal(data, &gift); jErr == nil {
			return &gift, nil
		}
		// Corrupted entry: drop it and fall through to the source.
		_ = c.client.Del(ctx, key).Err()
	} else if err != redis.Nil {
		c.logger.WarnContext(ctx, "funding cache read failed, falling back to backend",
			slog.String("gift_id", giftID),
			slog.String("error", err.Error()),
		)
	}

	gift, err := c.source.GetGift(ctx, giftID)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(gift); err == nil {
		if setErr := c.client.Set(ctx, key, data, c.ttl).Err(); setErr != nil {
			c.logger.WarnContext(ctx, "funding cache write failed",
				slog.String("gift_id", giftID),
				slog.String("error", setErr.Error()),
			)
		}
	}

	return gift, nil
}

// Invalidate drops the cached funding state for one gift.
func (c *FundingCache) Invalidate(ctx context.Context, giftID string) error {
	if err := c.client.Del(ctx, fundingKeyPrefix+giftID).Err(); err != nil {
		return fmt.Errorf("invalidate funding cache for %s: %w", giftID, err)
	}
	return nil
}

// InvalidateAll drops every cached funding entry. Used when a confirmed
// contribution event does not carry the affected gift IDs.
func (c *FundingCache) InvalidateAll(ctx context.Context) error {
	iter := c.client.Scan(ctx, 0, fundingKeyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("invalidate funding cache: %w", err)
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("scan funding cache keys: %w", err)
	}
	return nil
}
