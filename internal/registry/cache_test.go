package registry

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dangelesl03/frontwedding/internal/domain"
	apperrors "github.com/dangelesl03/frontwedding/pkg/errors"
)

type stubGiftSource struct {
	gifts map[string]*domain.Gift
	calls int
}

func (s *stubGiftSource) GetGift(_ context.Context, giftID string) (*domain.Gift, error) {
	s.calls++
	gift, ok := s.gifts[giftID]
	if !ok {
		return nil, apperrors.NotFound("gift", giftID)
	}
	cpy := *gift
	return &cpy, nil
}

func setupCache(t *testing.T, source *stubGiftSource) (*FundingCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewFundingCache(source, client, 30*time.Second, discardLogger()), mr
}

func TestFundingCache_ReadThrough(t *testing.T) {
	source := &stubGiftSource{gifts: map[string]*domain.Gift{
		"g1": {ID: "g1", Name: "Espresso machine", Price: 1500_00},
	}}
	cache, _ := setupCache(t, source)
	ctx := context.Background()

	gift, err := cache.GetGift(ctx, "g1")
	require.NoError(t, err)
	assert.Equal(t, "g1", gift.ID)
	assert.Equal(t, 1, source.calls)

	// Second read is served from cache.
	gift, err = cache.GetGift(ctx, "g1")
	require.NoError(t, err)
	assert.Equal(t, domain.Money(1500_00), gift.Price)
	assert.Equal(t, 1, source.calls)
}

func TestFundingCache_Invalidate(t *testing.T) {
	source := &stubGiftSource{gifts: map[string]*domain.Gift{
		"g1": {ID: "g1", Price: 1500_00},
	}}
	cache, _ := setupCache(t, source)
	ctx := context.Background()

	_, err := cache.GetGift(ctx, "g1")
	require.NoError(t, err)

	require.NoError(t, cache.Invalidate(ctx, "g1"))

	// After a payment elsewhere the backend reports more funding.
	source.gifts["g1"].Funding.TotalContributed = 600_00

	gift, err := cache.GetGift(ctx, "g1")
	require.NoError(t, err)
	assert.Equal(t, domain.Money(600_00), gift.Funding.TotalContributed)
	assert.Equal(t, 2, source.calls)
}

func TestFundingCache_InvalidateAll(t *testing.T) {
	source := &stubGiftSource{gifts: map[string]*domain.Gift{
		"g1": {ID: "g1", Price: 1500_00},
		"g2": {ID: "g2", Price: 800_00},
	}}
	cache, mr := setupCache(t, source)
	ctx := context.Background()

	_, err := cache.GetGift(ctx, "g1")
	require.NoError(t, err)
	_, err = cache.GetGift(ctx, "g2")
	require.NoError(t, err)

	require.NoError(t, cache.InvalidateAll(ctx))
	assert.False(t, mr.Exists("funding:g1"))
	assert.False(t, mr.Exists("funding:g2"))
}

func TestFundingCache_CorruptedEntryFallsBack(t *testing.T) {
	source := &stubGiftSource{gifts: map[string]*domain.Gift{
		"g1": {ID: "g1", Price: 1500_00},
	}}
	cache, mr := setupCache(t, source)
	ctx := context.Background()

	require.NoError(t, mr.Set("funding:g1", "{{corrupt"))

	gift, err := cache.GetGift(ctx, "g1")
	require.NoError(t, err)
	assert.Equal(t, "g1", gift.ID)
	assert.Equal(t, 1, source.calls)
}

func TestFundingCache_SourceErrorPropagates(t *testing.T) {
	source := &stubGiftSource{gifts: map[string]*domain.Gift{}}
	cache, _ := setupCache(t, source)

	_, err := cache.GetGift(context.Background(), "missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
