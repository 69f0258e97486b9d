package kafka

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestMemoryIdempotencyStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryIdempotencyStore(time.Minute)

	exists, err := store.Contains(ctx, "evt-1")
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, store.Add(ctx, "evt-1"))

	exists, err = store.Contains(ctx, "evt-1")
	require.NoError(t, err)
	assert.True(t, exists)
	assert.Equal(t, 1, store.Len())
}

func TestMemoryIdempotencyStore_Expiry(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryIdempotencyStore(10 * time.Millisecond)

	require.NoError(t, store.Add(ctx, "evt-1"))
	time.Sleep(20 * time.Millisecond)

	exists, err := store.Contains(ctx, "evt-1")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestIdempotentHandler_SkipsDuplicates(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryIdempotencyStore(time.Minute)

	calls := 0
	handler := IdempotentHandler(store, func(ctx context.Context, event *Event) error {
		calls++
		return nil
	}, discardLogger())

	event, err := NewEvent("contribution.confirmed", "guest-1", "registry-service", nil)
	require.NoError(t, err)

	require.NoError(t, handler(ctx, event))
	require.NoError(t, handler(ctx, event))

	assert.Equal(t, 1, calls)
}

func TestIdempotentHandler_FailedEventNotRecorded(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryIdempotencyStore(time.Minute)

	calls := 0
	handler := IdempotentHandler(store, func(ctx context.Context, event *Event) error {
		calls++
		if calls == 1 {
			return errors.New("transient")
		}
		return nil
	}, discardLogger())

	event, err := NewEvent("contribution.confirmed", "guest-1", "registry-service", nil)
	require.NoError(t, err)

	require.Error(t, handler(ctx, event))
	require.NoError(t, handler(ctx, event))

	assert.Equal(t, 2, calls)
}

func TestIdempotentHandler_MissingEventIDPassesThrough(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryIdempotencyStore(time.Minute)

	calls := 0
	handler := IdempotentHandler(store, func(ctx context.Context, event *Event) error {
		calls++
		return nil
	}, discardLogger())

	event := &Event{EventType: "cart.updated", GuestID: "guest-1"}
	require.NoError(t, handler(ctx, event))
	require.NoError(t, handler(ctx, event))

	assert.Equal(t, 2, calls)
}
