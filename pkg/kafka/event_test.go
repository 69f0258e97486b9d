package kafka

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cartUpdatedPayload struct {
	GiftID string `json:"gift_id"`
	Amount int64  `json:"amount"`
}

func TestNewEvent(t *testing.T) {
	payload := cartUpdatedPayload{GiftID: "gift-1", Amount: 50000}

	event, err := NewEvent("cart.updated", "guest-123", "registry-service", payload)
	require.NoError(t, err)

	assert.NotEmpty(t, event.EventID)
	assert.Equal(t, "cart.updated", event.EventType)
	assert.Equal(t, "guest-123", event.GuestID)
	assert.Equal(t, "registry-service", event.Source)
	assert.WithinDuration(t, time.Now().UTC(), event.Timestamp, time.Second)
}

func TestEvent_MarshalRoundTrip(t *testing.T) {
	event, err := NewEvent("cart.updated", "guest-123", "registry-service",
		cartUpdatedPayload{GiftID: "gift-1", Amount: 60000})
	require.NoError(t, err)

	event.WithCorrelationID("corr-1").WithMetadata("channel", "web")

	data, err := event.Marshal()
	require.NoError(t, err)

	decoded, err := UnmarshalEvent(data)
	require.NoError(t, err)

	assert.Equal(t, event.EventID, decoded.EventID)
	assert.Equal(t, "corr-1", decoded.CorrelationID)
	assert.Equal(t, "web", decoded.Metadata["channel"])

	var payload cartUpdatedPayload
	require.NoError(t, decoded.UnmarshalData(&payload))
	assert.Equal(t, "gift-1", payload.GiftID)
	assert.Equal(t, int64(60000), payload.Amount)
}

func TestUnmarshalEvent_InvalidJSON(t *testing.T) {
	_, err := UnmarshalEvent([]byte(`{not json`))
	require.Error(t, err)
}

func TestTopic(t *testing.T) {
	assert.Equal(t, "registry.cart.updated", Topic("cart", "updated"))
	assert.Equal(t, "registry.contribution.confirmed", Topic("contribution", "confirmed"))
}
