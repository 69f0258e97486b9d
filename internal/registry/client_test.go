package registry

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dangelesl03/frontwedding/internal/domain"
	apperrors "github.com/dangelesl03/frontwedding/pkg/errors"
	"github.com/dangelesl03/frontwedding/pkg/httpclient"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	cfg := httpclient.DefaultConfig()
	cfg.MaxRetries = 0
	cb := httpclient.NewCircuitBreakerClient(
		httpclient.New(cfg),
		httpclient.DefaultCircuitBreakerConfig("registry-test-"+t.Name()),
		discardLogger(),
	)
	return NewClient(baseURL, cb, discardLogger())
}

func TestClient_ListGifts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/gifts", r.URL.Path)
		assert.Equal(t, "kitchen", r.URL.Query().Get("category"))
		assert.Equal(t, "500.00", r.URL.Query().Get("minPrice"))
		assert.Equal(t, "price_asc", r.URL.Query().Get("sortBy"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"id": "g1", "name": "Espresso machine", "category": "kitchen", "price": 1500, "totalContributed": 600},
			{"id": "g2", "name": "Dinner set", "category": "kitchen", "price": "800", "totalContributed": "0"}
		]`))
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)

	gifts, err := client.ListGifts(context.Background(), Filter{
		Category: "kitchen",
		MinPrice: domain.NewMoneyFromUnits(500),
		SortBy:   "price_asc",
	})
	require.NoError(t, err)
	require.Len(t, gifts, 2)

	assert.Equal(t, "g1", gifts[0].ID)
	assert.Equal(t, domain.Money(1500_00), gifts[0].Price)
	assert.Equal(t, domain.Money(900_00), gifts[0].AvailableAmount())

	// String-encoded amounts decode the same as numeric ones.
	assert.Equal(t, domain.Money(800_00), gifts[1].Price)
	assert.Equal(t, domain.Money(0), gifts[1].Funding.TotalContributed)
}

func TestClient_GetGift(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/gifts/g1", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "g1", "name": "Espresso machine", "price": 1500,
			"totalContributed": 1100,
			"contributors": [{"name": "ana", "amount": 600}, {"name": "luis", "amount": 500}]
		}`))
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)

	gift, err := client.GetGift(context.Background(), "g1")
	require.NoError(t, err)
	assert.Equal(t, domain.Money(1100_00), gift.Funding.TotalContributed)
	assert.Equal(t, domain.Money(400_00), gift.AvailableAmount())
	require.Len(t, gift.Funding.Contributors, 2)
}

func TestClient_GetGift_ContributorsSumFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "g1", "name": "Espresso machine", "price": 1500,
			"contributors": [{"name": "ana", "amount": 600}]
		}`))
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)

	gift, err := client.GetGift(context.Background(), "g1")
	require.NoError(t, err)
	// Aggregate missing: the contributors sum is used instead.
	assert.Equal(t, domain.Money(600_00), gift.Funding.TotalContributed)
}

func TestClient_GetGift_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message": "gift not found"}`))
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)

	_, err := client.GetGift(context.Background(), "missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestClient_ListGifts_MalformedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"unexpected": "shape"`))
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)

	_, err := client.ListGifts(context.Background(), Filter{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode gifts response")
}
