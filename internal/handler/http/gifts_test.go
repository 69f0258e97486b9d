package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dangelesl03/frontwedding/internal/domain"
	"github.com/dangelesl03/frontwedding/internal/registry"
	apperrors "github.com/dangelesl03/frontwedding/pkg/errors"
)

type stubGiftLister struct {
	gifts      []domain.Gift
	lastFilter registry.Filter
	err        error
}

func (s *stubGiftLister) ListGifts(_ context.Context, filter registry.Filter) ([]domain.Gift, error) {
	s.lastFilter = filter
	return s.gifts, s.err
}

func (s *stubGiftLister) GetGift(_ context.Context, giftID string) (*domain.Gift, error) {
	if s.err != nil {
		return nil, s.err
	}
	for i := range s.gifts {
		if s.gifts[i].ID == giftID {
			return &s.gifts[i], nil
		}
	}
	return nil, apperrors.NotFound("gift", giftID)
}

func setupGiftsRouter(lister GiftLister) *chi.Mux {
	handler := NewGiftsHandler(lister, testLogger())
	r := chi.NewRouter()
	r.Route("/api/v1/gifts", func(r chi.Router) {
		r.Get("/", handler.ListGifts)
		r.Get("/{giftId}", handler.GetGift)
	})
	return r
}

func TestListGifts_DerivedFundingFields(t *testing.T) {
	lister := &stubGiftLister{gifts: []domain.Gift{
		{
			ID:      "g1",
			Name:    "Espresso machine",
			Price:   1500_00,
			Funding: domain.FundingState{TotalContributed: 600_00},
		},
		{
			ID:      "g2",
			Name:    "Dinner set",
			Price:   800_00,
			Funding: domain.FundingState{TotalContributed: 800_00},
		},
	}}

	router := setupGiftsRouter(lister)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/gifts", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var views []struct {
		ID              string  `json:"id"`
		AvailableAmount float64 `json:"available_amount"`
		IsFullyFunded   bool    `json:"is_fully_funded"`
		PartialAllowed  bool    `json:"partial_allowed"`
	}
	env := decodeEnvelope(t, rec)
	require.NoError(t, json.Unmarshal(env.Data, &views))
	require.Len(t, views, 2)

	assert.Equal(t, float64(900), views[0].AvailableAmount)
	assert.False(t, views[0].IsFullyFunded)
	assert.True(t, views[0].PartialAllowed)

	assert.Equal(t, float64(0), views[1].AvailableAmount)
	assert.True(t, views[1].IsFullyFunded)
	assert.False(t, views[1].PartialAllowed)
}

func TestListGifts_FilterParams(t *testing.T) {
	lister := &stubGiftLister{}
	router := setupGiftsRouter(lister)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/gifts?category=kitchen&minPrice=500&maxPrice=2000&sortBy=price_asc", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "kitchen", lister.lastFilter.Category)
	assert.Equal(t, domain.Money(500_00), lister.lastFilter.MinPrice)
	assert.Equal(t, domain.Money(2000_00), lister.lastFilter.MaxPrice)
	assert.Equal(t, "price_asc", lister.lastFilter.SortBy)
}

func TestListGifts_InvalidPriceFilter(t *testing.T) {
	router := setupGiftsRouter(&stubGiftLister{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/gifts?minPrice=abc", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	env := decodeEnvelope(t, rec)
	require.NotNil(t, env.Error)
	assert.Equal(t, "INVALID_INPUT", env.Error.Code)
}

func TestGetGift_NotFound(t *testing.T) {
	router := setupGiftsRouter(&stubGiftLister{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/gifts/missing", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
	env := decodeEnvelope(t, rec)
	require.NotNil(t, env.Error)
	assert.Equal(t, "NOT_FOUND", env.Error.Code)
}

func TestListGifts_UpstreamUnavailable(t *testing.T) {
	router := setupGiftsRouter(&stubGiftLister{
		err: apperrors.ServiceUnavailable("registry backend unavailable"),
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/gifts", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
