package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dangelesl03/frontwedding/internal/domain"
	"github.com/dangelesl03/frontwedding/internal/registry"
	apperrors "github.com/dangelesl03/frontwedding/pkg/errors"
	"github.com/dangelesl03/frontwedding/pkg/httputil"
)

// GiftLister serves the gift catalog. Satisfied by registry.Client.
type GiftLister interface {
	ListGifts(ctx context.Context, filter registry.Filter) ([]domain.Gift, error)
	GetGift(ctx context.Context, giftID string) (*domain.Gift, error)
}

// giftView is the API shape for a gift, with the derived funding fields the
// storefront needs precomputed.
type giftView struct {
	domain.Gift
	AvailableAmount domain.Money `json:"available_amount"`
	IsFullyFunded   bool         `json:"is_fully_funded"`
	PartialAllowed  bool         `json:"partial_allowed"`
}

func toGiftView(g *domain.Gift) giftView {
	return giftView{
		Gift:            *g,
		AvailableAmount: g.AvailableAmount(),
		IsFullyFunded:   g.IsFullyFunded(),
		PartialAllowed:  g.PartialAllowed(),
	}
}

// GiftsHandler handles HTTP requests for the gift catalog.
type GiftsHandler struct {
	gifts  GiftLister
	logger *slog.Logger
}

// NewGiftsHandler creates a new gifts HTTP handler.
func NewGiftsHandler(gifts GiftLister, logger *slog.Logger) *GiftsHandler {
	return &GiftsHandler{
		gifts:  gifts,
		logger: logger,
	}
}

// ListGifts handles GET /api/v1/gifts
func (h *GiftsHandler) ListGifts(w http.ResponseWriter, r *http.Request) {
	filter := registry.Filter{
		Category: r.URL.Query().Get("category"),
		SortBy:   r.URL.Query().Get("sortBy"),
	}

	if raw := r.URL.Query().Get("minPrice"); raw != "" {
		min, err := domain.ParseMoney(raw)
		if err != nil {
			httputil.WriteError(w, r, apperrors.InvalidInput("minPrice must be a non-negative number"), h.logger)
			return
		}
		filter.MinPrice = min
	}
	if raw := r.URL.Query().Get("maxPrice"); raw != "" {
		max, err := domain.ParseMoney(raw)
		if err != nil {
			httputil.WriteError(w, r, apperrors.InvalidInput("maxPrice must be a non-negative number"), h.logger)
			return
		}
		filter.MaxPrice = max
	}

	gifts, err := h.gifts.ListGifts(r.Context(), filter)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	views := make([]giftView, len(gifts))
	for i := range gifts {
		views[i] = toGiftView(&gifts[i])
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: views})
}

// GetGift handles GET /api/v1/gifts/{giftId}
func (h *GiftsHandler) GetGift(w http.ResponseWriter, r *http.Request) {
	giftID := chi.URLParam(r, "giftId")
	if giftID == "" {
		httputil.WriteError(w, r, apperrors.InvalidInput("giftId is required"), h.logger)
		return
	}

	gift, err := h.gifts.GetGift(r.Context(), giftID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: toGiftView(gift)})
}
