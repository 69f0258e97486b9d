package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dangelesl03/frontwedding/internal/domain"
	"github.com/dangelesl03/frontwedding/internal/service"
	apperrors "github.com/dangelesl03/frontwedding/pkg/errors"
	"github.com/dangelesl03/frontwedding/pkg/httputil"
	"github.com/dangelesl03/frontwedding/pkg/validator"
)

// CartHandler handles HTTP requests for cart endpoints.
type CartHandler struct {
	service *service.CartService
	logger  *slog.Logger
}

// NewCartHandler creates a new cart HTTP handler.
func NewCartHandler(svc *service.CartService, logger *slog.Logger) *CartHandler {
	return &CartHandler{
		service: svc,
		logger:  logger,
	}
}

// AddPledgeRequest is the JSON request body for adding a pledge. Amount is
// in currency units and may arrive as a number or a numeric string.
type AddPledgeRequest struct {
	GiftID string       `json:"gift_id" validate:"required"`
	Mode   string       `json:"mode" validate:"required,oneof=full partial"`
	Amount domain.Money `json:"amount" validate:"omitempty,gte=0"`
}

// UpdateQuantityRequest is the JSON request body for updating a pledge quantity.
type UpdateQuantityRequest struct {
	Quantity int `json:"quantity" validate:"gte=0"`
}

// cartView is the API shape for a cart with derived totals precomputed.
type cartView struct {
	domain.Cart
	TotalAmount domain.Money `json:"total_amount"`
	ItemCount   int          `json:"item_count"`
}

func toCartView(c *domain.Cart) cartView {
	return cartView{
		Cart:        *c,
		TotalAmount: c.TotalAmount(),
		ItemCount:   c.ItemCount(),
	}
}

// GetCart handles GET /api/v1/cart
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	guestID, ok := guestIDFromContext(r.Context())
	if !ok {
		httputil.WriteError(w, r, apperrors.Unauthorized("guest session required"), h.logger)
		return
	}

	cart, err := h.service.GetCart(r.Context(), guestID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: toCartView(cart)})
}

// AddPledge handles POST /api/v1/cart/items
func (h *CartHandler) AddPledge(w http.ResponseWriter, r *http.Request) {
	guestID, ok := guestIDFromContext(r.Context())
	if !ok {
		httputil.WriteError(w, r, apperrors.Unauthorized("guest session required"), h.logger)
		return
	}

	var req AddPledgeRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	cart, err := h.service.AddPledge(r.Context(), guestID, service.AddPledgeInput{
		GiftID: req.GiftID,
		Mode:   req.Mode,
		Amount: req.Amount,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: toCartView(cart)})
}

// UpdateQuantity handles PUT /api/v1/cart/items/{giftId}
func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	guestID, ok := guestIDFromContext(r.Context())
	if !ok {
		httputil.WriteError(w, r, apperrors.Unauthorized("guest session required"), h.logger)
		return
	}

	giftID := chi.URLParam(r, "giftId")
	if giftID == "" {
		httputil.WriteError(w, r, apperrors.InvalidInput("giftId is required"), h.logger)
		return
	}

	var req UpdateQuantityRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	cart, err := h.service.UpdateQuantity(r.Context(), guestID, giftID, req.Quantity)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: toCartView(cart)})
}

// RemovePledge handles DELETE /api/v1/cart/items/{giftId}
func (h *CartHandler) RemovePledge(w http.ResponseWriter, r *http.Request) {
	guestID, ok := guestIDFromContext(r.Context())
	if !ok {
		httputil.WriteError(w, r, apperrors.Unauthorized("guest session required"), h.logger)
		return
	}

	giftID := chi.URLParam(r, "giftId")
	if giftID == "" {
		httputil.WriteError(w, r, apperrors.InvalidInput("giftId is required"), h.logger)
		return
	}

	cart, err := h.service.RemovePledge(r.Context(), guestID, giftID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: toCartView(cart)})
}

// ClearCart handles DELETE /api/v1/cart
func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	guestID, ok := guestIDFromContext(r.Context())
	if !ok {
		httputil.WriteError(w, r, apperrors.Unauthorized("guest session required"), h.logger)
		return
	}

	if err := h.service.ClearCart(r.Context(), guestID); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]string{"status": "cleared"}})
}
