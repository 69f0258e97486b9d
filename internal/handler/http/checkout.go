package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/dangelesl03/frontwedding/internal/payment"
	"github.com/dangelesl03/frontwedding/internal/service"
	apperrors "github.com/dangelesl03/frontwedding/pkg/errors"
	"github.com/dangelesl03/frontwedding/pkg/httputil"
	"github.com/dangelesl03/frontwedding/pkg/validator"
)

// maxReceiptSize caps the receipt upload at 5 MB.
const maxReceiptSize = 5 << 20

// CheckoutHandler handles HTTP requests for checkout.
type CheckoutHandler struct {
	service *service.CheckoutService
	logger  *slog.Logger
}

// NewCheckoutHandler creates a new checkout HTTP handler.
func NewCheckoutHandler(svc *service.CheckoutService, logger *slog.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		service: svc,
		logger:  logger,
	}
}

// ConfirmRequest is the request body for confirming payment of the cart.
// Sent as JSON, or as multipart form data when a receipt is attached.
type ConfirmRequest struct {
	Method    string `json:"payment_method" validate:"omitempty,oneof=yape plin transfer"`
	Reference string `json:"payment_reference" validate:"omitempty,max=100"`
}

// Confirm handles POST /api/v1/checkout/confirm
func (h *CheckoutHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	guestID, ok := guestIDFromContext(r.Context())
	if !ok {
		httputil.WriteError(w, r, apperrors.Unauthorized("guest session required"), h.logger)
		return
	}

	input, err := h.parseConfirmRequest(r)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	result, err := h.service.Checkout(r.Context(), guestID, *input)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: result})
}

func (h *CheckoutHandler) parseConfirmRequest(r *http.Request) (*service.CheckoutInput, error) {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		return h.parseMultipartConfirm(r)
	}

	var req ConfirmRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		return nil, err
	}

	return &service.CheckoutInput{
		Method:    req.Method,
		Reference: req.Reference,
	}, nil
}

func (h *CheckoutHandler) parseMultipartConfirm(r *http.Request) (*service.CheckoutInput, error) {
	if err := r.ParseMultipartForm(maxReceiptSize); err != nil {
		return nil, apperrors.InvalidInput("invalid multipart form: " + err.Error())
	}

	req := ConfirmRequest{
		Method:    r.FormValue("payment_method"),
		Reference: r.FormValue("payment_reference"),
	}
	if err := validator.Validate(req); err != nil {
		return nil, err
	}

	input := &service.CheckoutInput{
		Method:    req.Method,
		Reference: req.Reference,
	}

	file, header, err := r.FormFile("receipt")
	if errors.Is(err, http.ErrMissingFile) {
		return input, nil
	}
	if err != nil {
		return nil, apperrors.InvalidInput("invalid receipt upload: " + err.Error())
	}

	input.Receipt = &payment.Receipt{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Content:     file,
	}
	return input, nil
}
