package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dangelesl03/frontwedding/internal/domain"
	"github.com/dangelesl03/frontwedding/internal/payment"
	"github.com/dangelesl03/frontwedding/internal/service"
	apperrors "github.com/dangelesl03/frontwedding/pkg/errors"
)

type mockPaymentConfirmer struct {
	mock.Mock
}

func (m *mockPaymentConfirmer) Confirm(ctx context.Context, req payment.ConfirmationRequest) (*payment.Confirmation, error) {
	args := m.Called(ctx, req)
	if c := args.Get(0); c != nil {
		return c.(*payment.Confirmation), args.Error(1)
	}
	return nil, args.Error(1)
}

type noopInvalidator struct{}

func (noopInvalidator) Invalidate(context.Context, string) error { return nil }

func setupCheckoutRouter(repo *mockCartRepository, payments *mockPaymentConfirmer) *chi.Mux {
	svc := service.NewCheckoutService(repo, payments, noopInvalidator{}, testEventProducer(), testLogger())
	handler := NewCheckoutHandler(svc, testLogger())

	r := chi.NewRouter()
	r.Route("/api/v1/checkout", func(r chi.Router) {
		r.Use(ContentTypeJSON)
		r.Use(GuestSession)
		r.Post("/confirm", handler.Confirm)
	})
	return r
}

func checkoutCart() *domain.Cart {
	cart := domain.NewCart("guest-1")
	cart.Add(domain.PledgeItem{GiftID: "gift-1", GiftName: "Espresso machine", Amount: 600_00})
	return cart
}

func TestConfirm_JSON(t *testing.T) {
	repo := new(mockCartRepository)
	payments := new(mockPaymentConfirmer)

	repo.On("Get", mock.Anything, "guest-1").Return(checkoutCart(), nil)
	payments.On("Confirm", mock.Anything, mock.MatchedBy(func(req payment.ConfirmationRequest) bool {
		return len(req.GiftIDs) == 1 && req.GiftIDs[0] == "gift-1" && req.Method == "yape"
	})).Return(&payment.Confirmation{Confirmed: true, PaymentID: "pay-1"}, nil)
	repo.On("Delete", mock.Anything, "guest-1").Return(nil)

	router := setupCheckoutRouter(repo, payments)

	body := bytes.NewBufferString(`{"payment_method": "yape", "payment_reference": "op-1"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout/confirm", body)
	req.Header.Set("X-Guest-ID", "guest-1")
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var result struct {
		PaymentID   string  `json:"payment_id"`
		TotalAmount float64 `json:"total_amount"`
		ItemCount   int     `json:"item_count"`
	}
	env := decodeEnvelope(t, rec)
	require.NoError(t, json.Unmarshal(env.Data, &result))
	assert.Equal(t, "pay-1", result.PaymentID)
	assert.Equal(t, float64(600), result.TotalAmount)
	assert.Equal(t, 1, result.ItemCount)

	repo.AssertExpectations(t)
	payments.AssertExpectations(t)
}

func TestConfirm_MultipartWithReceipt(t *testing.T) {
	repo := new(mockCartRepository)
	payments := new(mockPaymentConfirmer)

	var receiptContent []byte
	repo.On("Get", mock.Anything, "guest-1").Return(checkoutCart(), nil)
	payments.On("Confirm", mock.Anything, mock.MatchedBy(func(req payment.ConfirmationRequest) bool {
		return req.Receipt != nil && req.Receipt.Filename == "receipt.jpg"
	})).Run(func(args mock.Arguments) {
		req := args.Get(1).(payment.ConfirmationRequest)
		receiptContent, _ = io.ReadAll(req.Receipt.Content)
	}).Return(&payment.Confirmation{Confirmed: true}, nil)
	repo.On("Delete", mock.Anything, "guest-1").Return(nil)

	router := setupCheckoutRouter(repo, payments)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("payment_method", "transfer"))
	part, err := mw.CreateFormFile("receipt", "receipt.jpg")
	require.NoError(t, err)
	_, err = part.Write([]byte("receipt-bytes"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout/confirm", &buf)
	req.Header.Set("X-Guest-ID", "guest-1")
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "receipt-bytes", string(receiptContent))
	payments.AssertExpectations(t)
}

func TestConfirm_EmptyCart(t *testing.T) {
	repo := new(mockCartRepository)
	repo.On("Get", mock.Anything, "guest-1").Return(domain.NewCart("guest-1"), nil)

	router := setupCheckoutRouter(repo, new(mockPaymentConfirmer))

	body := bytes.NewBufferString(`{}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout/confirm", body)
	req.Header.Set("X-Guest-ID", "guest-1")
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	env := decodeEnvelope(t, rec)
	require.NotNil(t, env.Error)
	assert.Contains(t, env.Error.Message, "cart is empty")
}

func TestConfirm_PaymentFailureKeepsCart(t *testing.T) {
	repo := new(mockCartRepository)
	payments := new(mockPaymentConfirmer)

	repo.On("Get", mock.Anything, "guest-1").Return(checkoutCart(), nil)
	payments.On("Confirm", mock.Anything, mock.Anything).
		Return(nil, apperrors.PaymentFailed("payment declined by provider"))

	router := setupCheckoutRouter(repo, payments)

	body := bytes.NewBufferString(`{"payment_method": "yape"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout/confirm", body)
	req.Header.Set("X-Guest-ID", "guest-1")
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	env := decodeEnvelope(t, rec)
	require.NotNil(t, env.Error)
	assert.Equal(t, "PAYMENT_FAILED", env.Error.Code)
	repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestConfirm_InvalidMethodRejected(t *testing.T) {
	router := setupCheckoutRouter(new(mockCartRepository), new(mockPaymentConfirmer))

	body := bytes.NewBufferString(`{"payment_method": "cash"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout/confirm", body)
	req.Header.Set("X-Guest-ID", "guest-1")
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	env := decodeEnvelope(t, rec)
	require.NotNil(t, env.Error)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
}
