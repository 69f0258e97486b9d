// Package payment confirms contributions against the payment backend. This
// is the only operation that durably advances funding state; everything else
// in this service reads but never writes the authoritative totals.
package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"

	"github.com/dangelesl03/frontwedding/internal/domain"
	"github.com/dangelesl03/frontwedding/pkg/httpclient"
)

// Receipt is an uploaded proof-of-payment file attached to a confirmation.
type Receipt struct {
	Filename    string
	ContentType string
	Content     io.Reader
}

// ConfirmationRequest carries everything needed to confirm one payment
// covering all pledges in a cart.
type ConfirmationRequest struct {
	GiftIDs   []string
	Amounts   []domain.Money
	Method    string
	Reference string
	Receipt   *Receipt
}

// Confirmation is the backend's acknowledgement of a confirmed payment.
type Confirmation struct {
	Confirmed bool   `json:"confirmed"`
	PaymentID string `json:"payment_id,omitempty"`
}

// confirmPayload is the backend's wire shape for a payment confirmation.
// Amounts go out as decimal currency units so cent-precision pledges survive
// the round trip.
type confirmPayload struct {
	GiftIDs          []string       `json:"giftIds"`
	PaymentMethod    string         `json:"paymentMethod,omitempty"`
	PaymentReference string         `json:"paymentReference,omitempty"`
	Amounts          []domain.Money `json:"amounts"`
}

// Client confirms payments against the payment backend.
type Client struct {
	baseURL string
	http    *httpclient.CircuitBreakerClient
	logger  *slog.Logger
}

// NewClient creates a payment client against the given base URL.
func NewClient(baseURL string, http *httpclient.CircuitBreakerClient, logger *slog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    http,
		logger:  logger,
	}
}

// Confirm submits a payment confirmation. With a receipt attached the
// request goes out as multipart form data, otherwise as plain JSON.
func (c *Client) Confirm(ctx context.Context, req ConfirmationRequest) (*Confirmation, error) {
	if len(req.GiftIDs) != len(req.Amounts) {
		return nil, fmt.Errorf("confirm payment: %d gift ids but %d amounts", len(req.GiftIDs), len(req.Amounts))
	}

	payload := confirmPayload{
		GiftIDs:          req.GiftIDs,
		PaymentMethod:    req.Method,
		PaymentReference: req.Reference,
		Amounts:          req.Amounts,
	}

	var (
		resp *http.Response
		err  error
	)
	if req.Receipt != nil {
		resp, err = c.postMultipart(ctx, payload, req.Receipt)
	} else {
		resp, err = c.postJSON(ctx, payload)
	}
	if err != nil {
		return nil, fmt.Errorf("confirm payment: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, httpclient.ParseResponseError(resp)
	}

	var confirmation Confirmation
	if err := json.NewDecoder(resp.Body).Decode(&confirmation); err != nil {
		// An empty 200 body still counts as confirmed.
		if errors.Is(err, io.EOF) {
			return &Confirmation{Confirmed: true}, nil
		}
		return nil, fmt.Errorf("decode confirmation response: %w", err)
	}

	c.logger.InfoContext(ctx, "payment confirmed",
		slog.Int("gift_count", len(req.GiftIDs)),
		slog.String("method", req.Method),
		slog.String("payment_id", confirmation.PaymentID),
	)

	return &confirmation, nil
}

func (c *Client) postJSON(ctx context.Context, payload confirmPayload) (*http.Response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal confirmation: %w", err)
	}
	return c.http.Post(ctx, c.baseURL+"/api/payments/confirm", "application/json", bytes.NewReader(body))
}

func (c *Client) postMultipart(ctx context.Context, payload confirmPayload, receipt *Receipt) (*http.Response, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	for _, id := range payload.GiftIDs {
		if err := mw.WriteField("giftIds", id); err != nil {
			return nil, fmt.Errorf("write gift id field: %w", err)
		}
	}
	for _, amount := range payload.Amounts {
		if err := mw.WriteField("amounts", amount.DecimalString()); err != nil {
			return nil, fmt.Errorf("write amount field: %w", err)
		}
	}
	if payload.PaymentMethod != "" {
		if err := mw.WriteField("paymentMethod", payload.PaymentMethod); err != nil {
			return nil, fmt.Errorf("write payment method field: %w", err)
		}
	}
	if payload.PaymentReference != "" {
		if err := mw.WriteField("paymentReference", payload.PaymentReference); err != nil {
			return nil, fmt.Errorf("write payment reference field: %w", err)
		}
	}

	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="receipt"; filename=%q`, receipt.Filename))
	contentType := receipt.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	header.Set("Content-Type", contentType)

	part, err := mw.CreatePart(header)
	if err != nil {
		return nil, fmt.Errorf("create receipt part: %w", err)
	}
	if _, err := io.Copy(part, receipt.Content); err != nil {
		return nil, fmt.Errorf("copy receipt content: %w", err)
	}

	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("finalize multipart body: %w", err)
	}

	return c.http.Post(ctx, c.baseURL+"/api/payments/confirm", mw.FormDataContentType(), &buf)
}
