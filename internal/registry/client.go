// Package registry talks to the wedding registry backend, the authoritative
// source for gifts and their confirmed contribution totals.
package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/dangelesl03/frontwedding/internal/domain"
	"github.com/dangelesl03/frontwedding/pkg/httpclient"
	"github.com/dangelesl03/frontwedding/pkg/logger"
)

// Filter narrows and orders the gift listing.
type Filter struct {
	Category string
	MinPrice domain.Money
	MaxPrice domain.Money
	SortBy   string // "price_asc", "price_desc" or "name"
}

// giftPayload is the backend's wire shape for a gift. Amounts may arrive as
// numbers or numeric strings; domain.Money absorbs both.
type giftPayload struct {
	ID               string            `json:"id"`
	Name             string            `json:"name"`
	Description      string            `json:"description"`
	Category         string            `json:"category"`
	Price            domain.Money      `json:"price"`
	ImageURL         string            `json:"imageUrl"`
	TotalContributed *domain.Money     `json:"totalContributed"`
	Contributors     []contributorItem `json:"contributors"`
}

type contributorItem struct {
	Name   string       `json:"name"`
	Amount domain.Money `json:"amount"`
}

// Client fetches gifts from the registry backend over its REST API.
type Client struct {
	baseURL string
	http    *httpclient.CircuitBreakerClient
	logger  *slog.Logger
}

// NewClient creates a registry client against the given base URL.
func NewClient(baseURL string, http *httpclient.CircuitBreakerClient, log *slog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    http,
		logger:  log,
	}
}

// ListGifts fetches the gift catalog, applying the given filter server-side.
func (c *Client) ListGifts(ctx context.Context, filter Filter) ([]domain.Gift, error) {
	q := url.Values{}
	if filter.Category != "" {
		q.Set("category", filter.Category)
	}
	if filter.MinPrice > 0 {
		q.Set("minPrice", filter.MinPrice.DecimalString())
	}
	if filter.MaxPrice > 0 {
		q.Set("maxPrice", filter.MaxPrice.DecimalString())
	}
	if filter.SortBy != "" {
		q.Set("sortBy", filter.SortBy)
	}

	endpoint := c.baseURL + "/api/gifts"
	if len(q) > 0 {
		endpoint += "?" + q.Encode()
	}

	resp, err := c.http.Get(ctx, endpoint)
	if err != nil {
		return nil, fmt.Errorf("list gifts: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, httpclient.ParseResponseError(resp)
	}

	var payloads []giftPayload
	if err := json.NewDecoder(resp.Body).Decode(&payloads); err != nil {
		return nil, fmt.Errorf("decode gifts response: %w", err)
	}

	gifts := make([]domain.Gift, len(payloads))
	for i := range payloads {
		gifts[i] = c.toDomain(ctx, &payloads[i])
	}
	return gifts, nil
}

// GetGift fetches a single gift with its current funding state.
func (c *Client) GetGift(ctx context.Context, giftID string) (*domain.Gift, error) {
	endpoint := c.baseURL + "/api/gifts/" + url.PathEscape(giftID)

	resp, err := c.http.Get(ctx, endpoint)
	if err != nil {
		return nil, fmt.Errorf("get gift %s: %w", giftID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, httpclient.ParseResponseError(resp)
	}

	var payload giftPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode gift response: %w", err)
	}

	gift := c.toDomain(ctx, &payload)
	return &gift, nil
}

// toDomain converts the wire payload to the domain model. The aggregate
// total is preferred; the contributors sum is a fallback when the backend
// omits it. A divergence between the two is logged but the aggregate wins,
// since the backend owns the authoritative figure.
func (c *Client) toDomain(ctx context.Context, p *giftPayload) domain.Gift {
	contributors := make([]domain.Contributor, len(p.Contributors))
	for i, item := range p.Contributors {
		contributors[i] = domain.Contributor{Name: item.Name, Amount: item.Amount}
	}

	funding := domain.FundingState{Contributors: contributors}
	if p.TotalContributed != nil {
		funding.TotalContributed = *p.TotalContributed
		if sum := funding.ContributorsSum(); len(contributors) > 0 && sum != funding.TotalContributed {
			logger.WithContext(ctx, c.logger).WarnContext(ctx, "funding total diverges from contributors sum",
				slog.String("gift_id", p.ID),
				slog.Int64("total_contributed", funding.TotalContributed.Cents()),
				slog.Int64("contributors_sum", sum.Cents()),
			)
		}
	} else {
		funding.TotalContributed = funding.ContributorsSum()
	}

	return domain.Gift{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Category:    p.Category,
		Price:       p.Price,
		ImageURL:    p.ImageURL,
		Funding:     funding,
	}
}
