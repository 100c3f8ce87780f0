// Package catalogapi is a client of the remote product catalog
// (dummyjson compatible): GET /products and GET /products/{id}.
package catalogapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
	"github.com/shopspring/decimal"
)

var _ port.CatalogProvider = (*Client)(nil)

var (
	ErrNotFound         = errors.New("product not found")
	ErrUnexpectedStatus = errors.New("unexpected response status")
)

const defaultTimeout = 10 * time.Second

type (
	product struct {
		ID          int             `json:"id"`
		Title       string          `json:"title"`
		Description string          `json:"description"`
		Price       decimal.Decimal `json:"price"`
		Thumbnail   string          `json:"thumbnail"`
		Category    string          `json:"category"`
		Brand       string          `json:"brand"`
	}

	productsResponse struct {
		Products []product `json:"products"`
	}
)

type Opt func(*Client)

// LimitOpt asks the API for at most n products. Zero keeps the API default.
func LimitOpt(n int) Opt {
	return func(c *Client) {
		c.limit = n
	}
}

// TimeoutOpt bounds every request. Zero keeps the default.
func TimeoutOpt(d time.Duration) Opt {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

func HTTPClientOpt(hc *http.Client) Opt {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

type Client struct {
	httpClient *http.Client
	baseURL    string
	limit      int
}

func NewClient(baseURL string, opts ...Opt) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: defaultTimeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) ListProducts(ctx context.Context) ([]domain.Product, error) {
	const op = "Client.ListProducts"
	log := slog.With("op", op)

	u := c.baseURL + "/products"
	if c.limit > 0 {
		q := url.Values{}
		q.Set("limit", strconv.Itoa(c.limit))
		u += "?" + q.Encode()
	}

	var res productsResponse
	if err := c.getJSON(ctx, u, &res); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	ps := make([]domain.Product, 0, len(res.Products))
	for _, p := range res.Products {
		ps = append(ps, p.toDomain())
	}

	log.Debug("products fetched", "nProducts", len(ps))
	return ps, nil
}

func (c *Client) GetProduct(ctx context.Context, id int) (domain.Product, error) {
	const op = "Client.GetProduct"

	u := c.baseURL + "/products/" + strconv.Itoa(id)

	var res product
	if err := c.getJSON(ctx, u, &res); err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}
	return res.toDomain(), nil
}

func (c *Client) getJSON(ctx context.Context, u string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func (p product) toDomain() domain.Product {
	return domain.Product{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		Price:       p.Price,
		Thumbnail:   p.Thumbnail,
		Category:    p.Category,
		Brand:       p.Brand,
	}
}
