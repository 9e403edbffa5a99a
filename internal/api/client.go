package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"storefront/internal/logger"
	"storefront/internal/models"
)

// TokenSource returns the current bearer token, or "" when the session is
// unauthenticated.
type TokenSource func() string

type Client struct {
	baseURL    string
	token      TokenSource
	httpClient *http.Client
	logger     *logger.Logger
}

func NewClient(baseURL string, token TokenSource, logger *logger.Logger) *Client {
	if token == nil {
		token = func() string { return "" }
	}
	return &Client{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}
}

// Authenticated reports whether a bearer token is currently available.
func (c *Client) Authenticated() bool {
	return c.token() != ""
}

// BatchProducts fetches the price/stock projection for a set of product ids
// in a single round trip.
func (c *Client) BatchProducts(ctx context.Context, productIDs []string) ([]models.Product, error) {
	payload := struct {
		ProductIDs []string `json:"productIds"`
	}{
		ProductIDs: productIDs,
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal product ids: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/products/batch", bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	var batchResp struct {
		Products []models.Product `json:"products"`
	}
	if err := c.do(req, &batchResp); err != nil {
		return nil, err
	}

	return batchResp.Products, nil
}

// FeaturedProducts fetches the featured products list.
func (c *Client) FeaturedProducts(ctx context.Context, limit int) ([]models.Product, error) {
	return c.productList(ctx, "/products/featured", limit)
}

// DiscountedProducts fetches the discounted products list.
func (c *Client) DiscountedProducts(ctx context.Context, limit int) ([]models.Product, error) {
	return c.productList(ctx, "/products/discounted", limit)
}

func (c *Client) productList(ctx context.Context, path string, limit int) ([]models.Product, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	q := req.URL.Query()
	q.Set("limit", strconv.Itoa(limit))
	req.URL.RawQuery = q.Encode()

	var listResp struct {
		Data []models.Product `json:"data"`
	}
	if err := c.do(req, &listResp); err != nil {
		return nil, err
	}

	return listResp.Data, nil
}

// Order fetches a single order by id.
func (c *Client) Order(ctx context.Context, orderID string) (*models.Order, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+"/orders/"+orderID, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	c.authorize(req)

	var orderResp struct {
		Order models.Order `json:"order"`
	}
	if err := c.do(req, &orderResp); err != nil {
		return nil, err
	}

	return &orderResp.Order, nil
}

type OrdersPage struct {
	Orders     []models.Order    `json:"orders"`
	Pagination models.Pagination `json:"pagination"`
}

// MyOrders fetches a page of the caller's own orders.
func (c *Client) MyOrders(ctx context.Context, page, limit int) (*OrdersPage, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+"/orders/my-orders", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	c.authorize(req)

	q := req.URL.Query()
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(limit))
	req.URL.RawQuery = q.Encode()

	var pageResp OrdersPage
	if err := c.do(req, &pageResp); err != nil {
		return nil, err
	}

	return &pageResp, nil
}

// AdminOrders fetches a page of all orders. status filters by order status
// when non-empty.
func (c *Client) AdminOrders(ctx context.Context, page, limit int, status string) (*OrdersPage, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+"/orders/admin/all", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	c.authorize(req)

	q := req.URL.Query()
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(limit))
	if status != "" {
		q.Set("status", status)
	}
	req.URL.RawQuery = q.Encode()

	var pageResp OrdersPage
	if err := c.do(req, &pageResp); err != nil {
		return nil, err
	}

	return &pageResp, nil
}

func (c *Client) authorize(req *http.Request) {
	if token := c.token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}

func (c *Client) do(req *http.Request, out interface{}) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("API request failed: %d - %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}
