// Package upstream talks to the remote catalog API the storefront sells from.
package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
)

// APIProduct is a product as the catalog API serves it.
type APIProduct struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Image       string  `json:"image"`
	Rating      struct {
		Rate  float64 `json:"rate"`
		Count int     `json:"count"`
	} `json:"rating"`
}

var ErrUnexpectedStatus = errors.New("unexpected upstream status")

const maxBodyBytes = 8 << 20

type Client struct {
	baseURL string
	http    *http.Client
	breaker *gobreaker.CircuitBreaker[[]byte]
	logger  *zap.Logger
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.logger = l.Named("upstream") }
}

// NewClient builds a client for the catalog API at baseURL. Requests share a
// circuit breaker that opens after five consecutive failures.
func NewClient(baseURL string, timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}

	c.breaker = gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        "catalog-api",
		MaxRequests: 1,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		// a caller giving up is not a sign of an unhealthy upstream
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			c.logger.Warn("circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})
	return c
}

// Products fetches GET /products.
func (c *Client) Products(ctx context.Context) ([]APIProduct, error) {
	body, err := c.get(ctx, "/products")
	if err != nil {
		return nil, err
	}

	var products []APIProduct
	if err := json.Unmarshal(body, &products); err != nil {
		return nil, fmt.Errorf("failed to decode products: %w", err)
	}
	return products, nil
}

// Categories fetches GET /products/categories.
func (c *Client) Categories(ctx context.Context) ([]string, error) {
	body, err := c.get(ctx, "/products/categories")
	if err != nil {
		return nil, err
	}

	var categories []string
	if err := json.Unmarshal(body, &categories); err != nil {
		return nil, fmt.Errorf("failed to decode categories: %w", err)
	}
	return categories, nil
}

func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	return c.breaker.Execute(func() ([]byte, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.http.Do(req)
		if err != nil {
			return nil, fmt.Errorf("GET %s: %w", path, err)
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
			return nil, fmt.Errorf("GET %s: %w: %d", path, ErrUnexpectedStatus, resp.StatusCode)
		}

		body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
		if err != nil {
			return nil, fmt.Errorf("GET %s: read body: %w", path, err)
		}
		return body, nil
	})
}
