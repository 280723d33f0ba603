package http

import (
	"KneeHeal/backend/go/internal/config"
	"KneeHeal/backend/go/pkg/circuitbreaker"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultTimeout bounds a single request made through Client.
const DefaultTimeout = 30 * time.Second

// StatusError is returned when the server answers with a non-2xx status.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status code %d: %s", e.StatusCode, e.Body)
}

// Client wraps http.Client with optional circuit breaking and JSON helpers.
type Client struct {
	httpClient *http.Client
	breaker    circuitbreaker.CircuitBreaker
}

// NewClient creates a Client. The breaker is only installed when enabled in cfg.
func NewClient(cfg config.CircuitBreakerConfig) (*Client, error) {
	breaker, err := circuitbreaker.FromConfig(cfg)
	if err != nil {
		return nil, err
	}
	return &Client{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		breaker:    breaker,
	}, nil
}

// NewClientWithBreaker creates a Client around an existing breaker. A nil
// breaker disables circuit breaking.
func NewClientWithBreaker(breaker circuitbreaker.CircuitBreaker) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		breaker:    breaker,
	}
}

// Do executes an HTTP request with circuit breaker protection.
// Status codes >= 500 count as failures for the breaker.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	if c.breaker == nil {
		return c.httpClient.Do(req)
	}

	var resp *http.Response
	_, err := c.breaker.Execute(func() (interface{}, error) {
		r, err := c.httpClient.Do(req)
		if err != nil {
			return nil, err
		}
		if r.StatusCode >= http.StatusInternalServerError {
			body := readBody(r)
			return nil, &StatusError{StatusCode: r.StatusCode, Body: body}
		}
		resp = r
		return r, nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// PostJSON sends in as a JSON body and decodes the JSON response into out.
func (c *Client) PostJSON(ctx context.Context, url string, in, out interface{}) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("failed to marshal request body: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.doJSON(req, out)
}

// GetJSON issues a GET request and decodes the JSON response into out.
func (c *Client) GetJSON(ctx context.Context, url string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	return c.doJSON(req, out)
}

func (c *Client) doJSON(req *http.Request, out interface{}) error {
	req.Header.Set("Accept", "application/json")
	resp, err := c.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &StatusError{StatusCode: resp.StatusCode, Body: readBody(resp)}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response body: %w", err)
	}
	return nil
}

func readBody(resp *http.Response) string {
	defer resp.Body.Close()
	b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	return string(bytes.TrimSpace(b))
}
