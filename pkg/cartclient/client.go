// Package cartclient talks to the downstream cart service. Stock and price
// changes are pushed to it before they are persisted locally; its acceptance
// gates the catalog's own writes.
package cartclient

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"catalog/internal/models"
)

// RetryPolicy controls how update calls are retried. Only errors matched by
// the predicate are retried; the default predicate retries connection errors
// and nothing else.
type RetryPolicy struct {
	MaxAttempts int
	Delay       time.Duration
	Retryable   func(error) bool
}

func (p RetryPolicy) attempts() int {
	if p.MaxAttempts < 1 {
		return 1
	}
	return p.MaxAttempts
}

func (p RetryPolicy) shouldRetry(err error) bool {
	if p.Retryable != nil {
		return p.Retryable(err)
	}
	var connErr *CartConnectionError
	return errors.As(err, &connErr)
}

// Config holds the cart service endpoint and retry settings.
type Config struct {
	Host    string
	Port    int
	Timeout time.Duration
	Retry   RetryPolicy
}

// Client sends product updates to the cart service.
type Client struct {
	httpClient *http.Client
	updateURL  string
	retry      RetryPolicy
}

// New creates a cart client for the configured endpoint.
func New(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 5 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		updateURL:  fmt.Sprintf("http://%s:%d/carts/updateStock/", cfg.Host, cfg.Port),
		retry:      cfg.Retry,
	}
}

// UpdateProduct pushes the product's new state to the cart service and
// returns the message unchanged on acceptance (HTTP 200). A 5xx status or a
// transport failure is a *CartConnectionError and is retried with a fixed
// delay up to the policy's attempt limit; any other status is a
// *CartResponseError and fails immediately. The retry delays block the
// calling goroutine.
func (c *Client) UpdateProduct(dto models.ProductDTO) (models.ProductDTO, error) {
	var lastErr error
	for attempt := 0; attempt < c.retry.attempts(); attempt++ {
		if attempt > 0 {
			time.Sleep(c.retry.Delay)
		}

		err := c.send(dto)
		if err == nil {
			return dto, nil
		}
		if !c.retry.shouldRetry(err) {
			return models.ProductDTO{}, err
		}
		lastErr = err
	}
	return models.ProductDTO{}, lastErr
}

func (c *Client) send(dto models.ProductDTO) error {
	// The cart endpoint takes a batch; we always send a single-element one.
	body, err := json.Marshal([]models.ProductDTO{dto})
	if err != nil {
		return fmt.Errorf("failed to marshal cart update: %w", err)
	}

	req, err := http.NewRequest(http.MethodPut, c.updateURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build cart update request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &CartConnectionError{Err: err}
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body) //nolint:errcheck // only the status matters

	switch {
	case resp.StatusCode == http.StatusOK:
		return nil
	case resp.StatusCode >= http.StatusInternalServerError:
		return &CartConnectionError{Status: resp.StatusCode}
	default:
		return &CartResponseError{Status: resp.StatusCode}
	}
}
