// Package upstream fetches score-table snapshots from the query layer
// and drives the periodic refresh cycle.
package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/subnetlab/paretoboard/internal/domain/model"
	"github.com/subnetlab/paretoboard/pkg/metrics"
)

// maxBodyBytes guards against a misbehaving upstream; score tables are a
// few hundred rows at most.
const maxBodyBytes = 16 << 20

// Client fetches table payloads over HTTP. A fallback URL, when set, is
// tried once after a primary failure; there is no further retry policy.
type Client struct {
	httpClient  *http.Client
	primaryURL  string
	fallbackURL string
}

// ClientOption applies a configuration option to the Client.
type ClientOption func(*Client)

// WithFallbackURL sets the secondary endpoint tried on primary failure.
func WithFallbackURL(url string) ClientOption {
	return func(c *Client) {
		c.fallbackURL = url
	}
}

// WithTimeout bounds a single request.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// NewClient creates a table client for the primary URL.
func NewClient(primaryURL string, opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		primaryURL: primaryURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fetch retrieves the current table, trying the fallback endpoint once
// when the primary fails.
func (c *Client) Fetch(ctx context.Context) (model.TablePayload, error) {
	payload, primaryErr := c.fetchURL(ctx, c.primaryURL)
	if primaryErr == nil {
		metrics.RecordUpstreamFetch("success")
		return payload, nil
	}

	if c.fallbackURL == "" {
		metrics.RecordUpstreamFetch("error")
		return model.TablePayload{}, fmt.Errorf("%w: %w", ErrFetch, primaryErr)
	}

	payload, fallbackErr := c.fetchURL(ctx, c.fallbackURL)
	if fallbackErr != nil {
		metrics.RecordUpstreamFetch("error")
		return model.TablePayload{}, fmt.Errorf("%w: primary: %w; fallback: %w", ErrFetch, primaryErr, fallbackErr)
	}
	metrics.RecordUpstreamFetch("success")
	metrics.RecordUpstreamFallback()
	return payload, nil
}

func (c *Client) fetchURL(ctx context.Context, url string) (model.TablePayload, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return model.TablePayload{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return model.TablePayload{}, fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return model.TablePayload{}, fmt.Errorf("%w: %s returned %d", ErrStatus, url, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return model.TablePayload{}, fmt.Errorf("read body: %w", err)
	}

	var payload model.TablePayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return model.TablePayload{}, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return payload, nil
}
