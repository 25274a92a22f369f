// Package foodapi is the client for the VoluMate food-database service.
// It performs a single round trip per lookup and normalizes failures into
// a small taxonomy; retry policy, if any, belongs to the caller.
package foodapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/volumate/volumate/internal/domain"
)

var (
	// ErrNotFound means the service reports no product for the barcode.
	ErrNotFound = errors.New("product not found")
	// ErrService means the service was reached but reported a failure.
	ErrService = errors.New("food database error")
	// ErrTransport means the service could not be reached or answered
	// with something that is not valid structured data.
	ErrTransport = errors.New("food database unreachable")
)

// envelope mirrors the service's response shape for every endpoint.
type envelope struct {
	Success bool                  `json:"success"`
	Data    *domain.RemoteProduct `json:"data,omitempty"`
	Error   string                `json:"error,omitempty"`
}

// Client is a stateless food-database client, safe to share across
// concurrent resolutions.
type Client struct {
	baseURL string
	client  *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		client:  &http.Client{},
	}
}

// FetchByBarcode resolves barcode to a product record. Errors wrap
// ErrNotFound, ErrService or ErrTransport for errors.Is classification.
func (c *Client) FetchByBarcode(ctx context.Context, barcode string) (*domain.RemoteProduct, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/products/%s", c.baseURL, barcode), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrTransport, err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			slog.Error("failed to close food api response body", "error", err)
		}
	}()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: barcode %s", ErrNotFound, barcode)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: status %d", ErrService, resp.StatusCode)
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("%w: malformed response: %v", ErrTransport, err)
	}

	if !env.Success {
		if env.Error != "" {
			return nil, fmt.Errorf("%w: %s", ErrService, env.Error)
		}
		return nil, fmt.Errorf("%w: service reported failure", ErrService)
	}
	if env.Data == nil {
		return nil, fmt.Errorf("%w: success response without product data", ErrService)
	}

	return env.Data, nil
}

// Health probes the service's liveness endpoint. It is not part of the
// resolution path and never fails: any error reads as unhealthy.
func (c *Client) Health(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/products/health", c.baseURL), nil)
	if err != nil {
		return false
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return false
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			slog.Error("failed to close health response body", "error", err)
		}
	}()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return false
	}
	return env.Success
}
