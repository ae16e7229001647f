// Package swapi provides a PageFetcher for the paginated people listing.
package swapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/danielgonzalesarce/holocron/internal/domain/entities"
	"github.com/danielgonzalesarce/holocron/internal/infrastructure/config"
)

// maxErrorBody caps how much of an error response is echoed into the error.
const maxErrorBody = 512

// Client implements ports.PageFetcher over HTTP.
type Client struct {
	http      *http.Client
	userAgent string
}

// NewClient creates a listing client.
func NewClient(cfg config.ListingConfig) (*Client, error) {
	if cfg.URL == "" {
		return nil, errors.New("listing url is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		http:      &http.Client{Timeout: timeout},
		userAgent: cfg.UserAgent,
	}, nil
}

// FetchPage fetches and decodes the listing page at url.
func (c *Client) FetchPage(ctx context.Context, url string) (*entities.Page, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("requesting %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, fmt.Errorf("requesting %s: unexpected status %d: %s", url, resp.StatusCode, body)
	}

	var page entities.Page
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, fmt.Errorf("decoding page %s: %w", url, err)
	}

	return &page, nil
}
