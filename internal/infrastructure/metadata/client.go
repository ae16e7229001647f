// Package metadata provides a MetadataClient for the per-identifier character API.
package metadata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/danielgonzalesarce/holocron/internal/infrastructure/config"
)

// Client implements ports.MetadataClient over HTTP.
type Client struct {
	http    *http.Client
	baseURL string
}

type record struct {
	Image string `json:"image"`
}

// NewClient creates a metadata client. The request timeout defaults to 3s.
func NewClient(cfg config.MetadataConfig) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("metadata base url is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 3 * time.Second
	}

	base := cfg.BaseURL
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}

	return &Client{
		http:    &http.Client{Timeout: timeout},
		baseURL: base,
	}, nil
}

// ImageFor returns the image recorded for id. A missing record yields "" and no error.
func (c *Client) ImageFor(ctx context.Context, id int) (string, error) {
	url := c.baseURL + strconv.Itoa(id) + ".json"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("requesting metadata %d: %w", id, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return "", nil
	case resp.StatusCode != http.StatusOK:
		return "", fmt.Errorf("requesting metadata %d: unexpected status %d", id, resp.StatusCode)
	}

	var rec record
	if err := json.NewDecoder(resp.Body).Decode(&rec); err != nil {
		return "", fmt.Errorf("decoding metadata %d: %w", id, err)
	}

	return strings.TrimSpace(rec.Image), nil
}
