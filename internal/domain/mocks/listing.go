// Package mocks provides mock implementations for testing.
package mocks

import (
	"context"
	"fmt"

	"github.com/danielgonzalesarce/holocron/internal/domain/entities"
)

// PageFetcher is a mock implementation of ports.PageFetcher.
type PageFetcher struct {
	Pages map[string]*entities.Page
	Errs  map[string]error

	// Call tracking
	Fetched []string
}

// FetchPage returns the configured page or error for url.
func (m *PageFetcher) FetchPage(ctx context.Context, url string) (*entities.Page, error) {
	m.Fetched = append(m.Fetched, url)
	if err, ok := m.Errs[url]; ok {
		return nil, err
	}
	page, ok := m.Pages[url]
	if !ok {
		return nil, fmt.Errorf("unexpected url %s", url)
	}
	return page, nil
}

// NextPage is a helper that returns a pointer to url for Page.Next.
func NextPage(url string) *string {
	return &url
}
