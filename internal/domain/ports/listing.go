// Package ports defines the interfaces the domain depends on.
package ports

import (
	"context"

	"github.com/danielgonzalesarce/holocron/internal/domain/entities"
)

// PageFetcher retrieves one page of the paginated listing.
type PageFetcher interface {
	// FetchPage fetches and decodes the page at url.
	FetchPage(ctx context.Context, url string) (*entities.Page, error)
}
