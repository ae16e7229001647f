package services

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/danielgonzalesarce/holocron/internal/domain/entities"
	"github.com/danielgonzalesarce/holocron/internal/domain/ports"
)

// DefaultCrawlConcurrency bounds concurrent image resolutions within a page.
const DefaultCrawlConcurrency = 16

var (
	// ErrCursorCycle is returned when a page's next cursor points at a page already fetched.
	ErrCursorCycle = errors.New("listing cursor revisits a fetched page")
	// ErrTooManyPages is returned when the crawl exceeds the configured page limit.
	ErrTooManyPages = errors.New("listing exceeds page limit")
)

// Resolver attaches an image URL to an entity.
type Resolver interface {
	Resolve(ctx context.Context, entity entities.Entity) string
}

// ProgressFunc is called after each page is fully resolved.
type ProgressFunc func(page, loaded int)

// CrawlerService walks the paginated listing and resolves images for every entity.
type CrawlerService struct {
	fetcher     ports.PageFetcher
	resolver    Resolver
	concurrency int
	maxPages    int
	logger      *zap.Logger
}

// CrawlerOption configures a CrawlerService.
type CrawlerOption func(*CrawlerService)

// WithConcurrency bounds the number of concurrent resolutions per page.
func WithConcurrency(n int) CrawlerOption {
	return func(s *CrawlerService) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

// WithMaxPages stops the crawl with ErrTooManyPages after n pages. Zero means unbounded.
func WithMaxPages(n int) CrawlerOption {
	return func(s *CrawlerService) {
		if n >= 0 {
			s.maxPages = n
		}
	}
}

// WithCrawlerLogger sets the crawler's logger.
func WithCrawlerLogger(logger *zap.Logger) CrawlerOption {
	return func(s *CrawlerService) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewCrawlerService creates a new crawler.
func NewCrawlerService(fetcher ports.PageFetcher, resolver Resolver, opts ...CrawlerOption) *CrawlerService {
	s := &CrawlerService{
		fetcher:     fetcher,
		resolver:    resolver,
		concurrency: DefaultCrawlConcurrency,
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// LoadAll follows the listing from startURL until the next cursor is empty.
// Pages are fetched strictly in sequence; entities of one page are resolved
// concurrently and kept in listing order. Any fetch failure aborts the crawl
// and discards everything accumulated so far.
func (s *CrawlerService) LoadAll(ctx context.Context, startURL string, onPage ProgressFunc) ([]entities.Entity, error) {
	var all []entities.Entity
	visited := make(map[string]struct{})

	cursor := startURL
	for pageNum := 1; cursor != ""; pageNum++ {
		if _, seen := visited[cursor]; seen {
			return nil, fmt.Errorf("fetching page %d: %w: %s", pageNum, ErrCursorCycle, cursor)
		}
		if s.maxPages > 0 && pageNum > s.maxPages {
			return nil, fmt.Errorf("fetching page %d: %w (%d)", pageNum, ErrTooManyPages, s.maxPages)
		}
		visited[cursor] = struct{}{}

		page, err := s.fetcher.FetchPage(ctx, cursor)
		if err != nil {
			return nil, fmt.Errorf("fetching page %d: %w", pageNum, err)
		}

		resolved, err := s.resolvePage(ctx, page.Results)
		if err != nil {
			return nil, fmt.Errorf("resolving page %d: %w", pageNum, err)
		}
		all = append(all, resolved...)

		s.logger.Info("page loaded",
			zap.Int("page", pageNum),
			zap.Int("results", len(page.Results)),
			zap.Int("total", len(all)))
		if onPage != nil {
			onPage(pageNum, len(all))
		}

		cursor = ""
		if page.Next != nil {
			cursor = *page.Next
		}
	}

	return all, nil
}

// resolvePage resolves every record of a page concurrently. Results are
// placed by position so completion order does not affect listing order.
func (s *CrawlerService) resolvePage(ctx context.Context, records []entities.RawEntity) ([]entities.Entity, error) {
	out := make([]entities.Entity, len(records))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, raw := range records {
		g.Go(func() error {
			e := entities.NewEntity(raw)
			e.ImageURL = s.resolver.Resolve(gctx, e)
			out[i] = e
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Resolve returns early on cancellation, so surface it here.
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
