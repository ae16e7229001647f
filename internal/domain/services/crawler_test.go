package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielgonzalesarce/holocron/internal/domain/entities"
	"github.com/danielgonzalesarce/holocron/internal/domain/mocks"
)

const (
	page1URL = "https://swapi.test/api/people/"
	page2URL = "https://swapi.test/api/people/?page=2"
)

// fakeResolver returns "img:<name>" after an optional per-name delay.
type fakeResolver struct {
	delays map[string]time.Duration

	mu    sync.Mutex
	names []string
}

func (f *fakeResolver) Resolve(ctx context.Context, e entities.Entity) string {
	if d, ok := f.delays[e.Name]; ok {
		time.Sleep(d)
	}
	f.mu.Lock()
	f.names = append(f.names, e.Name)
	f.mu.Unlock()
	return "img:" + e.Name
}

func raw(name string, id string) entities.RawEntity {
	return entities.RawEntity{Name: name, URL: "https://swapi.test/api/people/" + id + "/"}
}

func TestCrawlerService_LoadAll_TwoPages(t *testing.T) {
	fetcher := &mocks.PageFetcher{Pages: map[string]*entities.Page{
		page1URL: {
			Results: []entities.RawEntity{raw("Luke Skywalker", "1"), raw("C-3PO", "2")},
			Next:    mocks.NextPage(page2URL),
		},
		page2URL: {
			Results: []entities.RawEntity{raw("R2-D2", "3")},
			Next:    nil,
		},
	}}
	crawler := NewCrawlerService(fetcher, &fakeResolver{})

	var progress []int
	got, err := crawler.LoadAll(t.Context(), page1URL, func(page, loaded int) {
		progress = append(progress, loaded)
	})

	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "Luke Skywalker", got[0].Name)
	assert.Equal(t, 1, got[0].Identifier)
	assert.Equal(t, "img:Luke Skywalker", got[0].ImageURL)
	assert.Equal(t, "C-3PO", got[1].Name)
	assert.Equal(t, "R2-D2", got[2].Name)
	assert.Equal(t, []string{page1URL, page2URL}, fetcher.Fetched)
	assert.Equal(t, []int{2, 3}, progress)
}

func TestCrawlerService_LoadAll_PreservesOrderUnderConcurrency(t *testing.T) {
	fetcher := &mocks.PageFetcher{Pages: map[string]*entities.Page{
		page1URL: {Results: []entities.RawEntity{raw("Slow", "1"), raw("Fast", "2")}},
	}}
	resolver := &fakeResolver{delays: map[string]time.Duration{"Slow": 50 * time.Millisecond}}
	crawler := NewCrawlerService(fetcher, resolver)

	got, err := crawler.LoadAll(t.Context(), page1URL, nil)

	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Slow", got[0].Name)
	assert.Equal(t, "Fast", got[1].Name)
	// Fast finished first.
	assert.Equal(t, []string{"Fast", "Slow"}, resolver.names)
}

func TestCrawlerService_LoadAll_FetchErrorDiscardsResults(t *testing.T) {
	fetcher := &mocks.PageFetcher{
		Pages: map[string]*entities.Page{
			page1URL: {Results: []entities.RawEntity{raw("Luke Skywalker", "1")}, Next: mocks.NextPage(page2URL)},
		},
		Errs: map[string]error{page2URL: errors.New("503 service unavailable")},
	}
	crawler := NewCrawlerService(fetcher, &fakeResolver{})

	got, err := crawler.LoadAll(t.Context(), page1URL, nil)

	require.Error(t, err)
	assert.Nil(t, got)
	assert.Contains(t, err.Error(), "fetching page 2")
	assert.Contains(t, err.Error(), "503")
}

func TestCrawlerService_LoadAll_CursorCycle(t *testing.T) {
	fetcher := &mocks.PageFetcher{Pages: map[string]*entities.Page{
		page1URL: {Results: []entities.RawEntity{raw("A", "1")}, Next: mocks.NextPage(page2URL)},
		page2URL: {Results: []entities.RawEntity{raw("B", "2")}, Next: mocks.NextPage(page1URL)},
	}}
	crawler := NewCrawlerService(fetcher, &fakeResolver{})

	_, err := crawler.LoadAll(t.Context(), page1URL, nil)

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrCursorCycle))
}

func TestCrawlerService_LoadAll_MaxPages(t *testing.T) {
	fetcher := &mocks.PageFetcher{Pages: map[string]*entities.Page{
		page1URL: {Results: []entities.RawEntity{raw("A", "1")}, Next: mocks.NextPage(page2URL)},
		page2URL: {Results: []entities.RawEntity{raw("B", "2")}},
	}}
	crawler := NewCrawlerService(fetcher, &fakeResolver{}, WithMaxPages(1))

	_, err := crawler.LoadAll(t.Context(), page1URL, nil)

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTooManyPages))
	assert.Equal(t, []string{page1URL}, fetcher.Fetched)
}

func TestCrawlerService_LoadAll_EmptyNextTerminates(t *testing.T) {
	empty := ""
	fetcher := &mocks.PageFetcher{Pages: map[string]*entities.Page{
		page1URL: {Results: []entities.RawEntity{raw("A", "1")}, Next: &empty},
	}}
	crawler := NewCrawlerService(fetcher, &fakeResolver{})

	got, err := crawler.LoadAll(t.Context(), page1URL, nil)

	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestCrawlerService_LoadAll_Cancelled(t *testing.T) {
	fetcher := &mocks.PageFetcher{Pages: map[string]*entities.Page{
		page1URL: {Results: []entities.RawEntity{raw("A", "1")}},
	}}
	crawler := NewCrawlerService(fetcher, &fakeResolver{})

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	_, err := crawler.LoadAll(ctx, page1URL, nil)

	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}
