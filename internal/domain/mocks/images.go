package mocks

import (
	"context"
	"sync"
	"time"
)

// Prober is a mock implementation of ports.Prober.
// URLs listed in Reachable succeed; everything else fails.
// URLs listed in Delays block for the given duration first.
type Prober struct {
	Reachable map[string]bool
	Delays    map[string]time.Duration

	mu     sync.Mutex
	probed []string
}

// Probe records the call and reports whether url is reachable.
func (m *Prober) Probe(ctx context.Context, url string) bool {
	m.mu.Lock()
	m.probed = append(m.probed, url)
	m.mu.Unlock()

	if d, ok := m.Delays[url]; ok {
		time.Sleep(d)
	}
	return m.Reachable[url]
}

// Probed returns the URLs probed so far, in call order.
func (m *Prober) Probed() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.probed))
	copy(out, m.probed)
	return out
}

// MetadataClient is a mock implementation of ports.MetadataClient.
type MetadataClient struct {
	Images map[int]string
	Err    error

	mu        sync.Mutex
	callCount int
}

// ImageFor returns the configured image for id.
func (m *MetadataClient) ImageFor(ctx context.Context, id int) (string, error) {
	m.mu.Lock()
	m.callCount++
	m.mu.Unlock()

	if m.Err != nil {
		return "", m.Err
	}
	return m.Images[id], nil
}

// CallCount returns how many lookups were made.
func (m *MetadataClient) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}
