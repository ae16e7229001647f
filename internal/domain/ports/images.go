package ports

import "context"

// MetadataClient looks up per-identifier metadata from an external API.
type MetadataClient interface {
	// ImageFor returns the image URL recorded for id, or "" when the record has none.
	ImageFor(ctx context.Context, id int) (string, error)
}

// Prober checks whether a URL serves a loadable image.
// Implementations must not block past the context deadline they are given,
// but callers apply their own timeout on top.
type Prober interface {
	// Probe reports true on a successful load and false on any failure.
	Probe(ctx context.Context, url string) bool
}
