// Package probe checks whether a URL serves an image a browser could render.
package probe

import (
	"context"
	"image"
	_ "image/gif"  // register GIF decoder
	_ "image/jpeg" // register JPEG decoder
	_ "image/png"  // register PNG decoder
	"io"
	"mime"
	"net/http"
	"time"

	"go.uber.org/zap"
	_ "golang.org/x/image/bmp"  // register BMP decoder
	_ "golang.org/x/image/tiff" // register TIFF decoder
	_ "golang.org/x/image/webp" // register WebP decoder

	"github.com/danielgonzalesarce/holocron/internal/infrastructure/config"
)

// maxHeaderBytes bounds how much of the body is read to decode the image header.
const maxHeaderBytes = 64 << 10

// HTTPProber implements ports.Prober. A URL is reachable when it answers 2xx
// and the body starts with a decodable image header (or is declared SVG).
type HTTPProber struct {
	http      *http.Client
	userAgent string
	logger    *zap.Logger
}

// NewHTTPProber creates a prober whose requests are bounded by the configured request timeout.
func NewHTTPProber(cfg config.ImagesConfig, userAgent string, logger *zap.Logger) *HTTPProber {
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HTTPProber{
		http:      &http.Client{Timeout: timeout},
		userAgent: userAgent,
		logger:    logger,
	}
}

// Probe reports whether url serves a loadable image.
func (p *HTTPProber) Probe(ctx context.Context, url string) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false
	}
	req.Header.Set("Accept", "image/*")
	if p.userAgent != "" {
		req.Header.Set("User-Agent", p.userAgent)
	}

	resp, err := p.http.Do(req)
	if err != nil {
		p.logger.Debug("probe failed", zap.String("url", url), zap.Error(err))
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		p.logger.Debug("probe rejected", zap.String("url", url), zap.Int("status", resp.StatusCode))
		return false
	}

	if mediaType, _, err := mime.ParseMediaType(resp.Header.Get("Content-Type")); err == nil && mediaType == "image/svg+xml" {
		return true
	}

	_, format, err := image.DecodeConfig(io.LimitReader(resp.Body, maxHeaderBytes))
	if err != nil {
		p.logger.Debug("probe undecodable", zap.String("url", url), zap.Error(err))
		return false
	}

	p.logger.Debug("probe ok", zap.String("url", url), zap.String("format", format))
	return true
}
