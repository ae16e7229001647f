package probe

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielgonzalesarce/holocron/internal/infrastructure/config"
)

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 6))
	img.Set(1, 1, color.RGBA{R: 0x66, G: 0x7e, B: 0xea, A: 0xff})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestHTTPProber_Probe(t *testing.T) {
	imgData := pngBytes(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok.png":
			w.Header().Set("Content-Type", "image/png")
			_, _ = w.Write(imgData)
		case "/mislabelled.jpg":
			// Browsers sniff the bytes, so a PNG served as JPEG still loads.
			w.Header().Set("Content-Type", "image/jpeg")
			_, _ = w.Write(imgData)
		case "/icon.svg":
			w.Header().Set("Content-Type", "image/svg+xml; charset=utf-8")
			_, _ = w.Write([]byte(`<svg xmlns="http://www.w3.org/2000/svg"/>`))
		case "/page.html":
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write([]byte("<html>not an image</html>"))
		case "/slow.png":
			time.Sleep(300 * time.Millisecond)
			_, _ = w.Write(imgData)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	prober := NewHTTPProber(config.ImagesConfig{RequestTimeout: 100 * time.Millisecond}, "holocron-test", nil)

	tests := []struct {
		path string
		want bool
	}{
		{path: "/ok.png", want: true},
		{path: "/mislabelled.jpg", want: true},
		{path: "/icon.svg", want: true},
		{path: "/page.html", want: false},
		{path: "/missing.jpg", want: false},
		{path: "/slow.png", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, prober.Probe(t.Context(), srv.URL+tt.path))
		})
	}
}

func TestHTTPProber_InvalidURL(t *testing.T) {
	prober := NewHTTPProber(config.ImagesConfig{}, "", nil)
	assert.False(t, prober.Probe(t.Context(), "://bad"))
	assert.False(t, prober.Probe(t.Context(), "http://127.0.0.1:1/none.jpg"))
}
