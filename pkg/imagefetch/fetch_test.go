package imagefetch

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{R: 10, G: 90, B: 200, A: 255})
		}
	}
	buf := &bytes.Buffer{}
	require.NoError(t, png.Encode(buf, img))
	return buf.Bytes()
}

func TestFetchDecodesPNG(t *testing.T) {
	payload := pngBytes(t, 64, 48)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Deliberately wrong header: the sniffer must win.
		w.Header().Set("Content-Type", "application/octet-stream")
		_, _ = w.Write(payload)
	}))
	defer server.Close()

	fetcher := NewFetcher(5 * time.Second)
	img, err := fetcher.Fetch(context.Background(), server.URL+"/sig.png")
	require.NoError(t, err)

	assert.Equal(t, "PNG", img.Format)
	assert.Equal(t, 64, img.Width)
	assert.Equal(t, 48, img.Height)
	assert.Equal(t, payload, img.Data)
}

func TestFetchRejectsNon200(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	fetcher := NewFetcher(5 * time.Second)
	_, err := fetcher.Fetch(context.Background(), server.URL+"/missing.png")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 404")
}

func TestPrepareRejectsUnsupportedTypes(t *testing.T) {
	_, err := Prepare([]byte("<svg xmlns=\"http://www.w3.org/2000/svg\"></svg>"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported image type")
}

func TestFetchHonoursContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	fetcher := NewFetcher(5 * time.Second)
	_, err := fetcher.Fetch(ctx, server.URL)
	require.Error(t, err)
}
