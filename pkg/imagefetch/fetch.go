package imagefetch

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	"github.com/gabriel-vasile/mimetype"

	"github.com/gracebti/admissions-api/pkg/export"
)

const maxImageBytes = 10 << 20 // 10 MiB

// Fetcher downloads document images and prepares them for PDF embedding.
// WEBP sources are transcoded to JPEG because the PDF writer only accepts
// JPEG, PNG and GIF.
type Fetcher struct {
	client *http.Client
}

// NewFetcher builds a fetcher with a bounded request timeout.
func NewFetcher(timeout time.Duration) *Fetcher {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Fetcher{client: &http.Client{Timeout: timeout}}
}

// Fetch downloads the image at url and returns it decoded into an embeddable
// format. The content type is sniffed from the bytes, never trusted from the
// response headers.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*export.ImageData, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build image request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch image: unexpected status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read image body: %w", err)
	}
	if len(data) > maxImageBytes {
		return nil, fmt.Errorf("image exceeds %d bytes", maxImageBytes)
	}

	return Prepare(data)
}

// Prepare sniffs the raster format, transcoding WEBP to JPEG, and returns
// image data with its pixel dimensions.
func Prepare(data []byte) (*export.ImageData, error) {
	kind := mimetype.Detect(data)

	switch {
	case kind.Is("image/webp"):
		return transcodeWebp(data)
	case kind.Is("image/jpeg"):
		return withDimensions(data, "JPEG", jpeg.DecodeConfig)
	case kind.Is("image/png"):
		return withDimensions(data, "PNG", png.DecodeConfig)
	case kind.Is("image/gif"):
		return withDimensions(data, "GIF", gif.DecodeConfig)
	default:
		return nil, fmt.Errorf("unsupported image type %s", kind.String())
	}
}

func withDimensions(data []byte, format string, decode func(io.Reader) (image.Config, error)) (*export.ImageData, error) {
	cfg, err := decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode %s dimensions: %w", strings.ToLower(format), err)
	}
	return &export.ImageData{Data: data, Format: format, Width: cfg.Width, Height: cfg.Height}, nil
}

func transcodeWebp(data []byte) (*export.ImageData, error) {
	src, err := webp.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode webp: %w", err)
	}

	flattened := imaging.Clone(src)
	buf := &bytes.Buffer{}
	if err := imaging.Encode(buf, flattened, imaging.JPEG, imaging.JPEGQuality(90)); err != nil {
		return nil, fmt.Errorf("transcode webp to jpeg: %w", err)
	}

	bounds := src.Bounds()
	return &export.ImageData{
		Data:   buf.Bytes(),
		Format: "JPEG",
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
	}, nil
}
