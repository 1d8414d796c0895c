// Package thumbnail fetches recipe images from allowed hosts and scales them
// down for the result cards.
package thumbnail

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/nfnt/resize"
)

const (
	DefaultWidth = 312
	MinWidth     = 32
	MaxWidth     = 1024

	// maxImageBytes caps the size of a fetched source image.
	maxImageBytes = 10 << 20
	// maxImagePixels caps the decoded dimensions of a source image.
	maxImagePixels = 40_000_000
)

var (
	// ErrInvalidSource is returned when the source URL cannot be used.
	ErrInvalidSource = errors.New("invalid image source")
	// ErrHostNotAllowed is returned when the source host is not allowlisted.
	ErrHostNotAllowed = errors.New("image host not allowed")
	// ErrFetch is returned when the source image cannot be retrieved or decoded.
	ErrFetch = errors.New("failed to fetch image")
)

// Image is an encoded thumbnail.
type Image struct {
	Data        []byte
	ContentType string
}

// Resizer fetches and resizes images.
type Resizer struct {
	httpClient *http.Client
	hosts      map[string]bool
}

// NewResizer creates a Resizer that only fetches from the given hosts.
func NewResizer(hosts []string, timeout time.Duration) *Resizer {
	allowed := make(map[string]bool, len(hosts))
	for _, h := range hosts {
		allowed[strings.ToLower(strings.TrimSpace(h))] = true
	}
	r := &Resizer{hosts: allowed}
	r.httpClient = &http.Client{
		Timeout: timeout,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= 5 {
				return errors.New("too many redirects")
			}
			if !r.hosts[strings.ToLower(req.URL.Hostname())] {
				return fmt.Errorf("%w: redirect to %s", ErrHostNotAllowed, req.URL.Hostname())
			}
			return nil
		},
	}
	return r
}

// ClampWidth bounds w to the supported range; zero selects DefaultWidth.
func ClampWidth(w int) int {
	switch {
	case w == 0:
		return DefaultWidth
	case w < MinWidth:
		return MinWidth
	case w > MaxWidth:
		return MaxWidth
	}
	return w
}

// Thumbnail fetches src and scales it to width, keeping the aspect ratio.
// The output uses the source format (JPEG or PNG).
func (r *Resizer) Thumbnail(ctx context.Context, src string, width int) (*Image, error) {
	u, err := r.checkSource(src)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSource, err)
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrFetch, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to decode image: %v", ErrFetch, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || cfg.Width > maxImagePixels/cfg.Height {
		return nil, fmt.Errorf("%w: image dimensions %dx%d too large", ErrFetch, cfg.Width, cfg.Height)
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to decode image: %v", ErrFetch, err)
	}

	width = ClampWidth(width)
	if img.Bounds().Dx() > width {
		img = resize.Resize(uint(width), 0, img, resize.Lanczos3)
	}

	var buf bytes.Buffer
	out := &Image{}
	switch format {
	case "png":
		out.ContentType = "image/png"
		err = png.Encode(&buf, img)
	default:
		out.ContentType = "image/jpeg"
		err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: 85})
	}
	if err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	out.Data = buf.Bytes()

	return out, nil
}

func (r *Resizer) checkSource(src string) (*url.URL, error) {
	if src == "" {
		return nil, fmt.Errorf("%w: empty url", ErrInvalidSource)
	}
	u, err := url.Parse(src)
	if err != nil || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidSource, src)
	}
	if u.Scheme != "https" {
		return nil, fmt.Errorf("%w: scheme %q", ErrInvalidSource, u.Scheme)
	}
	if !r.hosts[strings.ToLower(u.Hostname())] {
		return nil, fmt.Errorf("%w: %s", ErrHostNotAllowed, u.Hostname())
	}
	return u, nil
}
