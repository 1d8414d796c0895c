package thumbnail

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"hash/crc32"
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

func testPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 120, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// newTestResizer trusts srv's certificate but keeps the resizer's redirect policy.
func newTestResizer(srv *httptest.Server) *Resizer {
	r := NewResizer([]string{"127.0.0.1"}, 5*time.Second)
	r.httpClient.Transport = srv.Client().Transport
	return r
}

// hugePNG returns a valid PNG header that declares w x h pixels.
func hugePNG(t *testing.T, w, h uint32) []byte {
	t.Helper()
	data := testPNG(t, 1, 1)
	// IHDR data starts after the 8-byte signature and the chunk length and type.
	binary.BigEndian.PutUint32(data[16:20], w)
	binary.BigEndian.PutUint32(data[20:24], h)
	binary.BigEndian.PutUint32(data[29:33], crc32.ChecksumIEEE(data[12:29]))
	return data
}

func TestThumbnail_ResizesPNG(t *testing.T) {
	src := testPNG(t, 400, 200)
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		w.Write(src)
	}))
	defer srv.Close()

	out, err := newTestResizer(srv).Thumbnail(context.Background(), srv.URL+"/recipes/1-556x370.png", 100)
	require.NoError(t, err)
	assert.Equal(t, "image/png", out.ContentType)

	img, format, err := image.Decode(bytes.NewReader(out.Data))
	require.NoError(t, err)
	assert.Equal(t, "png", format)
	assert.Equal(t, 100, img.Bounds().Dx())
	assert.Equal(t, 50, img.Bounds().Dy())
}

func TestThumbnail_DoesNotUpscale(t *testing.T) {
	src := testPNG(t, 64, 64)
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(src)
	}))
	defer srv.Close()

	out, err := newTestResizer(srv).Thumbnail(context.Background(), srv.URL+"/a.png", 500)
	require.NoError(t, err)

	img, _, err := image.Decode(bytes.NewReader(out.Data))
	require.NoError(t, err)
	assert.Equal(t, 64, img.Bounds().Dx())
}

func TestThumbnail_RejectsSources(t *testing.T) {
	r := NewResizer([]string{"img.spoonacular.com"}, time.Second)

	tests := []struct {
		name string
		src  string
		want error
	}{
		{name: "empty", src: "", want: ErrInvalidSource},
		{name: "relative", src: "/recipes/1.jpg", want: ErrInvalidSource},
		{name: "plain http", src: "http://img.spoonacular.com/recipes/1.jpg", want: ErrInvalidSource},
		{name: "other host", src: "https://evil.example.com/a.jpg", want: ErrHostNotAllowed},
		{name: "internal host", src: "https://169.254.169.254/latest/meta-data", want: ErrHostNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.Thumbnail(context.Background(), tt.src, 100)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestThumbnail_UpstreamFailures(t *testing.T) {
	t.Run("status", func(t *testing.T) {
		srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.NotFound(w, r)
		}))
		defer srv.Close()

		_, err := newTestResizer(srv).Thumbnail(context.Background(), srv.URL+"/missing.jpg", 100)
		assert.True(t, errors.Is(err, ErrFetch))
	})

	t.Run("not an image", func(t *testing.T) {
		srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("<html>nope</html>"))
		}))
		defer srv.Close()

		_, err := newTestResizer(srv).Thumbnail(context.Background(), srv.URL+"/page.jpg", 100)
		assert.True(t, errors.Is(err, ErrFetch))
	})
}

func TestThumbnail_RejectsOversizedImages(t *testing.T) {
	src := hugePNG(t, 100000, 100000)
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(src)
	}))
	defer srv.Close()

	_, err := newTestResizer(srv).Thumbnail(context.Background(), srv.URL+"/huge.png", 100)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrFetch))
	assert.Contains(t, err.Error(), "too large")
}

func TestThumbnail_Redirects(t *testing.T) {
	src := testPNG(t, 64, 32)
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/moved.png":
			http.Redirect(w, r, "/a.png", http.StatusFound)
		case "/escape.png":
			http.Redirect(w, r, "https://localhost:1/secret", http.StatusFound)
		default:
			w.Write(src)
		}
	}))
	defer srv.Close()

	t.Run("same host", func(t *testing.T) {
		out, err := newTestResizer(srv).Thumbnail(context.Background(), srv.URL+"/moved.png", 100)
		require.NoError(t, err)
		assert.Equal(t, "image/png", out.ContentType)
	})

	t.Run("disallowed host", func(t *testing.T) {
		_, err := newTestResizer(srv).Thumbnail(context.Background(), srv.URL+"/escape.png", 100)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrHostNotAllowed), "got %v", err)
	})
}

func TestClampWidth(t *testing.T) {
	assert.Equal(t, DefaultWidth, ClampWidth(0))
	assert.Equal(t, MinWidth, ClampWidth(1))
	assert.Equal(t, MinWidth, ClampWidth(-5))
	assert.Equal(t, 480, ClampWidth(480))
	assert.Equal(t, MaxWidth, ClampWidth(5000))
}
