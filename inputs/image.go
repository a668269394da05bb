// Package inputs loads the image textures sampled by effects.
package inputs

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/draw"
	"io"
	"net/http"
	"os"
	"strings"

	// Decoders registered for image.Decode.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp"

	"github.com/richinsley/goshaderfx/logging"
)

// DefaultMaxTextureSize bounds the longest edge of an uploaded texture.
const DefaultMaxTextureSize = 2048

// DefaultMaxImageBytes bounds a downloaded image body.
const DefaultMaxImageBytes = 64 << 20

type headerTransport struct {
	Transport http.RoundTripper
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req.Header.Set("User-Agent", "goshaderfx")
	return t.Transport.RoundTrip(req)
}

// Loader fetches images from local paths or http(s) URLs. Downloads are
// kept in Cache when it is set.
type Loader struct {
	Client *http.Client
	Cache  *Cache
	// MaxBytes fails downloads with a larger body. Zero selects
	// DefaultMaxImageBytes.
	MaxBytes int64
}

// NewLoader returns a loader with a proxy aware client and no cache.
func NewLoader() *Loader {
	return &Loader{
		Client: &http.Client{
			Transport: &headerTransport{Transport: &http.Transport{Proxy: http.ProxyFromEnvironment}},
		},
	}
}

func isURL(src string) bool {
	return strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://")
}

// Load reads and decodes src.
func (l *Loader) Load(ctx context.Context, src string) (image.Image, error) {
	if src == "" {
		return nil, fmt.Errorf("no image source")
	}
	var data []byte
	var err error
	if isURL(src) {
		data, err = l.fetch(ctx, src)
	} else {
		data, err = os.ReadFile(src)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read image %s: %w", src, err)
	}
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", src, err)
	}
	logging.New("inputs").Debugw("image loaded", "src", src, "format", format,
		"width", img.Bounds().Dx(), "height", img.Bounds().Dy())
	return img, nil
}

func (l *Loader) fetch(ctx context.Context, url string) ([]byte, error) {
	log := logging.New("inputs")
	if l.Cache != nil {
		if data, ok := l.Cache.Get(url); ok {
			return data, nil
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	client := l.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("bad response status: %s", resp.Status)
	}
	limit := l.MaxBytes
	if limit <= 0 {
		limit = DefaultMaxImageBytes
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("response body exceeds %d bytes", limit)
	}

	if l.Cache != nil {
		if err := l.Cache.Put(url, data); err != nil {
			log.Warnw("failed to cache image", "url", url, "error", err)
		}
	}
	return data, nil
}

// PrepareTexture converts img to RGBA, scaling it down with Catmull-Rom
// filtering so neither edge exceeds maxSize. A non-positive maxSize keeps
// the original size.
func PrepareTexture(img image.Image, maxSize int) *image.RGBA {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if maxSize > 0 && (w > maxSize || h > maxSize) {
		if w >= h {
			h = max(1, h*maxSize/w)
			w = maxSize
		} else {
			w = max(1, w*maxSize/h)
			h = maxSize
		}
		dst := image.NewRGBA(image.Rect(0, 0, w, h))
		xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, b, xdraw.Src, nil)
		return dst
	}

	if rgba, ok := img.(*image.RGBA); ok && b.Min == (image.Point{}) {
		return rgba
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}

// LoadTexture loads src and prepares it for upload.
func (l *Loader) LoadTexture(ctx context.Context, src string, maxSize int) (*image.RGBA, error) {
	img, err := l.Load(ctx, src)
	if err != nil {
		return nil, err
	}
	return PrepareTexture(img, maxSize), nil
}
