package inputs

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.NRGBA{R: 200, G: 100, B: 50, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "card.png")
	require.NoError(t, os.WriteFile(path, encodePNG(t, 8, 4), 0644))

	tex, err := NewLoader().LoadTexture(context.Background(), path, DefaultMaxTextureSize)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 8, 4), tex.Bounds())
	assert.Equal(t, color.RGBA{R: 200, G: 100, B: 50, A: 255}, tex.RGBAAt(3, 2))
}

func TestLoadErrors(t *testing.T) {
	l := NewLoader()
	_, err := l.Load(context.Background(), "")
	assert.Error(t, err)

	_, err = l.Load(context.Background(), filepath.Join(t.TempDir(), "missing.png"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	path := filepath.Join(t.TempDir(), "garbage.png")
	require.NoError(t, os.WriteFile(path, []byte("not an image"), 0644))
	_, err = l.Load(context.Background(), path)
	assert.ErrorContains(t, err, "failed to decode")
}

func TestLoadURLWithCache(t *testing.T) {
	body := encodePNG(t, 2, 2)
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if r.URL.Path != "/card.png" {
			http.NotFound(w, r)
			return
		}
		assert.Equal(t, "goshaderfx", r.Header.Get("User-Agent"))
		w.Write(body)
	}))
	defer srv.Close()

	cache, err := NewCache(t.TempDir())
	require.NoError(t, err)
	l := NewLoader()
	l.Cache = cache

	for i := 0; i < 2; i++ {
		img, err := l.Load(context.Background(), srv.URL+"/card.png")
		require.NoError(t, err)
		assert.Equal(t, 2, img.Bounds().Dx())
	}
	assert.Equal(t, int32(1), hits.Load(), "second load is served from the cache")

	require.NoError(t, cache.Remove(srv.URL+"/card.png"))
	require.NoError(t, cache.Remove(srv.URL+"/card.png"))
	_, ok := cache.Get(srv.URL + "/card.png")
	assert.False(t, ok)

	_, err = l.Load(context.Background(), srv.URL+"/other.png")
	assert.ErrorContains(t, err, "404")
}

func TestLoadURLBodyLimit(t *testing.T) {
	body := encodePNG(t, 16, 16)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(body)
	}))
	defer srv.Close()

	cache, err := NewCache(t.TempDir())
	require.NoError(t, err)
	l := NewLoader()
	l.Cache = cache
	l.MaxBytes = int64(len(body) - 1)

	_, err = l.Load(context.Background(), srv.URL+"/big.png")
	assert.ErrorContains(t, err, "exceeds")
	_, ok := cache.Get(srv.URL + "/big.png")
	assert.False(t, ok, "oversized bodies are not cached")

	l.MaxBytes = int64(len(body))
	_, err = l.Load(context.Background(), srv.URL+"/big.png")
	assert.NoError(t, err)
}

func TestPrepareTextureScalesDown(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 400, 100))
	tex := PrepareTexture(src, 200)
	assert.Equal(t, image.Rect(0, 0, 200, 50), tex.Bounds())

	tall := PrepareTexture(image.NewGray(image.Rect(0, 0, 10, 1000)), 100)
	assert.Equal(t, image.Rect(0, 0, 1, 100), tall.Bounds())

	assert.Same(t, src, PrepareTexture(src, 0))
}

func TestPrepareTextureRebasesOrigin(t *testing.T) {
	src := image.NewRGBA(image.Rect(5, 5, 9, 7))
	src.SetRGBA(5, 5, color.RGBA{R: 1, A: 255})
	tex := PrepareTexture(src, 0)
	assert.Equal(t, image.Rect(0, 0, 4, 2), tex.Bounds())
	assert.Equal(t, uint8(1), tex.RGBAAt(0, 0).R)
}
