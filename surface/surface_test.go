package surface

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/richinsley/goshaderfx/graphics"
	"github.com/richinsley/goshaderfx/graphics/gltest"
)

type fakeContainer struct {
	bounds   graphics.Rect
	ratio    float64
	dev      graphics.Device
	attached []*Surface
}

func (c *fakeContainer) Bounds() graphics.Rect   { return c.bounds }
func (c *fakeContainer) PixelRatio() float64     { return c.ratio }
func (c *fakeContainer) Device() graphics.Device { return c.dev }
func (c *fakeContainer) Attach(s *Surface)       { c.attached = append(c.attached, s) }
func (c *fakeContainer) Detach(s *Surface) {
	for i, a := range c.attached {
		if a == s {
			c.attached = append(c.attached[:i], c.attached[i+1:]...)
			return
		}
	}
}

func TestInitializeSizesToContainer(t *testing.T) {
	dev := gltest.New()
	c := &fakeContainer{bounds: graphics.Rect{Width: 800, Height: 600}, ratio: 3, dev: dev}

	s, err := Initialize(c, Options{MaxPixelRatio: 2})
	require.NoError(t, err)

	w, h := s.DeviceSize()
	assert.Equal(t, 1600, w)
	assert.Equal(t, 1200, h)
	assert.Equal(t, 2.0, s.DevicePixelRatio())
	assert.Equal(t, []*Surface{s}, c.attached)

	target, ok := dev.Target(s.Texture())
	require.True(t, ok)
	assert.Equal(t, 1600, target.Width)
	assert.Equal(t, 1200, target.Height)
}

func TestInitializeWithoutDevice(t *testing.T) {
	c := &fakeContainer{bounds: graphics.Rect{Width: 10, Height: 10}, ratio: 1}
	s, err := Initialize(c, Options{})
	assert.Nil(t, s)
	assert.ErrorIs(t, err, graphics.ErrContextUnavailable)
	assert.Empty(t, c.attached)
}

func TestInitializeTargetFailure(t *testing.T) {
	dev := gltest.New()
	dev.FailTarget = true
	c := &fakeContainer{bounds: graphics.Rect{Width: 10, Height: 10}, ratio: 1, dev: dev}

	_, err := Initialize(c, Options{})
	assert.True(t, errors.Is(err, graphics.ErrContextUnavailable))
	assert.Empty(t, c.attached)
}

func TestResizeKeepsInvariant(t *testing.T) {
	dev := gltest.New()
	c := &fakeContainer{bounds: graphics.Rect{Width: 100, Height: 100}, ratio: 1, dev: dev}
	s, err := Initialize(c, Options{MaxPixelRatio: 1.5})
	require.NoError(t, err)

	sizes := []graphics.Rect{
		{Width: 333, Height: 127},
		{X: 12, Y: 40, Width: 1, Height: 1},
		{Width: 1919.5, Height: 1080.25},
		{Width: 0, Height: 50},
	}
	ratios := []float64{1, 1.25, 2, 3}
	for _, b := range sizes {
		for _, r := range ratios {
			c.bounds, c.ratio = b, r
			s.Resize(c)

			dpr := s.DevicePixelRatio()
			assert.LessOrEqual(t, dpr, 1.5)
			w, h := s.DeviceSize()
			assert.InDelta(t, b.Width*dpr, float64(w), 0.5)
			assert.InDelta(t, b.Height*dpr, float64(h), 0.5)
			assert.Equal(t, b, s.LogicalBounds())
		}
	}
}

func TestResizeIsIdempotent(t *testing.T) {
	dev := gltest.New()
	c := &fakeContainer{bounds: graphics.Rect{Width: 320, Height: 240}, ratio: 2, dev: dev}
	s, err := Initialize(c, Options{MaxPixelRatio: 2})
	require.NoError(t, err)

	c.bounds = graphics.Rect{Width: 641, Height: 479}
	assert.True(t, s.Resize(c))
	w1, h1 := s.DeviceSize()

	dev.Reset()
	assert.False(t, s.Resize(c))
	w2, h2 := s.DeviceSize()
	assert.Equal(t, w1, w2)
	assert.Equal(t, h1, h2)
	assert.Empty(t, dev.Calls, "no device work for an unchanged container")
}

func TestZeroSizedContainer(t *testing.T) {
	dev := gltest.New()
	c := &fakeContainer{bounds: graphics.Rect{}, ratio: 2, dev: dev}
	s, err := Initialize(c, Options{})
	require.NoError(t, err)

	w, h := s.DeviceSize()
	assert.Zero(t, w)
	assert.Zero(t, h)
	target, ok := dev.Target(s.Texture())
	require.True(t, ok)
	assert.Equal(t, 1, target.Width)
	assert.Equal(t, 1, target.Height)
}

func TestTeardownIsIdempotent(t *testing.T) {
	dev := gltest.New()
	c := &fakeContainer{bounds: graphics.Rect{Width: 10, Height: 10}, ratio: 1, dev: dev}
	s, err := Initialize(c, Options{})
	require.NoError(t, err)

	s.Teardown()
	s.Teardown()
	assert.True(t, s.Released())
	assert.Empty(t, c.attached)
	_, _, targets, _, _ := dev.Live()
	assert.Zero(t, targets)
	assert.Equal(t, []string{"DeleteTarget"}, dev.Names("DeleteTarget"))

	c.bounds = graphics.Rect{Width: 50, Height: 50}
	assert.False(t, s.Resize(c))
}

func TestClampPixelRatio(t *testing.T) {
	assert.Equal(t, 1.0, ClampPixelRatio(0, 2))
	assert.Equal(t, 1.0, ClampPixelRatio(math.NaN(), 2))
	assert.Equal(t, 1.5, ClampPixelRatio(3, 1.5))
	assert.Equal(t, 3.0, ClampPixelRatio(3, 0))
	assert.Equal(t, 1.25, ClampPixelRatio(1.25, 2))
}

func TestOpacity(t *testing.T) {
	assert.Equal(t, 1.0, (&Surface{}).Opacity())
	assert.Equal(t, 0.6, (&Surface{opts: Options{Opacity: 0.6}}).Opacity())
	assert.Equal(t, 1.0, (&Surface{opts: Options{Opacity: 4}}).Opacity())
}

type fakeWindow struct {
	w, h    int
	ratio   float64
	resizes []func()
}

func (w *fakeWindow) GetSize() (int, int) { return w.w, w.h }
func (w *fakeWindow) PixelRatio() float64 { return w.ratio }
func (w *fakeWindow) OnResize(fn func()) func() {
	w.resizes = append(w.resizes, fn)
	idx := len(w.resizes) - 1
	return func() { w.resizes[idx] = nil }
}

type recordingHost struct{ attached, detached int }

func (h *recordingHost) Attach(*Surface) { h.attached++ }
func (h *recordingHost) Detach(*Surface) { h.detached++ }

func TestRelativeRegion(t *testing.T) {
	win := &fakeWindow{w: 1000, h: 500, ratio: 2}
	host := &recordingHost{}
	r := NewRegion(win, gltest.New(), host, graphics.Rect{X: 0.25, Y: 0.5, Width: 0.5, Height: 0.5}, true)

	assert.Equal(t, graphics.Rect{X: 250, Y: 250, Width: 500, Height: 250}, r.Bounds())

	s, err := Initialize(r, Options{})
	require.NoError(t, err)
	assert.Equal(t, 1, host.attached)
	w, h := s.DeviceSize()
	assert.Equal(t, 1000, w)
	assert.Equal(t, 500, h)

	win.w = 2000
	called := false
	stop := r.NotifyResize(func() { called = true })
	win.resizes[0]()
	assert.True(t, called)
	assert.True(t, s.Resize(r))
	w, _ = s.DeviceSize()
	assert.Equal(t, 2000, w)

	stop()
	s.Teardown()
	assert.Equal(t, 1, host.detached)
}

func TestAbsoluteRegionWithoutDevice(t *testing.T) {
	win := &fakeWindow{w: 100, h: 100, ratio: 1}
	r := NewRegion(win, nil, nil, graphics.Rect{X: 5, Y: 5, Width: 20, Height: 20}, false)
	assert.Equal(t, graphics.Rect{X: 5, Y: 5, Width: 20, Height: 20}, r.Bounds())

	_, err := Initialize(r, Options{})
	assert.ErrorIs(t, err, graphics.ErrContextUnavailable)
}
