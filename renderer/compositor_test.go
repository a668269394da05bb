package renderer

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/richinsley/goshaderfx/graphics"
	"github.com/richinsley/goshaderfx/graphics/gltest"
	"github.com/richinsley/goshaderfx/pointer"
	"github.com/richinsley/goshaderfx/shader"
	"github.com/richinsley/goshaderfx/surface"
)

func viewports(dev *gltest.Device) [][]any {
	var out [][]any
	for _, c := range dev.Calls {
		if c.Name == "Viewport" {
			out = append(out, c.Args)
		}
	}
	return out
}

func TestComposeInAttachOrder(t *testing.T) {
	r := newRig(500, 500, 2)
	bg, err := surface.Initialize(r.region(graphics.Rect{Width: 1, Height: 1}, true), surface.Options{})
	require.NoError(t, err)
	overlay, err := surface.Initialize(r.region(graphics.Rect{X: 100, Y: 50, Width: 200, Height: 100}, false), surface.Options{Opacity: 0.6})
	require.NoError(t, err)
	empty, err := surface.Initialize(r.region(graphics.Rect{}, false), surface.Options{})
	require.NoError(t, err)
	require.Equal(t, []*surface.Surface{bg, overlay, empty}, r.host.Surfaces())

	r.dev.Reset()
	r.host.Compose(0, 1000, 1000, 2)

	assert.Equal(t, [][]any{
		{0, 0, 1000, 1000},
		{0, 0, 1000, 1000},
		{200, 1000 - 300, 400, 200},
	}, viewports(r.dev))
	assert.Equal(t, 2, r.dev.Draws, "empty surfaces are skipped")

	var bound []uint32
	var opacity []float32
	for _, c := range r.dev.Calls {
		switch {
		case c.Name == "BindTexture" && c.Args[1].(uint32) != 0:
			bound = append(bound, c.Args[1].(uint32))
		case c.Name == "Uniform1f" && c.Args[0] == shader.UniformOpacity:
			opacity = append(opacity, c.Args[1].(float32))
		}
	}
	assert.Equal(t, []uint32{bg.Texture(), overlay.Texture()}, bound)
	assert.Equal(t, []float32{1, 0.6}, opacity)
	assert.Equal(t, uint32(0), r.dev.Bound)
	assert.False(t, r.dev.Blend)

	overlay.Teardown()
	assert.Equal(t, []*surface.Surface{bg, empty}, r.host.Surfaces())
}

func TestComposeBlendModePerSurface(t *testing.T) {
	r := newRig(100, 100, 1)
	_, err := surface.Initialize(r.region(graphics.Rect{Width: 1, Height: 1}, true), surface.Options{})
	require.NoError(t, err)
	_, err = surface.Initialize(r.region(graphics.Rect{Width: 1, Height: 1}, true), surface.Options{Opacity: 0.6, Blend: graphics.BlendScreen})
	require.NoError(t, err)

	r.dev.Reset()
	r.host.Compose(0, 100, 100, 1)
	var modes []graphics.BlendMode
	for _, c := range r.dev.Calls {
		if c.Name == "SetBlendMode" {
			modes = append(modes, c.Args[0].(graphics.BlendMode))
		}
	}
	assert.Equal(t, []graphics.BlendMode{graphics.BlendNormal, graphics.BlendScreen}, modes)
	assert.Equal(t, 2, r.dev.Draws)
}

func TestComposeWithoutSurfaces(t *testing.T) {
	r := newRig(10, 10, 1)
	r.dev.Reset()
	r.host.Compose(0, 10, 10, 1)
	assert.Equal(t, []string{"BindTarget", "Viewport", "Clear"}, r.dev.Names())
}

func TestAttachIsIdempotent(t *testing.T) {
	r := newRig(10, 10, 1)
	s, err := surface.Initialize(r.region(graphics.Rect{Width: 10, Height: 10}, false), surface.Options{})
	require.NoError(t, err)
	r.host.Attach(s)
	assert.Len(t, r.host.Surfaces(), 1)
	r.host.Detach(s)
	r.host.Detach(s)
	assert.Empty(t, r.host.Surfaces())
}

func TestCompositorDestroy(t *testing.T) {
	r := newRig(10, 10, 1)
	r.host.Destroy()
	_, programs, _, _, quads := r.dev.Live()
	assert.Zero(t, programs)
	assert.Zero(t, quads)
}

type captureWriter struct {
	frames [][]byte
	failAt int
}

func (w *captureWriter) WriteFrame(pix []byte) error {
	if w.failAt > 0 && len(w.frames) == w.failAt {
		return errors.New("broken pipe")
	}
	w.frames = append(w.frames, append([]byte(nil), pix...))
	return nil
}

func TestRecordingUsesSimulatedTime(t *testing.T) {
	r := newRig(40, 30, 1)
	r.dev.Fill = 7
	l, err := Mount(r.region(graphics.Rect{Width: 1, Height: 1}, true), r.queue, plasmaOptions(r))
	require.NoError(t, err)

	var seen []time.Duration
	rec := &Recording{
		Device:     r.dev,
		Queue:      r.queue,
		Clock:      r.clock,
		Compositor: r.host,
		Width:      40,
		Height:     30,
		Ratio:      1,
		FPS:        10,
		Frames:     5,
		BeforeFrame: func(i int, now time.Duration) {
			seen = append(seen, now)
			r.pub.Publish(pointer.Event{X: float64(i), Y: 0})
		},
	}
	out := &captureWriter{}
	require.NoError(t, rec.Run(context.Background(), out))

	require.Len(t, out.frames, 5)
	assert.Len(t, out.frames[0], 40*30*4)
	assert.Equal(t, byte(7), out.frames[4][0])
	assert.Equal(t, []time.Duration{0, 100 * time.Millisecond, 200 * time.Millisecond, 300 * time.Millisecond, 400 * time.Millisecond}, seen)
	assert.Equal(t, 500*time.Millisecond, r.clock.Now())
	assert.InDelta(t, 0.4, l.FrameState().Elapsed, 1e-9)
	assert.Equal(t, 5, l.Frames())
	assert.Equal(t, pointer.Vec2{X: 4}, l.FrameState().PointerRaw)
}

func TestRecordingStopsOnWriterError(t *testing.T) {
	r := newRig(4, 4, 1)
	rec := &Recording{Device: r.dev, Queue: r.queue, Clock: r.clock, Compositor: r.host, Width: 4, Height: 4, Ratio: 1, FPS: 30, Frames: 10}
	out := &captureWriter{failAt: 3}
	err := rec.Run(context.Background(), out)
	assert.ErrorContains(t, err, "frame 3")
	assert.Len(t, out.frames, 3)
}

func TestRecordingHonoursContext(t *testing.T) {
	r := newRig(4, 4, 1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	rec := &Recording{Device: r.dev, Queue: r.queue, Clock: r.clock, Compositor: r.host, Width: 4, Height: 4, Ratio: 1, FPS: 30, Frames: 10}
	assert.ErrorIs(t, rec.Run(ctx, &captureWriter{}), context.Canceled)

	rec.FPS = 0
	assert.Error(t, rec.Run(context.Background(), &captureWriter{}))
}

func TestPresentUntilClosed(t *testing.T) {
	r := newRig(100, 50, 2)
	r.win.closeAt = 3
	l, err := Mount(r.region(graphics.Rect{Width: 1, Height: 1}, true), r.queue, plasmaOptions(r))
	require.NoError(t, err)

	idle := 0
	Present(context.Background(), r.win, r.queue, r.host, func() { idle++ })
	assert.Equal(t, 3, r.win.frames)
	assert.Equal(t, 3, idle)
	assert.Equal(t, 3, l.Frames())
	assert.Contains(t, viewports(r.dev), []any{0, 0, 200, 100})
}

func TestPresentPlacesOnRealFramebuffer(t *testing.T) {
	r := newRig(100, 50, 2)
	r.win.fbRatio = 1
	r.win.closeAt = 1
	l, err := Mount(r.region(graphics.Rect{Width: 1, Height: 1}, true), r.queue, plasmaOptions(r))
	require.NoError(t, err)

	Present(context.Background(), r.win, r.queue, r.host, nil)
	w, h := l.Surface().DeviceSize()
	assert.Equal(t, 150, w, "backing resolution follows the override")
	assert.Equal(t, 75, h)

	vp := viewports(r.dev)
	require.NotEmpty(t, vp)
	assert.Equal(t, []any{0, 0, 100, 50}, vp[len(vp)-1], "the blit covers the window exactly")
	assert.NotContains(t, vp, []any{0, -50, 200, 100})
}
