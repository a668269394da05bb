package surface

import (
	"fmt"
	"math"

	"github.com/richinsley/goshaderfx/graphics"
)

// Container is the host element a surface is mounted into.
type Container interface {
	// Bounds is the current client rectangle in logical units.
	Bounds() graphics.Rect
	// PixelRatio is the host device pixel ratio.
	PixelRatio() float64
	// Device returns nil when no graphics context can be obtained.
	Device() graphics.Device
	Attach(s *Surface)
	Detach(s *Surface)
}

// ResizeNotifier is implemented by containers that can report size changes
// instead of being polled every frame.
type ResizeNotifier interface {
	NotifyResize(fn func()) (stop func())
}

// Options configures a surface.
type Options struct {
	// MaxPixelRatio caps the host pixel ratio. Zero means no cap.
	MaxPixelRatio float64
	// Opacity used when the surface is composited. Zero means opaque.
	Opacity float64
	// Blend is the composite mode over the surfaces below.
	Blend graphics.BlendMode
}

// Surface is an offscreen drawable owned by exactly one effect instance.
type Surface struct {
	dev  graphics.Device
	opts Options

	bounds graphics.Rect
	dpr    float64
	width  int
	height int

	fbo     uint32
	texture uint32
	// allocated backing size, never below 1x1
	allocW, allocH int

	container Container
	released  bool
}

// Initialize creates a surface sized to c and appends it to c.
func Initialize(c Container, opts Options) (*Surface, error) {
	dev := c.Device()
	if dev == nil {
		return nil, graphics.ErrContextUnavailable
	}
	s := &Surface{dev: dev, opts: opts, container: c}
	s.apply(c.Bounds(), c.PixelRatio())

	s.allocW, s.allocH = allocSize(s.width, s.height)
	fbo, tex, err := dev.CreateTarget(s.allocW, s.allocH)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", graphics.ErrContextUnavailable, err)
	}
	s.fbo, s.texture = fbo, tex
	c.Attach(s)
	return s, nil
}

// ClampPixelRatio clamps ratio to (0, ceiling]. A non-positive ratio is
// treated as 1 and a non-positive ceiling disables the cap.
func ClampPixelRatio(ratio, ceiling float64) float64 {
	if ratio <= 0 || math.IsNaN(ratio) {
		ratio = 1
	}
	if ceiling > 0 && ratio > ceiling {
		return ceiling
	}
	return ratio
}

func (s *Surface) apply(bounds graphics.Rect, ratio float64) {
	s.bounds = bounds
	s.dpr = ClampPixelRatio(ratio, s.opts.MaxPixelRatio)
	s.width = deviceSize(bounds.Width, s.dpr)
	s.height = deviceSize(bounds.Height, s.dpr)
}

func deviceSize(logical, dpr float64) int {
	if logical <= 0 {
		return 0
	}
	return int(math.Round(logical * dpr))
}

func allocSize(w, h int) (int, int) {
	return max(w, 1), max(h, 1)
}

// Resize matches the surface to the container's current client rectangle.
// It returns false, doing nothing, when nothing changed.
func (s *Surface) Resize(c Container) bool {
	if s.released {
		return false
	}
	bounds := c.Bounds()
	dpr := ClampPixelRatio(c.PixelRatio(), s.opts.MaxPixelRatio)
	if bounds == s.bounds && dpr == s.dpr {
		return false
	}
	s.apply(bounds, dpr)
	w, h := allocSize(s.width, s.height)
	if w != s.allocW || h != s.allocH {
		s.allocW, s.allocH = w, h
		s.dev.ResizeTarget(s.texture, w, h)
	}
	return true
}

// Teardown releases the backing storage and detaches from the container.
func (s *Surface) Teardown() {
	if s.released {
		return
	}
	s.released = true
	s.dev.DeleteTarget(s.fbo, s.texture)
	if s.container != nil {
		s.container.Detach(s)
	}
}

func (s *Surface) LogicalBounds() graphics.Rect { return s.bounds }
func (s *Surface) DevicePixelRatio() float64    { return s.dpr }

// DeviceSize returns the drawable size in device pixels.
func (s *Surface) DeviceSize() (int, int) { return s.width, s.height }

// Framebuffer returns the target the effect draws into.
func (s *Surface) Framebuffer() uint32 { return s.fbo }

// Texture returns the color texture sampled by the compositor.
func (s *Surface) Texture() uint32 { return s.texture }

// BlendMode is how the surface is combined with the ones below it.
func (s *Surface) BlendMode() graphics.BlendMode { return s.opts.Blend }

// Opacity returns the composite opacity in [0,1].
func (s *Surface) Opacity() float64 {
	if s.opts.Opacity <= 0 {
		return 1
	}
	return math.Min(s.opts.Opacity, 1)
}

func (s *Surface) Released() bool { return s.released }
