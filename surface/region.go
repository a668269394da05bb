package surface

import (
	"github.com/richinsley/goshaderfx/graphics"
)

// Window is the part of the host window a Region needs.
type Window interface {
	GetSize() (int, int)
	PixelRatio() float64
	OnResize(fn func()) (stop func())
}

// Host receives surfaces appended to or removed from a region. The
// compositor implements it.
type Host interface {
	Attach(s *Surface)
	Detach(s *Surface)
}

// Region is a rectangle of a host window used as a surface container. When
// Relative is set the rectangle is expressed in fractions of the window size.
type Region struct {
	Rect     graphics.Rect
	Relative bool

	window Window
	device graphics.Device
	host   Host
}

// NewRegion creates a container over win. dev may be nil, in which case
// surfaces cannot be initialized in it.
func NewRegion(win Window, dev graphics.Device, host Host, rect graphics.Rect, relative bool) *Region {
	return &Region{Rect: rect, Relative: relative, window: win, device: dev, host: host}
}

var (
	_ Container      = (*Region)(nil)
	_ ResizeNotifier = (*Region)(nil)
)

// Bounds returns the region in logical window units.
func (r *Region) Bounds() graphics.Rect {
	if !r.Relative {
		return r.Rect
	}
	w, h := r.window.GetSize()
	return graphics.Rect{
		X:      r.Rect.X * float64(w),
		Y:      r.Rect.Y * float64(h),
		Width:  r.Rect.Width * float64(w),
		Height: r.Rect.Height * float64(h),
	}
}

func (r *Region) PixelRatio() float64 { return r.window.PixelRatio() }

func (r *Region) Device() graphics.Device { return r.device }

func (r *Region) Attach(s *Surface) {
	if r.host != nil {
		r.host.Attach(s)
	}
}

func (r *Region) Detach(s *Surface) {
	if r.host != nil {
		r.host.Detach(s)
	}
}

// NotifyResize forwards window resize notifications.
func (r *Region) NotifyResize(fn func()) func() {
	return r.window.OnResize(fn)
}
