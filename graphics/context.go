package graphics

// Context defines the interface for the host window that owns the GL context.
type Context interface {
	MakeCurrent()
	Shutdown()
	ShouldClose() bool
	EndFrame()
	// GetFramebufferSize returns the window size in device pixels.
	GetFramebufferSize() (int, int)
	// GetSize returns the window size in logical (screen) units.
	GetSize() (int, int)
	// PixelRatio is the resolution surfaces are rendered at. It may be
	// overridden and then differ from the framebuffer to logical ratio.
	PixelRatio() float64
	// OnResize registers fn to be called after the window changes size.
	OnResize(fn func()) (stop func())
}

// Rect is an axis aligned rectangle in logical units with a top-left origin.
type Rect struct {
	X, Y          float64
	Width, Height float64
}

// Contains reports whether the point lies inside r. The right and bottom
// edges are exclusive.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && y >= r.Y && x < r.X+r.Width && y < r.Y+r.Height
}
