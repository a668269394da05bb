package renderer

import (
	"context"

	"github.com/richinsley/goshaderfx/graphics"
)

// Present runs the interactive display loop: tick the frame queue, composite
// into the window back buffer and swap, until the window closes or ctx is
// done. Between frames it calls idle, if set, on the host thread.
func Present(ctx context.Context, win graphics.Context, queue *FrameQueue, comp *Compositor, idle func()) {
	for !win.ShouldClose() {
		if ctx.Err() != nil {
			return
		}
		queue.Tick()
		w, h := win.GetFramebufferSize()
		comp.Compose(0, w, h, framebufferRatio(win))
		win.EndFrame()
		if idle != nil {
			idle()
		}
	}
}

// framebufferRatio is the ratio of the window back buffer to its logical
// size. It differs from PixelRatio when the surface resolution is overridden,
// and only this one places regions on the real framebuffer.
func framebufferRatio(win graphics.Context) float64 {
	fw, _ := win.GetFramebufferSize()
	w, _ := win.GetSize()
	if fw <= 0 || w <= 0 {
		return 1
	}
	return float64(fw) / float64(w)
}
