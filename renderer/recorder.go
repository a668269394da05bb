package renderer

import (
	"context"
	"fmt"
	"time"

	"github.com/richinsley/goshaderfx/graphics"
	"github.com/richinsley/goshaderfx/logging"
)

// FrameWriter consumes bottom-up RGBA frames.
type FrameWriter interface {
	WriteFrame(pix []byte) error
}

// Recording renders a page on simulated time at a fixed frame rate and
// hands every composited frame to a writer.
type Recording struct {
	Device     graphics.Device
	Queue      *FrameQueue
	Clock      *ManualClock
	Compositor *Compositor

	// Target is the framebuffer composited into and read back; 0 is the
	// window.
	Target        uint32
	Width, Height int
	Ratio         float64
	FPS           int
	Frames        int

	// BeforeFrame runs ahead of each tick, e.g. to feed a synthetic pointer.
	BeforeFrame func(frame int, now time.Duration)
}

// Run renders Frames frames. It stops early when ctx is cancelled or the
// writer fails.
func (r *Recording) Run(ctx context.Context, out FrameWriter) error {
	if r.FPS <= 0 {
		return fmt.Errorf("invalid frame rate %d", r.FPS)
	}
	log := logging.New("recorder")
	step := time.Second / time.Duration(r.FPS)
	pixels := make([]byte, r.Width*r.Height*4)

	log.Infow("recording", "frames", r.Frames, "fps", r.FPS, "width", r.Width, "height", r.Height)
	for i := 0; i < r.Frames; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if r.BeforeFrame != nil {
			r.BeforeFrame(i, r.Clock.Now())
		}
		r.Queue.Tick()
		r.Compositor.Compose(r.Target, r.Width, r.Height, r.Ratio)

		r.Device.BindTarget(r.Target)
		r.Device.ReadPixels(0, 0, r.Width, r.Height, pixels)
		if err := out.WriteFrame(pixels); err != nil {
			return fmt.Errorf("frame %d: %w", i, err)
		}
		r.Clock.Advance(step)
	}
	log.Debugw("recording finished", "frames", r.Frames)
	return nil
}
