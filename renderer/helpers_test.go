package renderer

import (
	"time"

	"github.com/richinsley/goshaderfx/graphics"
	"github.com/richinsley/goshaderfx/graphics/gltest"
	"github.com/richinsley/goshaderfx/pointer"
	"github.com/richinsley/goshaderfx/shader"
	"github.com/richinsley/goshaderfx/surface"
)

const frameStep = time.Second / 60

type fakeWindow struct {
	w, h    int
	ratio   float64
	// fbRatio, when set, sizes the framebuffer instead of ratio.
	fbRatio float64
	resizes map[int]func()
	nextID  int
	closeAt int
	frames  int
}

func newFakeWindow(w, h int, ratio float64) *fakeWindow {
	return &fakeWindow{w: w, h: h, ratio: ratio, resizes: make(map[int]func())}
}

func (w *fakeWindow) GetSize() (int, int) { return w.w, w.h }
func (w *fakeWindow) PixelRatio() float64 { return w.ratio }
func (w *fakeWindow) OnResize(fn func()) func() {
	id := w.nextID
	w.nextID++
	w.resizes[id] = fn
	return func() { delete(w.resizes, id) }
}

func (w *fakeWindow) resize(width, height int) {
	w.w, w.h = width, height
	for _, fn := range w.resizes {
		fn()
	}
}

// graphics.Context
func (w *fakeWindow) MakeCurrent()      {}
func (w *fakeWindow) Shutdown()         {}
func (w *fakeWindow) ShouldClose() bool { return w.frames >= w.closeAt }
func (w *fakeWindow) EndFrame()         { w.frames++ }
func (w *fakeWindow) GetFramebufferSize() (int, int) {
	r := w.ratio
	if w.fbRatio > 0 {
		r = w.fbRatio
	}
	return int(float64(w.w) * r), int(float64(w.h) * r)
}

var _ graphics.Context = (*fakeWindow)(nil)

type rig struct {
	dev   *gltest.Device
	win   *fakeWindow
	clock *ManualClock
	queue *FrameQueue
	pub   *pointer.Publisher
	host  *Compositor
}

func newRig(w, h int, ratio float64) *rig {
	dev := gltest.New()
	clock := &ManualClock{}
	comp, err := NewCompositor(dev)
	if err != nil {
		panic(err)
	}
	return &rig{
		dev:   dev,
		win:   newFakeWindow(w, h, ratio),
		clock: clock,
		queue: NewFrameQueue(clock),
		pub:   pointer.NewPublisher(nil),
		host:  comp,
	}
}

func (r *rig) region(rect graphics.Rect, relative bool) *surface.Region {
	return surface.NewRegion(r.win, r.dev, r.host, rect, relative)
}

// step advances simulated time by one frame and ticks the queue.
func (r *rig) step(n int) {
	for i := 0; i < n; i++ {
		r.clock.Advance(frameStep)
		r.queue.Tick()
	}
}

func shapeBlurOptions(r *rig, variant shader.Variant) Options {
	return Options{
		Effect: "shapeblur",
		Source: shader.Source{
			Vertex:    shader.EffectVertex,
			Fragment:  shader.ShapeBlurFragment,
			Defines:   map[string]string{"VAR": variant.Define()},
			Attribute: shader.PositionAttribute,
			Uniforms:  shader.FeedUniforms,
		},
		Surface:    surface.Options{MaxPixelRatio: 2},
		Scope:      pointer.ScopeLocal,
		Publisher:  r.pub,
		Convention: TopLeft,
		Resize:     ResizeOnNotify,
		Blend:      true,
		Shape: ShapeParams{
			ShapeSize:  1.2,
			Roundness:  0.4,
			BorderSize: 0.05,
			CircleSize: 0.3,
			CircleEdge: 0.5,
		},
	}
}

func plasmaOptions(r *rig) Options {
	return Options{
		Effect: "plasma",
		Source: shader.Source{
			Vertex:    shader.EffectVertex,
			Fragment:  shader.PlasmaFragment,
			Attribute: shader.PositionAttribute,
			Uniforms:  shader.FeedUniforms,
		},
		Surface:    surface.Options{MaxPixelRatio: 1.5},
		Scope:      pointer.ScopeGlobal,
		Publisher:  r.pub,
		Convention: BottomLeft,
		Resize:     ResizeEveryFrame,
		ClearColor: [4]float32{0.01, 0.02, 0.09, 1},
	}
}

// uniformWrites lists the uniform names written since the last reset.
func uniformWrites(dev *gltest.Device) []string {
	var names []string
	for _, c := range dev.Calls {
		switch c.Name {
		case "Uniform1f", "Uniform2f", "Uniform1i":
			names = append(names, c.Args[0].(string))
		}
	}
	return names
}
