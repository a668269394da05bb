package renderer

import (
	"errors"
	"fmt"
	"image"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/richinsley/goshaderfx/graphics"
	"github.com/richinsley/goshaderfx/logging"
	"github.com/richinsley/goshaderfx/pointer"
	"github.com/richinsley/goshaderfx/shader"
	"github.com/richinsley/goshaderfx/surface"
)

// State is the lifecycle of a render loop.
type State int

const (
	Uninitialized State = iota
	Running
	TornDown
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case TornDown:
		return "torn-down"
	default:
		return "uninitialized"
	}
}

// ResizePolicy selects when the surface is matched to its container.
type ResizePolicy int

const (
	// ResizeEveryFrame checks the container at the top of every frame.
	ResizeEveryFrame ResizePolicy = iota
	// ResizeOnNotify resizes only after the container reports a change.
	// Containers that cannot notify fall back to ResizeEveryFrame.
	ResizeOnNotify
)

// Options configures one effect instance.
type Options struct {
	// Effect names the instance in logs.
	Effect     string
	Source     shader.Source
	Translator shader.Translator
	Surface    surface.Options

	Scope pointer.Scope
	// Publisher defaults to pointer.Default().
	Publisher *pointer.Publisher
	// Lambda is the pointer damping rate; zero selects pointer.DefaultLambda.
	Lambda float64

	Convention Convention
	Resize     ResizePolicy
	ClearColor [4]float32
	Blend      bool
	Shape      ShapeParams
	// Texture, when set, is uploaded once and bound to unit 0.
	Texture *image.RGBA
}

// FrameState is the per-frame snapshot of time and pointer.
type FrameState struct {
	Elapsed       float64
	PointerRaw    pointer.Vec2
	PointerDamped pointer.Vec2
}

// Loop draws one effect into its surface once per scheduled frame until it
// is torn down.
type Loop struct {
	id    uuid.UUID
	opts  Options
	state State
	log   *zap.SugaredLogger

	container surface.Container
	sched     Scheduler
	dev       graphics.Device

	surf    *surface.Surface
	prog    *shader.Program
	feed    *Feed
	tracker *pointer.Tracker

	vao, vbo uint32
	texture  uint32

	handle  FrameHandle
	pending bool

	start, last time.Duration
	elapsed     float64
	frames      int

	stopResize    func()
	resizePending bool
}

// Mount creates the surface and program of one effect instance inside c and
// schedules its first frame. On failure everything created so far is
// released, the error is logged and no frame is ever scheduled.
func Mount(c surface.Container, sched Scheduler, opts Options) (*Loop, error) {
	id := uuid.New()
	l := &Loop{
		id:        id,
		opts:      opts,
		container: c,
		sched:     sched,
		log:       logging.New("renderer").With("instance", id.String(), "effect", opts.Effect),
	}
	if err := l.init(); err != nil {
		l.log.Errorw("effect disabled", "error", err)
		l.release()
		return nil, fmt.Errorf("mount %s: %w", opts.Effect, err)
	}

	l.state = Running
	l.start = sched.Now()
	l.last = l.start
	l.schedule()
	w, h := l.surf.DeviceSize()
	l.log.Debugw("mounted", "width", w, "height", h, "dpr", l.surf.DevicePixelRatio(), "pointer", opts.Scope)
	return l, nil
}

func (l *Loop) init() error {
	var err error
	l.surf, err = surface.Initialize(l.container, l.opts.Surface)
	if err != nil {
		return err
	}
	l.dev = l.container.Device()

	l.prog, err = shader.Compile(l.dev, l.opts.Source, l.opts.Translator)
	if err != nil {
		var cerr *graphics.CompileError
		if errors.As(err, &cerr) {
			l.log.Debugw("compile log", "stage", cerr.Stage.String(), "log", cerr.Log)
		}
		return err
	}
	l.vao, l.vbo = l.dev.CreateQuad(shader.QuadVertices, l.prog.Attrib())

	l.dev.UseProgram(l.prog.ID())
	if l.opts.Texture != nil {
		l.texture = l.dev.CreateTexture(l.opts.Texture)
		if loc := l.prog.Uniform(shader.UniformTexture); loc != -1 {
			l.dev.Uniform1i(loc, 0)
		}
	}
	l.feed = NewFeed(l.dev, l.prog, l.opts.Convention, l.opts.Shape)

	l.tracker = pointer.NewTracker(l.opts.Scope, l.opts.Lambda, l.surf)
	pub := l.opts.Publisher
	if pub == nil {
		pub = pointer.Default()
	}
	l.tracker.Attach(pub)

	if l.opts.Resize == ResizeOnNotify {
		if n, ok := l.container.(surface.ResizeNotifier); ok {
			l.stopResize = n.NotifyResize(func() { l.resizePending = true })
		}
	}
	return nil
}

func (l *Loop) schedule() {
	l.handle = l.sched.RequestFrame(l.frame)
	l.pending = true
}

func (l *Loop) frame(now time.Duration) {
	l.pending = false
	if l.state != Running {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			l.log.Errorw("frame panicked", "panic", r)
			l.Teardown()
		}
	}()

	if l.stopResize == nil || l.resizePending {
		l.resizePending = false
		l.surf.Resize(l.container)
	}

	dt := (now - l.last).Seconds()
	if dt < 0 {
		dt = 0
	}
	l.last = now
	l.elapsed = (now - l.start).Seconds()
	l.tracker.Update(dt)

	w, h := l.surf.DeviceSize()
	l.dev.BindTarget(l.surf.Framebuffer())
	l.dev.Viewport(0, 0, w, h)
	l.dev.UseProgram(l.prog.ID())
	l.dev.SetBlend(l.opts.Blend)
	l.feed.Bind(l.elapsed, w, h, l.surf.DevicePixelRatio(), l.tracker.Damped())
	if l.texture != 0 {
		l.dev.BindTexture(0, l.texture)
	}
	c := l.opts.ClearColor
	l.dev.Clear(c[0], c[1], c[2], c[3])
	l.dev.DrawTriangles(l.vao, int32(len(shader.QuadVertices)/2))
	l.frames++

	l.schedule()
}

// Teardown stops the loop and releases every resource it owns. It is safe to
// call more than once and from inside a frame.
func (l *Loop) Teardown() {
	if l.state == TornDown {
		return
	}
	l.state = TornDown
	l.release()
	l.log.Debugw("torn down", "frames", l.frames)
}

func (l *Loop) release() {
	if l.pending {
		l.sched.CancelFrame(l.handle)
		l.pending = false
	}
	if l.tracker != nil {
		l.tracker.Detach()
	}
	if l.stopResize != nil {
		l.stopResize()
		l.stopResize = nil
	}
	if l.texture != 0 {
		l.dev.DeleteTexture(l.texture)
		l.texture = 0
	}
	if l.vao != 0 {
		l.dev.DeleteQuad(l.vao, l.vbo)
		l.vao, l.vbo = 0, 0
	}
	if l.prog != nil {
		l.prog.Destroy()
	}
	if l.surf != nil {
		l.surf.Teardown()
	}
}

// SetShape replaces the shape parameters from the next frame on.
func (l *Loop) SetShape(shape ShapeParams) {
	if l.feed != nil {
		l.feed.SetShape(shape)
	}
}

// Shape returns the shape parameters bound on the next frame.
func (l *Loop) Shape() ShapeParams {
	if l.feed == nil {
		return l.opts.Shape
	}
	return l.feed.Shape()
}

// FrameState returns the time and pointer state of the last frame.
func (l *Loop) FrameState() FrameState {
	fs := FrameState{Elapsed: l.elapsed}
	if l.tracker != nil {
		fs.PointerRaw = l.tracker.Raw()
		fs.PointerDamped = l.tracker.Damped()
	}
	return fs
}

func (l *Loop) ID() uuid.UUID             { return l.id }
func (l *Loop) Effect() string            { return l.opts.Effect }
func (l *Loop) State() State              { return l.state }
func (l *Loop) Frames() int               { return l.frames }
func (l *Loop) Surface() *surface.Surface { return l.surf }
func (l *Loop) Tracker() *pointer.Tracker { return l.tracker }
func (l *Loop) Program() *shader.Program  { return l.prog }
