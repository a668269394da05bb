// Package glfwcontext hosts the effects in a GLFW window.
package glfwcontext

import (
	"fmt"
	"runtime"

	glfw "github.com/go-gl/glfw/v3.3/glfw"

	"github.com/richinsley/goshaderfx/graphics"
	"github.com/richinsley/goshaderfx/logging"
	"github.com/richinsley/goshaderfx/options"
	"github.com/richinsley/goshaderfx/pointer"
)

// Context is a GLFW window with a 4.1 core context. It is both the
// graphics.Context of the host and its pointer source.
type Context struct {
	window     *glfw.Window
	pixelRatio float64

	nextID       int
	resizes      map[int]func()
	pointers     map[int]func(pointer.Event)
	keyCallbacks map[glfw.Key]func()
}

var (
	_ graphics.Context = (*Context)(nil)
	_ pointer.Source   = (*Context)(nil)
)

// New creates the window described by cfg. Hidden windows are used for
// recording.
func New(cfg options.WindowConfig, visible bool) (*Context, error) {
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.ScaleToMonitor, glfw.True)
	if visible {
		glfw.WindowHint(glfw.Resizable, glfw.True)
		glfw.WindowHint(glfw.Visible, glfw.True)
	} else {
		glfw.WindowHint(glfw.Visible, glfw.False)
	}

	title := cfg.Title
	if title == "" {
		title = "goshaderfx"
	}
	win, err := glfw.CreateWindow(cfg.Width, cfg.Height, title, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	c := &Context{
		window:       win,
		pixelRatio:   cfg.PixelRatio,
		resizes:      make(map[int]func()),
		pointers:     make(map[int]func(pointer.Event)),
		keyCallbacks: make(map[glfw.Key]func()),
	}
	win.SetKeyCallback(c.keyCallback)
	win.SetSizeCallback(func(*glfw.Window, int, int) { c.notifyResize() })
	win.SetFramebufferSizeCallback(func(*glfw.Window, int, int) { c.notifyResize() })
	win.SetCursorPosCallback(c.cursorCallback)
	return c, nil
}

// RegisterKeyCallback runs f whenever key is pressed.
func (c *Context) RegisterKeyCallback(key glfw.Key, f func()) {
	c.keyCallbacks[key] = f
}

func (c *Context) keyCallback(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
	if action != glfw.Press {
		return
	}
	if key == glfw.KeyEscape {
		w.SetShouldClose(true)
	}
	if callback, ok := c.keyCallbacks[key]; ok {
		callback()
	}
}

func (c *Context) cursorCallback(_ *glfw.Window, x, y float64) {
	ev := pointer.Event{X: x, Y: y}
	for _, fn := range c.pointers {
		fn(ev)
	}
}

func (c *Context) notifyResize() {
	for _, fn := range c.resizes {
		fn()
	}
}

func (c *Context) register(add func(id int)) (id int) {
	id = c.nextID
	c.nextID++
	add(id)
	return id
}

// Listen delivers cursor positions in logical window coordinates.
func (c *Context) Listen(fn func(pointer.Event)) (stop func()) {
	id := c.register(func(id int) { c.pointers[id] = fn })
	return func() { delete(c.pointers, id) }
}

// OnResize calls fn after the window or its framebuffer changes size.
func (c *Context) OnResize(fn func()) (stop func()) {
	id := c.register(func(id int) { c.resizes[id] = fn })
	return func() { delete(c.resizes, id) }
}

func (c *Context) MakeCurrent() {
	c.window.MakeContextCurrent()
}

func (c *Context) Shutdown() {
	c.window.Destroy()
}

func (c *Context) ShouldClose() bool {
	return c.window.ShouldClose()
}

func (c *Context) EndFrame() {
	c.window.SwapBuffers()
	glfw.PollEvents()
}

func (c *Context) GetFramebufferSize() (int, int) {
	return c.window.GetFramebufferSize()
}

func (c *Context) GetSize() (int, int) {
	return c.window.GetSize()
}

// PixelRatio returns the configured ratio, or framebuffer width over window
// width.
func (c *Context) PixelRatio() float64 {
	if c.pixelRatio > 0 {
		return c.pixelRatio
	}
	fw, _ := c.window.GetFramebufferSize()
	w, _ := c.window.GetSize()
	if w <= 0 || fw <= 0 {
		return 1
	}
	return float64(fw) / float64(w)
}

// InitGraphics initializes GLFW. Must be called from the main thread.
func InitGraphics() error {
	runtime.LockOSThread()
	if err := glfw.Init(); err != nil {
		return fmt.Errorf("failed to initialize glfw: %w", err)
	}
	logging.New("glfw").Debugw("GLFW initialized", "version", glfw.GetVersionString())
	return nil
}

// TerminateGraphics shuts GLFW down. Must be called from the main thread.
func TerminateGraphics() {
	glfw.Terminate()
	logging.New("glfw").Debugw("GLFW terminated")
}
