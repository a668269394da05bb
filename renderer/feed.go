package renderer

import (
	"github.com/richinsley/goshaderfx/graphics"
	"github.com/richinsley/goshaderfx/pointer"
	"github.com/richinsley/goshaderfx/shader"
)

// Convention is the vertical origin an effect expects for u_mouse.
type Convention int

const (
	// TopLeft passes pointer positions unchanged.
	TopLeft Convention = iota
	// BottomLeft flips Y against the surface height.
	BottomLeft
)

func (c Convention) String() string {
	if c == BottomLeft {
		return "bottom-left"
	}
	return "top-left"
}

// ShapeParams are the shape blur inputs. No range is enforced.
type ShapeParams struct {
	ShapeSize  float32 `yaml:"shapeSize"`
	Roundness  float32 `yaml:"roundness"`
	BorderSize float32 `yaml:"borderSize"`
	CircleSize float32 `yaml:"circleSize"`
	CircleEdge float32 `yaml:"circleEdge"`
}

// Feed writes the per-frame inputs of one program.
type Feed struct {
	dev        graphics.Device
	prog       *shader.Program
	convention Convention
	shape      ShapeParams
	dirty      bool
}

// NewFeed creates a feed for prog. The shape parameters are written on the
// first Bind.
func NewFeed(dev graphics.Device, prog *shader.Program, convention Convention, shape ShapeParams) *Feed {
	return &Feed{dev: dev, prog: prog, convention: convention, shape: shape, dirty: true}
}

// SetShape replaces the shape parameters; they are written on the next Bind.
func (f *Feed) SetShape(shape ShapeParams) {
	f.shape = shape
	f.dirty = true
}

func (f *Feed) Shape() ShapeParams { return f.shape }

// Bind writes time, resolution, pixel ratio and pointer, followed by the
// shape parameters when they changed. The program must be in use.
func (f *Feed) Bind(elapsed float64, width, height int, dpr float64, mouse pointer.Vec2) {
	f.set1f(shader.UniformTime, float32(elapsed))
	f.set2f(shader.UniformResolution, float32(width), float32(height))
	f.set1f(shader.UniformPixelRatio, float32(dpr))

	y := mouse.Y
	if f.convention == BottomLeft {
		y = float64(height) - mouse.Y
	}
	f.set2f(shader.UniformMouse, float32(mouse.X), float32(y))

	if !f.dirty {
		return
	}
	f.set1f(shader.UniformShapeSize, f.shape.ShapeSize)
	f.set1f(shader.UniformRoundness, f.shape.Roundness)
	f.set1f(shader.UniformBorderSize, f.shape.BorderSize)
	f.set1f(shader.UniformCircleSize, f.shape.CircleSize)
	f.set1f(shader.UniformCircleEdge, f.shape.CircleEdge)
	f.dirty = false
}

func (f *Feed) set1f(name string, v float32) {
	if loc := f.prog.Uniform(name); loc != -1 {
		f.dev.Uniform1f(loc, v)
	}
}

func (f *Feed) set2f(name string, x, y float32) {
	if loc := f.prog.Uniform(name); loc != -1 {
		f.dev.Uniform2f(loc, x, y)
	}
}
