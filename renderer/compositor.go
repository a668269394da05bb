package renderer

import (
	"fmt"
	"math"
	"slices"

	"github.com/richinsley/goshaderfx/graphics"
	"github.com/richinsley/goshaderfx/shader"
	"github.com/richinsley/goshaderfx/surface"
)

// Compositor blends every attached surface into a target framebuffer in
// attach order, each into its own logical rectangle with its own blend mode.
type Compositor struct {
	dev      graphics.Device
	prog     *shader.Program
	vao, vbo uint32
	surfaces []*surface.Surface
}

var _ surface.Host = (*Compositor)(nil)

// NewCompositor compiles the blit program on dev.
func NewCompositor(dev graphics.Device) (*Compositor, error) {
	prog, err := shader.Compile(dev, shader.Source{
		Vertex:    shader.BlitVertex,
		Fragment:  shader.BlitFragment,
		Attribute: shader.BlitAttribute,
		Uniforms:  []string{shader.UniformTexture, shader.UniformOpacity},
	}, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create blit program: %w", err)
	}
	c := &Compositor{dev: dev, prog: prog}
	c.vao, c.vbo = dev.CreateQuad(shader.QuadVertices, prog.Attrib())
	return c, nil
}

// Attach appends s on top of the already attached surfaces.
func (c *Compositor) Attach(s *surface.Surface) {
	if !slices.Contains(c.surfaces, s) {
		c.surfaces = append(c.surfaces, s)
	}
}

func (c *Compositor) Detach(s *surface.Surface) {
	if i := slices.Index(c.surfaces, s); i >= 0 {
		c.surfaces = slices.Delete(c.surfaces, i, i+1)
	}
}

// Surfaces returns the attached surfaces bottom to top.
func (c *Compositor) Surfaces() []*surface.Surface {
	return slices.Clone(c.surfaces)
}

// Compose clears target and draws every surface. width and height are the
// target size in device pixels and ratio converts logical units to them.
func (c *Compositor) Compose(target uint32, width, height int, ratio float64) {
	c.dev.BindTarget(target)
	c.dev.Viewport(0, 0, width, height)
	c.dev.Clear(0, 0, 0, 1)
	if len(c.surfaces) == 0 {
		return
	}

	c.dev.UseProgram(c.prog.ID())
	c.dev.SetBlend(true)
	if loc := c.prog.Uniform(shader.UniformTexture); loc != -1 {
		c.dev.Uniform1i(loc, 0)
	}
	opacity := c.prog.Uniform(shader.UniformOpacity)
	for _, s := range c.surfaces {
		x, y, w, h := placement(s.LogicalBounds(), height, ratio)
		if w <= 0 || h <= 0 {
			continue
		}
		c.dev.Viewport(x, y, w, h)
		c.dev.SetBlendMode(s.BlendMode())
		if opacity != -1 {
			c.dev.Uniform1f(opacity, float32(s.Opacity()))
		}
		c.dev.BindTexture(0, s.Texture())
		c.dev.DrawTriangles(c.vao, int32(len(shader.QuadVertices)/2))
	}
	c.dev.BindTexture(0, 0)
	c.dev.SetBlend(false)
}

// placement converts a top-left logical rectangle to a bottom-left viewport.
func placement(b graphics.Rect, targetHeight int, ratio float64) (x, y, w, h int) {
	x = int(math.Round(b.X * ratio))
	w = int(math.Round(b.Width * ratio))
	h = int(math.Round(b.Height * ratio))
	y = targetHeight - int(math.Round((b.Y+b.Height)*ratio))
	return
}

// Destroy releases the blit program and geometry.
func (c *Compositor) Destroy() {
	c.dev.DeleteQuad(c.vao, c.vbo)
	c.prog.Destroy()
	c.surfaces = nil
}
