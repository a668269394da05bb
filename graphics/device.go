package graphics

import "image"

// ShaderStage identifies a programmable pipeline stage.
type ShaderStage int

const (
	VertexStage ShaderStage = iota
	FragmentStage
)

func (s ShaderStage) String() string {
	switch s {
	case VertexStage:
		return "vertex"
	case FragmentStage:
		return "fragment"
	default:
		return "unknown"
	}
}

// BlendMode is how a premultiplied source is combined with the target.
type BlendMode int

const (
	// BlendNormal draws the source over the target.
	BlendNormal BlendMode = iota
	// BlendScreen brightens the target by the source; black leaves it
	// unchanged.
	BlendScreen
)

func (m BlendMode) String() string {
	if m == BlendScreen {
		return "screen"
	}
	return "normal"
}

// Device is the subset of the GL API the effects need. All calls must be made
// from the thread that owns the current context.
type Device interface {
	// CompileShader returns a *CompileError carrying the driver log on failure.
	CompileShader(stage ShaderStage, source string) (uint32, error)
	// LinkProgram returns a *LinkError carrying the driver log on failure.
	LinkProgram(vertex, fragment uint32) (uint32, error)
	DeleteShader(id uint32)
	DeleteProgram(id uint32)
	UseProgram(id uint32)

	AttribLocation(program uint32, name string) int32
	UniformLocation(program uint32, name string) int32
	Uniform1f(loc int32, v float32)
	Uniform2f(loc int32, x, y float32)
	Uniform1i(loc int32, v int32)

	// CreateQuad uploads a vec2 vertex list bound to attrib.
	CreateQuad(vertices []float32, attrib uint32) (vao, vbo uint32)
	DeleteQuad(vao, vbo uint32)
	DrawTriangles(vao uint32, count int32)

	// CreateTarget creates an RGBA8 color texture attached to a framebuffer.
	CreateTarget(width, height int) (fbo, texture uint32, err error)
	ResizeTarget(texture uint32, width, height int)
	DeleteTarget(fbo, texture uint32)
	// BindTarget binds fbo for drawing and reading; 0 is the window.
	BindTarget(fbo uint32)

	CreateTexture(img *image.RGBA) uint32
	BindTexture(unit int, texture uint32)
	DeleteTexture(texture uint32)

	Viewport(x, y, width, height int)
	Clear(r, g, b, a float32)
	// SetBlend enables straight alpha blending.
	SetBlend(enabled bool)
	// SetBlendMode selects the function for premultiplied sources while
	// blending is enabled.
	SetBlendMode(mode BlendMode)
	// ReadPixels reads RGBA bytes from the bound target into dst.
	ReadPixels(x, y, width, height int, dst []byte)
}
