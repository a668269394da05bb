// Package gltest provides a recording graphics.Device for tests that run
// without a GL context.
package gltest

import (
	"fmt"
	"image"
	"regexp"
	"strings"

	"github.com/richinsley/goshaderfx/graphics"
)

// Call is one recorded device call.
type Call struct {
	Name string
	Args []any
}

type program struct {
	vertex, fragment string
	attribs          map[string]int32
	uniforms         map[string]int32
}

// Target is a framebuffer created through CreateTarget.
type Target struct {
	FBO, Texture  uint32
	Width, Height int
}

// Device records every call and simulates just enough GL state for the
// renderer: compile errors come from `#error` directives, attribute and
// uniform locations come from declarations in the sources.
type Device struct {
	Calls []Call

	// FailLink makes every LinkProgram call fail.
	FailLink bool
	// FailTarget makes every CreateTarget call fail.
	FailTarget bool
	// Fill is the byte value written by ReadPixels.
	Fill byte

	Draws     int
	Blend     bool
	BlendMode graphics.BlendMode
	Bound     uint32
	Current   uint32

	nextID      uint32
	nextLoc     int32
	shaders     map[uint32]shaderObject
	programs    map[uint32]*program
	uniforms    map[int32][]float32
	targets     map[uint32]*Target
	textures    map[uint32]*image.RGBA
	quads       map[uint32]uint32
	uniformName map[int32]string
}

type shaderObject struct {
	stage  graphics.ShaderStage
	source string
}

// New returns an empty recording device.
func New() *Device {
	return &Device{
		shaders:     make(map[uint32]shaderObject),
		programs:    make(map[uint32]*program),
		uniforms:    make(map[int32][]float32),
		targets:     make(map[uint32]*Target),
		textures:    make(map[uint32]*image.RGBA),
		quads:       make(map[uint32]uint32),
		uniformName: make(map[int32]string),
	}
}

var _ graphics.Device = (*Device)(nil)

func (d *Device) record(name string, args ...any) {
	d.Calls = append(d.Calls, Call{Name: name, Args: args})
}

func (d *Device) id() uint32 {
	d.nextID++
	return d.nextID
}

var errorDirective = regexp.MustCompile(`(?m)^\s*#error\s*(.*)$`)

func (d *Device) CompileShader(stage graphics.ShaderStage, source string) (uint32, error) {
	d.record("CompileShader", stage)
	if m := errorDirective.FindStringSubmatch(source); m != nil {
		return 0, &graphics.CompileError{Stage: stage, Log: "ERROR: 0:1: '#error' : " + m[1]}
	}
	id := d.id()
	d.shaders[id] = shaderObject{stage: stage, source: source}
	return id, nil
}

func (d *Device) LinkProgram(vertex, fragment uint32) (uint32, error) {
	d.record("LinkProgram", vertex, fragment)
	vs, okv := d.shaders[vertex]
	fs, okf := d.shaders[fragment]
	if d.FailLink || !okv || !okf {
		return 0, &graphics.LinkError{Log: "ERROR: Linking failed"}
	}
	p := &program{
		vertex:   vs.source,
		fragment: fs.source,
		attribs:  make(map[string]int32),
		uniforms: make(map[string]int32),
	}
	for i, name := range declared(`\b(?:in|attribute)\s+vec2\s+(\w+)\s*;`, vs.source) {
		p.attribs[name] = int32(i)
	}
	for _, name := range append(declared(`uniform\s+\w+\s+(\w+)\s*;`, vs.source), declared(`uniform\s+\w+\s+(\w+)\s*;`, fs.source)...) {
		if _, ok := p.uniforms[name]; ok {
			continue
		}
		p.uniforms[name] = d.nextLoc
		d.uniformName[d.nextLoc] = name
		d.nextLoc++
	}
	id := d.id()
	d.programs[id] = p
	return id, nil
}

func declared(pattern, source string) []string {
	var names []string
	for _, m := range regexp.MustCompile(pattern).FindAllStringSubmatch(source, -1) {
		names = append(names, m[1])
	}
	return names
}

func (d *Device) DeleteShader(id uint32) {
	d.record("DeleteShader", id)
	delete(d.shaders, id)
}

func (d *Device) DeleteProgram(id uint32) {
	d.record("DeleteProgram", id)
	delete(d.programs, id)
}

func (d *Device) UseProgram(id uint32) {
	d.record("UseProgram", id)
	d.Current = id
}

func (d *Device) AttribLocation(prog uint32, name string) int32 {
	p, ok := d.programs[prog]
	if !ok {
		return -1
	}
	if loc, ok := p.attribs[name]; ok {
		return loc
	}
	return -1
}

func (d *Device) UniformLocation(prog uint32, name string) int32 {
	p, ok := d.programs[prog]
	if !ok {
		return -1
	}
	if loc, ok := p.uniforms[name]; ok {
		return loc
	}
	return -1
}

func (d *Device) Uniform1f(loc int32, v float32) {
	d.record("Uniform1f", d.uniformName[loc], v)
	d.uniforms[loc] = []float32{v}
}

func (d *Device) Uniform2f(loc int32, x, y float32) {
	d.record("Uniform2f", d.uniformName[loc], x, y)
	d.uniforms[loc] = []float32{x, y}
}

func (d *Device) Uniform1i(loc int32, v int32) {
	d.record("Uniform1i", d.uniformName[loc], v)
	d.uniforms[loc] = []float32{float32(v)}
}

func (d *Device) CreateQuad(vertices []float32, attrib uint32) (uint32, uint32) {
	d.record("CreateQuad", len(vertices), attrib)
	vao, vbo := d.id(), d.id()
	d.quads[vao] = vbo
	return vao, vbo
}

func (d *Device) DeleteQuad(vao, vbo uint32) {
	d.record("DeleteQuad", vao, vbo)
	delete(d.quads, vao)
}

func (d *Device) DrawTriangles(vao uint32, count int32) {
	d.record("DrawTriangles", count)
	d.Draws++
}

func (d *Device) CreateTarget(width, height int) (uint32, uint32, error) {
	d.record("CreateTarget", width, height)
	if d.FailTarget {
		return 0, 0, fmt.Errorf("framebuffer is not complete")
	}
	t := &Target{FBO: d.id(), Texture: d.id(), Width: width, Height: height}
	d.targets[t.Texture] = t
	return t.FBO, t.Texture, nil
}

func (d *Device) ResizeTarget(texture uint32, width, height int) {
	d.record("ResizeTarget", width, height)
	if t, ok := d.targets[texture]; ok {
		t.Width, t.Height = width, height
	}
}

func (d *Device) DeleteTarget(fbo, texture uint32) {
	d.record("DeleteTarget", fbo, texture)
	delete(d.targets, texture)
}

func (d *Device) BindTarget(fbo uint32) {
	d.record("BindTarget", fbo)
	d.Bound = fbo
}

func (d *Device) CreateTexture(img *image.RGBA) uint32 {
	d.record("CreateTexture", img.Bounds().Dx(), img.Bounds().Dy())
	id := d.id()
	d.textures[id] = img
	return id
}

func (d *Device) BindTexture(unit int, texture uint32) {
	d.record("BindTexture", unit, texture)
}

func (d *Device) DeleteTexture(texture uint32) {
	d.record("DeleteTexture", texture)
	delete(d.textures, texture)
}

func (d *Device) Viewport(x, y, width, height int) {
	d.record("Viewport", x, y, width, height)
}

func (d *Device) Clear(r, g, b, a float32) {
	d.record("Clear", r, g, b, a)
}

func (d *Device) SetBlend(enabled bool) {
	d.record("SetBlend", enabled)
	d.Blend = enabled
}

func (d *Device) SetBlendMode(mode graphics.BlendMode) {
	d.record("SetBlendMode", mode)
	d.BlendMode = mode
}

func (d *Device) ReadPixels(x, y, width, height int, dst []byte) {
	d.record("ReadPixels", x, y, width, height)
	for i := range dst {
		dst[i] = d.Fill
	}
}

// Uniform returns the last value written to the named uniform of prog.
func (d *Device) Uniform(prog uint32, name string) ([]float32, bool) {
	loc := d.UniformLocation(prog, name)
	if loc < 0 {
		return nil, false
	}
	v, ok := d.uniforms[loc]
	return v, ok
}

// Target returns the framebuffer backed by texture.
func (d *Device) Target(texture uint32) (Target, bool) {
	t, ok := d.targets[texture]
	if !ok {
		return Target{}, false
	}
	return *t, true
}

// Live reports how many objects of each kind have not been deleted.
func (d *Device) Live() (shaders, programs, targets, textures, quads int) {
	return len(d.shaders), len(d.programs), len(d.targets), len(d.textures), len(d.quads)
}

// Names returns the recorded call names, optionally filtered by prefix.
func (d *Device) Names(prefixes ...string) []string {
	var names []string
	for _, c := range d.Calls {
		if len(prefixes) == 0 {
			names = append(names, c.Name)
			continue
		}
		for _, p := range prefixes {
			if strings.HasPrefix(c.Name, p) {
				names = append(names, c.Name)
				break
			}
		}
	}
	return names
}

// Reset forgets recorded calls and the draw counter.
func (d *Device) Reset() {
	d.Calls = nil
	d.Draws = 0
}
