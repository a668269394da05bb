package shader

import (
	"fmt"

	"github.com/richinsley/goshaderfx/graphics"
)

// Translation is a shader rewritten for the host GL dialect. Names maps the
// identifiers of the original source to the identifiers in Code.
type Translation struct {
	Code  string
	Names map[string]string
}

// Translator rewrites GLSL ES sources for the host GL dialect.
type Translator interface {
	Translate(stage graphics.ShaderStage, source string) (Translation, error)
}

// Source describes one program before compilation.
type Source struct {
	Vertex   string
	Fragment string
	// Defines are injected into the fragment stage.
	Defines map[string]string
	// Attribute is the vec2 vertex input; it must exist after linking.
	Attribute string
	// Uniforms whose locations are resolved once after linking.
	Uniforms []string
}

// Program is a linked vertex/fragment pair with its resolved handles.
type Program struct {
	dev      graphics.Device
	id       uint32
	attrib   uint32
	uniforms map[string]int32
}

// Compile translates, compiles and links src. Failures are reported as
// *graphics.CompileError or *graphics.LinkError and leave no GL objects
// behind.
func Compile(dev graphics.Device, src Source, tr Translator) (*Program, error) {
	vertex := stage{kind: graphics.VertexStage, code: src.Vertex}
	fragment := stage{kind: graphics.FragmentStage, code: Specialize(src.Fragment, src.Defines)}
	for _, s := range []*stage{&vertex, &fragment} {
		if err := s.translate(tr); err != nil {
			return nil, err
		}
	}

	vs, err := dev.CompileShader(graphics.VertexStage, vertex.code)
	if err != nil {
		return nil, err
	}
	fs, err := dev.CompileShader(graphics.FragmentStage, fragment.code)
	if err != nil {
		dev.DeleteShader(vs)
		return nil, err
	}
	id, err := dev.LinkProgram(vs, fs)
	dev.DeleteShader(vs)
	dev.DeleteShader(fs)
	if err != nil {
		return nil, err
	}

	loc := dev.AttribLocation(id, vertex.name(src.Attribute))
	if loc < 0 {
		dev.DeleteProgram(id)
		return nil, &graphics.LinkError{Log: fmt.Sprintf("vertex attribute %q not found", src.Attribute)}
	}

	p := &Program{
		dev:      dev,
		id:       id,
		attrib:   uint32(loc),
		uniforms: make(map[string]int32, len(src.Uniforms)),
	}
	for _, name := range src.Uniforms {
		mapped := fragment.name(name)
		if _, ok := fragment.names[name]; !ok {
			mapped = vertex.name(name)
		}
		p.uniforms[name] = dev.UniformLocation(id, mapped)
	}
	return p, nil
}

type stage struct {
	kind  graphics.ShaderStage
	code  string
	names map[string]string
}

func (s *stage) translate(tr Translator) error {
	if tr == nil {
		return nil
	}
	t, err := tr.Translate(s.kind, s.code)
	if err != nil {
		return &graphics.CompileError{Stage: s.kind, Log: err.Error()}
	}
	s.code, s.names = t.Code, t.Names
	return nil
}

func (s *stage) name(original string) string {
	if mapped, ok := s.names[original]; ok && mapped != "" {
		return mapped
	}
	return original
}

func (p *Program) ID() uint32     { return p.id }
func (p *Program) Attrib() uint32 { return p.attrib }

// Uniform returns the location of name, or -1 when the program does not use
// it.
func (p *Program) Uniform(name string) int32 {
	if loc, ok := p.uniforms[name]; ok {
		return loc
	}
	return -1
}

// Destroy deletes the program. It is safe to call more than once.
func (p *Program) Destroy() {
	if p.id == 0 {
		return
	}
	p.dev.DeleteProgram(p.id)
	p.id = 0
}
