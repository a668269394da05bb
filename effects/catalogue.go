// Package effects holds the catalogue of effect definitions and mounts a
// page of configured effects into a host window.
package effects

import (
	"image"
	"slices"

	"github.com/richinsley/goshaderfx/graphics"
	"github.com/richinsley/goshaderfx/options"
	"github.com/richinsley/goshaderfx/pointer"
	"github.com/richinsley/goshaderfx/renderer"
	"github.com/richinsley/goshaderfx/shader"
	"github.com/richinsley/goshaderfx/surface"
)

// Definition is the fixed behaviour of one effect kind.
type Definition struct {
	Kind        string
	Description string
	Fragment    string

	Scope         pointer.Scope
	Convention    renderer.Convention
	Resize        renderer.ResizePolicy
	MaxPixelRatio float64
	Opacity       float64
	ClearColor    [4]float32
	Blend         bool
	// Composite is how the surface is blended over the page.
	Composite graphics.BlendMode
	Shape     renderer.ShapeParams

	// Variants reports whether the VAR define selects a shape.
	Variants bool
	// Image reports whether the effect samples an image texture.
	Image bool
}

var catalogue = []Definition{
	{
		Kind:          "plasma",
		Description:   "domain warped smoke beam following the pointer",
		Fragment:      shader.PlasmaFragment,
		Scope:         pointer.ScopeGlobal,
		Convention:    renderer.BottomLeft,
		Resize:        renderer.ResizeEveryFrame,
		MaxPixelRatio: 1.5,
		ClearColor:    [4]float32{0.01, 0.02, 0.09, 1},
	},
	{
		Kind:          "holographic",
		Description:   "liquid foil gradient",
		Fragment:      shader.HolographicFragment,
		Scope:         pointer.ScopeNone,
		Convention:    renderer.BottomLeft,
		Resize:        renderer.ResizeEveryFrame,
		MaxPixelRatio: 1.5,
		Opacity:       0.6,
		Composite:     graphics.BlendScreen,
		ClearColor:    [4]float32{0, 0, 0, 1},
	},
	{
		Kind:          "shapeblur",
		Description:   "white shape whose edge softens around the pointer",
		Fragment:      shader.ShapeBlurFragment,
		Scope:         pointer.ScopeLocal,
		Convention:    renderer.TopLeft,
		Resize:        renderer.ResizeOnNotify,
		MaxPixelRatio: 2,
		Blend:         true,
		Shape: renderer.ShapeParams{
			ShapeSize:  1.2,
			Roundness:  0.4,
			BorderSize: 0.05,
			CircleSize: 0.3,
			CircleEdge: 0.5,
		},
		Variants: true,
	},
	{
		Kind:          "imageblur",
		Description:   "image blurred and brightened around the pointer",
		Fragment:      shader.ImageBlurFragment,
		Scope:         pointer.ScopeLocal,
		Convention:    renderer.TopLeft,
		Resize:        renderer.ResizeOnNotify,
		MaxPixelRatio: 2,
		Blend:         true,
		Shape:         renderer.ShapeParams{CircleSize: 0.5, CircleEdge: 0.5},
		Image:         true,
	},
}

// Catalogue returns every definition in display order.
func Catalogue() []Definition {
	return slices.Clone(catalogue)
}

// Lookup finds the definition of kind.
func Lookup(kind string) (Definition, bool) {
	i := slices.IndexFunc(catalogue, func(d Definition) bool { return d.Kind == kind })
	if i < 0 {
		return Definition{}, false
	}
	return catalogue[i], true
}

// Kinds lists the known effect kinds.
func Kinds() []string {
	kinds := make([]string, len(catalogue))
	for i, d := range catalogue {
		kinds[i] = d.Kind
	}
	return kinds
}

// Options merges cfg over d into render loop options.
func (d Definition) Options(cfg options.EffectConfig, tex *image.RGBA) renderer.Options {
	opts := renderer.Options{
		Effect: cfg.Name,
		Source: shader.Source{
			Vertex:    shader.EffectVertex,
			Fragment:  d.Fragment,
			Attribute: shader.PositionAttribute,
			Uniforms:  shader.FeedUniforms,
		},
		Surface:    surface.Options{MaxPixelRatio: d.MaxPixelRatio, Opacity: d.Opacity, Blend: d.Composite},
		Scope:      d.Scope,
		Convention: d.Convention,
		Resize:     d.Resize,
		ClearColor: d.ClearColor,
		Blend:      d.Blend,
		Shape:      MergeShape(d.Shape, cfg.Shape),
		Texture:    tex,
	}
	if opts.Effect == "" {
		opts.Effect = d.Kind
	}
	if d.Variants {
		v := shader.RoundedRect
		if cfg.Variant != nil {
			v = *cfg.Variant
		}
		opts.Source.Defines = map[string]string{"VAR": v.Define()}
	}
	if cfg.MaxPixelRatio != nil {
		opts.Surface.MaxPixelRatio = *cfg.MaxPixelRatio
	}
	if cfg.Opacity != nil {
		opts.Surface.Opacity = *cfg.Opacity
	}
	if cfg.Lambda != nil {
		opts.Lambda = *cfg.Lambda
	}
	return opts
}

// MergeShape applies the set fields of o over base.
func MergeShape(base renderer.ShapeParams, o options.ShapeConfig) renderer.ShapeParams {
	set := func(dst *float32, v *float32) {
		if v != nil {
			*dst = *v
		}
	}
	set(&base.ShapeSize, o.ShapeSize)
	set(&base.Roundness, o.Roundness)
	set(&base.BorderSize, o.BorderSize)
	set(&base.CircleSize, o.CircleSize)
	set(&base.CircleEdge, o.CircleEdge)
	return base
}
