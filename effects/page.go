package effects

import (
	"context"
	"fmt"
	"image"

	"go.uber.org/zap"

	"github.com/richinsley/goshaderfx/graphics"
	"github.com/richinsley/goshaderfx/inputs"
	"github.com/richinsley/goshaderfx/logging"
	"github.com/richinsley/goshaderfx/options"
	"github.com/richinsley/goshaderfx/pointer"
	"github.com/richinsley/goshaderfx/renderer"
	"github.com/richinsley/goshaderfx/shader"
	"github.com/richinsley/goshaderfx/surface"
)

// Host is everything a page needs from the process it runs in.
type Host struct {
	Window     surface.Window
	Device     graphics.Device
	Compositor surface.Host
	Scheduler  renderer.Scheduler
	// Translator may be nil when sources are already in the device dialect.
	Translator shader.Translator
	// Publisher defaults to pointer.Default().
	Publisher *pointer.Publisher
	// Loader fetches image textures; nil uses inputs.NewLoader().
	Loader *inputs.Loader
}

// Page is the set of effect instances mounted from one config.
type Page struct {
	log    *zap.SugaredLogger
	loops  []*renderer.Loop
	byName map[string]*renderer.Loop
	failed map[string]error
}

// Mount mounts every effect of cfg bottom to top. An effect that fails to
// mount is logged and recorded in Failed; the rest of the page still runs.
func Mount(ctx context.Context, host Host, cfg *options.Config) *Page {
	p := &Page{
		log:    logging.New("effects"),
		byName: make(map[string]*renderer.Loop),
		failed: make(map[string]error),
	}
	if host.Loader == nil {
		host.Loader = inputs.NewLoader()
	}
	for _, ec := range cfg.Effects {
		l, err := mountEffect(ctx, host, ec)
		if err != nil {
			p.log.Warnw("effect not mounted", "effect", ec.Name, "kind", ec.Kind, "error", err)
			p.failed[ec.Name] = err
			continue
		}
		p.loops = append(p.loops, l)
		p.byName[ec.Name] = l
	}
	p.log.Infow("page mounted", "effects", len(p.loops), "failed", len(p.failed))
	return p
}

func mountEffect(ctx context.Context, host Host, ec options.EffectConfig) (*renderer.Loop, error) {
	def, ok := Lookup(ec.Kind)
	if !ok {
		return nil, fmt.Errorf("unknown effect kind %q (valid: %v)", ec.Kind, Kinds())
	}
	if ec.Variant != nil && !def.Variants {
		return nil, fmt.Errorf("effect kind %q has no shape variants (got %s)", ec.Kind, *ec.Variant)
	}

	var tex *image.RGBA
	if def.Image {
		if ec.Image == "" {
			return nil, fmt.Errorf("effect %q needs an image", ec.Name)
		}
		size := ec.MaxTextureSize
		if size == 0 {
			size = inputs.DefaultMaxTextureSize
		}
		var err error
		tex, err = host.Loader.LoadTexture(ctx, ec.Image, size)
		if err != nil {
			return nil, err
		}
	}

	r := ec.Region
	region := surface.NewRegion(host.Window, host.Device, host.Compositor,
		graphics.Rect{X: r.X, Y: r.Y, Width: r.Width, Height: r.Height}, r.Relative)

	opts := def.Options(ec, tex)
	opts.Translator = host.Translator
	opts.Publisher = host.Publisher
	return renderer.Mount(region, host.Scheduler, opts)
}

// Loops returns the running instances bottom to top.
func (p *Page) Loops() []*renderer.Loop { return p.loops }

// Loop returns the instance mounted as name.
func (p *Page) Loop(name string) (*renderer.Loop, bool) {
	l, ok := p.byName[name]
	return l, ok
}

// Failed returns the mount error of every effect that is not running.
func (p *Page) Failed() map[string]error { return p.failed }

// SetShape updates the shape parameters of the named instance.
func (p *Page) SetShape(name string, shape options.ShapeConfig) error {
	l, ok := p.byName[name]
	if !ok {
		return fmt.Errorf("no effect named %q", name)
	}
	l.SetShape(MergeShape(l.Shape(), shape))
	return nil
}

// Teardown stops every instance and detaches its surface.
func (p *Page) Teardown() {
	for _, l := range p.loops {
		l.Teardown()
	}
	p.log.Debugw("page torn down", "effects", len(p.loops))
	p.loops = nil
	clear(p.byName)
}
