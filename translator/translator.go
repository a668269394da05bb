package translator

import (
	"context"
	"fmt"
	"sync"

	gst "github.com/richinsley/goshadertranslator"

	"github.com/richinsley/goshaderfx/graphics"
	"github.com/richinsley/goshaderfx/shader"
)

// Backend translates one WebGL2 stage. *gst.ShaderTranslator satisfies it
// through the adapter returned by newBackend.
type Backend func(source, stage string) (shader.Translation, error)

type key struct {
	stage  graphics.ShaderStage
	source string
}

// Cache memoises translations by stage and specialised source text. It is
// safe for concurrent use.
type Cache struct {
	mu      sync.Mutex
	backend Backend
	entries map[key]shader.Translation
	hits    int
}

// NewCache returns a cache over backend.
func NewCache(backend Backend) *Cache {
	return &Cache{backend: backend, entries: make(map[key]shader.Translation)}
}

var _ shader.Translator = (*Cache)(nil)

func (c *Cache) Translate(stage graphics.ShaderStage, source string) (shader.Translation, error) {
	k := key{stage: stage, source: source}
	c.mu.Lock()
	defer c.mu.Unlock()
	if t, ok := c.entries[k]; ok {
		c.hits++
		return t, nil
	}
	t, err := c.backend(source, stage.String())
	if err != nil {
		return shader.Translation{}, fmt.Errorf("%s shader translation failed: %w", stage, err)
	}
	c.entries[k] = t
	return t, nil
}

// Len returns the number of cached translations.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Hits returns how many lookups were served from the cache.
func (c *Cache) Hits() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits
}

var (
	defaultOnce  sync.Once
	defaultCache *Cache
	defaultErr   error
)

// GetTranslator returns the process-wide cache backed by the ANGLE based
// translator, producing GLSL 4.10 core output.
func GetTranslator() (*Cache, error) {
	defaultOnce.Do(func() {
		tr, err := gst.NewShaderTranslator(context.Background())
		if err != nil {
			defaultErr = fmt.Errorf("failed to start shader translator: %w", err)
			return
		}
		defaultCache = NewCache(newBackend(tr))
	})
	return defaultCache, defaultErr
}

func newBackend(tr *gst.ShaderTranslator) Backend {
	return func(source, stage string) (shader.Translation, error) {
		out, err := tr.TranslateShader(source, stage, gst.ShaderSpecWebGL2, gst.OutputFormatGLSL410)
		if err != nil {
			return shader.Translation{}, err
		}
		names := make(map[string]string, len(out.Variables))
		for name, v := range out.Variables {
			names[name] = v.MappedName
		}
		return shader.Translation{Code: out.Code, Names: names}, nil
	}
}
