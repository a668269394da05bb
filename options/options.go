// Package options describes a page of effects and how it is rendered.
package options

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/richinsley/goshaderfx/shader"
)

// Config is one page: a window and the effects mounted into it, bottom to
// top.
type Config struct {
	Window  WindowConfig   `yaml:"window"`
	Effects []EffectConfig `yaml:"effects"`
	Record  RecordConfig   `yaml:"record"`
}

type WindowConfig struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`
	// PixelRatio overrides the monitor content scale when positive.
	PixelRatio float64 `yaml:"pixelRatio,omitempty"`
}

// RegionConfig places an effect in the window, in logical units or, when
// Relative is set, in fractions of the window size.
type RegionConfig struct {
	X        float64 `yaml:"x"`
	Y        float64 `yaml:"y"`
	Width    float64 `yaml:"width"`
	Height   float64 `yaml:"height"`
	Relative bool    `yaml:"relative"`
}

// ShapeConfig overrides the catalogue shape parameters of an effect.
type ShapeConfig struct {
	ShapeSize  *float32 `yaml:"shapeSize,omitempty"`
	Roundness  *float32 `yaml:"roundness,omitempty"`
	BorderSize *float32 `yaml:"borderSize,omitempty"`
	CircleSize *float32 `yaml:"circleSize,omitempty"`
	CircleEdge *float32 `yaml:"circleEdge,omitempty"`
}

// EffectConfig is one instance on the page. Unset pointer fields keep the
// catalogue defaults of Kind.
type EffectConfig struct {
	Name string `yaml:"name"`
	Kind string `yaml:"kind"`
	// Variant is only accepted by kinds with shape variants.
	Variant *shader.Variant `yaml:"variant,omitempty"`
	Region  RegionConfig    `yaml:"region"`

	MaxPixelRatio *float64    `yaml:"maxPixelRatio,omitempty"`
	Opacity       *float64    `yaml:"opacity,omitempty"`
	Lambda        *float64    `yaml:"lambda,omitempty"`
	Shape         ShapeConfig `yaml:"shape,omitempty"`

	// Image is a path or http(s) URL sampled by the image blur effect.
	Image          string `yaml:"image,omitempty"`
	MaxTextureSize int    `yaml:"maxTextureSize,omitempty"`
}

// RecordConfig drives the record command.
type RecordConfig struct {
	FPS        int     `yaml:"fps"`
	Duration   float64 `yaml:"duration"`
	Output     string  `yaml:"output"`
	Codec      string  `yaml:"codec"`
	BitRate    string  `yaml:"bitRate,omitempty"`
	FFmpegPath string  `yaml:"ffmpegPath,omitempty"`
	// Orbit feeds a synthetic pointer circling the window centre.
	Orbit bool `yaml:"orbit"`
	// Stream writes MPEG-TS to Output, which may be a pipe or a URL.
	Stream bool `yaml:"stream,omitempty"`
}

// Frames returns the number of frames covering Duration.
func (r RecordConfig) Frames() int {
	return int(r.Duration * float64(r.FPS))
}

// Default returns a page with a plasma background and a circle shape blur
// over the middle of the window.
func Default() *Config {
	return &Config{
		Window: WindowConfig{Width: 1280, Height: 720, Title: "goshaderfx"},
		Effects: []EffectConfig{
			{
				Name:   "background",
				Kind:   "plasma",
				Region: RegionConfig{Width: 1, Height: 1, Relative: true},
			},
			{
				Name:    "cursor",
				Kind:    "shapeblur",
				Variant: ptr(shader.Circle),
				Region:  RegionConfig{X: 0.25, Y: 0.25, Width: 0.5, Height: 0.5, Relative: true},
			},
		},
		Record: RecordConfig{FPS: 60, Duration: 10, Output: "output.mp4", Codec: "h264", Orbit: true},
	}
}

func ptr[T any](v T) *T { return &v }

// Parse decodes a YAML page over the defaults. A page that lists effects
// replaces the default effects.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

// Load reads and validates the page at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the page to path as YAML.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// Validate checks the page structure. Effect kinds are resolved when the
// page is mounted.
func (c *Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("invalid window size %dx%d", c.Window.Width, c.Window.Height)
	}
	seen := make(map[string]bool, len(c.Effects))
	for i, e := range c.Effects {
		if e.Name == "" {
			return fmt.Errorf("effect %d has no name", i)
		}
		if seen[e.Name] {
			return fmt.Errorf("duplicate effect name %q", e.Name)
		}
		seen[e.Name] = true
		if e.Kind == "" {
			return fmt.Errorf("effect %q has no kind", e.Name)
		}
		if r := e.Region; r.Width < 0 || r.Height < 0 {
			return fmt.Errorf("effect %q has a negative region size", e.Name)
		}
		if e.MaxPixelRatio != nil && *e.MaxPixelRatio < 0 {
			return fmt.Errorf("effect %q has a negative pixel ratio ceiling", e.Name)
		}
		if e.MaxTextureSize < 0 {
			return fmt.Errorf("effect %q has a negative texture size", e.Name)
		}
	}
	if c.Record.FPS <= 0 {
		return fmt.Errorf("invalid record frame rate %d", c.Record.FPS)
	}
	if c.Record.Duration < 0 {
		return fmt.Errorf("invalid record duration %g", c.Record.Duration)
	}
	switch c.Record.Codec {
	case "h264", "hevc":
	default:
		return fmt.Errorf("unsupported codec %q (valid: h264, hevc)", c.Record.Codec)
	}
	return nil
}
