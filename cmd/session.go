package main

import (
	"fmt"

	"github.com/richinsley/goshaderfx/gldevice"
	"github.com/richinsley/goshaderfx/glfwcontext"
	"github.com/richinsley/goshaderfx/inputs"
	"github.com/richinsley/goshaderfx/logging"
	"github.com/richinsley/goshaderfx/options"
	"github.com/richinsley/goshaderfx/renderer"
	"github.com/richinsley/goshaderfx/translator"
)

// session is an initialized window, GL device, translator and compositor.
type session struct {
	win    *glfwcontext.Context
	dev    *gldevice.Device
	tr     *translator.Cache
	comp   *renderer.Compositor
	loader *inputs.Loader
}

// newLoader returns an image loader backed by the user media cache, so
// remounting a page does not download its images again.
func newLoader() *inputs.Loader {
	l := inputs.NewLoader()
	c, err := inputs.DefaultCache()
	if err != nil {
		logging.New("session").Warnw("media cache disabled", "error", err)
		return l
	}
	l.Cache = c
	return l
}

func openSession(cfg options.WindowConfig, visible bool) (*session, error) {
	if err := glfwcontext.InitGraphics(); err != nil {
		return nil, err
	}
	s := &session{loader: newLoader()}
	if err := s.open(cfg, visible); err != nil {
		s.close()
		return nil, err
	}
	return s, nil
}

func (s *session) open(cfg options.WindowConfig, visible bool) error {
	var err error
	s.win, err = glfwcontext.New(cfg, visible)
	if err != nil {
		return err
	}
	s.win.MakeCurrent()

	s.dev, err = gldevice.New()
	if err != nil {
		return err
	}
	logging.New("session").Infow("OpenGL context ready", "version", s.dev.Version())

	s.tr, err = translator.GetTranslator()
	if err != nil {
		return fmt.Errorf("shader translator unavailable: %w", err)
	}
	s.comp, err = renderer.NewCompositor(s.dev)
	return err
}

func (s *session) close() {
	if s.comp != nil {
		s.comp.Destroy()
	}
	if s.win != nil {
		s.win.Shutdown()
	}
	glfwcontext.TerminateGraphics()
}
