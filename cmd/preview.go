package main

import (
	"os"
	"os/signal"
	"sync"

	glfw "github.com/go-gl/glfw/v3.3/glfw"
	"github.com/spf13/cobra"

	"github.com/richinsley/goshaderfx/effects"
	"github.com/richinsley/goshaderfx/logging"
	"github.com/richinsley/goshaderfx/options"
	"github.com/richinsley/goshaderfx/pointer"
	"github.com/richinsley/goshaderfx/renderer"
)

var watchConfig bool

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Show the page in a window",
	Long: `Show the page in a window. With --watch the page is remounted whenever
the config file changes. Press R to remount by hand and Escape to quit.`,
	RunE: runPreview,
}

func init() {
	previewCmd.Flags().BoolVarP(&watchConfig, "watch", "w", false, "remount the page when the config file changes")
}

func runPreview(cmd *cobra.Command, args []string) error {
	log := logging.New("preview")
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer cancel()

	s, err := openSession(cfg.Window, true)
	if err != nil {
		return err
	}
	defer s.close()

	pub := pointer.Default()
	pub.Bind(s.win)
	defer pub.Bind(nil)

	queue := renderer.NewFrameQueue(renderer.NewSystemClock())
	host := effects.Host{
		Window:     s.win,
		Device:     s.dev,
		Compositor: s.comp,
		Scheduler:  queue,
		Translator: s.tr,
		Publisher:  pub,
		Loader:     s.loader,
	}
	page := effects.Mount(ctx, host, cfg)
	defer func() { page.Teardown() }()

	// the latest page waiting to be mounted on the render thread
	var mu sync.Mutex
	var pending *options.Config
	offer := func(c *options.Config) {
		mu.Lock()
		pending = c
		mu.Unlock()
	}
	s.win.RegisterKeyCallback(glfw.KeyR, func() {
		if c, err := loadConfig(); err != nil {
			log.Warnw("page not reloaded", "error", err)
		} else {
			offer(c)
		}
	})

	if watchConfig && configPath != "" {
		w, err := options.NewWatcher(configPath, options.DefaultDebounce)
		if err != nil {
			return err
		}
		defer w.Close()
		go func() {
			if err := w.Run(ctx, offer); err != nil && ctx.Err() == nil {
				log.Warnw("watcher stopped", "error", err)
			}
		}()
		log.Infow("watching page", "path", configPath)
	}

	idle := func() {
		mu.Lock()
		c := pending
		pending = nil
		mu.Unlock()
		if c != nil {
			page.Teardown()
			page = effects.Mount(ctx, host, c)
		}
	}
	renderer.Present(ctx, s.win, queue, s.comp, idle)
	return nil
}
