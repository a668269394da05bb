package main

import (
	"fmt"
	"math"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/richinsley/goshaderfx/effects"
	"github.com/richinsley/goshaderfx/encoder"
	"github.com/richinsley/goshaderfx/logging"
	"github.com/richinsley/goshaderfx/options"
	"github.com/richinsley/goshaderfx/pointer"
	"github.com/richinsley/goshaderfx/renderer"
)

var recordFlags struct {
	output   string
	fps      int
	duration float64
	codec    string
	bitRate  string
	ffmpeg   string
	orbit    bool
	stream   bool
}

var recordCmd = &cobra.Command{
	Use:   "record",
	Short: "Render the page offscreen on simulated time and encode it with ffmpeg",
	RunE:  runRecord,
}

func init() {
	f := recordCmd.Flags()
	f.StringVarP(&recordFlags.output, "output", "o", "output.mp4", "output file")
	f.IntVar(&recordFlags.fps, "fps", 60, "frames per second")
	f.Float64VarP(&recordFlags.duration, "duration", "d", 10, "duration in seconds")
	f.StringVar(&recordFlags.codec, "codec", "h264", "video codec (h264, hevc)")
	f.StringVar(&recordFlags.bitRate, "bitrate", "", "video bit rate, e.g. 8M")
	f.StringVar(&recordFlags.ffmpeg, "ffmpeg", "", "path to the ffmpeg executable")
	f.BoolVar(&recordFlags.orbit, "orbit", true, "drive the pointer along a circle")
	f.BoolVar(&recordFlags.stream, "stream", false, "write MPEG-TS, e.g. to a pipe or udp:// URL")
}

// applyRecordFlags overrides the page's record section with the flags set on
// cmd.
func applyRecordFlags(cmd *cobra.Command, rc *options.RecordConfig) {
	f := cmd.Flags()
	if f.Changed("output") {
		rc.Output = recordFlags.output
	}
	if f.Changed("fps") {
		rc.FPS = recordFlags.fps
	}
	if f.Changed("duration") {
		rc.Duration = recordFlags.duration
	}
	if f.Changed("codec") {
		rc.Codec = recordFlags.codec
	}
	if f.Changed("bitrate") {
		rc.BitRate = recordFlags.bitRate
	}
	if f.Changed("ffmpeg") {
		rc.FFmpegPath = recordFlags.ffmpeg
	}
	if f.Changed("orbit") {
		rc.Orbit = recordFlags.orbit
	}
	if f.Changed("stream") {
		rc.Stream = recordFlags.stream
	}
}

// fixedWindow is the recording canvas. It never resizes.
type fixedWindow struct {
	width, height int
	ratio         float64
}

func (w fixedWindow) GetSize() (int, int)    { return w.width, w.height }
func (w fixedWindow) PixelRatio() float64    { return w.ratio }
func (w fixedWindow) OnResize(func()) func() { return func() {} }

// orbitPointer publishes a pointer circling the canvas centre once every
// four seconds of simulated time.
func orbitPointer(pub *pointer.Publisher, width, height int) func(int, time.Duration) {
	o := pointer.Orbit{
		CenterX: float64(width) / 2,
		CenterY: float64(height) / 2,
		Radius:  math.Min(float64(width), float64(height)) / 4,
		Period:  4 * time.Second,
	}
	return func(_ int, now time.Duration) {
		pub.Publish(o.At(now))
	}
}

func runRecord(cmd *cobra.Command, args []string) error {
	log := logging.New("record")
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	applyRecordFlags(cmd, &cfg.Record)
	if err := cfg.Validate(); err != nil {
		return err
	}
	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer cancel()

	s, err := openSession(cfg.Window, false)
	if err != nil {
		return err
	}
	defer s.close()

	ratio := cfg.Window.PixelRatio
	if ratio <= 0 {
		ratio = 1
	}
	canvas := fixedWindow{width: cfg.Window.Width, height: cfg.Window.Height, ratio: ratio}
	width := int(math.Round(float64(canvas.width) * ratio))
	height := int(math.Round(float64(canvas.height) * ratio))

	fbo, tex, err := s.dev.CreateTarget(width, height)
	if err != nil {
		return fmt.Errorf("failed to create recording target: %w", err)
	}
	defer s.dev.DeleteTarget(fbo, tex)

	clock := &renderer.ManualClock{}
	queue := renderer.NewFrameQueue(clock)
	pub := pointer.NewPublisher(nil)
	page := effects.Mount(ctx, effects.Host{
		Window:     canvas,
		Device:     s.dev,
		Compositor: s.comp,
		Scheduler:  queue,
		Translator: s.tr,
		Publisher:  pub,
		Loader:     s.loader,
	}, cfg)
	defer page.Teardown()

	enc, err := encoder.Start(ctx, encoder.Config{
		Output:     cfg.Record.Output,
		Width:      width,
		Height:     height,
		FPS:        cfg.Record.FPS,
		Codec:      cfg.Record.Codec,
		BitRate:    cfg.Record.BitRate,
		FFmpegPath: cfg.Record.FFmpegPath,
		Stream:     cfg.Record.Stream,
	})
	if err != nil {
		return err
	}

	rec := &renderer.Recording{
		Device:     s.dev,
		Queue:      queue,
		Clock:      clock,
		Compositor: s.comp,
		Target:     fbo,
		Width:      width,
		Height:     height,
		Ratio:      ratio,
		FPS:        cfg.Record.FPS,
		Frames:     cfg.Record.Frames(),
	}
	if cfg.Record.Orbit {
		rec.BeforeFrame = orbitPointer(pub, canvas.width, canvas.height)
	}

	runErr := rec.Run(ctx, enc)
	if err := enc.Close(); err != nil && runErr == nil {
		runErr = err
	}
	if runErr != nil {
		return runErr
	}
	log.Infow("recording written", "output", cfg.Record.Output, "frames", enc.Frames())
	return nil
}
