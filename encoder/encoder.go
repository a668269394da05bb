// Package encoder pipes raw RGBA frames into an ffmpeg process.
package encoder

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"strings"

	ffmpeg "github.com/u2takey/ffmpeg-go"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/richinsley/goshaderfx/logging"
)

// Config describes one encoding session.
type Config struct {
	Output        string
	Width, Height int
	FPS           int
	// Codec is "h264" or "hevc".
	Codec   string
	BitRate string
	// Stream writes MPEG-TS instead of picking the container from Output.
	Stream     bool
	FFmpegPath string
}

func (c Config) validate() error {
	switch {
	case c.Width <= 0 || c.Height <= 0:
		return fmt.Errorf("invalid frame size %dx%d", c.Width, c.Height)
	case c.FPS <= 0:
		return fmt.Errorf("invalid frame rate %d", c.FPS)
	case c.Output == "":
		return fmt.Errorf("no output file")
	}
	return nil
}

// InputArgs describes the raw frames written to ffmpeg's stdin.
func InputArgs(cfg Config) ffmpeg.KwArgs {
	return ffmpeg.KwArgs{
		"f":       "rawvideo",
		"pix_fmt": "rgba",
		"s":       fmt.Sprintf("%dx%d", cfg.Width, cfg.Height),
		"r":       fmt.Sprint(cfg.FPS),
	}
}

// OutputArgs selects the encoder for goos. Frames arrive bottom-up from the
// GL read back, so they are flipped on the way out.
func OutputArgs(cfg Config, goos string) ffmpeg.KwArgs {
	hevc := cfg.Codec == "hevc"
	out := ffmpeg.KwArgs{
		"vf":      "vflip",
		"pix_fmt": "yuv420p",
	}
	switch goos {
	case "darwin":
		if hevc {
			out["c:v"] = "hevc_videotoolbox"
		} else {
			out["c:v"] = "h264_videotoolbox"
		}
	default:
		if hevc {
			out["c:v"] = "libx265"
		} else {
			out["c:v"] = "libx264"
		}
	}

	out["b:v"] = "25M"
	if cfg.BitRate != "" {
		out["b:v"] = cfg.BitRate
	}
	if hevc && strings.HasSuffix(cfg.Output, ".mp4") {
		out["tag:v"] = "hvc1"
	}
	if cfg.Stream {
		out["f"] = "mpegts"
	}
	return out
}

// Command builds the ffmpeg invocation for cfg without an input attached.
func Command(cfg Config) *ffmpeg.Stream {
	cmd := ffmpeg.Input("pipe:", InputArgs(cfg)).
		Output(cfg.Output, OutputArgs(cfg, runtime.GOOS)).
		OverWriteOutput().ErrorToStdOut()
	if cfg.FFmpegPath != "" {
		cmd = cmd.SetFfmpegPath(cfg.FFmpegPath)
	}
	return cmd
}

// Runner consumes the encoder's byte stream until it is closed.
type Runner func(in io.Reader) error

// FFmpeg runs the ffmpeg command for cfg.
func FFmpeg(cfg Config) Runner {
	return func(in io.Reader) error {
		return Command(cfg).WithInput(in).Run()
	}
}

// Encoder feeds frames to a Runner on its own goroutine.
type Encoder struct {
	cfg       Config
	log       *zap.SugaredLogger
	pw        *io.PipeWriter
	group     *errgroup.Group
	stop      func() bool
	frameSize int
	frames    int
	closed    bool
}

// Start launches ffmpeg for cfg.
func Start(ctx context.Context, cfg Config) (*Encoder, error) {
	return New(ctx, cfg, FFmpeg(cfg))
}

// New starts run reading from a pipe the encoder writes frames to. The pipe
// is broken when ctx is cancelled.
func New(ctx context.Context, cfg Config, run Runner) (*Encoder, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	pr, pw := io.Pipe()
	e := &Encoder{
		cfg:       cfg,
		log:       logging.New("encoder"),
		pw:        pw,
		group:     &errgroup.Group{},
		frameSize: cfg.Width * cfg.Height * 4,
	}
	e.group.Go(func() error {
		err := run(pr)
		// unblock writers when the runner exits early
		pr.CloseWithError(io.ErrClosedPipe)
		if err != nil {
			return fmt.Errorf("ffmpeg failed: %w", err)
		}
		return nil
	})
	e.stop = context.AfterFunc(ctx, func() { pw.CloseWithError(ctx.Err()) })

	e.log.Infow("encoding", "output", cfg.Output, "width", cfg.Width, "height", cfg.Height,
		"fps", cfg.FPS, "codec", OutputArgs(cfg, runtime.GOOS)["c:v"])
	return e, nil
}

// WriteFrame writes one RGBA frame of exactly Width*Height*4 bytes.
func (e *Encoder) WriteFrame(pix []byte) error {
	if e.closed {
		return fmt.Errorf("encoder closed")
	}
	if len(pix) != e.frameSize {
		return fmt.Errorf("frame is %d bytes, want %d", len(pix), e.frameSize)
	}
	if _, err := e.pw.Write(pix); err != nil {
		return fmt.Errorf("failed to write frame %d: %w", e.frames, err)
	}
	e.frames++
	return nil
}

// Frames returns the number of frames written.
func (e *Encoder) Frames() int { return e.frames }

// Close ends the stream and waits for the runner. It is safe to call more
// than once.
func (e *Encoder) Close() error {
	if e.closed {
		return nil
	}
	e.closed = true
	e.stop()
	e.pw.Close()
	if err := e.group.Wait(); err != nil {
		e.log.Errorw("encoding failed", "frames", e.frames, "error", err)
		return err
	}
	e.log.Infow("encoding finished", "frames", e.frames, "output", e.cfg.Output)
	return nil
}
