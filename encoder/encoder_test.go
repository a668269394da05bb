package encoder

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func testConfig() Config {
	return Config{Output: "out.mp4", Width: 4, Height: 2, FPS: 30, Codec: "h264"}
}

func TestEncoderStreamsFrames(t *testing.T) {
	var got bytes.Buffer
	e, err := New(context.Background(), testConfig(), func(in io.Reader) error {
		_, err := io.Copy(&got, in)
		return err
	})
	require.NoError(t, err)

	frame := bytes.Repeat([]byte{9}, 4*2*4)
	for i := 0; i < 3; i++ {
		require.NoError(t, e.WriteFrame(frame))
	}
	assert.Error(t, e.WriteFrame(frame[:5]))
	require.NoError(t, e.Close())
	require.NoError(t, e.Close())

	assert.Equal(t, 3, e.Frames())
	assert.Equal(t, bytes.Repeat(frame, 3), got.Bytes())
	assert.ErrorContains(t, e.WriteFrame(frame), "closed")
}

func TestEncoderRunnerFailure(t *testing.T) {
	e, err := New(context.Background(), testConfig(), func(io.Reader) error {
		return errors.New("unknown encoder 'libx264'")
	})
	require.NoError(t, err)

	frame := make([]byte, 4*2*4)
	assert.Eventually(t, func() bool { return e.WriteFrame(frame) != nil }, timeout, tick)
	err = e.Close()
	assert.ErrorContains(t, err, "ffmpeg failed")
	assert.ErrorContains(t, err, "libx264")
}

func TestEncoderContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	e, err := New(ctx, testConfig(), func(in io.Reader) error {
		_, err := io.Copy(io.Discard, in)
		return err
	})
	require.NoError(t, err)
	cancel()

	frame := make([]byte, 4*2*4)
	assert.Eventually(t, func() bool { return e.WriteFrame(frame) != nil }, timeout, tick)
	assert.ErrorIs(t, e.Close(), context.Canceled)
}

func TestInvalidConfig(t *testing.T) {
	noop := func(io.Reader) error { return nil }
	for _, cfg := range []Config{
		{Output: "a.mp4", Width: 0, Height: 2, FPS: 30},
		{Output: "a.mp4", Width: 2, Height: 2},
		{Width: 2, Height: 2, FPS: 30},
	} {
		_, err := New(context.Background(), cfg, noop)
		assert.Error(t, err, "%+v", cfg)
	}
}

func TestArgs(t *testing.T) {
	cfg := testConfig()
	in := InputArgs(cfg)
	assert.Equal(t, "rawvideo", in["f"])
	assert.Equal(t, "rgba", in["pix_fmt"])
	assert.Equal(t, "4x2", in["s"])
	assert.Equal(t, "30", in["r"])

	out := OutputArgs(cfg, "linux")
	assert.Equal(t, "libx264", out["c:v"])
	assert.Equal(t, "vflip", out["vf"])
	assert.Equal(t, "25M", out["b:v"])
	assert.NotContains(t, out, "tag:v")
	assert.NotContains(t, out, "f")

	cfg.Codec = "hevc"
	cfg.BitRate = "8M"
	out = OutputArgs(cfg, "darwin")
	assert.Equal(t, "hevc_videotoolbox", out["c:v"])
	assert.Equal(t, "hvc1", out["tag:v"])
	assert.Equal(t, "8M", out["b:v"])

	cfg.Stream = true
	cfg.Output = "pipe:"
	out = OutputArgs(cfg, "linux")
	assert.Equal(t, "libx265", out["c:v"])
	assert.Equal(t, "mpegts", out["f"])
	assert.NotContains(t, out, "tag:v")
}

const (
	timeout = 2 * time.Second
	tick    = 5 * time.Millisecond
)
