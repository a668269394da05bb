package main

import (
	"bytes"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/richinsley/goshaderfx/options"
	"github.com/richinsley/goshaderfx/pointer"
)

func TestListCommand(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"list"})
	defer rootCmd.SetArgs(nil)
	require.NoError(t, rootCmd.Execute())

	text := out.String()
	for _, kind := range []string{"plasma", "holographic", "shapeblur", "imageblur"} {
		assert.Contains(t, text, kind)
	}
	assert.Contains(t, text, "bottom-left")
	assert.Contains(t, text, "on notify")
}

func TestApplyRecordFlags(t *testing.T) {
	require.NoError(t, recordCmd.Flags().Parse([]string{"--fps", "24", "-o", "clip.mov", "--orbit=false", "--stream"}))
	rc := options.Default().Record
	applyRecordFlags(recordCmd, &rc)

	assert.Equal(t, 24, rc.FPS)
	assert.Equal(t, "clip.mov", rc.Output)
	assert.False(t, rc.Orbit)
	assert.True(t, rc.Stream)
	assert.Equal(t, 10.0, rc.Duration, "unset flags keep the page value")
	assert.Equal(t, "h264", rc.Codec)
}

func TestNewLoaderUsesMediaCache(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("XDG_CACHE_HOME only moves the cache on linux")
	}
	dir := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", dir)

	l := newLoader()
	require.NotNil(t, l.Cache)
	assert.Equal(t, filepath.Join(dir, "goshaderfx", "media"), l.Cache.Dir())
	assert.DirExists(t, l.Cache.Dir())
	assert.NotNil(t, l.Client)
}

func TestLoadConfig(t *testing.T) {
	defer func() { configPath = "" }()

	cfg, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, options.Default(), cfg)

	configPath = filepath.Join(t.TempDir(), "page.yaml")
	page := options.Default()
	page.Window.Title = "from file"
	require.NoError(t, page.Save(configPath))
	cfg, err = loadConfig()
	require.NoError(t, err)
	assert.Equal(t, "from file", cfg.Window.Title)
}

func TestOrbitPointer(t *testing.T) {
	pub := pointer.NewPublisher(nil)
	var got []pointer.Event
	stop := pub.Subscribe(func(ev pointer.Event) { got = append(got, ev) })
	defer stop()

	feed := orbitPointer(pub, 400, 200)
	feed(0, 0)
	feed(1, time.Second)
	require.Len(t, got, 2)
	assert.InDelta(t, 250, got[0].X, 1e-9)
	assert.InDelta(t, 100, got[0].Y, 1e-9)
	assert.InDelta(t, 200, got[1].X, 1e-9)
	assert.InDelta(t, 150, got[1].Y, 1e-9)
}

func TestFixedWindow(t *testing.T) {
	w := fixedWindow{width: 640, height: 360, ratio: 2}
	width, height := w.GetSize()
	assert.Equal(t, 640, width)
	assert.Equal(t, 360, height)
	assert.Equal(t, 2.0, w.PixelRatio())
	w.OnResize(func() { t.Fatal("fixed windows never resize") })()
}
