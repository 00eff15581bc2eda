package config_test

import (
	"image/color"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"LocalSketch/internal/config"
	"LocalSketch/internal/session"
	"github.com/adrg/xdg"
	"github.com/stretchr/testify/require"
)

func isolate(t *testing.T) string {
	t.Helper()

	home := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, "config"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(home, "state"))
	xdg.Reload()
	t.Cleanup(xdg.Reload)

	return home
}

func TestDefaults(t *testing.T) {
	isolate(t)

	cfg, err := config.NewLoader(nil, t.TempDir()).Read()
	require.NoError(t, err)

	w, h := cfg.SurfaceSize()
	require.Equal(t, 1004, w)
	require.Equal(t, 708, h)
	require.Equal(t, color.NRGBA{R: 255, G: 255, B: 255, A: 255}, cfg.BackgroundColor())
	require.Equal(t, color.NRGBA{A: 255}, cfg.InkColor())
	require.InDelta(t, 5.0, cfg.LineWidth, 0)
	require.Equal(t, session.StyleStroke, cfg.Mode())
	require.False(t, cfg.KeepRedoOnDraw)
	require.Equal(t, 8888, cfg.SharePort)
}

func TestReadFile(t *testing.T) {
	isolate(t)

	dir := t.TempDir()
	body := []byte("background: \"#202020\"\nstyle_mode: live\nkeep_redo_on_draw: true\nopacity: 0.5\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "localsketch.yaml"), body, 0o600))

	loader := config.NewLoader(nil, dir)
	cfg, err := loader.Read()
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "localsketch.yaml"), loader.Path())
	require.Equal(t, color.NRGBA{R: 0x20, G: 0x20, B: 0x20, A: 255}, cfg.BackgroundColor())
	require.Equal(t, session.StyleLive, cfg.Mode())
	require.True(t, cfg.KeepRedoOnDraw)
	require.InDelta(t, 0.5, cfg.Opacity, 0)
}

func TestEnvOverride(t *testing.T) {
	isolate(t)
	t.Setenv("LOCALSKETCH_LINE_WIDTH", "9")

	cfg, err := config.NewLoader(nil, t.TempDir()).Read()
	require.NoError(t, err)
	require.InDelta(t, 9.0, cfg.LineWidth, 0)
}

func TestValidate(t *testing.T) {
	isolate(t)

	cfg, err := config.NewLoader(nil, t.TempDir()).Read()
	require.NoError(t, err)

	bad := cfg
	bad.Background = "white"
	require.Error(t, bad.Validate())

	bad = cfg
	bad.StyleMode = "sometimes"
	require.Error(t, bad.Validate())

	bad = cfg
	bad.MarginY = bad.WindowHeight
	require.Error(t, bad.Validate())

	bad = cfg
	bad.Opacity = 1.5
	require.Error(t, bad.Validate())
}

func TestParseColor(t *testing.T) {
	col, err := config.ParseColor("#f00")
	require.NoError(t, err)
	require.Equal(t, color.NRGBA{R: 255, A: 255}, col)

	col, err = config.ParseColor("00ff0080")
	require.NoError(t, err)
	require.Equal(t, color.NRGBA{G: 255, A: 0x80}, col)

	_, err = config.ParseColor("#ggg")
	require.Error(t, err)
}

func TestLoggerInitFile(t *testing.T) {
	home := isolate(t)
	previous := slog.Default()
	t.Cleanup(func() { slog.SetDefault(previous) })

	closer, err := config.LoggerInit("test.log", slog.LevelDebug)
	require.NoError(t, err)
	slog.Debug("hello")
	require.NoError(t, closer.Close())

	data, errRead := os.ReadFile(filepath.Join(home, "state", "localsketch", "test.log"))
	require.NoError(t, errRead)
	require.Contains(t, string(data), "hello")
}
