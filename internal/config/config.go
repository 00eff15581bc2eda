package config

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"log/slog"
	"os"
	"path"
	"strings"

	"LocalSketch/internal/session"
	"LocalSketch/internal/state"
	"github.com/adrg/xdg"
	"github.com/gogpu/gg"
)

var (
	errConfigRead    = errors.New("failed to read config file")
	errConfigInvalid = errors.New("invalid config")
	errLoggerInit    = errors.New("failed to initialize logger")
)

const (
	ConfigDirName     = "localsketch"
	DefaultConfigName = "localsketch"
	EnvPrefix         = "localsketch"
)

type Config struct {
	WindowWidth  int `mapstructure:"window_width"`
	WindowHeight int `mapstructure:"window_height"`
	// MarginX and MarginY are subtracted from the window size to get the
	// drawing surface size.
	MarginX int `mapstructure:"margin_x"`
	MarginY int `mapstructure:"margin_y"`

	Background string  `mapstructure:"background"`
	LineWidth  float64 `mapstructure:"line_width"`
	Color      string  `mapstructure:"color"`
	Opacity    float64 `mapstructure:"opacity"`
	// StyleMode is "stroke" to keep the style each stroke was drawn with, or
	// "live" to repaint everything with the current toolbar settings.
	StyleMode      string `mapstructure:"style_mode"`
	KeepRedoOnDraw bool   `mapstructure:"keep_redo_on_draw"`
	HistoryLimit   int    `mapstructure:"history_limit"`

	SharePort      int    `mapstructure:"share_port"`
	ShareHost      string `mapstructure:"share_host"`
	ShareAdvertise bool   `mapstructure:"share_advertise"`

	LogLevel string `mapstructure:"log_level"`
	LogFile  string `mapstructure:"log_file"`
}

// SurfaceSize is the drawing surface size in pixels.
func (c Config) SurfaceSize() (int, int) {
	return c.WindowWidth - c.MarginX, c.WindowHeight - c.MarginY
}

func (c Config) BackgroundColor() color.NRGBA {
	col, _ := ParseColor(c.Background)

	return col
}

func (c Config) InkColor() color.NRGBA {
	col, _ := ParseColor(c.Color)

	return col
}

func (c Config) Mode() session.StyleMode {
	return session.StyleMode(c.StyleMode)
}

func (c Config) HistoryOptions() []state.Option {
	return []state.Option{
		state.WithLimit(c.HistoryLimit),
		state.WithKeepRedo(c.KeepRedoOnDraw),
	}
}

// Validate checks values that would otherwise fail far away from the config.
func (c Config) Validate() error {
	var errs []error

	if w, h := c.SurfaceSize(); w <= 0 || h <= 0 {
		errs = append(errs, fmt.Errorf("surface size %dx%d must be positive", w, h))
	}
	if _, err := ParseColor(c.Background); err != nil {
		errs = append(errs, fmt.Errorf("background: %w", err))
	}
	if _, err := ParseColor(c.Color); err != nil {
		errs = append(errs, fmt.Errorf("color: %w", err))
	}
	if c.LineWidth <= 0 {
		errs = append(errs, fmt.Errorf("line_width %v must be positive", c.LineWidth))
	}
	if c.Opacity < 0 || c.Opacity > 1 {
		errs = append(errs, fmt.Errorf("opacity %v must be within [0,1]", c.Opacity))
	}
	if !c.Mode().Valid() {
		errs = append(errs, fmt.Errorf("unknown style_mode %q", c.StyleMode))
	}
	if c.HistoryLimit < 0 {
		errs = append(errs, fmt.Errorf("history_limit %d must not be negative", c.HistoryLimit))
	}
	if c.SharePort < 0 || c.SharePort > 65535 {
		errs = append(errs, fmt.Errorf("share_port %d out of range", c.SharePort))
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return errors.Join(append(errs, errConfigInvalid)...)
	}

	return nil
}

// ParseColor accepts #RGB, #RRGGBB and #RRGGBBAA hex colors.
func ParseColor(value string) (color.NRGBA, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(value), "#")
	switch len(hex) {
	case 3, 6, 8:
	default:
		return color.NRGBA{}, fmt.Errorf("bad color %q", value)
	}

	for _, r := range strings.ToLower(hex) {
		if (r < '0' || r > '9') && (r < 'a' || r > 'f') {
			return color.NRGBA{}, fmt.Errorf("bad color %q", value)
		}
	}

	col, ok := gg.Hex(hex).Color().(color.NRGBA)
	if !ok {
		return color.NRGBA{}, fmt.Errorf("bad color %q", value)
	}

	return col, nil
}

func ParseLevel(value string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(value)); err != nil {
		return 0, fmt.Errorf("unknown log_level %q", value)
	}

	return level, nil
}

// Path generates a path pointing to the filename under this apps defined $XDG_CONFIG_HOME.
func Path(name string) string {
	fullPath, errFullPath := xdg.ConfigFile(path.Join(ConfigDirName, name))
	if errFullPath != nil {
		panic(errFullPath)
	}

	return fullPath
}

// LoggerInit sets up the slog default handler. An empty logPath logs to
// stderr, anything else is created under $XDG_STATE_HOME.
func LoggerInit(logPath string, level slog.Level) (io.Closer, error) {
	var (
		out    io.Writer = os.Stderr
		closer io.Closer = io.NopCloser(os.Stderr)
	)

	if logPath != "" {
		fullPath, errPath := xdg.StateFile(path.Join(ConfigDirName, logPath))
		if errPath != nil {
			return nil, errors.Join(errPath, errLoggerInit)
		}

		logFile, errLogFile := os.Create(fullPath)
		if errLogFile != nil {
			return nil, errors.Join(errLogFile, errLoggerInit)
		}
		out, closer = logFile, logFile
	}

	logger := slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{
		AddSource: false,
		Level:     level,
	}))

	slog.SetDefault(logger)

	return closer, nil
}
