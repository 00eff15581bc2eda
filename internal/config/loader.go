package config

import (
	"errors"
	"log/slog"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// Loader handles setting up viper, loading configuration from files, and broadcasting configuration changes.
type Loader struct {
	*viper.Viper
	changes chan<- Config
}

// NewLoader creates a loader searching the XDG config dir, the working
// directory and any extra paths. A nil changes channel disables reloads.
func NewLoader(changes chan<- Config, paths ...string) *Loader {
	loader := Loader{changes: changes, Viper: viper.New()}
	loader.SetDefault("window_width", 1024)
	loader.SetDefault("window_height", 768)
	loader.SetDefault("margin_x", 20)
	loader.SetDefault("margin_y", 60)
	loader.SetDefault("background", "#ffffff")
	loader.SetDefault("line_width", 5)
	loader.SetDefault("color", "#000000")
	loader.SetDefault("opacity", 1.0)
	loader.SetDefault("style_mode", "stroke")
	loader.SetDefault("keep_redo_on_draw", false)
	loader.SetDefault("history_limit", 0)
	loader.SetDefault("share_port", 8888)
	loader.SetDefault("share_host", "")
	loader.SetDefault("share_advertise", true)
	loader.SetDefault("log_level", "info")
	loader.SetDefault("log_file", "")
	loader.SetConfigName(DefaultConfigName)
	loader.SetConfigType("yaml")
	loader.SetEnvPrefix(EnvPrefix)
	for _, p := range paths {
		loader.AddConfigPath(p)
	}
	loader.AddConfigPath(Path(""))
	loader.AddConfigPath(".")
	loader.AutomaticEnv()

	return &loader
}

func (cl *Loader) Path() string {
	return cl.ConfigFileUsed()
}

// Read loads the config file when one exists and falls back to defaults
// otherwise.
func (cl *Loader) Read() (Config, error) {
	if err := cl.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, errors.Join(err, errConfigRead)
		}
	}

	var config Config
	if err := cl.Unmarshal(&config); err != nil {
		return Config{}, errors.Join(err, errConfigRead)
	}

	if err := config.Validate(); err != nil {
		return Config{}, err
	}

	return config, nil
}

// Watch starts broadcasting config file changes. It does nothing when no
// config file was loaded.
func (cl *Loader) Watch() {
	if cl.changes == nil || cl.ConfigFileUsed() == "" {
		return
	}

	cl.OnConfigChange(cl.onConfigChange)
	cl.WatchConfig()
}

func (cl *Loader) onConfigChange(in fsnotify.Event) {
	if !in.Has(fsnotify.Write) && !in.Has(fsnotify.Rename) && !in.Has(fsnotify.Create) {
		return
	}

	slog.Debug("External config reload triggered", slog.String("file", in.Name))
	config, err := cl.Read()
	if err != nil {
		slog.Error("Error reading config", slog.String("error", err.Error()))

		return
	}

	cl.changes <- config
}
