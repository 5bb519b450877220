// Package config loads editor settings from draftboard.yaml, DRAFTBOARD_*
// environment variables and command-line flags, in viper's usual order of
// precedence.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"DraftBoard/internal/board"
	"DraftBoard/internal/state"
)

const (
	configFileName = "draftboard"
	configFileType = "yaml"
	envPrefix      = "DRAFTBOARD"

	KeyGridSize     = "grid_size"
	KeySnapToGrid   = "snap_to_grid"
	KeyShowGrid     = "show_grid"
	KeyOrthoMode    = "ortho_mode"
	KeyStrokeColor  = "stroke_color"
	KeyFillColor    = "fill_color"
	KeyRotationStep = "rotation_step"
	KeyLogLevel     = "log_level"
	KeyShareEnabled = "share.enabled"
	KeySharePort    = "share.port"
	KeyCanvasWidth  = "canvas.width"
	KeyCanvasHeight = "canvas.height"
)

// Validation errors.
var (
	ErrRotationStep = errors.New("rotation step must not be zero")
	ErrLogLevel     = errors.New("unknown log level")
	ErrPort         = errors.New("share port out of range")
	ErrCanvasSize   = errors.New("canvas size must be positive")
	ErrColor        = errors.New("color must be #rrggbb")
)

// Config is the full editor configuration.
type Config struct {
	GridSize     float64 `mapstructure:"grid_size"`
	SnapToGrid   bool    `mapstructure:"snap_to_grid"`
	ShowGrid     bool    `mapstructure:"show_grid"`
	OrthoMode    bool    `mapstructure:"ortho_mode"`
	StrokeColor  string  `mapstructure:"stroke_color"`
	FillColor    string  `mapstructure:"fill_color"`
	RotationStep float64 `mapstructure:"rotation_step"`
	LogLevel     string  `mapstructure:"log_level"`
	Share        Share   `mapstructure:"share"`
	Canvas       Canvas  `mapstructure:"canvas"`
}

// Share controls publishing the live scene to viewers on the LAN.
type Share struct {
	Enabled bool `mapstructure:"enabled"`
	Port    int  `mapstructure:"port"`
}

// Canvas is the initial drawing area in canvas units.
type Canvas struct {
	Width  float64 `mapstructure:"width"`
	Height float64 `mapstructure:"height"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(KeyGridSize, 20.0)
	v.SetDefault(KeySnapToGrid, true)
	v.SetDefault(KeyShowGrid, true)
	v.SetDefault(KeyOrthoMode, false)
	v.SetDefault(KeyStrokeColor, string(state.Black))
	v.SetDefault(KeyFillColor, "")
	v.SetDefault(KeyRotationStep, 15.0)
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyShareEnabled, false)
	v.SetDefault(KeySharePort, 8888)
	v.SetDefault(KeyCanvasWidth, 800.0)
	v.SetDefault(KeyCanvasHeight, 600.0)
}

// flagKeys maps command-line flag names to config keys.
var flagKeys = map[string]string{
	"grid-size":     KeyGridSize,
	"snap":          KeySnapToGrid,
	"grid":          KeyShowGrid,
	"ortho":         KeyOrthoMode,
	"color":         KeyStrokeColor,
	"fill":          KeyFillColor,
	"rotation-step": KeyRotationStep,
	"log-level":     KeyLogLevel,
	"share":         KeyShareEnabled,
	"port":          KeySharePort,
}

// Load reads the configuration. file may name an explicit config file;
// otherwise draftboard.yaml is looked up in the working directory and in the
// user config directory. A missing file is not an error. flags may be nil.
func Load(file string, flags *pflag.FlagSet) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return Config{}, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName(configFileName)
		v.SetConfigType(configFileType)
		v.AddConfigPath(".")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, "draftboard"))
		}
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the configuration and returns a sentinel error on the first
// problem found.
func (c Config) Validate() error {
	if c.GridSize <= 0 {
		return state.ErrInvalidGrid
	}
	if c.RotationStep == 0 {
		return ErrRotationStep
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	if c.Share.Port <= 0 || c.Share.Port > 65535 {
		return ErrPort
	}
	if c.Canvas.Width <= 0 || c.Canvas.Height <= 0 {
		return ErrCanvasSize
	}
	if !validColor(c.StrokeColor) {
		return fmt.Errorf("stroke_color %q: %w", c.StrokeColor, ErrColor)
	}
	if c.FillColor != "" && !validColor(c.FillColor) {
		return fmt.Errorf("fill_color %q: %w", c.FillColor, ErrColor)
	}
	return nil
}

func validColor(s string) bool {
	if len(s) != 7 || s[0] != '#' {
		return false
	}
	for _, r := range strings.ToLower(s[1:]) {
		if !strings.ContainsRune("0123456789abcdef", r) {
			return false
		}
	}
	return true
}

// Options turns the configuration into document options.
func (c Config) Options() board.Options {
	opts := board.Options{
		GridSize:     c.GridSize,
		ShowGrid:     c.ShowGrid,
		SnapToGrid:   c.SnapToGrid,
		OrthoMode:    c.OrthoMode,
		Stroke:       state.Color(strings.ToLower(c.StrokeColor)),
		RotationStep: c.RotationStep,
		Width:        c.Canvas.Width,
		Height:       c.Canvas.Height,
	}
	if c.FillColor != "" {
		fill := state.Color(strings.ToLower(c.FillColor))
		opts.Fill = &fill
	}
	return opts
}

// ParseLevel maps debug, info, warn and error to slog levels.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("%q: %w", s, ErrLogLevel)
}

// NewLogger builds the process logger at the configured level.
func (c Config) NewLogger() *slog.Logger {
	level, err := ParseLevel(c.LogLevel)
	if err != nil {
		level = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
