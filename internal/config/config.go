// Package config loads mudra's settings from defaults, an optional config
// file and MUDRA_ environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/mode"
	"github.com/spf13/viper"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

// Values for detector.thumb. ThumbAuto follows capture.mirror.
const (
	ThumbAuto  = "auto"
	ThumbRight = "right"
	ThumbLeft  = "left"
)

// Backend names for action.backend.
const (
	BackendSystem = "system"
	BackendLog    = "log"
	BackendPlugin = "plugin"
)

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type CaptureConfig struct {
	Device          int  `mapstructure:"device"`
	Width           int  `mapstructure:"width"`
	Height          int  `mapstructure:"height"`
	Mirror          bool `mapstructure:"mirror"`
	MaxReadFailures int  `mapstructure:"maxReadFailures"`
}

type DetectorConfig struct {
	MaxHands        int     `mapstructure:"maxHands"`
	MinConfidence   float64 `mapstructure:"minConfidence"`
	MinTrackingConf float64 `mapstructure:"minTrackingConf"`
	Thumb           string  `mapstructure:"thumb"`
}

type CursorConfig struct {
	Margin        float64       `mapstructure:"margin"`
	Smoothing     float64       `mapstructure:"smoothing"`
	ClickDistance float64       `mapstructure:"clickDistance"`
	ClickPolicy   string        `mapstructure:"clickPolicy"`
	ClickCooldown time.Duration `mapstructure:"clickCooldown"`
	ScreenWidth   int           `mapstructure:"screenWidth"`
	ScreenHeight  int           `mapstructure:"screenHeight"`
}

type ArrowsConfig struct {
	Cooldown     time.Duration `mapstructure:"cooldown"`
	LabelDisplay time.Duration `mapstructure:"labelDisplay"`
}

type VolumeConfig struct {
	Margin   float64 `mapstructure:"margin"`
	PinchMin float64 `mapstructure:"pinchMin"`
	PinchMax float64 `mapstructure:"pinchMax"`
	Min      float64 `mapstructure:"min"`
	Max      float64 `mapstructure:"max"`
}

type ActionConfig struct {
	Backend       string        `mapstructure:"backend"`
	Plugin        string        `mapstructure:"plugin"`
	PluginDir     string        `mapstructure:"pluginDir"`
	PluginTimeout time.Duration `mapstructure:"pluginTimeout"`
}

type JournalConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
	Moves   bool   `mapstructure:"moves"`
}

type ServerConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Addr    string `mapstructure:"addr"`
}

// Config is the full application configuration.
type Config struct {
	Log      LogConfig      `mapstructure:"log"`
	Capture  CaptureConfig  `mapstructure:"capture"`
	Detector DetectorConfig `mapstructure:"detector"`
	Cursor   CursorConfig   `mapstructure:"cursor"`
	Arrows   ArrowsConfig   `mapstructure:"arrows"`
	Volume   VolumeConfig   `mapstructure:"volume"`
	Action   ActionConfig   `mapstructure:"action"`
	Journal  JournalConfig  `mapstructure:"journal"`
	Server   ServerConfig   `mapstructure:"server"`

	// File is the config file that was read, if any.
	File string `mapstructure:"-"`
}

func setDefaults(v *viper.Viper, home string) {
	v.SetDefault("log.level", "info")

	v.SetDefault("capture.device", 0)
	v.SetDefault("capture.width", 640)
	v.SetDefault("capture.height", 480)
	v.SetDefault("capture.mirror", true)
	v.SetDefault("capture.maxReadFailures", 1)

	v.SetDefault("detector.maxHands", 1)
	v.SetDefault("detector.minConfidence", 0.5)
	v.SetDefault("detector.minTrackingConf", 0.5)
	v.SetDefault("detector.thumb", ThumbAuto)

	v.SetDefault("cursor.margin", 50)
	v.SetDefault("cursor.smoothing", 4)
	v.SetDefault("cursor.clickDistance", 40)
	v.SetDefault("cursor.clickPolicy", string(mode.ClickContinuous))
	v.SetDefault("cursor.clickCooldown", "300ms")
	v.SetDefault("cursor.screenWidth", 0)
	v.SetDefault("cursor.screenHeight", 0)

	v.SetDefault("arrows.cooldown", "300ms")
	v.SetDefault("arrows.labelDisplay", "700ms")

	v.SetDefault("volume.margin", 100)
	v.SetDefault("volume.pinchMin", 15)
	v.SetDefault("volume.pinchMax", 220)
	v.SetDefault("volume.min", 0)
	v.SetDefault("volume.max", 100)

	v.SetDefault("action.backend", BackendSystem)
	v.SetDefault("action.plugin", "")
	v.SetDefault("action.pluginDir", filepath.Join(home, ".mudra", "plugins"))
	v.SetDefault("action.pluginTimeout", "2s")

	v.SetDefault("journal.enabled", true)
	v.SetDefault("journal.path", filepath.Join(home, ".mudra", "mudra.db"))
	v.SetDefault("journal.moves", false)

	v.SetDefault("server.enabled", false)
	v.SetDefault("server.addr", "127.0.0.1:8080")
}

// Load builds a Config. An explicit path must exist; otherwise mudra.yaml,
// mudra.json or mudra.toml is looked up in ~/.mudra and the working
// directory, and a missing file is not an error.
func Load(path string) (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}

	v := viper.New()
	setDefaults(v, home)

	v.SetEnvPrefix("MUDRA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("mudra")
		v.AddConfigPath(filepath.Join(home, ".mudra"))
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.File = v.ConfigFileUsed()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the configuration with no file or environment applied.
func Default() *Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	v := viper.New()
	setDefaults(v, home)

	var cfg Config
	// Defaults always decode.
	_ = v.Unmarshal(&cfg)
	return &cfg
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, args...))
}

// Validate checks values the state machines cannot work with.
func (c *Config) Validate() error {
	if c.Capture.Width <= 0 || c.Capture.Height <= 0 {
		return invalid("capture resolution %dx%d", c.Capture.Width, c.Capture.Height)
	}
	if c.Capture.MaxReadFailures < 1 {
		return invalid("capture.maxReadFailures must be at least 1")
	}
	if c.Detector.MaxHands < 1 {
		return invalid("detector.maxHands must be at least 1")
	}

	switch c.Detector.Thumb {
	case ThumbAuto, ThumbRight, ThumbLeft:
	default:
		return invalid("detector.thumb must be auto, right or left, got %q", c.Detector.Thumb)
	}

	w, h := float64(c.Capture.Width), float64(c.Capture.Height)
	if c.Cursor.Margin < 0 || gesture.Inset(w, h, c.Cursor.Margin).Empty() {
		return invalid("cursor.margin %.0f leaves no active region in %dx%d", c.Cursor.Margin, c.Capture.Width, c.Capture.Height)
	}
	if c.Volume.Margin < 0 || gesture.Inset(w, h, c.Volume.Margin).Empty() {
		return invalid("volume.margin %.0f leaves no active region in %dx%d", c.Volume.Margin, c.Capture.Width, c.Capture.Height)
	}
	if c.Cursor.Smoothing < 1 {
		return invalid("cursor.smoothing must be at least 1, got %v", c.Cursor.Smoothing)
	}
	if c.Cursor.ClickDistance <= 0 {
		return invalid("cursor.clickDistance must be positive")
	}
	if _, err := mode.ParseClickPolicy(c.Cursor.ClickPolicy); err != nil {
		return invalid("cursor.clickPolicy: %v", err)
	}
	if c.Cursor.ScreenWidth < 0 || c.Cursor.ScreenHeight < 0 {
		return invalid("cursor screen size must not be negative")
	}
	if c.Arrows.Cooldown < 0 || c.Cursor.ClickCooldown < 0 {
		return invalid("cooldowns must not be negative")
	}
	if c.Volume.PinchMin >= c.Volume.PinchMax {
		return invalid("volume.pinchMin %v must be below volume.pinchMax %v", c.Volume.PinchMin, c.Volume.PinchMax)
	}
	if c.Volume.Min >= c.Volume.Max {
		return invalid("volume.min %v must be below volume.max %v", c.Volume.Min, c.Volume.Max)
	}

	switch c.Action.Backend {
	case BackendSystem:
		// The system mixer takes a percentage.
		if c.Volume.Min < 0 || c.Volume.Max > 100 {
			return invalid("volume range %v..%v must lie within 0..100 for the system backend", c.Volume.Min, c.Volume.Max)
		}
	case BackendLog:
	case BackendPlugin:
		if c.Action.Plugin == "" {
			return invalid("action.plugin is required for the plugin backend")
		}
	default:
		return invalid("unknown action.backend %q", c.Action.Backend)
	}
	return nil
}

// ThumbRule returns how the thumb is read. In auto mode a mirrored frame
// shows a right hand as it appears to the user, so the extended thumb tip
// lies right of its IP joint; without mirroring it lies left.
func (c *Config) ThumbRule() detector.ThumbRule {
	switch c.Detector.Thumb {
	case ThumbRight:
		return detector.ThumbTipRight
	case ThumbLeft:
		return detector.ThumbTipLeft
	}
	if c.Capture.Mirror {
		return detector.ThumbTipRight
	}
	return detector.ThumbTipLeft
}

// CursorMachine returns the cursor machine settings for a screen size.
func (c *Config) CursorMachine(screenWidth, screenHeight int) mode.CursorConfig {
	return mode.CursorConfig{
		FrameWidth:    c.Capture.Width,
		FrameHeight:   c.Capture.Height,
		ScreenWidth:   screenWidth,
		ScreenHeight:  screenHeight,
		Margin:        c.Cursor.Margin,
		Smoothing:     c.Cursor.Smoothing,
		ClickDistance: c.Cursor.ClickDistance,
		ClickPolicy:   mode.ClickPolicy(c.Cursor.ClickPolicy),
		ClickCooldown: c.Cursor.ClickCooldown,
	}
}

func (c *Config) ArrowMachine() mode.ArrowConfig {
	return mode.ArrowConfig{
		FrameWidth:   c.Capture.Width,
		FrameHeight:  c.Capture.Height,
		Cooldown:     c.Arrows.Cooldown,
		LabelDisplay: c.Arrows.LabelDisplay,
	}
}

func (c *Config) VolumeMachine() mode.VolumeConfig {
	return mode.VolumeConfig{
		FrameWidth:  c.Capture.Width,
		FrameHeight: c.Capture.Height,
		Margin:      c.Volume.Margin,
		PinchMin:    c.Volume.PinchMin,
		PinchMax:    c.Volume.PinchMax,
		Min:         c.Volume.Min,
		Max:         c.Volume.Max,
	}
}
