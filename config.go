package main

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/colorprofile"
	"github.com/cursork/pixelperfect/navigator"
	"github.com/spf13/viper"
)

//go:embed pixelperfect.default.toml
var defaultConfigTOML []byte

// Config holds all pixelperfect configuration
type Config struct {
	Session SessionConfig `mapstructure:"session"`
	Timing  TimingConfig  `mapstructure:"timing"`
	Display DisplayConfig `mapstructure:"display"`
	Catalog CatalogConfig `mapstructure:"catalog"`
	Log     LogConfig     `mapstructure:"log"`
	Keys    KeyMapConfig  `mapstructure:"keys"`
}

type SessionConfig struct {
	Fullscreen bool   `mapstructure:"fullscreen"`
	Start      string `mapstructure:"start"`
}

type TimingConfig struct {
	ControlsHide time.Duration `mapstructure:"controls_hide"`
	InfoHide     time.Duration `mapstructure:"info_hide"`
}

type DisplayConfig struct {
	Profile   string `mapstructure:"profile"`
	HalfBlock bool   `mapstructure:"half_block"`
}

type CatalogConfig struct {
	File     string   `mapstructure:"file"`
	Mode     string   `mapstructure:"mode"`
	Sequence []string `mapstructure:"sequence"`
}

type LogConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// KeyMapConfig defines key bindings in config file format
type KeyMapConfig struct {
	Next    []string `mapstructure:"next"`
	Prev    []string `mapstructure:"prev"`
	Exit    []string `mapstructure:"exit"`
	Info    []string `mapstructure:"info"`
	Start   []string `mapstructure:"start"`
	Picker  []string `mapstructure:"picker"`
	Debug   []string `mapstructure:"debug"`
	Help    []string `mapstructure:"help"`
	Quit    []string `mapstructure:"quit"`
	Suspend []string `mapstructure:"suspend"`
}

const envPrefix = "PIXELPERFECT"

var ErrInvalidConfig = errors.New("invalid config")

// LoadConfig layers the first config file found over the embedded defaults,
// then environment overrides. explicit, when set, must exist. It returns
// the file used ("" when only defaults apply).
func LoadConfig(explicit string) (Config, string, error) {
	v := viper.New()
	v.SetConfigType("toml")
	if err := v.ReadConfig(bytes.NewReader(defaultConfigTOML)); err != nil {
		panic("embedded default config is invalid: " + err.Error())
	}

	path, err := findConfigFile(explicit)
	if err != nil {
		return Config{}, "", err
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.MergeInConfig(); err != nil {
			return Config{}, "", fmt.Errorf("reading %s: %w", path, err)
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, "", fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, "", err
	}
	return cfg, path, nil
}

func findConfigFile(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("config file: %w", err)
		}
		return explicit, nil
	}

	paths := []string{
		os.Getenv(envPrefix + "_CONFIG"),
		"pixelperfect.toml",
	}
	if dir, err := os.UserConfigDir(); err == nil {
		paths = append(paths, filepath.Join(dir, "pixelperfect", "config.toml"))
	}
	for _, path := range paths {
		if path == "" {
			continue
		}
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", nil
}

// Validate checks values the decoder cannot.
func (c *Config) Validate() error {
	if c.Timing.ControlsHide <= 0 {
		return fmt.Errorf("%w: timing.controls_hide must be positive, got %s", ErrInvalidConfig, c.Timing.ControlsHide)
	}
	if c.Timing.InfoHide <= 0 {
		return fmt.Errorf("%w: timing.info_hide must be positive, got %s", ErrInvalidConfig, c.Timing.InfoHide)
	}
	if _, err := c.LogLevel(); err != nil {
		return err
	}
	if _, _, err := c.ColorProfile(); err != nil {
		return err
	}
	switch c.Catalog.Mode {
	case "append", "replace":
	default:
		return fmt.Errorf("%w: catalog.mode must be append or replace, got %q", ErrInvalidConfig, c.Catalog.Mode)
	}
	if c.Catalog.Mode == "replace" && c.Catalog.File == "" {
		return fmt.Errorf("%w: catalog.mode replace needs catalog.file", ErrInvalidConfig)
	}
	return nil
}

// LogLevel parses log.level.
func (c *Config) LogLevel() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return 0, fmt.Errorf("%w: log.level: %v", ErrInvalidConfig, err)
	}
	return lvl, nil
}

// ColorProfile parses display.profile. ok is false for "auto", meaning the
// profile should be detected from the terminal.
func (c *Config) ColorProfile() (p colorprofile.Profile, ok bool, err error) {
	switch strings.ToLower(c.Display.Profile) {
	case "", "auto":
		return colorprofile.TrueColor, false, nil
	case "truecolor":
		return colorprofile.TrueColor, true, nil
	case "ansi256", "256":
		return colorprofile.ANSI256, true, nil
	case "ansi", "16":
		return colorprofile.ANSI, true, nil
	case "ascii", "none":
		return colorprofile.Ascii, true, nil
	}
	return 0, false, fmt.Errorf("%w: display.profile %q", ErrInvalidConfig, c.Display.Profile)
}

// NavigatorConfig returns the hide delays.
func (c *Config) NavigatorConfig() navigator.Config {
	return navigator.Config{
		ControlsHideDelay: c.Timing.ControlsHide,
		InfoHideDelay:     c.Timing.InfoHide,
	}
}

// ToKeyMap converts config to KeyMap
func (c *Config) ToKeyMap() KeyMap {
	return KeyMap{
		Next:    binding(c.Keys.Next, "next"),
		Prev:    binding(c.Keys.Prev, "prev"),
		Exit:    binding(c.Keys.Exit, "exit"),
		Info:    binding(c.Keys.Info, "info"),
		Start:   binding(c.Keys.Start, "start test"),
		Picker:  binding(c.Keys.Picker, "pick pattern"),
		Debug:   binding(c.Keys.Debug, "debug"),
		Help:    binding(c.Keys.Help, "help"),
		Quit:    binding(c.Keys.Quit, "quit"),
		Suspend: binding(c.Keys.Suspend, "suspend"),
	}
}

// binding creates a key binding, returning disabled binding if keys is empty
func binding(keys []string, help string) key.Binding {
	if len(keys) == 0 {
		return key.NewBinding(key.WithDisabled())
	}
	return key.NewBinding(
		key.WithKeys(keys...),
		key.WithHelp(keyLabel(keys[0]), help),
	)
}

var keyLabels = map[string]string{
	" ":      "space",
	"right":  "→",
	"left":   "←",
	"up":     "↑",
	"down":   "↓",
	"ctrl+c": "C-c",
	"ctrl+z": "C-z",
	"f12":    "F12",
}

func keyLabel(k string) string {
	if l, ok := keyLabels[k]; ok {
		return l
	}
	return k
}
