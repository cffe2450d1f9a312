// Package config holds the viewer options and loads them from TOML.
package config

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
)

// Alpha background modes.
const (
	AlphaCheckerboard = "checkerboard"
	AlphaColor        = "color"
)

// Scale qualities used when zooming out.
const (
	QualityBeautiful = "beautiful"
	QualityFast      = "fast"
)

// Config holds every tunable of the viewer.
type Config struct {
	// Colours are "#rrggbb" or "#rrggbbaa".
	Background      string `toml:"background"`
	AlphaBackground string `toml:"alpha_background"`
	AlphaColor      string `toml:"alpha_color"`

	MaximumZoom float64 `toml:"maximum_zoom"`
	// Zoom levels at or above this value use nearest-neighbour scaling.
	SmoothBelow  float64 `toml:"smooth_below"`
	ChunkSize    int     `toml:"chunk_size"`
	Workers      int     `toml:"workers"`
	ScaleQuality string  `toml:"scale_quality"`

	StartZoomToFit bool `toml:"start_zoom_to_fit"`
	ScrollStep     int  `toml:"scroll_step"`

	LogLevel string `toml:"log_level"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() Config {
	return Config{
		Background:      "#303030",
		AlphaBackground: AlphaCheckerboard,
		AlphaColor:      "#000000",
		MaximumZoom:     16,
		SmoothBelow:     2,
		ChunkSize:       200,
		Workers:         runtime.NumCPU(),
		ScaleQuality:    QualityBeautiful,
		StartZoomToFit:  true,
		ScrollStep:      16,
		LogLevel:        "info",
	}
}

// GetConfigPath returns ./imgview.toml when it exists, otherwise
// ~/.config/imgview/config.toml.
func GetConfigPath() string {
	if _, err := os.Stat("./imgview.toml"); err == nil {
		return "./imgview.toml"
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "./imgview.toml"
	}
	return filepath.Join(home, ".config", "imgview", "config.toml")
}

// LoadConfig reads path on top of the defaults. A missing file is not an error.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return DefaultConfig(), errors.Wrap(err, "config: failed to read config file")
	}

	cfg := DefaultConfig()
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), errors.Wrap(err, "config: failed to parse config file")
	}
	if err := cfg.Validate(); err != nil {
		return DefaultConfig(), err
	}
	return cfg, nil
}

// SaveConfig writes cfg to path, creating the directory if needed.
func SaveConfig(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrap(err, "config: failed to create config directory")
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "config: failed to create config file")
	}
	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		f.Close()
		return errors.Wrap(err, "config: failed to write config")
	}
	return errors.Wrap(f.Close(), "config: failed to close config file")
}

// Validate reports the first invalid field.
func (c Config) Validate() error {
	if _, err := ParseColor(c.Background); err != nil {
		return errors.Wrap(err, "config: background")
	}
	if _, err := ParseColor(c.AlphaColor); err != nil {
		return errors.Wrap(err, "config: alpha_color")
	}
	switch c.AlphaBackground {
	case AlphaCheckerboard, AlphaColor:
	default:
		return errors.Errorf("config: unknown alpha_background %q", c.AlphaBackground)
	}
	switch c.ScaleQuality {
	case QualityBeautiful, QualityFast:
	default:
		return errors.Errorf("config: unknown scale_quality %q", c.ScaleQuality)
	}
	if c.MaximumZoom < 1 {
		return errors.Errorf("config: maximum_zoom must be >= 1, got %v", c.MaximumZoom)
	}
	if c.SmoothBelow <= 0 {
		return errors.Errorf("config: smooth_below must be > 0, got %v", c.SmoothBelow)
	}
	if c.ChunkSize < 16 {
		return errors.Errorf("config: chunk_size must be >= 16, got %d", c.ChunkSize)
	}
	if c.Workers < 1 {
		return errors.Errorf("config: workers must be >= 1, got %d", c.Workers)
	}
	if c.ScrollStep < 1 {
		return errors.Errorf("config: scroll_step must be >= 1, got %d", c.ScrollStep)
	}
	return nil
}

// BackgroundColor returns the parsed background colour.
func (c Config) BackgroundColor() color.NRGBA {
	col, _ := ParseColor(c.Background)
	return col
}

// AlphaBackgroundColor returns the parsed colour used behind translucent pixels.
func (c Config) AlphaBackgroundColor() color.NRGBA {
	col, _ := ParseColor(c.AlphaColor)
	return col
}

// ParseColor parses "#rrggbb" or "#rrggbbaa".
func ParseColor(s string) (color.NRGBA, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	var r, g, b, a uint8
	a = 0xff
	var err error
	switch len(s) {
	case 6:
		_, err = fmt.Sscanf(s, "%02x%02x%02x", &r, &g, &b)
	case 8:
		_, err = fmt.Sscanf(s, "%02x%02x%02x%02x", &r, &g, &b, &a)
	default:
		return color.NRGBA{}, errors.Errorf("invalid colour %q", "#"+s)
	}
	if err != nil {
		return color.NRGBA{}, errors.Wrapf(err, "invalid colour %q", "#"+s)
	}
	return color.NRGBA{R: r, G: g, B: b, A: a}, nil
}
