// Package config loads the application settings from YAML. The embedded default.yaml is
// always applied first so a user file only has to name the values it overrides.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultYAML []byte

// Config is the root of the settings tree.
type Config struct {
	Window   WindowConfig   `yaml:"window"`
	Render   RenderConfig   `yaml:"render"`
	Camera   CameraConfig   `yaml:"camera"`
	Lights   LightsConfig   `yaml:"lights"`
	Map      MapConfig      `yaml:"map"`
	Workers  int            `yaml:"workers"`
	Log      LogConfig      `yaml:"log"`
	Profiler ProfilerConfig `yaml:"profiler"`
}

type WindowConfig struct {
	Title  string `yaml:"title"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	// FPSLimit caps the frame rate, 0 renders as fast as the surface allows.
	FPSLimit int  `yaml:"fps_limit"`
	VSync    bool `yaml:"vsync"`
}

type RenderConfig struct {
	// MSAASamples is the sample count of the G-buffer targets, 1 or 4.
	MSAASamples          uint32     `yaml:"msaa_samples"`
	ClearColor           [4]float64 `yaml:"clear_color"`
	NormalPreview        bool       `yaml:"normal_preview"`
	ForceFallbackAdapter bool       `yaml:"force_fallback_adapter"`
}

type CameraConfig struct {
	Position    [3]float32 `yaml:"position"`
	Yaw         float32    `yaml:"yaw"`
	Pitch       float32    `yaml:"pitch"`
	FOV         float32    `yaml:"fov"`
	Near        float32    `yaml:"near"`
	Far         float32    `yaml:"far"`
	Speed       float32    `yaml:"speed"`
	Sensitivity float32    `yaml:"sensitivity"`
}

type PointLightConfig struct {
	Position [3]float32 `yaml:"position"`
	Color    [3]float32 `yaml:"color"`
}

type LightsConfig struct {
	Ambient   [3]float32         `yaml:"ambient"`
	Intensity float32            `yaml:"intensity"`
	Points    []PointLightConfig `yaml:"points"`
}

type MapConfig struct {
	Width    int `yaml:"width"`
	Height   int `yaml:"height"`
	Excluded int `yaml:"excluded"`
	// ClearDelay is how long a tile stays selected before it is cleared.
	ClearDelay time.Duration `yaml:"clear_delay"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

type ProfilerConfig struct {
	Log bool `yaml:"log"`
}

// Default returns the embedded default configuration.
func Default() Config {
	var c Config
	if err := yaml.Unmarshal(defaultYAML, &c); err != nil {
		panic(fmt.Sprintf("config: embedded default.yaml is invalid: %v", err))
	}
	return c
}

// Load reads the YAML file at path on top of the embedded defaults and validates the result.
// An empty path returns the defaults.
//
// Parameters:
//   - path: the YAML file to read, or "" for defaults only
//
// Returns:
//   - Config: the merged configuration
//   - error: an error if the file cannot be read or parsed, or the result is invalid
func Load(path string) (Config, error) {
	c := Default()
	if path == "" {
		return c, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config %q: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Config{}, fmt.Errorf("parse config %q: %w", path, err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, fmt.Errorf("config %q: %w", path, err)
	}

	slog.Info("loaded config", "path", path, "size", len(data))
	return c, nil
}

// Validate checks the values the renderer and tile map cannot recover from.
func (c Config) Validate() error {
	var errs []error
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("window size %dx%d must be positive", c.Window.Width, c.Window.Height))
	}
	if c.Window.FPSLimit < 0 {
		errs = append(errs, fmt.Errorf("fps_limit %d must not be negative", c.Window.FPSLimit))
	}
	if c.Render.MSAASamples != 1 && c.Render.MSAASamples != 4 {
		errs = append(errs, fmt.Errorf("msaa_samples %d must be 1 or 4", c.Render.MSAASamples))
	}
	if c.Camera.Near <= 0 || c.Camera.Far <= c.Camera.Near {
		errs = append(errs, fmt.Errorf("camera clip range [%v, %v] is invalid", c.Camera.Near, c.Camera.Far))
	}
	if c.Camera.FOV <= 0 || c.Camera.FOV >= 180 {
		errs = append(errs, fmt.Errorf("camera fov %v must be in (0, 180)", c.Camera.FOV))
	}
	if c.Map.Width <= 0 || c.Map.Height <= 0 {
		errs = append(errs, fmt.Errorf("map size %dx%d must be positive", c.Map.Width, c.Map.Height))
	}
	if c.Map.Width*c.Map.Height > 1<<24 {
		errs = append(errs, fmt.Errorf("map size %dx%d exceeds the 24-bit tile id range", c.Map.Width, c.Map.Height))
	}
	if c.Map.ClearDelay < 0 {
		errs = append(errs, fmt.Errorf("clear_delay %v must not be negative", c.Map.ClearDelay))
	}
	if c.Workers <= 0 {
		errs = append(errs, fmt.Errorf("workers %d must be positive", c.Workers))
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// ParseLevel maps a level name to its slog.Level.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", name)
	}
}
