// Package config loads, validates and watches the engine's TOML configuration file.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/Carmen-Shannon/neothauma/common"
	"github.com/pelletier/go-toml/v2"
)

// DefaultMaxLights is the light buffer capacity used when no configuration overrides it.
const DefaultMaxLights = 100

// Config is the complete engine configuration.
type Config struct {
	Window   WindowConfig   `toml:"window"`
	Renderer RendererConfig `toml:"renderer"`
	Shadow   ShadowConfig   `toml:"shadow"`
	Scene    SceneConfig    `toml:"scene"`
	Log      LogConfig      `toml:"log"`
	Profiler ProfilerConfig `toml:"profiler"`
}

type WindowConfig struct {
	Title  string `toml:"title"`
	Width  int    `toml:"width"`
	Height int    `toml:"height"`
}

type RendererConfig struct {
	// PresentMode is "vsync" or "uncapped".
	PresentMode string     `toml:"present_mode"`
	MSAA        int        `toml:"msaa"`
	ClearColor  [3]float64 `toml:"clear_color"`
}

type ShadowConfig struct {
	// Resolution is the edge length of every cube face in texels. It never follows the window size.
	Resolution int     `toml:"resolution"`
	Near       float32 `toml:"near"`
	Far        float32 `toml:"far"`
	DepthBias  int32   `toml:"depth_bias"`
	SlopeScale float32 `toml:"slope_scale"`
}

type SceneConfig struct {
	MaxLights  int        `toml:"max_lights"`
	Ambient    [3]float32 `toml:"ambient"`
	FOVDegrees float32    `toml:"fov_degrees"`
	Near       float32    `toml:"near"`
	Far        float32    `toml:"far"`
}

type LogConfig struct {
	Level string `toml:"level"`
}

type ProfilerConfig struct {
	Enabled bool `toml:"enabled"`
}

// Default returns the configuration used when no file is supplied.
func Default() Config {
	return Config{
		Window: WindowConfig{
			Title:  "neothauma",
			Width:  1280,
			Height: 720,
		},
		Renderer: RendererConfig{
			PresentMode: "vsync",
			MSAA:        4,
			ClearColor:  [3]float64{0.1, 0.1, 0.1},
		},
		Shadow: ShadowConfig{
			Resolution: 1024,
			Near:       0.1,
			Far:        100,
			DepthBias:  2,
			SlopeScale: 2,
		},
		Scene: SceneConfig{
			MaxLights:  DefaultMaxLights,
			Ambient:    [3]float32{0.05, 0.05, 0.05},
			FOVDegrees: 90,
			Near:       0.1,
			Far:        100,
		},
		Log: LogConfig{Level: "info"},
	}
}

// Parse decodes TOML on top of the defaults, so absent keys keep their default values.
//
// Parameters:
//   - data: TOML document
//
// Returns:
//   - Config: the decoded and validated configuration
//   - error: if decoding or validation fails
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Load reads and parses the file at path. A missing file yields the defaults.
//
// Parameters:
//   - path: location of the TOML file
//
// Returns:
//   - Config: the loaded configuration
//   - error: if the file exists but cannot be read, decoded or validated
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(data)
}

// Validate checks every field for a usable value.
func (c Config) Validate() error {
	var errs []error
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("window size must be positive, got %dx%d", c.Window.Width, c.Window.Height))
	}
	switch c.Renderer.PresentMode {
	case "vsync", "uncapped":
	default:
		errs = append(errs, fmt.Errorf("unknown present_mode %q", c.Renderer.PresentMode))
	}
	switch c.Renderer.MSAA {
	case 1, 4, 8, 16:
	default:
		errs = append(errs, fmt.Errorf("msaa must be 1, 4, 8 or 16, got %d", c.Renderer.MSAA))
	}
	if c.Shadow.Resolution <= 0 {
		errs = append(errs, fmt.Errorf("shadow resolution must be positive, got %d", c.Shadow.Resolution))
	}
	if c.Shadow.Near <= 0 || c.Shadow.Near >= c.Shadow.Far {
		errs = append(errs, fmt.Errorf("shadow near/far must satisfy 0 < near < far, got %v/%v", c.Shadow.Near, c.Shadow.Far))
	}
	if c.Scene.MaxLights < 1 || c.Scene.MaxLights > 1024 {
		errs = append(errs, fmt.Errorf("max_lights must be in [1, 1024], got %d", c.Scene.MaxLights))
	}
	if c.Scene.Near <= 0 || c.Scene.Near >= c.Scene.Far {
		errs = append(errs, fmt.Errorf("scene near/far must satisfy 0 < near < far, got %v/%v", c.Scene.Near, c.Scene.Far))
	}
	if c.Scene.FOVDegrees <= 0 || c.Scene.FOVDegrees >= 180 {
		errs = append(errs, fmt.Errorf("fov_degrees must be in (0, 180), got %v", c.Scene.FOVDegrees))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("config: invalid: %w", err)
	}
	return nil
}

// AmbientColor returns the scene ambient term as a vector.
func (c Config) AmbientColor() common.Vec3 {
	return common.V3(c.Scene.Ambient[0], c.Scene.Ambient[1], c.Scene.Ambient[2])
}

// RequiresRestart reports whether moving from c to next changes a field that only takes
// effect when GPU resources are recreated.
func (c Config) RequiresRestart(next Config) bool {
	return c.Window.Width != next.Window.Width ||
		c.Window.Height != next.Window.Height ||
		c.Renderer.MSAA != next.Renderer.MSAA ||
		c.Renderer.PresentMode != next.Renderer.PresentMode ||
		c.Shadow != next.Shadow ||
		c.Scene.MaxLights != next.Scene.MaxLights
}
