package config

import (
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/rotisserie/eris"
)

// EnvPrefix prefixes environment overrides. Nested keys use a double
// underscore, e.g. SAFEMAP__CAMERA__GLOBAL_VIEW_MAX_ZOOM=4.
const EnvPrefix = "SAFEMAP__"

// Config represents the complete engine configuration
type Config struct {
	Overlay OverlayConfig `yaml:"overlay"`
	Camera  CameraConfig  `yaml:"camera"`
}

// OverlayConfig holds overlay styling settings
type OverlayConfig struct {
	// HeatColors are the five density ramp stops, low to high
	HeatColors []string `yaml:"heat_colors"`
	// HeatMaxZoom is the zoom at which the heat field reaches full radius
	HeatMaxZoom float64 `yaml:"heat_max_zoom"`
	// HitRadius is the radius in pixels of the invisible tooltip hit targets
	HitRadius float64 `yaml:"hit_radius"`

	HotspotMinRadius float64 `yaml:"hotspot_min_radius"`
	HotspotMaxRadius float64 `yaml:"hotspot_max_radius"`
	HotspotColdColor string  `yaml:"hotspot_cold_color"`
	HotspotHotColor  string  `yaml:"hotspot_hot_color"`

	RouteColors         RouteColors `yaml:"route_colors"`
	RouteWidth          float64     `yaml:"route_width"`
	RouteDangerWidth    float64     `yaml:"route_danger_width"`
	RouteOutlineWidth   float64     `yaml:"route_outline_width"`
	RouteOutlineColor   string      `yaml:"route_outline_color"`
	RouteOutlineOpacity float64     `yaml:"route_outline_opacity"`

	FitPadding float64 `yaml:"fit_padding"`
	FitMaxZoom float64 `yaml:"fit_max_zoom"`

	POIColors    map[string]string `yaml:"poi_colors"`
	MarkerColors map[string]string `yaml:"marker_colors"`
}

// RouteColors maps risk levels to line colors
type RouteColors struct {
	Safe    string `yaml:"safe"`
	Caution string `yaml:"caution"`
	Danger  string `yaml:"danger"`
}

// CameraConfig holds rotation and fly-to settings
type CameraConfig struct {
	// RotationDegreesPerSecond is the idle globe spin rate
	RotationDegreesPerSecond float64 `yaml:"rotation_degrees_per_second"`
	// GlobalViewMaxZoom stops the spin when zoomed in past this level
	GlobalViewMaxZoom float64 `yaml:"global_view_max_zoom"`
	// MaxTickGap caps the elapsed time applied by a single animation tick
	MaxTickGap time.Duration `yaml:"max_tick_gap"`

	FlyZoom     float64       `yaml:"fly_zoom"`
	FlyPitch    float64       `yaml:"fly_pitch"`
	FlyDuration time.Duration `yaml:"fly_duration"`
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		Overlay: OverlayConfig{
			HeatColors: []string{
				"rgba(33,102,172,0)",
				"rgb(103,169,207)",
				"rgb(253,219,119)",
				"rgb(239,138,98)",
				"rgb(178,24,43)",
			},
			HeatMaxZoom:      15,
			HitRadius:        14,
			HotspotMinRadius: 6,
			HotspotMaxRadius: 28,
			HotspotColdColor: "#facc15",
			HotspotHotColor:  "#dc2626",
			RouteColors: RouteColors{
				Safe:    "#22c55e",
				Caution: "#f59e0b",
				Danger:  "#ef4444",
			},
			RouteWidth:          5,
			RouteDangerWidth:    7,
			RouteOutlineWidth:   10,
			RouteOutlineColor:   "#000000",
			RouteOutlineOpacity: 0.25,
			FitPadding:          60,
			FitMaxZoom:          15,
			POIColors: map[string]string{
				"police":       "#3b82f6",
				"hospital":     "#ef4444",
				"fire_station": "#f97316",
				"default":      "#6b7280",
			},
			MarkerColors: map[string]string{
				"search-center": "#3b82f6",
				"destination":   "#ef4444",
				"user-position": "#22c55e",
				"default":       "#6b7280",
			},
		},
		Camera: CameraConfig{
			RotationDegreesPerSecond: 3,
			GlobalViewMaxZoom:        5,
			MaxTickGap:               100 * time.Millisecond,
			FlyZoom:                  13,
			FlyPitch:                 45,
			FlyDuration:              3 * time.Second,
		},
	}
}

// Load reads configuration from an optional YAML file and SAFEMAP__ environment
// variables, layered over DefaultConfig. An empty path skips the file.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, eris.Wrapf(err, "failed to load config file %s", path)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, eris.Wrap(err, "failed to load config from environment")
	}

	cfg := DefaultConfig()
	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{Tag: "yaml"}); err != nil {
		return nil, eris.Wrap(err, "failed to unmarshal config")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// envKey maps SAFEMAP__CAMERA__FLY_ZOOM to camera.fly_zoom
func envKey(s string) string {
	s = strings.TrimPrefix(s, EnvPrefix)
	return strings.ReplaceAll(strings.ToLower(s), "__", ".")
}

// Validate checks settings the engine cannot work without
func (c *Config) Validate() error {
	if len(c.Overlay.HeatColors) != 5 {
		return eris.Errorf("overlay.heat_colors must have exactly 5 stops, got %d", len(c.Overlay.HeatColors))
	}
	if c.Overlay.HotspotMinRadius <= 0 || c.Overlay.HotspotMaxRadius < c.Overlay.HotspotMinRadius {
		return eris.New("overlay.hotspot radii must be positive and min <= max")
	}
	if c.Camera.RotationDegreesPerSecond < 0 {
		return eris.New("camera.rotation_degrees_per_second must not be negative")
	}
	if c.Camera.MaxTickGap <= 0 {
		return eris.New("camera.max_tick_gap must be positive")
	}
	return nil
}
