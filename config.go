package fxcanvas

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// ErrViewModeDisabled is returned when switching to a view mode that the
// configuration does not enable.
var ErrViewModeDisabled = errors.New("fxcanvas: view mode disabled")

// ColorCycle selects the presentation-only color animation.
type ColorCycle string

const (
	ColorCycleOff     ColorCycle = "off"
	ColorCycleRainbow ColorCycle = "rainbow" // whole canvas sweeps hue together
	ColorCycleChain   ColorCycle = "chain"   // hue offset per element index
)

// Config holds the editor settings. Zero values are not meaningful; start
// from DefaultConfig.
type Config struct {
	SnapEnabled    bool    `toml:"snap_enabled"`
	GridPitch      float64 `toml:"grid_pitch"`
	DefaultColor   Color   `toml:"default_color"`
	DefaultCount   int     `toml:"default_count"`
	DefaultYOffset float64 `toml:"default_y_offset"`
	MirrorMode     bool    `toml:"mirror_mode"`

	ViewMode ViewMode `toml:"view_mode"`
	// EnabledViewModes lists the views reachable through SetViewMode. The
	// projection supports all five regardless.
	EnabledViewModes []ViewMode `toml:"enabled_view_modes"`

	HitRadius        float64 `toml:"hit_radius"`
	SelectionPadding float64 `toml:"selection_padding"`
	// ParallelBoundsThreshold is the selection size above which bounds are
	// computed on several goroutines. Zero disables the parallel path.
	ParallelBoundsThreshold int `toml:"parallel_bounds_threshold"`

	TickMillis      int  `toml:"tick_ms"`
	ThrottleMillis  int  `toml:"throttle_ms"`
	IdleMillis      int  `toml:"idle_ms"`
	AddElementDelay bool `toml:"add_element_delay"`

	ColorCycle ColorCycle `toml:"color_cycle"`
	MinZoom    float64    `toml:"min_zoom"`
	MaxZoom    float64    `toml:"max_zoom"`

	CanvasWidth  int    `toml:"canvas_width"`
	CanvasHeight int    `toml:"canvas_height"`
	LogLevel     string `toml:"log_level"`
}

// DefaultConfig returns the stock settings: top and side views enabled,
// snapping on a 20px grid, 20 ticks per second.
func DefaultConfig() Config {
	return Config{
		SnapEnabled:             true,
		GridPitch:               20,
		DefaultColor:            ColorWhite,
		DefaultCount:            12,
		DefaultYOffset:          0,
		ViewMode:                ViewTop,
		EnabledViewModes:        []ViewMode{ViewTop, ViewSide},
		HitRadius:               DefaultHitRadius,
		SelectionPadding:        DefaultSelectionPadding,
		ParallelBoundsThreshold: 4096,
		TickMillis:              int(DefaultTickDuration / time.Millisecond),
		ThrottleMillis:          int(DefaultThrottleInterval / time.Millisecond),
		IdleMillis:              int(DefaultIdleQuiet / time.Millisecond),
		AddElementDelay:         true,
		ColorCycle:              ColorCycleOff,
		MinZoom:                 0.1,
		MaxZoom:                 10,
		CanvasWidth:             1280,
		CanvasHeight:            720,
		LogLevel:                "info",
	}
}

// LoadConfig reads a TOML settings file over DefaultConfig, applies
// FXCANVAS_* environment overrides and validates the result. An empty path
// skips the file.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("load config: %w", err)
		}
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("load config %s: %w", path, err)
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return cfg, err
	}
	cfg.Validate()
	return cfg, nil
}

// Marshal encodes cfg as TOML.
func (c Config) Marshal() ([]byte, error) {
	return toml.Marshal(c)
}

func (c *Config) applyEnv() error {
	c.SnapEnabled = getEnvAsBool("FXCANVAS_SNAP", c.SnapEnabled)
	c.GridPitch = getEnvAsFloat("FXCANVAS_GRID_PITCH", c.GridPitch)
	c.DefaultCount = getEnvAsInt("FXCANVAS_DEFAULT_COUNT", c.DefaultCount)
	c.DefaultYOffset = getEnvAsFloat("FXCANVAS_DEFAULT_Y_OFFSET", c.DefaultYOffset)
	c.MirrorMode = getEnvAsBool("FXCANVAS_MIRROR", c.MirrorMode)
	c.AddElementDelay = getEnvAsBool("FXCANVAS_ADD_ELEMENT_DELAY", c.AddElementDelay)
	c.LogLevel = getEnv("FXCANVAS_LOG_LEVEL", c.LogLevel)
	c.ColorCycle = ColorCycle(getEnv("FXCANVAS_COLOR_CYCLE", string(c.ColorCycle)))

	if v := getEnv("FXCANVAS_DEFAULT_COLOR", ""); v != "" {
		col, err := ParseColor(v)
		if err != nil {
			return fmt.Errorf("FXCANVAS_DEFAULT_COLOR: %w", err)
		}
		c.DefaultColor = col
	}
	if v := getEnv("FXCANVAS_VIEW_MODE", ""); v != "" {
		m, err := ParseViewMode(v)
		if err != nil {
			return fmt.Errorf("FXCANVAS_VIEW_MODE: %w", err)
		}
		c.ViewMode = m
	}
	if v := getEnv("FXCANVAS_VIEW_MODES", ""); v != "" {
		var modes []ViewMode
		for _, name := range strings.Split(v, ",") {
			m, err := ParseViewMode(strings.TrimSpace(name))
			if err != nil {
				return fmt.Errorf("FXCANVAS_VIEW_MODES: %w", err)
			}
			modes = append(modes, m)
		}
		c.EnabledViewModes = modes
	}
	return nil
}

// Validate clamps degenerate values to usable ones. The active view mode is
// always enabled.
func (c *Config) Validate() {
	if c.GridPitch <= 0 {
		c.GridPitch = 20
	}
	c.DefaultCount = max(c.DefaultCount, 1)
	if c.HitRadius <= 0 {
		c.HitRadius = DefaultHitRadius
	}
	if c.SelectionPadding < 0 {
		c.SelectionPadding = 0
	}
	if c.TickMillis <= 0 {
		c.TickMillis = int(DefaultTickDuration / time.Millisecond)
	}
	if c.ThrottleMillis < 0 {
		c.ThrottleMillis = 0
	}
	if c.IdleMillis <= 0 {
		c.IdleMillis = int(DefaultIdleQuiet / time.Millisecond)
	}
	if c.MinZoom <= 0 {
		c.MinZoom = 0.1
	}
	if c.MaxZoom < c.MinZoom {
		c.MaxZoom = c.MinZoom
	}
	switch c.ColorCycle {
	case ColorCycleOff, ColorCycleRainbow, ColorCycleChain:
	default:
		c.ColorCycle = ColorCycleOff
	}
	if c.CanvasWidth <= 0 {
		c.CanvasWidth = 1280
	}
	if c.CanvasHeight <= 0 {
		c.CanvasHeight = 720
	}
	if int(c.ViewMode) >= len(viewModeNames) {
		c.ViewMode = ViewTop
	}
	c.EnabledViewModes = slices.DeleteFunc(c.EnabledViewModes, func(m ViewMode) bool {
		return int(m) >= len(viewModeNames)
	})
	if !slices.Contains(c.EnabledViewModes, c.ViewMode) {
		c.EnabledViewModes = append(c.EnabledViewModes, c.ViewMode)
	}
}

// ViewModeEnabled reports whether m is reachable.
func (c *Config) ViewModeEnabled(m ViewMode) bool {
	return slices.Contains(c.EnabledViewModes, m)
}

// RecorderConfig returns the recorder timing derived from c.
func (c *Config) RecorderConfig() RecorderConfig {
	return RecorderConfig{
		TickDuration:     time.Duration(c.TickMillis) * time.Millisecond,
		ThrottleInterval: time.Duration(c.ThrottleMillis) * time.Millisecond,
		IdleQuiet:        time.Duration(c.IdleMillis) * time.Millisecond,
		AddElementDelay:  c.AddElementDelay,
	}
}

// SlogLevel maps LogLevel to a slog.Level, defaulting to Info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvAsFloat(key string, defaultVal float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

func getEnvAsBool(key string, defaultVal bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultVal
}
