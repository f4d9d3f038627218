// Package config handles culling engine configuration loading and management.
package config

import (
	"time"

	"github.com/Faultbox/viscull/internal/engine/cull"
)

// Config holds all settings.
type Config struct {
	Culling CullingConfig `yaml:"culling"`
	Bench   BenchConfig   `yaml:"bench"`
	Logging LoggingConfig `yaml:"logging"`
}

// CullingConfig holds the culling engine settings.
type CullingConfig struct {
	Enabled               bool          `yaml:"enabled"`
	DistanceCulling       bool          `yaml:"distance_culling"`
	MaxDistance           float32       `yaml:"max_distance"`
	CullSmallObjects      bool          `yaml:"cull_small_objects"`
	MinPixelSize          float32       `yaml:"min_pixel_size"`
	BoundsExpansionFactor float32       `yaml:"bounds_expansion_factor"`
	BoundsUpdateThreshold float32       `yaml:"bounds_update_threshold"`
	UseOcclusionCulling   bool          `yaml:"use_occlusion_culling"`
	UseAdaptiveCulling    bool          `yaml:"use_adaptive_culling"`
	TargetFPS             float32       `yaml:"target_fps"`
	GridCellSize          float32       `yaml:"spatial_grid_cell_size"`
	WorldExtent           float32       `yaml:"world_extent"`
	CullingBudget         time.Duration `yaml:"culling_budget"`
	DebugMode             bool          `yaml:"debug_mode"`
}

// BenchConfig holds synthetic benchmark scene settings for cullbench.
type BenchConfig struct {
	StaticObjects  int   `yaml:"static_objects"`
	DynamicObjects int   `yaml:"dynamic_objects"`
	Frames         int   `yaml:"frames"`
	Seed           int64 `yaml:"seed"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Culling: FromCull(cull.DefaultConfig()),
		Bench: BenchConfig{
			StaticObjects:  5000,
			DynamicObjects: 500,
			Frames:         600,
			Seed:           1,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// ToCull converts the yaml-facing culling section into the engine's
// config record. Validation happens in the engine (cull.New/Configure).
func (c CullingConfig) ToCull() cull.Config {
	return cull.Config{
		Enabled:               c.Enabled,
		DistanceCulling:       c.DistanceCulling,
		MaxDistance:           c.MaxDistance,
		CullSmallObjects:      c.CullSmallObjects,
		MinPixelSize:          c.MinPixelSize,
		BoundsExpansionFactor: c.BoundsExpansionFactor,
		BoundsUpdateThreshold: c.BoundsUpdateThreshold,
		UseOcclusionCulling:   c.UseOcclusionCulling,
		UseAdaptiveCulling:    c.UseAdaptiveCulling,
		TargetFPS:             c.TargetFPS,
		GridCellSize:          c.GridCellSize,
		WorldExtent:           c.WorldExtent,
		CullingBudget:         c.CullingBudget,
		DebugMode:             c.DebugMode,
	}
}

// FromCull converts an engine config record into the yaml-facing section.
func FromCull(c cull.Config) CullingConfig {
	return CullingConfig{
		Enabled:               c.Enabled,
		DistanceCulling:       c.DistanceCulling,
		MaxDistance:           c.MaxDistance,
		CullSmallObjects:      c.CullSmallObjects,
		MinPixelSize:          c.MinPixelSize,
		BoundsExpansionFactor: c.BoundsExpansionFactor,
		BoundsUpdateThreshold: c.BoundsUpdateThreshold,
		UseOcclusionCulling:   c.UseOcclusionCulling,
		UseAdaptiveCulling:    c.UseAdaptiveCulling,
		TargetFPS:             c.TargetFPS,
		GridCellSize:          c.GridCellSize,
		WorldExtent:           c.WorldExtent,
		CullingBudget:         c.CullingBudget,
		DebugMode:             c.DebugMode,
	}
}
