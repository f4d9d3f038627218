package cull

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidConfig is returned when a configuration value is rejected.
// Misconfiguration surfaces at New/Configure time rather than being
// silently clamped.
var ErrInvalidConfig = errors.New("invalid culling config")

// Config contains the culling engine configuration.
type Config struct {
	// Enabled is the global kill switch. When false every registered
	// object is forced visible.
	Enabled bool

	// DistanceCulling culls objects farther from the camera than their
	// effective max distance.
	DistanceCulling bool
	MaxDistance     float32

	// CullSmallObjects culls objects whose projected size falls below the
	// effective minimum pixel size.
	CullSmallObjects bool
	MinPixelSize     float32

	// BoundsExpansionFactor inflates computed bounding radii as a safety
	// margin (1.1 = 10% larger).
	BoundsExpansionFactor float32

	// BoundsUpdateThreshold is how far a dynamic object's position or
	// scale may drift before its bounds are recomputed.
	BoundsUpdateThreshold float32

	// UseOcclusionCulling enables the single-ray occlusion pass. Requires
	// a scene intersector (WithIntersector).
	UseOcclusionCulling bool

	// UseAdaptiveCulling enables the controller that scales culling
	// aggressiveness to hold TargetFPS.
	UseAdaptiveCulling bool
	TargetFPS          float32

	// GridCellSize is the spatial grid cell edge length. Changing it via
	// Configure rebuilds the grid.
	GridCellSize float32

	// WorldExtent clamps the frustum's approximate query box on axes no
	// plane bounds.
	WorldExtent float32

	// CullingBudget is the optional wall-clock budget for one Update call.
	// When exceeded, remaining objects keep their previous verdict and the
	// frame's metrics are flagged partial. Zero disables the budget.
	CullingBudget time.Duration

	// DebugMode logs a per-frame culling summary at debug level.
	DebugMode bool
}

// DefaultConfig returns the default culling configuration.
func DefaultConfig() Config {
	return Config{
		Enabled:               true,
		DistanceCulling:       true,
		MaxDistance:           1000,
		CullSmallObjects:      true,
		MinPixelSize:          4,
		BoundsExpansionFactor: 1.1,
		BoundsUpdateThreshold: 1.0,
		UseOcclusionCulling:   false,
		UseAdaptiveCulling:    true,
		TargetFPS:             60,
		GridCellSize:          100,
		WorldExtent:           10000,
		CullingBudget:         0,
		DebugMode:             false,
	}
}

// Validate checks the configuration, returning ErrInvalidConfig with a
// description for the first rejected value.
func (c Config) Validate() error {
	if c.GridCellSize <= 0 {
		return fmt.Errorf("%w: spatial grid cell size must be positive, got %v", ErrInvalidConfig, c.GridCellSize)
	}
	if c.MaxDistance < 0 {
		return fmt.Errorf("%w: max distance must not be negative, got %v", ErrInvalidConfig, c.MaxDistance)
	}
	if c.MinPixelSize < 0 {
		return fmt.Errorf("%w: min pixel size must not be negative, got %v", ErrInvalidConfig, c.MinPixelSize)
	}
	if c.BoundsExpansionFactor <= 0 {
		return fmt.Errorf("%w: bounds expansion factor must be positive, got %v", ErrInvalidConfig, c.BoundsExpansionFactor)
	}
	if c.BoundsUpdateThreshold < 0 {
		return fmt.Errorf("%w: bounds update threshold must not be negative, got %v", ErrInvalidConfig, c.BoundsUpdateThreshold)
	}
	if c.UseAdaptiveCulling && c.TargetFPS <= 0 {
		return fmt.Errorf("%w: target FPS must be positive, got %v", ErrInvalidConfig, c.TargetFPS)
	}
	if c.WorldExtent <= 0 {
		return fmt.Errorf("%w: world extent must be positive, got %v", ErrInvalidConfig, c.WorldExtent)
	}
	if c.CullingBudget < 0 {
		return fmt.Errorf("%w: culling budget must not be negative, got %v", ErrInvalidConfig, c.CullingBudget)
	}
	return nil
}
