// Package main is the entry point for cullbench, a headless benchmark
// that drives the culling engine over a synthetic scene.
package main

import (
	"fmt"
	"math/rand"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/viscull/internal/config"
	"github.com/Faultbox/viscull/internal/engine/camera"
	"github.com/Faultbox/viscull/internal/engine/cull"
	"github.com/Faultbox/viscull/internal/engine/picking"
	"github.com/Faultbox/viscull/internal/logger"
	"github.com/Faultbox/viscull/pkg/math"
)

// benchObject is a synthetic scene entity: a sphere with a position, a
// drift velocity for dynamic objects, and the visibility flag the culling
// system writes.
type benchObject struct {
	position math.Vec3
	velocity math.Vec3
	scale    math.Vec3
	radius   float32
	visible  bool
}

func (o *benchObject) Transform() cull.Transform {
	return cull.Transform{Position: o.position, Scale: o.scale}
}

func (o *benchObject) LocalSphere() (cull.Sphere, bool) {
	return cull.Sphere{Radius: o.radius}, true
}

func (o *benchObject) Children() []cull.Object { return nil }

func (o *benchObject) SetVisible(visible bool) { o.visible = visible }

func main() {
	// Parse CLI flags first
	config.ParseFlags()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== viscull benchmark ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	if err := run(cfg); err != nil {
		logger.Error("benchmark error", zap.Error(err))
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	rng := rand.New(rand.NewSource(cfg.Bench.Seed))
	scene := buildScene(rng, cfg.Bench.StaticObjects, cfg.Bench.DynamicObjects)

	opts := []cull.Option{cull.WithLogger(logger.Log)}
	if cfg.Culling.UseOcclusionCulling {
		opts = append(opts, cull.WithIntersector(sceneIntersector(scene)))
	}

	sys, err := cull.New(cfg.Culling.ToCull(), opts...)
	if err != nil {
		return fmt.Errorf("creating culling system: %w", err)
	}

	for i, obj := range scene {
		objOpts := cull.DefaultObjectOptions()
		objOpts.Static = i < cfg.Bench.StaticObjects
		if _, err := sys.Register(obj, objOpts); err != nil {
			return fmt.Errorf("registering object %d: %w", i, err)
		}
	}

	cam := camera.NewOrbitCamera()
	cam.Distance = 800
	cam.Far = cfg.Culling.WorldExtent

	var (
		totalVisible int
		totalCulled  int
		totalTime    time.Duration
	)

	start := time.Now()
	for frame := 0; frame < cfg.Bench.Frames; frame++ {
		cam.Orbit(0.01, 0)
		driftDynamics(scene[cfg.Bench.StaticObjects:])

		m := sys.Update(cull.CameraState{
			Position:       cam.Position(),
			Projection:     cam.ProjectionMatrix(),
			View:           cam.ViewMatrix(),
			FOVY:           cam.FOV,
			ViewportHeight: cam.ViewportHeight,
		})
		totalVisible += m.Visible
		totalCulled += m.Culled
		totalTime += m.CullTime
	}
	elapsed := time.Since(start)

	stats := sys.Stats()
	logger.Info("benchmark complete",
		zap.Int("frames", cfg.Bench.Frames),
		zap.Int("objects", len(scene)),
		zap.Duration("elapsed", elapsed),
		zap.Duration("cull_time_total", totalTime),
		zap.Float64("avg_visible", float64(totalVisible)/float64(cfg.Bench.Frames)),
		zap.Float64("avg_culled", float64(totalCulled)/float64(cfg.Bench.Frames)),
		zap.Float64("cull_ratio", stats.CullRatio),
		zap.Float64("estimated_gain_pct", stats.EstimatedGainPct),
		zap.Float32("aggressiveness", stats.Aggressiveness),
		zap.Int("grid_cells", stats.GridCells),
	)
	return nil
}

// buildScene scatters objects through a cube around the origin. Statics
// come first, then dynamics with drift velocities.
func buildScene(rng *rand.Rand, statics, dynamics int) []*benchObject {
	const spread = 2000

	scene := make([]*benchObject, 0, statics+dynamics)
	for i := 0; i < statics+dynamics; i++ {
		obj := &benchObject{
			position: math.Vec3{
				X: (rng.Float32()*2 - 1) * spread,
				Y: (rng.Float32()*2 - 1) * spread * 0.1,
				Z: (rng.Float32()*2 - 1) * spread,
			},
			scale:  math.Vec3{X: 1, Y: 1, Z: 1},
			radius: 1 + rng.Float32()*20,
		}
		if i >= statics {
			obj.velocity = math.Vec3{
				X: (rng.Float32()*2 - 1) * 2,
				Y: 0,
				Z: (rng.Float32()*2 - 1) * 2,
			}
		}
		scene = append(scene, obj)
	}
	return scene
}

func driftDynamics(dynamics []*benchObject) {
	for _, o := range dynamics {
		o.position = o.position.Add(o.velocity)
	}
}

// sceneIntersector builds the occlusion raycast over the synthetic scene
// by brute force. Real integrations plug in their own acceleration
// structure; the culling core does not care.
func sceneIntersector(scene []*benchObject) cull.IntersectFunc {
	return func(origin, dir math.Vec3, maxDist float32) (float32, bool) {
		ray := picking.Ray{Origin: origin, Direction: dir}
		best := maxDist
		found := false
		for _, o := range scene {
			if t, ok := ray.IntersectSphere(o.position, o.radius); ok && t < best {
				best = t
				found = true
			}
		}
		return best, found
	}
}
