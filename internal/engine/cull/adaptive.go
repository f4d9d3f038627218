package cull

import (
	gomath "math"
	"time"

	"gonum.org/v1/gonum/stat"
)

const (
	// frameBudgetMS approximates the non-culling cost of one 60Hz frame.
	// The FPS estimate is a heuristic derived from culling time alone, not
	// a renderer-measured frame rate.
	frameBudgetMS = 1000.0 / 60.0

	fpsHistorySize = 5

	minAggressiveness = 0.5
	maxAggressiveness = 2.0
)

// adaptiveController scales culling aggressiveness to hold a target frame
// rate. It is a proportional controller with asymmetric gain: tightening
// (+10%) is faster than relaxing (-5%), and a ±10% dead zone around the
// target prevents oscillation at the boundary. The bias protects frame
// rate over visual completeness.
type adaptiveController struct {
	targetFPS float64

	history [fpsHistorySize]float64
	size    int
	next    int

	aggressiveness float64
}

func newAdaptiveController(targetFPS float32) *adaptiveController {
	return &adaptiveController{
		targetFPS:      float64(targetFPS),
		aggressiveness: 1.0,
	}
}

// Observe records one frame's culling time and adjusts aggressiveness.
// Called once per Update after the culling pass completes.
func (a *adaptiveController) Observe(cullTime time.Duration) {
	ms := float64(cullTime) / float64(time.Millisecond)
	a.record(1000 / (ms + frameBudgetMS))
}

func (a *adaptiveController) record(fps float64) {
	a.history[a.next] = fps
	a.next = (a.next + 1) % fpsHistorySize
	if a.size < fpsHistorySize {
		a.size++
	}

	mean := stat.Mean(a.history[:a.size], nil)
	switch {
	case mean < a.targetFPS*0.9:
		a.aggressiveness = gomath.Min(a.aggressiveness*1.10, maxAggressiveness)
	case mean > a.targetFPS*1.1:
		a.aggressiveness = gomath.Max(a.aggressiveness*0.95, minAggressiveness)
	}
	// Inside the dead zone aggressiveness holds steady.
}

// Aggressiveness returns the current multiplier in [0.5, 2.0].
func (a *adaptiveController) Aggressiveness() float32 {
	return float32(a.aggressiveness)
}

// FPSEstimate returns the smoothed FPS estimate, or 0 before any sample.
func (a *adaptiveController) FPSEstimate() float64 {
	if a.size == 0 {
		return 0
	}
	return stat.Mean(a.history[:a.size], nil)
}
