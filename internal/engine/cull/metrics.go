package cull

import "time"

// FrameMetrics aggregates the counters of one Update call. Counters are
// reset at the start of each frame and account every object tested, not
// just visibility transitions.
type FrameMetrics struct {
	Total   int
	Visible int
	Culled  int

	// BoundsUpdates counts bounding sphere recomputations this frame.
	BoundsUpdates int

	// GridQueries counts spatial grid queries this frame.
	GridQueries int

	// CullTime is the wall-clock duration of the culling pass.
	CullTime time.Duration

	// Partial is set when the culling budget expired before every object
	// was re-tested; untested objects kept their previous verdict.
	Partial bool
}

// Stats is a read-only snapshot of the system for diagnostics.
type Stats struct {
	Total   int
	Visible int
	Culled  int

	// CullRatio is Culled/Total for the last frame, 0 when nothing is
	// registered.
	CullRatio float64

	// EstimatedGainPct approximates the rendering work avoided, as the
	// percentage of objects culled.
	EstimatedGainPct float64

	Aggressiveness float32
	FPSEstimate    float64

	GridCells   int
	GridObjects int

	LastCullTime time.Duration
	Partial      bool
}
