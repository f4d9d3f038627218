// Package cull implements real-time visibility culling: per-frame
// distance, frustum, and pixel-size tests over dynamic objects and a
// uniform spatial hash grid of static objects, with an optional single-ray
// occlusion pass and an adaptive controller that trades visual
// completeness for frame rate.
//
// The system decides, once per rendered frame, which registered objects
// are worth submitting to the renderer. It never owns object lifetime or
// draw submission; the per-object visibility flag written through
// Object.SetVisible is the output collaborators consume.
package cull

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	// ErrUnknownHandle is returned for operations against a handle that
	// was never registered or has been unregistered.
	ErrUnknownHandle = errors.New("unknown object handle")

	// ErrNoIntersector is returned when occlusion culling is enabled
	// without a scene intersector to serve it.
	ErrNoIntersector = errors.New("occlusion culling requires a scene intersector")

	// ErrNilObject is returned when Register is called with a nil object.
	ErrNilObject = errors.New("nil object")
)

// Option configures a System at construction time.
type Option func(*System)

// WithLogger attaches a logger; by default the system is silent.
func WithLogger(log *zap.Logger) Option {
	return func(s *System) { s.log = log }
}

// WithIntersector supplies the scene raycast used by occlusion culling.
func WithIntersector(fn IntersectFunc) Option {
	return func(s *System) { s.intersect = fn }
}

// System is one independent culling instance. All registries are instance
// state, so multiple systems (split-screen, off-screen cameras) coexist
// without interference. A mutex guards the registries so registration from
// outside the frame callback cannot leave the grid inconsistent; Update
// holds it for the whole frame.
type System struct {
	mu sync.Mutex

	id        string
	log       *zap.Logger
	cfg       Config
	intersect IntersectFunc

	grid     *SpatialGrid
	adaptive *adaptiveController

	// Every registered object lives in exactly one of these.
	dynamic map[Handle]*registered
	statics map[Handle]*registered

	nextHandle Handle

	// Frustum for the current frame; fixed for the whole culling pass.
	frustum Frustum

	last FrameMetrics
}

// New creates a culling system with the given configuration.
func New(cfg Config, opts ...Option) (*System, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s := &System{
		id:         uuid.NewString(),
		cfg:        cfg,
		grid:       NewSpatialGrid(cfg.GridCellSize),
		adaptive:   newAdaptiveController(cfg.TargetFPS),
		dynamic:    make(map[Handle]*registered),
		statics:    make(map[Handle]*registered),
		nextHandle: 1,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	s.log = s.log.With(zap.String("system", s.id))

	if cfg.UseOcclusionCulling && s.intersect == nil {
		return nil, ErrNoIntersector
	}

	s.log.Info("culling system created",
		zap.Float32("cell_size", cfg.GridCellSize),
		zap.Float32("target_fps", cfg.TargetFPS),
		zap.Bool("occlusion", cfg.UseOcclusionCulling),
	)
	return s, nil
}

// Register adds an object to culling management and returns its handle.
// Static objects are indexed in the spatial grid immediately (unless their
// bounds cannot be computed, in which case they are always visible and
// never grid-indexed).
func (s *System) Register(obj Object, opts ObjectOptions) (Handle, error) {
	if obj == nil {
		return 0, ErrNilObject
	}
	if opts.Importance < 0 || opts.MinPixelSize < 0 || opts.MaxDistance < 0 || opts.BoundsUpdateThreshold < 0 {
		return 0, errors.New("object options must not be negative")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	h := s.nextHandle
	s.nextHandle++

	r := &registered{
		handle:      h,
		obj:         obj,
		opts:        opts,
		lastVisible: true,
	}
	if r.opts.Importance == 0 {
		r.opts.Importance = 1
	}

	s.refreshBounds(r)

	if opts.Static {
		s.statics[h] = r
		if r.hasBounds {
			s.grid.Insert(h, r.bounds)
		}
	} else {
		s.dynamic[h] = r
	}

	if s.cfg.DebugMode {
		s.log.Debug("object registered",
			zap.Uint64("handle", uint64(h)),
			zap.Bool("static", opts.Static),
			zap.Bool("bounded", r.hasBounds),
		)
	}
	return h, nil
}

// Unregister removes an object from culling management.
func (s *System) Unregister(h Handle) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.dynamic[h]; ok {
		delete(s.dynamic, h)
		return nil
	}
	if _, ok := s.statics[h]; ok {
		s.grid.Remove(h)
		delete(s.statics, h)
		return nil
	}
	return ErrUnknownHandle
}

// SetAlwaysVisible exempts an object from every culling test.
func (s *System) SetAlwaysVisible(h Handle, alwaysVisible bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, err := s.lookup(h)
	if err != nil {
		return err
	}
	r.alwaysVisible = alwaysVisible
	return nil
}

// ForceBoundsUpdate marks an object's bounds stale after an externally
// known discontinuous transform change (teleport, reparent). The bounds
// are recomputed on the next Update.
func (s *System) ForceBoundsUpdate(h Handle) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, err := s.lookup(h)
	if err != nil {
		return err
	}
	r.boundsDirty = true
	return nil
}

// Visible returns the object's last computed verdict.
func (s *System) Visible(h Handle) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, err := s.lookup(h)
	if err != nil {
		return false, err
	}
	return r.lastVisible, nil
}

// SetEnabled toggles the global kill switch. Disabling immediately forces
// every registered object visible; stats reflect that without waiting for
// the next Update.
func (s *System) SetEnabled(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cfg.Enabled = enabled
	if !enabled {
		s.last = s.forceAllVisible()
	}
}

// Config returns a copy of the current configuration.
func (s *System) Config() Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg
}

// Configure replaces the configuration. Partial updates are expressed by
// mutating a copy from Config. Changing the grid cell size rebuilds the
// grid; changing the FPS target resets the adaptive controller.
func (s *System) Configure(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if cfg.UseOcclusionCulling && s.intersect == nil {
		return ErrNoIntersector
	}

	cellChanged := cfg.GridCellSize != s.cfg.GridCellSize
	targetChanged := cfg.TargetFPS != s.cfg.TargetFPS
	s.cfg = cfg

	if cellChanged {
		s.rebuildGrid()
	}
	if targetChanged {
		s.adaptive = newAdaptiveController(cfg.TargetFPS)
	}
	return nil
}

// Update is the single per-frame entry point. It rebuilds the frustum
// from the camera state, re-tests every dynamic object, re-tests static
// objects via the spatial grid, optionally applies occlusion, feeds the
// adaptive controller, and returns the frame's metrics. The visibility
// flags written through Object.SetVisible are the output the renderer
// consumes; the metrics are diagnostics.
func (s *System) Update(cam CameraState) FrameMetrics {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.cfg.Enabled {
		s.last = s.forceAllVisible()
		return s.last
	}

	start := time.Now()
	var deadline time.Time
	if s.cfg.CullingBudget > 0 {
		deadline = start.Add(s.cfg.CullingBudget)
	}

	s.frustum = FrustumFromMatrix(cam.Projection.Mul(cam.View))

	var m FrameMetrics
	aggressiveness := float32(1)
	if s.cfg.UseAdaptiveCulling {
		aggressiveness = s.adaptive.Aggressiveness()
	}

	// Dynamic pass: objects move, so bounds may need a refresh first.
	for _, r := range s.dynamic {
		if m.Partial || overBudget(deadline) {
			m.Partial = true
			carryPrevious(r, &m)
			continue
		}
		if r.boundsDirty || !r.boundsComputed || s.movedPastThreshold(r) {
			s.refreshBounds(r)
			m.BoundsUpdates++
		}
		applyVerdict(r, s.testVisibility(r, &cam, aggressiveness), &m)
	}

	// Refresh any invalidated static bounds so the grid is consistent
	// before it is queried.
	for h, r := range s.statics {
		if r.boundsDirty || !r.boundsComputed {
			s.refreshBounds(r)
			m.BoundsUpdates++
			if r.hasBounds {
				s.grid.Insert(h, r.bounds)
			} else {
				s.grid.Remove(h)
			}
		}
	}

	// Static pass: the grid query is exhaustive for bounded statics, so
	// anything outside the overlapped cells is out of the frustum.
	candidates := s.grid.Query(&s.frustum, s.cfg.WorldExtent)
	m.GridQueries++
	for h, r := range s.statics {
		if m.Partial || overBudget(deadline) {
			m.Partial = true
			carryPrevious(r, &m)
			continue
		}
		visible := false
		switch {
		case r.alwaysVisible || !r.opts.CullingEnabled || !r.hasBounds:
			visible = s.testVisibility(r, &cam, aggressiveness)
		default:
			if _, ok := candidates[h]; ok {
				visible = s.testVisibility(r, &cam, aggressiveness)
			}
		}
		applyVerdict(r, visible, &m)
	}

	if s.cfg.UseOcclusionCulling && s.intersect != nil && !m.Partial {
		s.occlusionPass(&cam, &m)
	}

	m.CullTime = time.Since(start)
	if s.cfg.UseAdaptiveCulling {
		s.adaptive.Observe(m.CullTime)
	}
	s.last = m

	if s.cfg.DebugMode {
		s.log.Debug("frame culled",
			zap.Int("total", m.Total),
			zap.Int("visible", m.Visible),
			zap.Int("culled", m.Culled),
			zap.Int("bounds_updates", m.BoundsUpdates),
			zap.Duration("cull_time", m.CullTime),
			zap.Float32("aggressiveness", s.adaptive.Aggressiveness()),
			zap.Bool("partial", m.Partial),
		)
	}
	return m
}

// Stats returns a read-only snapshot of the last frame and system state.
func (s *System) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	m := s.last
	st := Stats{
		Total:          m.Total,
		Visible:        m.Visible,
		Culled:         m.Culled,
		Aggressiveness: s.adaptive.Aggressiveness(),
		FPSEstimate:    s.adaptive.FPSEstimate(),
		GridCells:      s.grid.CellCount(),
		GridObjects:    s.grid.Len(),
		LastCullTime:   m.CullTime,
		Partial:        m.Partial,
	}
	if m.Total > 0 {
		st.CullRatio = float64(m.Culled) / float64(m.Total)
		st.EstimatedGainPct = st.CullRatio * 100
	}
	return st
}

// occlusionPass demotes frustum-visible objects that a scene ray proves
// occluded. Runs only for objects still marked visible after the main
// passes.
func (s *System) occlusionPass(cam *CameraState, m *FrameMetrics) {
	demote := func(r *registered) {
		if !r.lastVisible || !r.hasBounds || r.alwaysVisible || !r.opts.CullingEnabled {
			return
		}
		if isOccluded(s.intersect, cam.Position, r.bounds) {
			r.obj.SetVisible(false)
			r.lastVisible = false
			m.Visible--
			m.Culled++
		}
	}
	for _, r := range s.dynamic {
		demote(r)
	}
	for _, r := range s.statics {
		demote(r)
	}
}

// forceAllVisible marks every object visible and returns metrics
// reflecting that: culled is zero and visible equals total.
func (s *System) forceAllVisible() FrameMetrics {
	var m FrameMetrics
	for _, r := range s.dynamic {
		applyVerdict(r, true, &m)
	}
	for _, r := range s.statics {
		applyVerdict(r, true, &m)
	}
	return m
}

// refreshBounds recomputes an object's bounding sphere and snapshots the
// transform the computation saw.
func (s *System) refreshBounds(r *registered) {
	t := r.obj.Transform()
	r.bounds, r.hasBounds = ComputeBounds(r.obj, s.cfg.BoundsExpansionFactor)
	r.boundsComputed = true
	r.boundsDirty = false
	r.lastPosition = t.Position
	r.lastScale = t.Scale
}

// movedPastThreshold reports whether the object's transform drifted far
// enough from the last bounds computation to warrant a recompute.
func (s *System) movedPastThreshold(r *registered) bool {
	threshold := r.opts.BoundsUpdateThreshold
	if threshold <= 0 {
		threshold = s.cfg.BoundsUpdateThreshold
	}
	t := r.obj.Transform()
	return t.Position.Distance(r.lastPosition) > threshold ||
		t.Scale.Sub(r.lastScale).Length() > threshold
}

// rebuildGrid re-inserts every bounded static object into a fresh grid
// keyed by the current cell size.
func (s *System) rebuildGrid() {
	s.grid = NewSpatialGrid(s.cfg.GridCellSize)
	for h, r := range s.statics {
		if r.hasBounds {
			s.grid.Insert(h, r.bounds)
		}
	}
}

func (s *System) lookup(h Handle) (*registered, error) {
	if r, ok := s.dynamic[h]; ok {
		return r, nil
	}
	if r, ok := s.statics[h]; ok {
		return r, nil
	}
	return nil, ErrUnknownHandle
}

// applyVerdict records the verdict in the metrics and writes the object's
// visibility flag, skipping the write when nothing changed.
func applyVerdict(r *registered, visible bool, m *FrameMetrics) {
	m.Total++
	if visible {
		m.Visible++
	} else {
		m.Culled++
	}
	if !r.hasVerdict || r.lastVisible != visible {
		r.obj.SetVisible(visible)
		r.lastVisible = visible
		r.hasVerdict = true
	}
}

// carryPrevious accounts an object skipped by the budget under its
// previous verdict. Stale but safe: the object keeps whatever visibility
// it had last frame.
func carryPrevious(r *registered, m *FrameMetrics) {
	m.Total++
	if r.lastVisible {
		m.Visible++
	} else {
		m.Culled++
	}
}

func overBudget(deadline time.Time) bool {
	return !deadline.IsZero() && time.Now().After(deadline)
}
