package cull

import "github.com/Faultbox/viscull/pkg/math"

// Handle is an opaque identity for a registered object. Handles are
// allocated by Register and stay valid until Unregister; the system never
// owns the object behind one.
type Handle uint64

// Transform is the world placement of an object. Rotation never enters
// bounding-sphere math, so position and scale are all culling needs.
type Transform struct {
	Position math.Vec3
	Scale    math.Vec3
}

// Object is the collaborator interface scene entities implement to be
// culling-managed. LocalSphere returns the local-space bounding sphere of
// the object's own geometry, or false when the object is a pure container
// whose bounds come from its children. SetVisible receives the per-frame
// verdict; it is only called when the verdict changes.
type Object interface {
	Transform() Transform
	LocalSphere() (Sphere, bool)
	Children() []Object
	SetVisible(visible bool)
}

// ObjectOptions controls how one object is culled. Zero values for the
// numeric thresholds mean "use the global config default".
type ObjectOptions struct {
	// Static objects are grid-indexed once and re-tested via grid queries;
	// dynamic objects are walked directly every frame.
	Static bool

	// CullingEnabled false makes the object permanently visible.
	CullingEnabled bool

	// Importance scales the pixel-size threshold: higher importance keeps
	// smaller on-screen objects visible. Zero means 1.0.
	Importance float32

	MinPixelSize          float32
	MaxDistance           float32
	BoundsUpdateThreshold float32
}

// DefaultObjectOptions returns options for a culled dynamic object using
// the global thresholds.
func DefaultObjectOptions() ObjectOptions {
	return ObjectOptions{
		CullingEnabled: true,
		Importance:     1.0,
	}
}

// registered is the per-object record owned by the system.
type registered struct {
	handle Handle
	obj    Object
	opts   ObjectOptions

	alwaysVisible bool

	bounds         Sphere
	hasBounds      bool
	boundsComputed bool // at least one computation attempt happened
	boundsDirty    bool // transform jumped; recompute before next test

	// Transform snapshot from the last bounds computation, used to detect
	// movement past the update threshold.
	lastPosition math.Vec3
	lastScale    math.Vec3

	lastVisible bool
	hasVerdict  bool
}
