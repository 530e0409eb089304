// Package transform owns the shared 3D object transform driven by user input.
package transform

import (
	"sync"
	"time"
)

// Transform limits and timing.
const (
	// MinScale and MaxScale bound the uniform scale.
	MinScale = 0.1
	MaxScale = 3.0
	// MaxTiltDeg bounds rotation around X so the object cannot flip over.
	MaxTiltDeg = 90.0
	// ResetDuration is the length of the eased reset animation.
	ResetDuration = time.Second
)

// Vec3 is a 3-component vector.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// State is a snapshot of the object transform. Rotation is Euler degrees.
type State struct {
	Position Vec3    `json:"position"`
	Rotation Vec3    `json:"rotation"`
	Scale    float64 `json:"scale"`
}

// resetAnim is an in-flight reset animation. The start time is stamped by
// the first Advance tick after the trigger, so frames with no tick in
// between never lose animation time.
type resetAnim struct {
	startedAt time.Time
	fromRot   Vec3
	fromScale float64
}

// Object is the transform target shared by all input paths. Zoom, rotate and
// reset keep the scale and X-rotation clamps; SetPosition is the anchor path
// and bypasses them. Safe for concurrent use.
type Object struct {
	mu       sync.Mutex
	state    State
	original State
	reset    *resetAnim
}

// New creates an Object and records the initial transform as the target of
// every later reset. A zero scale is treated as 1.
func New(initial State) *Object {
	if initial.Scale == 0 {
		initial.Scale = 1
	}
	initial.Scale = clamp(initial.Scale, MinScale, MaxScale)
	initial.Rotation.X = clamp(initial.Rotation.X, -MaxTiltDeg, MaxTiltDeg)
	return &Object{state: initial, original: initial}
}

// State returns a snapshot of the current transform.
func (o *Object) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// Zoom applies a relative scale factor, clamped to [MinScale, MaxScale].
func (o *Object) Zoom(factor float64) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.state.Scale = clamp(o.state.Scale*factor, MinScale, MaxScale)
}

// Rotate applies relative rotation in degrees: dx spins around Y, dy tilts
// around X with the tilt clamped to ±MaxTiltDeg.
func (o *Object) Rotate(dx, dy float64) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.state.Rotation.Y += dx
	o.state.Rotation.X = clamp(o.state.Rotation.X+dy, -MaxTiltDeg, MaxTiltDeg)
}

// SetPosition places the object absolutely. This is the anchor-update path;
// it does not touch rotation or scale.
func (o *Object) SetPosition(x, y, z float64) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.state.Position = Vec3{X: x, Y: y, Z: z}
}

// ResetOrientation starts an eased return of rotation and scale to their
// original values over ResetDuration. Retriggering mid-flight restarts the
// ease from the current pose.
func (o *Object) ResetOrientation() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.reset = &resetAnim{fromRot: o.state.Rotation, fromScale: o.state.Scale}
}

// Resetting reports whether a reset animation is in flight.
func (o *Object) Resetting() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.reset != nil
}

// CancelReset stops any in-flight reset animation, leaving the transform
// where it is. Teardown calls this so an animation cannot keep itself
// scheduled past the owner's lifetime.
func (o *Object) CancelReset() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.reset = nil
}

// Advance steps the in-flight reset animation, if any. Called once per frame
// tick; ticks with nothing in flight are no-ops.
func (o *Object) Advance(now time.Time) {
	o.mu.Lock()
	defer o.mu.Unlock()

	r := o.reset
	if r == nil {
		return
	}
	if r.startedAt.IsZero() {
		r.startedAt = now
	}

	p := float64(now.Sub(r.startedAt)) / float64(ResetDuration)
	if p >= 1 {
		o.state.Rotation = o.original.Rotation
		o.state.Scale = o.original.Scale
		o.reset = nil
		return
	}
	if p < 0 {
		p = 0
	}

	e := easeOutCubic(p)
	o.state.Rotation = Vec3{
		X: lerp(r.fromRot.X, o.original.Rotation.X, e),
		Y: lerp(r.fromRot.Y, o.original.Rotation.Y, e),
		Z: lerp(r.fromRot.Z, o.original.Rotation.Z, e),
	}
	o.state.Scale = lerp(r.fromScale, o.original.Scale, e)
}

// easeOutCubic maps linear progress to a fast-start, slow-finish curve.
func easeOutCubic(p float64) float64 {
	q := 1 - p
	return 1 - q*q*q
}

func lerp(from, to, t float64) float64 {
	return from + (to-from)*t
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
