// Package input merges the gesture, touch and keyboard command streams into a
// single stream applied to the shared object transform.
package input

// Kind identifies what a command does to the transform.
type Kind string

const (
	// KindZoom scales the object by a relative factor.
	KindZoom Kind = "zoom"
	// KindRotate rotates the object by relative deltas.
	KindRotate Kind = "rotate"
	// KindReset returns the object to its original orientation and scale.
	KindReset Kind = "reset"
)

// Source identifies which input path produced a command.
type Source string

const (
	// SourceGesture is the hand-gesture pipeline.
	SourceGesture Source = "gesture"
	// SourceTouch is viewer touch input (drag, double-tap).
	SourceTouch Source = "touch"
	// SourceKeyboard is viewer keyboard input.
	SourceKeyboard Source = "keyboard"
)

// Command is the unit passed from an input path to the arbiter.
type Command struct {
	Kind   Kind    `json:"kind"`
	Source Source  `json:"source"`
	Factor float64 `json:"factor,omitempty"` // zoom multiplier

	// Rotate deltas. Gesture swipes carry pre-scaled degrees; touch and
	// keyboard carry raw pixel deltas that the arbiter scales down.
	DeltaX float64 `json:"dx,omitempty"`
	DeltaY float64 `json:"dy,omitempty"`

	// Continuous marks a command that is reissued every frame while its
	// triggering gesture holds. Continuous commands bypass the arbiter's
	// debounce window and never advance its clock.
	Continuous bool `json:"continuous,omitempty"`
}

// Target is the object transform the arbiter drives. Implementations apply
// each operation synchronously to their own state.
type Target interface {
	// Zoom applies a relative scale factor, clamped by the target.
	Zoom(factor float64)
	// Rotate applies relative rotation deltas in degrees.
	Rotate(dx, dy float64)
	// ResetOrientation starts an animated return to the original transform.
	ResetOrientation()
}
