package input

import (
	"sync"
	"time"
)

// DefaultDebounce is the minimum interval between accepted discrete gesture
// commands.
const DefaultDebounce = 100 * time.Millisecond

// pixelScale converts raw pixel deltas from the touch and keyboard paths into
// rotation degrees. Gesture swipes arrive pre-scaled and skip it.
const pixelScale = 0.01

// Arbiter accepts commands from all input paths, applies the global gesture
// debounce, and forwards the surviving commands to the transform target.
//
// Touch is suppressed while an AR session is active (AR gestures own the
// object; touch-drag is the fallback path). Keyboard is always accepted.
type Arbiter struct {
	target   Target
	debounce time.Duration
	arActive func() bool

	// OnApply, if set, is called with every command that reached the target.
	OnApply func(Command)

	mu              sync.Mutex
	lastGestureTime time.Time
}

// NewArbiter creates an Arbiter driving the given target. arActive reports
// whether an AR session currently owns the view; it may be nil when no AR
// surface exists.
func NewArbiter(target Target, debounce time.Duration, arActive func() bool) *Arbiter {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Arbiter{
		target:   target,
		debounce: debounce,
		arActive: arActive,
	}
}

// Submit routes one command. It reports whether the command was applied to
// the target.
func (a *Arbiter) Submit(cmd Command, now time.Time) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	switch cmd.Source {
	case SourceTouch:
		if a.arActive != nil && a.arActive() {
			return false
		}
	case SourceKeyboard:
		// Unthrottled developer/accessibility path.
	default:
		// Held gestures re-fire every frame and must not be throttled; only
		// accepted discrete commands advance the debounce clock.
		if !cmd.Continuous {
			if now.Sub(a.lastGestureTime) < a.debounce {
				return false
			}
			a.lastGestureTime = now
		}
	}

	a.apply(cmd)
	return true
}

func (a *Arbiter) apply(cmd Command) {
	switch cmd.Kind {
	case KindZoom:
		a.target.Zoom(cmd.Factor)
	case KindRotate:
		dx, dy := cmd.DeltaX, cmd.DeltaY
		if cmd.Source != SourceGesture {
			dx *= pixelScale
			dy *= pixelScale
		}
		a.target.Rotate(dx, dy)
	case KindReset:
		a.target.ResetOrientation()
	}

	if a.OnApply != nil {
		a.OnApply(cmd)
	}
}
