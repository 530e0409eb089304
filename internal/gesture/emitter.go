package gesture

import (
	"sync"
	"time"

	"github.com/ayusman/terraglove/internal/input"
)

// Emitter timing constants.
const (
	// HistoryWindow bounds the rolling label history.
	HistoryWindow = time.Second
	// ResetHold is how long an open palm must be held before a reset fires.
	// Prevents accidental resets from a passing open hand.
	ResetHold = 500 * time.Millisecond
)

// Zoom factors applied per held frame.
const (
	zoomInFactor  = 1.02
	zoomOutFactor = 0.98
)

// swipeDegrees is the rotation applied per recognized swipe, already in
// degrees (not pixel units, so it skips the arbiter's pixel scaling).
const swipeDegrees = 5.0

// LabelAt pairs a gesture label with the frame time it was observed.
type LabelAt struct {
	Label Label     `json:"label"`
	At    time.Time `json:"at"`
}

// Emitter tracks gesture transitions across frames and maps stable labels to
// input commands. OnFrame is driven from the single pipeline goroutine; the
// mutex covers the display reads arriving from server goroutines.
type Emitter struct {
	mu        sync.Mutex
	current   Label
	startedAt time.Time
	history   []LabelAt
}

// NewEmitter creates an Emitter with empty gesture state.
func NewEmitter() *Emitter {
	return &Emitter{}
}

// Current returns the label seen on the most recent frame, for display.
func (e *Emitter) Current() Label {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.current
}

// Recent returns a copy of the label history inside the rolling window,
// oldest first. Exposed for the viewer's debug overlay.
func (e *Emitter) Recent() []LabelAt {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]LabelAt, len(e.history))
	copy(out, e.history)
	return out
}

// OnFrame consumes one classified frame and returns at most one command.
// A transition to any different label, including none, restarts the hold
// timer.
func (e *Emitter) OnFrame(label Label, now time.Time) (input.Command, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if label != e.current {
		e.current = label
		e.startedAt = now
	}

	e.history = append(e.history, LabelAt{Label: label, At: now})
	cut := 0
	for cut < len(e.history) && now.Sub(e.history[cut].At) > HistoryWindow {
		cut++
	}
	e.history = e.history[cut:]

	switch label {
	case LabelZoomIn:
		return input.Command{Kind: input.KindZoom, Source: input.SourceGesture, Factor: zoomInFactor, Continuous: true}, true
	case LabelZoomOut:
		return input.Command{Kind: input.KindZoom, Source: input.SourceGesture, Factor: zoomOutFactor, Continuous: true}, true
	case LabelSwipeLeft:
		return input.Command{Kind: input.KindRotate, Source: input.SourceGesture, DeltaX: -swipeDegrees}, true
	case LabelSwipeRight:
		return input.Command{Kind: input.KindRotate, Source: input.SourceGesture, DeltaX: swipeDegrees}, true
	case LabelReset:
		if now.Sub(e.startedAt) > ResetHold {
			return input.Command{Kind: input.KindReset, Source: input.SourceGesture}, true
		}
	}

	return input.Command{}, false
}
