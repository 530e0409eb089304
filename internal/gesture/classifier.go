// Package gesture turns per-frame hand landmarks into discrete input commands.
package gesture

import (
	"math"
	"time"

	"github.com/ayusman/terraglove/internal/detector"
)

// Label is a discrete gesture recognized from one frame of hand landmarks.
type Label string

const (
	// LabelNone means no gesture was recognized this frame.
	LabelNone Label = ""
	// LabelZoomIn is an index-finger point (zoom in while held).
	LabelZoomIn Label = "zoom_in"
	// LabelZoomOut is a peace sign (zoom out while held).
	LabelZoomOut Label = "zoom_out"
	// LabelSwipeLeft is a leftward multi-finger swipe.
	LabelSwipeLeft Label = "swipe_left"
	// LabelSwipeRight is a rightward multi-finger swipe.
	LabelSwipeRight Label = "swipe_right"
	// LabelReset is a sustained open palm.
	LabelReset Label = "reset"
)

// Config holds classification thresholds.
type Config struct {
	// SwipeThreshold is the minimum horizontal fingertip travel, in
	// normalized camera units, for a swipe to fire. The comparison is
	// strict: travel of exactly SwipeThreshold does not fire.
	SwipeThreshold float64

	// SwipeMaxInterval is the longest gap between two tracked frames that
	// still counts as one swipe motion. The comparison is strict.
	SwipeMaxInterval time.Duration
}

// DefaultConfig returns the default classification thresholds.
func DefaultConfig() Config {
	return Config{
		SwipeThreshold:   0.1,
		SwipeMaxInterval: 500 * time.Millisecond,
	}
}

// TrackState carries the index-fingertip tracking used for swipe detection
// between classification calls. The zero value means nothing is tracked.
// Callers thread it through Classify; it is never mutated in place, which
// keeps frame ordering explicit and classification deterministic under test.
type TrackState struct {
	Tracking bool
	LastX    float64
	LastY    float64
	LastSeen time.Time
}

// Classifier converts one landmark set into a gesture label using
// finger-extension geometry and short-horizon fingertip motion.
type Classifier struct {
	cfg Config
}

// NewClassifier creates a Classifier with the given thresholds. Zero-valued
// fields fall back to defaults.
func NewClassifier(cfg Config) *Classifier {
	def := DefaultConfig()
	if cfg.SwipeThreshold <= 0 {
		cfg.SwipeThreshold = def.SwipeThreshold
	}
	if cfg.SwipeMaxInterval <= 0 {
		cfg.SwipeMaxInterval = def.SwipeMaxInterval
	}
	return &Classifier{cfg: cfg}
}

// ExtensionVector reports, per finger, whether the finger is extended.
//
// The thumb is judged on the horizontal axis (it flexes sideways): extended
// iff its tip lies further from the palm center than its MCP joint. The
// other four fingers are extended iff the tip sits above its PIP joint in
// camera space, which grows downward. This assumes a roughly upright hand;
// rotation is not corrected for.
func ExtensionVector(hand *detector.HandLandmarks) [detector.NumFingers]bool {
	var ext [detector.NumFingers]bool

	palmX := hand.Points[detector.MiddleMCP].X
	tip := hand.Points[detector.ThumbTip]
	base := hand.Points[detector.ThumbMCP]
	ext[detector.Thumb] = math.Abs(tip.X-palmX) > math.Abs(base.X-palmX)

	for f := detector.Index; f <= detector.Pinky; f++ {
		tip := hand.Points[detector.FingerTips[f]]
		pip := hand.Points[detector.FingerPIPs[f]]
		ext[f] = tip.Y < pip.Y
	}

	return ext
}

// Classify maps one landmark set (or nil for a no-hand frame) to a gesture
// label, returning the updated tracking state.
//
// Precedence, first match wins: index-only point, peace sign, open palm
// (4+ fingers), then swipe on any other 2+ finger pose.
//
// A nil hand clears the tracking state so that a hand re-entering the frame
// never produces a swipe delta against a stale position.
func (c *Classifier) Classify(state TrackState, hand *detector.HandLandmarks, now time.Time) (TrackState, Label) {
	if hand == nil {
		return TrackState{}, LabelNone
	}

	ext := ExtensionVector(hand)
	n := 0
	for _, e := range ext {
		if e {
			n++
		}
	}

	// The fingertip is re-tracked on every hand frame, so swipe detection is
	// frame-to-frame incremental rather than cumulative over a gesture.
	tip := hand.IndexFingerTip()
	prev := state
	next := TrackState{Tracking: true, LastX: tip.X, LastY: tip.Y, LastSeen: now}

	switch {
	case n == 1 && ext[detector.Index]:
		return next, LabelZoomIn
	case n == 2 && ext[detector.Index] && ext[detector.Middle]:
		return next, LabelZoomOut
	case n >= 4:
		return next, LabelReset
	case n >= 2:
		return next, c.swipe(prev, tip, now)
	default:
		return next, LabelNone
	}
}

// swipe checks the fingertip delta against the previous tracked position.
func (c *Classifier) swipe(prev TrackState, tip detector.Point3D, now time.Time) Label {
	if !prev.Tracking {
		return LabelNone
	}

	dx := tip.X - prev.LastX
	if now.Sub(prev.LastSeen) >= c.cfg.SwipeMaxInterval {
		return LabelNone
	}
	if math.Abs(dx) <= c.cfg.SwipeThreshold {
		return LabelNone
	}

	if dx > 0 {
		return LabelSwipeRight
	}
	return LabelSwipeLeft
}
