package app

import (
	"math"
	"testing"
	"time"

	"github.com/ayusman/terraglove/internal/detector"
	"github.com/ayusman/terraglove/internal/gesture"
	"github.com/ayusman/terraglove/internal/input"
	"github.com/ayusman/terraglove/internal/transform"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	a := New(Config{Gesture: gesture.DefaultConfig()})
	a.SetDetector(detector.NewMockDetector())
	a.SetEnabled(true)
	return a
}

func frame(hand detector.HandLandmarks) []detector.HandLandmarks {
	return []detector.HandLandmarks{hand}
}

func TestPipeline_HeldIndexZoomsIn(t *testing.T) {
	a := newTestApp(t)
	start := time.Now()

	// Five index-point frames at ~30fps: one continuous zoom per frame.
	hand := detector.IndexPointLandmarks()
	for i := 0; i < 5; i++ {
		a.processHands(frame(hand), start.Add(time.Duration(i)*33*time.Millisecond))
	}

	want := math.Pow(1.02, 5)
	if got := a.Object().State().Scale; math.Abs(got-want) > 1e-9 {
		t.Errorf("expected scale %f after 5 held frames, got %f", want, got)
	}
	if a.Emitter().Current() != gesture.LabelZoomIn {
		t.Errorf("expected current label zoom_in, got %q", a.Emitter().Current())
	}
}

func TestPipeline_SwipeRotatesOnce(t *testing.T) {
	a := newTestApp(t)
	start := time.Now()

	hand := detector.ThreeFingerLandmarks()
	a.processHands(frame(hand), start)
	a.processHands(frame(hand.Translated(0.15, 0)), start.Add(100*time.Millisecond))

	if got := a.Object().State().Rotation.Y; got != 5 {
		t.Fatalf("expected one swipe_right worth of rotation (5), got %f", got)
	}

	// A third frame with tiny travel must not re-fire the swipe.
	a.processHands(frame(hand.Translated(0.16, 0)), start.Add(150*time.Millisecond))
	if got := a.Object().State().Rotation.Y; got != 5 {
		t.Errorf("expected rotation unchanged at 5, got %f", got)
	}
}

func TestPipeline_RapidSwipesAreDebounced(t *testing.T) {
	a := newTestApp(t)
	start := time.Now()

	hand := detector.ThreeFingerLandmarks()
	a.processHands(frame(hand), start)
	// Both frames classify as swipes, but the second lands inside the
	// arbiter's 100ms window.
	a.processHands(frame(hand.Translated(0.15, 0)), start.Add(33*time.Millisecond))
	a.processHands(frame(hand.Translated(0.30, 0)), start.Add(66*time.Millisecond))

	if got := a.Object().State().Rotation.Y; got != 5 {
		t.Errorf("expected only the first swipe applied, got rotation %f", got)
	}
}

func TestPipeline_SustainedPalmResets(t *testing.T) {
	a := newTestApp(t)
	start := time.Now()

	// Disturb the transform first.
	a.Object().Rotate(40, 20)
	a.Object().Zoom(2.0)

	palm := detector.OpenPalmLandmarks()
	for _, ms := range []int{0, 200, 400} {
		a.processHands(frame(palm), start.Add(time.Duration(ms)*time.Millisecond))
	}
	if a.Object().Resetting() {
		t.Fatal("expected no reset before the 500ms hold")
	}

	a.processHands(frame(palm), start.Add(501*time.Millisecond))
	if !a.Object().Resetting() {
		t.Fatal("expected reset animation after sustained palm")
	}

	// No-hand frames keep ticking the animation to completion.
	for ms := 600; ms <= 1700; ms += 100 {
		a.processHands(nil, start.Add(time.Duration(ms)*time.Millisecond))
	}

	s := a.Object().State()
	if s.Rotation != (transform.Vec3{}) || s.Scale != 1 {
		t.Errorf("expected transform back at original, got %+v", s)
	}
}

func TestPipeline_HandLossClearsGesture(t *testing.T) {
	a := newTestApp(t)
	start := time.Now()

	a.processHands(frame(detector.IndexPointLandmarks()), start)
	if a.Emitter().Current() != gesture.LabelZoomIn {
		t.Fatalf("expected zoom_in while hand present, got %q", a.Emitter().Current())
	}

	a.processHands(nil, start.Add(33*time.Millisecond))
	if a.Emitter().Current() != gesture.LabelNone {
		t.Errorf("expected label cleared on hand loss, got %q", a.Emitter().Current())
	}
}

func TestSessionIntegration_AnchorMovesObject(t *testing.T) {
	a := newTestApp(t)

	a.Session().Begin()
	a.Session().AnchorUpdate(0.5, 0, -1.5)

	if got := a.Object().State().Position; got != (transform.Vec3{X: 0.5, Y: 0, Z: -1.5}) {
		t.Errorf("expected anchored position, got %+v", got)
	}
}

func TestSessionIntegration_TouchSuppressedDuringAR(t *testing.T) {
	a := newTestApp(t)
	now := time.Now()

	touch := input.Command{Kind: input.KindRotate, Source: input.SourceTouch, DeltaX: 50}

	a.Session().Begin()
	if a.Arbiter().Submit(touch, now) {
		t.Error("expected touch dropped while AR session active")
	}

	a.Session().End()
	if !a.Arbiter().Submit(touch, now.Add(time.Millisecond)) {
		t.Error("expected touch accepted after session end")
	}
	if got := a.Object().State().Rotation.Y; math.Abs(got-0.5) > 1e-9 {
		t.Errorf("expected 50px drag to rotate 0.5 degrees, got %f", got)
	}
}

func TestSessionIntegration_FrameTickAdvancesReset(t *testing.T) {
	a := newTestApp(t)

	a.Object().Rotate(40, 0)
	a.Object().ResetOrientation()

	start := time.Now()
	a.Session().FrameTick(start)
	a.Session().FrameTick(start.Add(transform.ResetDuration))

	if got := a.Object().State().Rotation.Y; got != 0 {
		t.Errorf("expected viewer ticks to finish the reset, got %f", got)
	}
}

func TestStop_CancelsInFlightReset(t *testing.T) {
	a := newTestApp(t)

	a.Object().Rotate(40, 0)
	a.Object().ResetOrientation()

	a.Stop()
	if a.Object().Resetting() {
		t.Error("expected teardown to cancel the reset animation")
	}
}
