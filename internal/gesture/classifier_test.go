package gesture

import (
	"testing"
	"time"

	"github.com/ayusman/terraglove/internal/detector"
)

func TestClassifier_StaticPoses(t *testing.T) {
	c := NewClassifier(DefaultConfig())
	now := time.Now()

	tests := []struct {
		name string
		hand detector.HandLandmarks
		want Label
	}{
		{"index point is zoom in", detector.IndexPointLandmarks(), LabelZoomIn},
		{"peace sign is zoom out", detector.PeaceSignLandmarks(), LabelZoomOut},
		{"open palm is reset", detector.OpenPalmLandmarks(), LabelReset},
		{"fist is none", detector.FistLandmarks(), LabelNone},
		{"three fingers without motion is none", detector.ThreeFingerLandmarks(), LabelNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, label := c.Classify(TrackState{}, &tt.hand, now)
			if label != tt.want {
				t.Errorf("expected label %q, got %q", tt.want, label)
			}
		})
	}
}

func TestClassifier_PrecedenceOverSwipe(t *testing.T) {
	// A peace sign moving fast enough to swipe must still classify as zoom
	// out: the finger-pattern rules are checked before swipe detection.
	c := NewClassifier(DefaultConfig())
	now := time.Now()

	hand := detector.PeaceSignLandmarks()
	state, label := c.Classify(TrackState{}, &hand, now)
	if label != LabelZoomOut {
		t.Fatalf("expected zoom_out on first frame, got %q", label)
	}

	moved := hand.Translated(0.3, 0)
	_, label = c.Classify(state, &moved, now.Add(50*time.Millisecond))
	if label != LabelZoomOut {
		t.Errorf("expected zoom_out to win over swipe, got %q", label)
	}
}

func TestClassifier_OpenPalmBeatsSwipe(t *testing.T) {
	c := NewClassifier(DefaultConfig())
	now := time.Now()

	hand := detector.OpenPalmLandmarks()
	state, _ := c.Classify(TrackState{}, &hand, now)

	moved := hand.Translated(0.3, 0)
	_, label := c.Classify(state, &moved, now.Add(50*time.Millisecond))
	if label != LabelReset {
		t.Errorf("expected reset to win over swipe, got %q", label)
	}
}

func TestClassifier_ExtensionVector(t *testing.T) {
	t.Run("index point", func(t *testing.T) {
		hand := detector.IndexPointLandmarks()
		ext := ExtensionVector(&hand)
		want := [detector.NumFingers]bool{detector.Index: true}
		if ext != want {
			t.Errorf("expected %v, got %v", want, ext)
		}
	})

	t.Run("open palm", func(t *testing.T) {
		hand := detector.OpenPalmLandmarks()
		ext := ExtensionVector(&hand)
		for f, e := range ext {
			if !e {
				t.Errorf("expected finger %d extended on open palm", f)
			}
		}
	})

	t.Run("fist", func(t *testing.T) {
		hand := detector.FistLandmarks()
		ext := ExtensionVector(&hand)
		for f, e := range ext {
			if e {
				t.Errorf("expected finger %d curled on fist", f)
			}
		}
	})
}

func TestClassifier_SwipeRight(t *testing.T) {
	c := NewClassifier(DefaultConfig())
	now := time.Now()

	hand := detector.ThreeFingerLandmarks()
	state, label := c.Classify(TrackState{}, &hand, now)
	if label != LabelNone {
		t.Fatalf("expected none on first tracked frame, got %q", label)
	}

	moved := hand.Translated(0.15, 0)
	_, label = c.Classify(state, &moved, now.Add(100*time.Millisecond))
	if label != LabelSwipeRight {
		t.Errorf("expected swipe_right for dx=+0.15, got %q", label)
	}
}

func TestClassifier_SwipeLeft(t *testing.T) {
	c := NewClassifier(DefaultConfig())
	now := time.Now()

	hand := detector.ThreeFingerLandmarks()
	state, _ := c.Classify(TrackState{}, &hand, now)

	moved := hand.Translated(-0.15, 0)
	_, label := c.Classify(state, &moved, now.Add(100*time.Millisecond))
	if label != LabelSwipeLeft {
		t.Errorf("expected swipe_left for dx=-0.15, got %q", label)
	}
}

func TestClassifier_SwipeThresholdIsStrict(t *testing.T) {
	// Travel of exactly the threshold must not fire. Threshold and delta
	// are powers of two so the comparison is exact.
	c := NewClassifier(Config{SwipeThreshold: 0.125, SwipeMaxInterval: 500 * time.Millisecond})
	now := time.Now()

	hand := detector.ThreeFingerLandmarks()
	state, _ := c.Classify(TrackState{}, &hand, now)

	atThreshold := hand.Translated(0.125, 0)
	state2, label := c.Classify(state, &atThreshold, now.Add(100*time.Millisecond))
	if label != LabelNone {
		t.Errorf("expected no swipe at exactly the threshold, got %q", label)
	}

	past := atThreshold.Translated(0.25, 0)
	_, label = c.Classify(state2, &past, now.Add(200*time.Millisecond))
	if label != LabelSwipeRight {
		t.Errorf("expected swipe past the threshold, got %q", label)
	}
}

func TestClassifier_SwipeTooSlow(t *testing.T) {
	c := NewClassifier(DefaultConfig())
	now := time.Now()

	hand := detector.ThreeFingerLandmarks()
	state, _ := c.Classify(TrackState{}, &hand, now)

	// Large travel, but the frames are too far apart.
	moved := hand.Translated(0.3, 0)
	_, label := c.Classify(state, &moved, now.Add(600*time.Millisecond))
	if label != LabelNone {
		t.Errorf("expected no swipe for dt=600ms, got %q", label)
	}
}

func TestClassifier_SwipeIsIncremental(t *testing.T) {
	// The tracked position is overwritten every frame, so a slow drift
	// never accumulates into a swipe.
	c := NewClassifier(DefaultConfig())
	now := time.Now()

	hand := detector.ThreeFingerLandmarks()
	state := TrackState{}
	var label Label
	for i := 0; i < 10; i++ {
		moved := hand.Translated(float64(i)*0.05, 0)
		state, label = c.Classify(state, &moved, now.Add(time.Duration(i)*100*time.Millisecond))
		if label != LabelNone {
			t.Fatalf("frame %d: expected no swipe from 0.05 steps, got %q", i, label)
		}
	}
}

func TestClassifier_HandLossClearsTracking(t *testing.T) {
	c := NewClassifier(DefaultConfig())
	now := time.Now()

	hand := detector.ThreeFingerLandmarks()
	state, _ := c.Classify(TrackState{}, &hand, now)

	state, label := c.Classify(state, nil, now.Add(33*time.Millisecond))
	if label != LabelNone {
		t.Fatalf("expected none for no-hand frame, got %q", label)
	}
	if state.Tracking {
		t.Fatal("expected tracking state cleared on hand loss")
	}

	// A hand re-entering far from the old position must not swipe against
	// the stale delta.
	reentered := hand.Translated(0.4, 0)
	_, label = c.Classify(state, &reentered, now.Add(66*time.Millisecond))
	if label != LabelNone {
		t.Errorf("expected no swipe on re-entry, got %q", label)
	}
}
