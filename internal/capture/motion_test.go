package capture

import (
	"testing"

	"gocv.io/x/gocv"
)

func solidFrame(value float64) gocv.Mat {
	frame := gocv.NewMatWithSize(captureHeight, captureWidth, gocv.MatTypeCV8UC3)
	if value > 0 {
		frame.SetTo(gocv.NewScalar(value, value, value, 0))
	}
	return frame
}

func TestMotionThresholdFallback(t *testing.T) {
	md := NewMotionDetector(0)
	defer md.Close()

	if md.threshold != DefaultWakeThreshold {
		t.Errorf("threshold = %f for non-positive input, want %f", md.threshold, DefaultWakeThreshold)
	}
}

func TestMotionStaticScene(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that allocates gocv Mats")
	}

	md := NewMotionDetector(DefaultWakeThreshold)
	defer md.Close()

	a := solidFrame(0)
	defer a.Close()
	b := solidFrame(0)
	defer b.Close()

	// The priming frame never reports motion.
	if detected, changePercent := md.Detect(&a); detected || changePercent != 0 {
		t.Errorf("priming frame: detected = %v, changePercent = %f", detected, changePercent)
	}

	// A static scene stays below the wake threshold.
	if detected, changePercent := md.Detect(&b); detected {
		t.Errorf("static scene woke the gate, changePercent = %f", changePercent)
	}
}

func TestMotionHandEntry(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that allocates gocv Mats")
	}

	md := NewMotionDetector(DefaultWakeThreshold)
	defer md.Close()

	dark := solidFrame(0)
	defer dark.Close()
	bright := solidFrame(255)
	defer bright.Close()

	md.Detect(&dark)

	detected, changePercent := md.Detect(&bright)
	if !detected {
		t.Errorf("full-frame change did not wake the gate, changePercent = %f", changePercent)
	}
	if changePercent < 50 {
		t.Errorf("changePercent = %f for a full-frame change, want > 50", changePercent)
	}
}

func TestMotionReset(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that allocates gocv Mats")
	}

	md := NewMotionDetector(DefaultWakeThreshold)
	defer md.Close()

	dark := solidFrame(0)
	defer dark.Close()
	bright := solidFrame(255)
	defer bright.Close()

	md.Detect(&dark)
	md.Reset()

	// After a reset the bright frame only re-primes the baseline, so the
	// dark-to-bright jump is invisible.
	if detected, _ := md.Detect(&bright); detected {
		t.Error("frame after Reset reported motion instead of priming")
	}
	if !md.primed {
		t.Error("detector not primed after post-Reset frame")
	}
}

func TestMotionSetThreshold(t *testing.T) {
	md := NewMotionDetector(DefaultWakeThreshold)
	defer md.Close()

	md.SetThreshold(5)
	if md.threshold != 5 {
		t.Errorf("threshold = %f after SetThreshold(5), want 5", md.threshold)
	}

	md.SetThreshold(-1)
	if md.threshold != 5 {
		t.Errorf("threshold = %f after ignored SetThreshold, want 5", md.threshold)
	}
}

func TestMotionCloseReuse(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that allocates gocv Mats")
	}

	md := NewMotionDetector(DefaultWakeThreshold)

	frame := solidFrame(0)
	defer frame.Close()

	md.Detect(&frame)
	md.Close()
	md.Close()

	// The detector survives Close and primes again.
	if detected, _ := md.Detect(&frame); detected {
		t.Error("first frame after Close reported motion instead of priming")
	}
	md.Close()
}
