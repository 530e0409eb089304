package capture

import (
	"image"
	"sync"

	"gocv.io/x/gocv"
)

// Motion gate tuning. The gate only has to notice a hand entering or leaving
// the frame, not track it, so the numbers favor cheap and insensitive over
// precise.
const (
	// DefaultWakeThreshold is the percentage of changed pixels that wakes
	// the pipeline. A hand at interaction distance covers a few percent of
	// a 640x480 frame, so half a percent catches the entry edge.
	DefaultWakeThreshold = 0.5

	// blurKernelSize smooths sensor noise before differencing. 13x13 keeps
	// finger-scale motion visible where a heavier blur would erase it.
	blurKernelSize = 13

	// diffThreshold is the per-pixel intensity delta that counts as change.
	// Indoor webcam noise stays below ~15 levels.
	diffThreshold = 18
)

// MotionDetector is the wake gate in front of hand detection: frame
// differencing over blurred grayscale, far cheaper than running the landmark
// model on every idle frame.
type MotionDetector struct {
	threshold float64
	baseline  gocv.Mat
	primed    bool
	mu        sync.Mutex
}

// NewMotionDetector creates a MotionDetector. threshold is the percentage of
// pixels that must change between frames; non-positive values fall back to
// DefaultWakeThreshold.
func NewMotionDetector(threshold float64) *MotionDetector {
	if threshold <= 0 {
		threshold = DefaultWakeThreshold
	}
	return &MotionDetector{
		threshold: threshold,
		baseline:  gocv.NewMat(),
	}
}

// Detect compares a frame against the previous one and reports whether
// enough pixels changed, plus the change percentage. The first frame after
// construction or Reset only primes the baseline and never reports motion.
func (m *MotionDetector) Detect(frame *gocv.Mat) (bool, float64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if frame == nil || frame.Empty() {
		return false, 0
	}

	blurred := prep(frame)
	defer blurred.Close()

	if !m.primed {
		blurred.CopyTo(&m.baseline)
		m.primed = true
		return false, 0
	}

	diff := gocv.NewMat()
	defer diff.Close()
	gocv.AbsDiff(blurred, m.baseline, &diff)

	mask := gocv.NewMat()
	defer mask.Close()
	gocv.Threshold(diff, &mask, diffThreshold, 255, gocv.ThresholdBinary)

	changed := gocv.CountNonZero(mask)
	total := mask.Rows() * mask.Cols()
	changePercent := float64(changed) / float64(total) * 100.0

	blurred.CopyTo(&m.baseline)

	return changePercent > m.threshold, changePercent
}

// prep converts a frame to blurred grayscale for differencing.
func prep(frame *gocv.Mat) gocv.Mat {
	gray := gocv.NewMat()
	if frame.Channels() > 1 {
		gocv.CvtColor(*frame, &gray, gocv.ColorBGRToGray)
	} else {
		frame.CopyTo(&gray)
	}

	blurred := gocv.NewMat()
	gocv.GaussianBlur(gray, &blurred, image.Point{X: blurKernelSize, Y: blurKernelSize}, 0, 0, gocv.BorderDefault)
	gray.Close()
	return blurred
}

// Reset drops the baseline so the next frame primes a fresh one.
func (m *MotionDetector) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clear()
}

// Close releases the baseline Mat. The detector remains usable; the next
// Detect primes again.
func (m *MotionDetector) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clear()
}

func (m *MotionDetector) clear() {
	if !m.baseline.Empty() {
		m.baseline.Close()
		m.baseline = gocv.NewMat()
	}
	m.primed = false
}

// SetThreshold changes the wake threshold. Non-positive values are ignored.
func (m *MotionDetector) SetThreshold(threshold float64) {
	if threshold <= 0 {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.threshold = threshold
}
