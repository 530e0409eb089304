// Package detector provides hand landmark detection for gesture-driven control.
package detector

// Hand landmark indices following MediaPipe convention.
// See: https://developers.google.com/mediapipe/solutions/vision/hand_landmarker
const (
	Wrist        = 0
	ThumbCMC     = 1
	ThumbMCP     = 2
	ThumbIP      = 3
	ThumbTip     = 4
	IndexMCP     = 5
	IndexPIP     = 6
	IndexDIP     = 7
	IndexTip     = 8
	MiddleMCP    = 9
	MiddlePIP    = 10
	MiddleDIP    = 11
	MiddleTip    = 12
	RingMCP      = 13
	RingPIP      = 14
	RingDIP      = 15
	RingTip      = 16
	PinkyMCP     = 17
	PinkyPIP     = 18
	PinkyDIP     = 19
	PinkyTip     = 20
	NumLandmarks = 21
)

// Finger identifies one of the five fingers, thumb first.
type Finger int

// Finger indices into extension vectors and the tip/joint tables.
const (
	Thumb Finger = iota
	Index
	Middle
	Ring
	Pinky
	NumFingers
)

// FingerTips maps each finger to its fingertip landmark index.
var FingerTips = [NumFingers]int{ThumbTip, IndexTip, MiddleTip, RingTip, PinkyTip}

// FingerPIPs maps each finger to the joint its tip is compared against when
// deciding extension. The thumb uses its MCP because it flexes sideways rather
// than curling toward the palm.
var FingerPIPs = [NumFingers]int{ThumbMCP, IndexPIP, MiddlePIP, RingPIP, PinkyPIP}

// Point3D is a point in normalized camera-frame space. X and Y are in [0,1]
// with Y growing downward; Z is depth relative to the wrist.
type Point3D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// HandLandmarks holds the 21 hand landmarks for one detected hand.
type HandLandmarks struct {
	Points     [NumLandmarks]Point3D `json:"points"`
	Handedness string                `json:"handedness"` // "Left" or "Right"
	Score      float64               `json:"score"`
}

// IndexFingerTip returns the index fingertip position, the point tracked for
// swipe detection.
func (h *HandLandmarks) IndexFingerTip() Point3D {
	return h.Points[IndexTip]
}

// Translated returns a copy of the landmarks shifted by (dx, dy) in
// camera-frame units. Used by fixtures and tests to simulate hand motion
// across frames.
func (h HandLandmarks) Translated(dx, dy float64) HandLandmarks {
	out := h
	for i := 0; i < NumLandmarks; i++ {
		out.Points[i].X += dx
		out.Points[i].Y += dy
	}
	return out
}
