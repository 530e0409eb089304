package detector

import (
	"gocv.io/x/gocv"
)

// MockDetector is a test implementation of the Detector interface.
// It allows tests to control the detection results.
type MockDetector struct {
	hands []HandLandmarks
	err   error
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetHands sets the hands that will be returned by Detect.
func (m *MockDetector) SetHands(hands []HandLandmarks) {
	m.hands = hands
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.err = err
}

// Detect returns the pre-configured hands or error.
func (m *MockDetector) Detect(frame *gocv.Mat) ([]HandLandmarks, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.hands, nil
}

// Close is a no-op for the mock detector.
func (m *MockDetector) Close() error {
	return nil
}

// makeHand builds a right hand centered around x=0.5 with each finger either
// extended or curled. Extended fingers have tips above (numerically below in
// y) their PIP joints; the thumb, when extended, points away from the palm
// center on the x axis.
func makeHand(extended [NumFingers]bool) HandLandmarks {
	h := HandLandmarks{
		Handedness: "Right",
		Score:      0.95,
	}

	h.Points[Wrist] = Point3D{X: 0.50, Y: 0.80}

	// Thumb chain
	h.Points[ThumbCMC] = Point3D{X: 0.55, Y: 0.75}
	if extended[Thumb] {
		h.Points[ThumbMCP] = Point3D{X: 0.62, Y: 0.70, Z: 0.03}
		h.Points[ThumbIP] = Point3D{X: 0.68, Y: 0.65, Z: 0.03}
		h.Points[ThumbTip] = Point3D{X: 0.73, Y: 0.60, Z: 0.03}
	} else {
		h.Points[ThumbMCP] = Point3D{X: 0.55, Y: 0.70, Z: -0.02}
		h.Points[ThumbIP] = Point3D{X: 0.53, Y: 0.68, Z: -0.04}
		h.Points[ThumbTip] = Point3D{X: 0.52, Y: 0.70, Z: -0.02}
	}

	// MCP x positions fan out across the knuckles.
	mcpX := map[Finger]float64{Index: 0.55, Middle: 0.50, Ring: 0.45, Pinky: 0.40}
	mcp := map[Finger]int{Index: IndexMCP, Middle: MiddleMCP, Ring: RingMCP, Pinky: PinkyMCP}

	for f := Index; f <= Pinky; f++ {
		x := mcpX[f]
		base := mcp[f]
		h.Points[base] = Point3D{X: x, Y: 0.68}
		if extended[f] {
			h.Points[base+1] = Point3D{X: x, Y: 0.55} // PIP
			h.Points[base+2] = Point3D{X: x, Y: 0.45} // DIP
			h.Points[base+3] = Point3D{X: x, Y: 0.35} // tip
		} else {
			h.Points[base+1] = Point3D{X: x, Y: 0.66, Z: -0.05} // PIP
			h.Points[base+2] = Point3D{X: x - 0.03, Y: 0.70, Z: -0.04}
			h.Points[base+3] = Point3D{X: x - 0.05, Y: 0.72, Z: -0.02}
		}
	}

	return h
}

// IndexPointLandmarks returns a hand with only the index finger extended.
func IndexPointLandmarks() HandLandmarks {
	return makeHand([NumFingers]bool{Index: true})
}

// PeaceSignLandmarks returns a hand with exactly index and middle fingers
// extended.
func PeaceSignLandmarks() HandLandmarks {
	return makeHand([NumFingers]bool{Index: true, Middle: true})
}

// ThreeFingerLandmarks returns a hand with index, middle and ring fingers
// extended.
func ThreeFingerLandmarks() HandLandmarks {
	return makeHand([NumFingers]bool{Index: true, Middle: true, Ring: true})
}

// OpenPalmLandmarks returns a hand with all five fingers extended.
func OpenPalmLandmarks() HandLandmarks {
	return makeHand([NumFingers]bool{Thumb: true, Index: true, Middle: true, Ring: true, Pinky: true})
}

// FistLandmarks returns a hand with no fingers extended.
func FistLandmarks() HandLandmarks {
	return makeHand([NumFingers]bool{})
}
