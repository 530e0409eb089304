// Package capture provides the camera frame source and the motion gate that
// wakes the gesture pipeline.
package capture

import (
	"errors"
	"sync"

	"gocv.io/x/gocv"
)

// Capture defaults. 640x480 is the input size the landmark model is tuned
// for; larger frames only add JPEG encode cost on the sidecar path.
const (
	defaultFPS    = 5
	captureWidth  = 640
	captureHeight = 480
)

// ErrCameraNotOpen is returned when reading from a camera that is not open.
var ErrCameraNotOpen = errors.New("camera is not open")

// Camera is the frame source feeding the pipeline and the preview stream.
type Camera interface {
	Open() error
	Close() error
	ReadFrame() (*gocv.Mat, error)
	SetFPS(fps int)
	FPS() int
	IsOpen() bool
}

// deviceCamera captures from a physical device via GoCV.
type deviceCamera struct {
	deviceID int
	capture  *gocv.VideoCapture
	mu       sync.Mutex
	running  bool
	fps      int
}

// NewCamera creates a Camera for the given device. It starts at the idle
// frame rate; the pipeline raises it when a hand approaches.
func NewCamera(deviceID int) Camera {
	return &deviceCamera{
		deviceID: deviceID,
		fps:      defaultFPS,
	}
}

// Open claims the device and configures it for hand tracking. The driver
// buffer is kept shallow: a queued stale frame becomes visible lag between
// the hand and the object.
func (c *deviceCamera) Open() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.running {
		return nil
	}

	capture, err := gocv.OpenVideoCapture(c.deviceID)
	if err != nil {
		return err
	}

	capture.Set(gocv.VideoCaptureFrameWidth, captureWidth)
	capture.Set(gocv.VideoCaptureFrameHeight, captureHeight)
	capture.Set(gocv.VideoCaptureFPS, float64(c.fps))
	capture.Set(gocv.VideoCaptureBufferSize, 1)

	c.capture = capture
	c.running = true
	return nil
}

// Close releases the device. Closing a camera that never opened is a no-op.
func (c *deviceCamera) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.running || c.capture == nil {
		c.running = false
		return nil
	}

	err := c.capture.Close()
	c.capture = nil
	c.running = false
	return err
}

// ReadFrame grabs one frame. The caller owns the returned Mat and must close
// it.
func (c *deviceCamera) ReadFrame() (*gocv.Mat, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.running || c.capture == nil {
		return nil, ErrCameraNotOpen
	}

	mat := gocv.NewMat()
	if ok := c.capture.Read(&mat); !ok {
		mat.Close()
		return nil, errors.New("read frame failed")
	}
	if mat.Empty() {
		mat.Close()
		return nil, errors.New("empty frame")
	}
	return &mat, nil
}

// SetFPS changes the capture rate. The pipeline calls this when switching
// between idle and active mode. Non-positive values are ignored.
func (c *deviceCamera) SetFPS(fps int) {
	if fps <= 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.fps = fps
	if c.capture != nil {
		c.capture.Set(gocv.VideoCaptureFPS, float64(fps))
	}
}

// FPS returns the current capture rate setting.
func (c *deviceCamera) FPS() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fps
}

// IsOpen reports whether the device is claimed.
func (c *deviceCamera) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}
