package capture

import (
	"errors"
	"sync"

	"gocv.io/x/gocv"
)

// errFramesExhausted is returned by a non-looping MockCamera once every
// frame has been read.
var errFramesExhausted = errors.New("frame sequence exhausted")

// MockCamera plays back a fixed frame sequence, optionally looping. It stands
// in for a device in pipeline and stream tests.
type MockCamera struct {
	frames  []*gocv.Mat
	index   int
	loop    bool
	mu      sync.Mutex
	running bool
}

// NewMockCamera creates a MockCamera over the given frames. The camera does
// not take ownership; callers close the Mats they pass in.
func NewMockCamera(frames []*gocv.Mat, loop bool) *MockCamera {
	return &MockCamera{
		frames: frames,
		loop:   loop,
	}
}

func (c *MockCamera) Open() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.running = true
	c.index = 0
	return nil
}

func (c *MockCamera) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.running = false
	return nil
}

// ReadFrame returns a clone of the next frame in the sequence, wrapping when
// looping and failing once a non-looping sequence is exhausted.
func (c *MockCamera) ReadFrame() (*gocv.Mat, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.running {
		return nil, ErrCameraNotOpen
	}
	if len(c.frames) == 0 {
		return nil, ErrCameraNotOpen
	}

	if c.index >= len(c.frames) {
		if !c.loop {
			return nil, errFramesExhausted
		}
		c.index = 0
	}

	frame := c.frames[c.index].Clone()
	c.index++
	return &frame, nil
}

func (c *MockCamera) SetFPS(fps int) {}
func (c *MockCamera) FPS() int       { return defaultFPS }

func (c *MockCamera) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}
