// Package arsession tracks the AR session lifecycle reported by the viewer.
//
// The viewer owns the WebXR session itself; this side only mirrors its state
// and fans its events (anchor poses, frame ticks, session end) into the rest
// of the pipeline.
package arsession

import (
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Capabilities reports what the connected setup can do. It is built once at
// initialization and inspected by callers; missing capabilities degrade the
// pipeline, they are never raised as errors mid-stream.
type Capabilities struct {
	ARSupported     bool `json:"ar_supported"`
	HandTracking    bool `json:"hand_tracking"`
	CameraAvailable bool `json:"camera_available"`
}

// Controller mirrors AR session state on the service side.
type Controller struct {
	mu        sync.RWMutex
	caps      Capabilities
	active    bool
	sessionID string

	onAnchor func(x, y, z float64)
	onFrame  func(now time.Time)
	onEnd    func()
}

// NewController creates a Controller with the given capability report.
func NewController(caps Capabilities) *Controller {
	return &Controller{caps: caps}
}

// Capabilities returns the capability report built at setup.
func (c *Controller) Capabilities() Capabilities {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.caps
}

// SetARSupported records the viewer's WebXR support check, which only
// arrives with the first viewer connection.
func (c *Controller) SetARSupported(supported bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.caps.ARSupported = supported
}

// SetCameraAvailable records whether the service-side camera opened.
func (c *Controller) SetCameraAvailable(available bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.caps.CameraAvailable = available
}

// Active reports whether an AR session is currently running.
func (c *Controller) Active() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.active
}

// SessionID returns the id of the running session, or "" when inactive.
func (c *Controller) SessionID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.sessionID
}

// OnAnchor sets the callback invoked with each anchor position update.
func (c *Controller) OnAnchor(fn func(x, y, z float64)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onAnchor = fn
}

// OnFrame sets the callback invoked on every viewer frame tick.
func (c *Controller) OnFrame(fn func(now time.Time)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onFrame = fn
}

// OnEnd sets the callback invoked when the session ends.
func (c *Controller) OnEnd(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onEnd = fn
}

// Begin marks a session as started and returns its id. Beginning while a
// session is already active replaces it.
func (c *Controller) Begin() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.active = true
	c.sessionID = uuid.NewString()
	log.Printf("AR session started: %s", c.sessionID)
	return c.sessionID
}

// End marks the session as over and invokes the end callback.
func (c *Controller) End() {
	c.mu.Lock()
	if !c.active {
		c.mu.Unlock()
		return
	}
	id := c.sessionID
	c.active = false
	c.sessionID = ""
	fn := c.onEnd
	c.mu.Unlock()

	log.Printf("AR session ended: %s", id)
	if fn != nil {
		fn()
	}
}

// AnchorUpdate forwards an anchor position to the anchor callback. Anchor
// poses bypass zoom/rotate arbitration entirely.
func (c *Controller) AnchorUpdate(x, y, z float64) {
	c.mu.RLock()
	fn := c.onAnchor
	c.mu.RUnlock()
	if fn != nil {
		fn(x, y, z)
	}
}

// FrameTick forwards a per-frame tick to the frame callback. Ticks advance
// any in-flight animation; they carry no other state.
func (c *Controller) FrameTick(now time.Time) {
	c.mu.RLock()
	fn := c.onFrame
	c.mu.RUnlock()
	if fn != nil {
		fn(now)
	}
}
