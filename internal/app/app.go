// Package app wires the gesture pipeline: camera frames in, transform
// commands out.
package app

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ayusman/terraglove/internal/arsession"
	"github.com/ayusman/terraglove/internal/capture"
	"github.com/ayusman/terraglove/internal/detector"
	"github.com/ayusman/terraglove/internal/gesture"
	"github.com/ayusman/terraglove/internal/input"
	"github.com/ayusman/terraglove/internal/store"
	"github.com/ayusman/terraglove/internal/transform"
)

// Pipeline timing constants.
const (
	// IdleFPS is the frame rate while the motion gate watches for a hand.
	IdleFPS = 5
	// ActiveFPS is the frame rate during gesture tracking. Held zoom applies
	// its factor per frame and swipes are judged frame-to-frame, so the
	// active rate is the interaction's responsiveness.
	ActiveFPS = 30
	// IdleTimeoutMs is how long after the last motion the pipeline drops
	// back to idle.
	IdleTimeoutMs = 2000
)

// Config holds configuration options for the application.
type Config struct {
	Store           *store.Store
	CameraID        int
	MotionThresh    float64
	Gesture         gesture.Config
	GestureDebounce time.Duration
}

// App orchestrates the pipeline: camera, motion gate, hand detection,
// gesture classification, command emission, arbitration and the shared
// transform, plus the AR session mirror.
type App struct {
	config     Config
	camera     capture.Camera
	motion     *capture.MotionDetector
	detector   detector.Detector
	classifier *gesture.Classifier
	emitter    *gesture.Emitter
	arbiter    *input.Arbiter
	object     *transform.Object
	session    *arsession.Controller

	// track is the swipe tracking state, threaded through Classify. It is
	// touched only from the pipeline goroutine.
	track gesture.TrackState

	enabled bool
	mu      sync.RWMutex
	stopCh  chan struct{}
}

// New creates an App with the given configuration. Stored settings, when a
// store is configured, override the config's tuning values.
func New(config Config) *App {
	if config.Store != nil {
		settings := config.Store.Settings()
		config.MotionThresh = settings.GetFloat(store.SettingMotionThreshold, config.MotionThresh)
		config.CameraID = settings.GetInt(store.SettingCameraID, config.CameraID)
		config.Gesture.SwipeThreshold = settings.GetFloat(store.SettingSwipeThreshold, config.Gesture.SwipeThreshold)
		if ms := settings.GetInt(store.SettingGestureDebounceMs, 0); ms > 0 {
			config.GestureDebounce = time.Duration(ms) * time.Millisecond
		}
	}
	if config.MotionThresh <= 0 {
		config.MotionThresh = capture.DefaultWakeThreshold
	}

	a := &App{
		config:     config,
		camera:     capture.NewCamera(config.CameraID),
		motion:     capture.NewMotionDetector(config.MotionThresh),
		classifier: gesture.NewClassifier(config.Gesture),
		emitter:    gesture.NewEmitter(),
		object:     transform.New(transform.State{Scale: 1}),
	}

	// Try MediaPipe first, fall back to the mock detector so the rest of
	// the app still runs with gesture commands simply never firing.
	handTracking := false
	if mp, err := detector.NewMediaPipeDetector(detector.DefaultConfig()); err == nil {
		a.detector = mp
		handTracking = true
		log.Println("Using MediaPipe hand detection")
	} else {
		log.Printf("MediaPipe not available (%v), using mock detector", err)
		a.detector = detector.NewMockDetector()
	}

	a.session = arsession.NewController(arsession.Capabilities{HandTracking: handTracking})
	a.session.OnAnchor(func(x, y, z float64) {
		a.object.SetPosition(x, y, z)
	})
	a.session.OnFrame(func(now time.Time) {
		a.object.Advance(now)
	})

	a.arbiter = input.NewArbiter(a.object, config.GestureDebounce, a.session.Active)
	a.arbiter.OnApply = a.recordEvent

	return a
}

// recordEvent logs accepted discrete commands. Continuous per-frame commands
// would flood the log and are skipped.
func (a *App) recordEvent(cmd input.Command) {
	if cmd.Continuous || a.config.Store == nil {
		return
	}

	detail, _ := json.Marshal(cmd)
	err := a.config.Store.Events().Insert(&store.Event{
		ID:     uuid.NewString(),
		Source: string(cmd.Source),
		Kind:   string(cmd.Kind),
		Detail: string(detail),
	})
	if err != nil {
		log.Printf("Failed to record interaction event: %v", err)
	}
}

// SetEnabled enables or disables gesture detection.
func (a *App) SetEnabled(enabled bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.enabled = enabled
}

// IsEnabled returns whether gesture detection is currently enabled.
func (a *App) IsEnabled() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.enabled
}

// SetDetector sets the hand detector implementation to use.
func (a *App) SetDetector(d detector.Detector) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.detector = d
}

// Start begins the detection pipeline.
func (a *App) Start() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.stopCh != nil {
		return nil
	}

	if err := a.camera.Open(); err != nil {
		a.session.SetCameraAvailable(false)
		return err
	}
	a.session.SetCameraAvailable(true)

	a.camera.SetFPS(IdleFPS)

	a.stopCh = make(chan struct{})
	go a.runPipeline(a.stopCh)

	log.Println("Gesture pipeline started")
	return nil
}

// Stop halts the detection pipeline and releases resources. Any in-flight
// reset animation is cancelled so nothing keeps rescheduling after teardown.
func (a *App) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.stopCh != nil {
		close(a.stopCh)
		a.stopCh = nil
	}

	a.object.CancelReset()

	if err := a.camera.Close(); err != nil {
		log.Printf("Error closing camera: %v", err)
	}

	a.motion.Close()

	if a.detector != nil {
		if err := a.detector.Close(); err != nil {
			log.Printf("Error closing detector: %v", err)
		}
	}

	log.Println("Gesture pipeline stopped")
}

// Camera returns the camera instance.
func (a *App) Camera() capture.Camera {
	return a.camera
}

// MotionDetector returns the motion detector instance.
func (a *App) MotionDetector() *capture.MotionDetector {
	return a.motion
}

// Detector returns the hand detector.
func (a *App) Detector() detector.Detector {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.detector
}

// Emitter returns the gesture command emitter.
func (a *App) Emitter() *gesture.Emitter {
	return a.emitter
}

// Arbiter returns the input arbiter.
func (a *App) Arbiter() *input.Arbiter {
	return a.arbiter
}

// Object returns the shared transform target.
func (a *App) Object() *transform.Object {
	return a.object
}

// Session returns the AR session controller.
func (a *App) Session() *arsession.Controller {
	return a.session
}
