package app

import (
	"log"
	"time"

	"github.com/ayusman/terraglove/internal/detector"
	"github.com/ayusman/terraglove/internal/gesture"
)

// runPipeline is the main detection loop that processes frames from the
// camera.
//
// Pipeline logic:
// 1. Start in idle mode (idleFPS=5)
// 2. On motion detected, switch to active mode (activeFPS=15)
// 3. Run hand detection and classify the first hand
// 4. Emit at most one command per frame and submit it to the arbiter
// 5. Advance the transform's in-flight animation every tick
// 6. After 2s no motion, switch back to idle mode and clear gesture state
func (a *App) runPipeline(stopCh <-chan struct{}) {
	activeMode := false
	lastMotionTime := time.Now()

	frameInterval := time.Second / time.Duration(IdleFPS)
	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			now := time.Now()

			if !a.IsEnabled() {
				a.object.Advance(now)
				continue
			}

			frame, err := a.camera.ReadFrame()
			if err != nil {
				log.Printf("Error reading frame: %v", err)
				a.object.Advance(now)
				continue
			}

			motionDetected, _ := a.motion.Detect(frame)

			if motionDetected {
				lastMotionTime = now

				if !activeMode {
					activeMode = true
					a.camera.SetFPS(ActiveFPS)
					frameInterval = time.Second / time.Duration(ActiveFPS)
					ticker.Reset(frameInterval)
					log.Println("Switched to active mode")
				}
			} else if activeMode {
				if time.Since(lastMotionTime) > time.Duration(IdleTimeoutMs)*time.Millisecond {
					activeMode = false
					a.camera.SetFPS(IdleFPS)
					frameInterval = time.Second / time.Duration(IdleFPS)
					ticker.Reset(frameInterval)
					// Run one no-hand frame so gesture and swipe tracking
					// state do not survive into the next approach.
					a.processHands(nil, now)
					log.Println("Switched to idle mode")
					frame.Close()
					continue
				}
			}

			if !activeMode || a.Detector() == nil {
				frame.Close()
				a.object.Advance(now)
				continue
			}

			hands, err := a.Detector().Detect(frame)
			frame.Close()

			if err != nil {
				log.Printf("Error detecting hands: %v", err)
				a.object.Advance(now)
				continue
			}

			a.processHands(hands, now)
		}
	}
}

// processHands runs one classified frame through the emitter and arbiter,
// then advances any in-flight animation. A nil or empty hand slice is a
// no-hand frame: it clears the current gesture and the swipe tracking
// state.
func (a *App) processHands(hands []detector.HandLandmarks, now time.Time) {
	var hand *detector.HandLandmarks
	if len(hands) > 0 {
		hand = &hands[0]
	}

	var label gesture.Label
	a.track, label = a.classifier.Classify(a.track, hand, now)

	if cmd, ok := a.emitter.OnFrame(label, now); ok {
		a.arbiter.Submit(cmd, now)
	}

	a.object.Advance(now)
}
