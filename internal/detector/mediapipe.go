package detector

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"time"

	"gocv.io/x/gocv"
)

// sidecarIdleTimeout is how long the Python process is kept alive after the
// last detection before it is shut down to free the model.
const sidecarIdleTimeout = 30 * time.Second

// MediaPipeDetector runs hand-landmark detection in a Python MediaPipe
// sidecar. Frames go down as length-prefixed JPEG; landmark sets come back
// as JSON lines. The process starts lazily on first Detect and is recycled
// after sidecarIdleTimeout of inactivity.
type MediaPipeDetector struct {
	config    Config
	cmd       *exec.Cmd
	stdin     io.WriteCloser
	stdout    *bufio.Reader
	mu        sync.Mutex
	started   bool
	idleTimer *time.Timer
}

// NewMediaPipeDetector creates a MediaPipe detector. It fails fast when the
// sidecar script cannot be found so the caller can fall back to another
// detector at setup rather than on the first frame.
func NewMediaPipeDetector(config Config) (*MediaPipeDetector, error) {
	if locate("scripts/mediapipe_service.py") == "" {
		return nil, fmt.Errorf("mediapipe_service.py not found")
	}
	return &MediaPipeDetector{config: config}, nil
}

// sidecarInit is the configuration line sent to the sidecar before the first
// frame.
type sidecarInit struct {
	MaxHands        int     `json:"max_hands"`
	MinConfidence   float64 `json:"min_detection_confidence"`
	MinTrackingConf float64 `json:"min_tracking_confidence"`
}

// Detect sends one frame to the sidecar and returns the detected hands,
// dropping any below the configured confidence.
func (d *MediaPipeDetector) Detect(frame *gocv.Mat) ([]HandLandmarks, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.ensureStarted(); err != nil {
		return nil, err
	}

	buf, err := gocv.IMEncode(".jpg", *frame)
	if err != nil {
		return nil, fmt.Errorf("encode frame: %w", err)
	}
	defer buf.Close()

	data := buf.GetBytes()
	length := make([]byte, 4)
	binary.BigEndian.PutUint32(length, uint32(len(data)))

	if _, err := d.stdin.Write(length); err != nil {
		return nil, fmt.Errorf("write length: %w", err)
	}
	if _, err := d.stdin.Write(data); err != nil {
		return nil, fmt.Errorf("write frame: %w", err)
	}

	line, err := d.stdout.ReadString('\n')
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var response struct {
		Hands []jsonHand `json:"hands"`
	}
	if err := json.Unmarshal([]byte(line), &response); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}

	var result []HandLandmarks
	for _, h := range response.Hands {
		if h.Score < d.config.MinConfidence {
			continue
		}
		result = append(result, h.toHandLandmarks())
	}

	d.resetIdleTimer()
	return result, nil
}

// Close shuts down the sidecar process.
func (d *MediaPipeDetector) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.shutdown()
}

func (d *MediaPipeDetector) ensureStarted() error {
	if d.started {
		return nil
	}

	scriptPath := locate("scripts/mediapipe_service.py")
	if scriptPath == "" {
		return fmt.Errorf("mediapipe_service.py not found")
	}

	python := locate("venv/bin/python")
	if python == "" {
		python = "python3"
	}

	d.cmd = exec.Command(python, scriptPath)

	stdin, err := d.cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("create stdin pipe: %w", err)
	}
	stdout, err := d.cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("create stdout pipe: %w", err)
	}
	d.cmd.Stderr = os.Stderr

	if err := d.cmd.Start(); err != nil {
		return fmt.Errorf("start mediapipe sidecar: %w", err)
	}

	d.stdin = stdin
	d.stdout = bufio.NewReader(stdout)

	// First line down the pipe is the detector configuration.
	init, err := json.Marshal(sidecarInit{
		MaxHands:        d.config.MaxHands,
		MinConfidence:   d.config.MinConfidence,
		MinTrackingConf: d.config.MinTrackingConf,
	})
	if err != nil {
		d.shutdownLocked()
		return fmt.Errorf("encode sidecar config: %w", err)
	}
	if _, err := d.stdin.Write(append(init, '\n')); err != nil {
		d.shutdownLocked()
		return fmt.Errorf("send sidecar config: %w", err)
	}

	d.started = true
	return nil
}

func (d *MediaPipeDetector) shutdown() error {
	if !d.started {
		return nil
	}
	return d.shutdownLocked()
}

func (d *MediaPipeDetector) shutdownLocked() error {
	if d.idleTimer != nil {
		d.idleTimer.Stop()
		d.idleTimer = nil
	}
	if d.stdin != nil {
		d.stdin.Close()
	}

	var err error
	if d.cmd != nil && d.cmd.Process != nil {
		err = d.cmd.Wait()
	}
	d.started = false
	d.cmd = nil
	d.stdin = nil
	d.stdout = nil
	return err
}

func (d *MediaPipeDetector) resetIdleTimer() {
	if d.idleTimer != nil {
		d.idleTimer.Stop()
	}
	d.idleTimer = time.AfterFunc(sidecarIdleTimeout, func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		d.shutdown()
	})
}

// locate resolves a path relative to the working directory, the executable's
// directory, or the ~/.terraglove data directory, in that order.
func locate(rel string) string {
	candidates := []string{rel, filepath.Join("..", rel)}

	if execPath, err := os.Executable(); err == nil {
		candidates = append(candidates, filepath.Join(filepath.Dir(execPath), rel))
	}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, ".terraglove", rel))
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			if abs, err := filepath.Abs(path); err == nil {
				return abs
			}
			return path
		}
	}
	return ""
}

// jsonHand is one hand in the sidecar's response line.
type jsonHand struct {
	Points     []jsonPoint `json:"points"`
	Handedness string      `json:"handedness"`
	Score      float64     `json:"score"`
}

type jsonPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

func (h jsonHand) toHandLandmarks() HandLandmarks {
	lm := HandLandmarks{
		Handedness: h.Handedness,
		Score:      h.Score,
	}
	for i := 0; i < NumLandmarks && i < len(h.Points); i++ {
		lm.Points[i] = Point3D(h.Points[i])
	}
	return lm
}
