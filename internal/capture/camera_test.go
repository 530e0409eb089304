package capture

import (
	"errors"
	"testing"
)

func TestCameraDefaults(t *testing.T) {
	cam := NewCamera(0)

	if cam.IsOpen() {
		t.Error("camera reports open before Open")
	}
	if got := cam.FPS(); got != defaultFPS {
		t.Errorf("FPS() = %d before any SetFPS, want %d", got, defaultFPS)
	}
}

func TestCameraSetFPS(t *testing.T) {
	cam := NewCamera(0)

	cam.SetFPS(30)
	if got := cam.FPS(); got != 30 {
		t.Errorf("FPS() = %d after SetFPS(30), want 30", got)
	}

	// Non-positive rates are ignored, the last good rate stays.
	cam.SetFPS(0)
	cam.SetFPS(-5)
	if got := cam.FPS(); got != 30 {
		t.Errorf("FPS() = %d after ignored SetFPS, want 30", got)
	}
}

func TestCameraReadBeforeOpen(t *testing.T) {
	cam := NewCamera(0)

	if _, err := cam.ReadFrame(); !errors.Is(err, ErrCameraNotOpen) {
		t.Errorf("ReadFrame() before Open: err = %v, want ErrCameraNotOpen", err)
	}
}

func TestCameraCloseBeforeOpen(t *testing.T) {
	cam := NewCamera(0)

	if err := cam.Close(); err != nil {
		t.Errorf("Close() before Open: err = %v, want nil", err)
	}
	if err := cam.Close(); err != nil {
		t.Errorf("second Close(): err = %v, want nil", err)
	}
}

func TestCameraDevice(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that needs a capture device")
	}

	cam := NewCamera(0)
	if err := cam.Open(); err != nil {
		t.Skipf("no capture device: %v", err)
	}

	if !cam.IsOpen() {
		t.Error("camera reports closed after Open")
	}

	frame, err := cam.ReadFrame()
	if err != nil {
		t.Errorf("ReadFrame() error = %v", err)
	} else {
		if frame.Empty() {
			t.Error("ReadFrame() returned an empty frame")
		}
		frame.Close()
	}

	if err := cam.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	if cam.IsOpen() {
		t.Error("camera reports open after Close")
	}
}
