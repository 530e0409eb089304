package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"gocv.io/x/gocv"

	"github.com/ayusman/terraglove/internal/capture"
)

func TestStreamHandler_ServesFrames(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that allocates gocv Mats")
	}

	frame := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	defer frame.Close()

	cam := capture.NewMockCamera([]*gocv.Mat{&frame}, true)
	cam.Open()
	defer cam.Close()

	handler := NewStreamHandler(cam)

	ctx, cancel := context.WithCancel(context.Background())
	req := httptest.NewRequest(http.MethodGet, "/api/stream", nil).WithContext(ctx)
	rec := httptest.NewRecorder()

	// Let a couple of frames through, then disconnect the client.
	time.AfterFunc(200*time.Millisecond, cancel)
	handler.ServeHTTP(rec, req)

	contentType := rec.Header().Get("Content-Type")
	if !strings.HasPrefix(contentType, "multipart/x-mixed-replace") {
		t.Errorf("Content-Type = %q, want multipart/x-mixed-replace", contentType)
	}

	body := rec.Body.String()
	if !strings.Contains(body, "Content-Type: image/jpeg") {
		t.Errorf("stream body carries no JPEG part headers")
	}
}

func TestStreamHandler_MethodNotAllowed(t *testing.T) {
	cam := capture.NewMockCamera(nil, false)
	handler := NewStreamHandler(cam)

	req := httptest.NewRequest(http.MethodPost, "/api/stream", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected status 405, got %d", rec.Code)
	}
}
