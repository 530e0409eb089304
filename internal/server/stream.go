package server

import (
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strconv"
	"time"

	"gocv.io/x/gocv"

	"github.com/ayusman/terraglove/internal/capture"
)

// Preview pacing. The stream is a debugging aid, not the interaction
// surface, so it runs below the active capture rate and backs off when the
// camera has nothing for it.
const (
	previewPeriod  = 66 * time.Millisecond
	previewBackoff = 250 * time.Millisecond
)

// StreamHandler serves the camera as an MJPEG preview stream.
type StreamHandler struct {
	camera capture.Camera
}

// NewStreamHandler creates a StreamHandler over the given camera.
func NewStreamHandler(camera capture.Camera) *StreamHandler {
	return &StreamHandler{camera: camera}
}

// ServeHTTP writes multipart JPEG frames until the client disconnects.
func (h *StreamHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	mw := multipart.NewWriter(w)
	w.Header().Set("Content-Type", "multipart/x-mixed-replace; boundary="+mw.Boundary())
	w.Header().Set("Cache-Control", "no-cache")

	flusher, _ := w.(http.Flusher)

	for {
		select {
		case <-r.Context().Done():
			mw.Close()
			return
		default:
		}

		frame, err := h.camera.ReadFrame()
		if err != nil {
			time.Sleep(previewBackoff)
			continue
		}

		buf, err := gocv.IMEncode(".jpg", *frame)
		frame.Close()
		if err != nil {
			continue
		}

		part, err := mw.CreatePart(textproto.MIMEHeader{
			"Content-Type":   {"image/jpeg"},
			"Content-Length": {strconv.Itoa(buf.Len())},
		})
		if err != nil {
			buf.Close()
			return
		}
		part.Write(buf.GetBytes())
		buf.Close()

		if flusher != nil {
			flusher.Flush()
		}

		time.Sleep(previewPeriod)
	}
}
