package server

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ayusman/terraglove/internal/arsession"
	"github.com/ayusman/terraglove/internal/gesture"
	"github.com/ayusman/terraglove/internal/input"
	"github.com/ayusman/terraglove/internal/transform"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// statePeriod is the outbound state broadcast interval (~30 FPS).
const statePeriod = 33 * time.Millisecond

// Keyboard command values.
const (
	keyZoomInFactor  = 1.1
	keyZoomOutFactor = 0.9

	// keyRotateStep is in pixel units; after the arbiter's pixel scaling one
	// arrow press rotates 5 degrees, the same as one recognized swipe.
	keyRotateStep = 500.0
)

// viewerMessage is one inbound JSON message from the browser viewer. Touch
// and keyboard events, plus the AR session lifecycle the viewer owns, all
// arrive on this channel.
type viewerMessage struct {
	Type string `json:"type"`

	// touch_move
	DX float64 `json:"dx"`
	DY float64 `json:"dy"`

	// key
	Code string `json:"code"`

	// anchor
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`

	// hello
	ARSupported bool `json:"ar_supported"`
}

// stateMessage is the outbound state broadcast.
type stateMessage struct {
	Type          string                 `json:"type"`
	Transform     transform.State        `json:"transform"`
	Gesture       gesture.Label          `json:"gesture"`
	Recent        []gesture.LabelAt      `json:"recent,omitempty"`
	SessionActive bool                   `json:"session_active"`
	SessionID     string                 `json:"session_id,omitempty"`
	Capabilities  arsession.Capabilities `json:"capabilities"`
	Timestamp     int64                  `json:"timestamp"`
}

// ViewerHandler is the websocket endpoint for the browser viewer. Outbound
// it broadcasts transform and gesture state; inbound it fans viewer events
// into the arbiter and the AR session controller.
type ViewerHandler struct {
	arbiter *input.Arbiter
	object  *transform.Object
	emitter *gesture.Emitter
	session *arsession.Controller

	clients map[*websocket.Conn]bool
	mu      sync.RWMutex

	stopOnce sync.Once
	stopCh   chan struct{}
	done     chan struct{}
}

// NewViewerHandler creates a ViewerHandler and starts its broadcast loop.
// The loop runs until Close is called.
func NewViewerHandler(arbiter *input.Arbiter, object *transform.Object, emitter *gesture.Emitter, session *arsession.Controller) *ViewerHandler {
	h := &ViewerHandler{
		arbiter: arbiter,
		object:  object,
		emitter: emitter,
		session: session,
		clients: make(map[*websocket.Conn]bool),
		stopCh:  make(chan struct{}),
		done:    make(chan struct{}),
	}
	go h.broadcast()
	return h
}

// Close stops the broadcast loop and drops all viewer connections, returning
// once the loop has exited. Safe to call more than once.
func (h *ViewerHandler) Close() {
	h.stopOnce.Do(func() { close(h.stopCh) })
	<-h.done

	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.clients {
		conn.Close()
	}
	h.clients = make(map[*websocket.Conn]bool)
}

// ServeHTTP handles WebSocket upgrade requests and consumes viewer events
// until the connection drops.
func (h *ViewerHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	h.mu.Lock()
	h.clients[conn] = true
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		delete(h.clients, conn)
		h.mu.Unlock()
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			break
		}

		var msg viewerMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			log.Printf("bad viewer message: %v", err)
			continue
		}
		h.handle(msg)
	}
}

// handle dispatches one viewer message.
func (h *ViewerHandler) handle(msg viewerMessage) {
	now := time.Now()

	switch msg.Type {
	case "hello":
		h.session.SetARSupported(msg.ARSupported)

	case "touch_move":
		h.arbiter.Submit(input.Command{
			Kind:   input.KindRotate,
			Source: input.SourceTouch,
			DeltaX: msg.DX,
			DeltaY: msg.DY,
		}, now)

	case "double_tap":
		h.arbiter.Submit(input.Command{
			Kind:   input.KindReset,
			Source: input.SourceTouch,
		}, now)

	case "key":
		if cmd, ok := keyCommand(msg.Code); ok {
			h.arbiter.Submit(cmd, now)
		}

	case "session_start":
		h.session.Begin()

	case "session_end":
		h.session.End()

	case "anchor":
		h.session.AnchorUpdate(msg.X, msg.Y, msg.Z)

	case "frame":
		h.session.FrameTick(now)

	default:
		log.Printf("unknown viewer message type: %q", msg.Type)
	}
}

// keyCommand maps a DOM key code to an input command.
func keyCommand(code string) (input.Command, bool) {
	switch code {
	case "KeyR":
		return input.Command{Kind: input.KindReset, Source: input.SourceKeyboard}, true
	case "Equal", "NumpadAdd":
		return input.Command{Kind: input.KindZoom, Source: input.SourceKeyboard, Factor: keyZoomInFactor}, true
	case "Minus", "NumpadSubtract":
		return input.Command{Kind: input.KindZoom, Source: input.SourceKeyboard, Factor: keyZoomOutFactor}, true
	case "ArrowLeft":
		return input.Command{Kind: input.KindRotate, Source: input.SourceKeyboard, DeltaX: -keyRotateStep}, true
	case "ArrowRight":
		return input.Command{Kind: input.KindRotate, Source: input.SourceKeyboard, DeltaX: keyRotateStep}, true
	}
	return input.Command{}, false
}

// broadcast pushes the current state to all connected viewers until Close.
func (h *ViewerHandler) broadcast() {
	defer close(h.done)

	ticker := time.NewTicker(statePeriod)
	defer ticker.Stop()

	for {
		select {
		case <-h.stopCh:
			return
		case <-ticker.C:
		}

		h.mu.RLock()
		n := len(h.clients)
		h.mu.RUnlock()
		if n == 0 {
			continue
		}

		msg, err := json.Marshal(stateMessage{
			Type:          "state",
			Transform:     h.object.State(),
			Gesture:       h.emitter.Current(),
			Recent:        h.emitter.Recent(),
			SessionActive: h.session.Active(),
			SessionID:     h.session.SessionID(),
			Capabilities:  h.session.Capabilities(),
			Timestamp:     time.Now().UnixMilli(),
		})
		if err != nil {
			continue
		}

		h.mu.RLock()
		for conn := range h.clients {
			conn.WriteMessage(websocket.TextMessage, msg)
		}
		h.mu.RUnlock()
	}
}
