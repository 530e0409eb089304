// Package tray provides a menu-bar interface for the gesture interaction
// service.
package tray

import (
	"sync"

	"github.com/getlantern/systray"
)

// Tray is the menu-bar application: a detection toggle, the last recognized
// gesture, a link to the viewer, and quit.
type Tray struct {
	onToggle func(enabled bool)
	onViewer func()
	onQuit   func()
	enabled  bool
	mu       sync.RWMutex

	// Menu items stored for later updates
	menuToggle      *systray.MenuItem
	menuLastGesture *systray.MenuItem
}

// New creates a new Tray instance with enabled state set to true by default.
func New() *Tray {
	return &Tray{
		enabled: true,
	}
}

// OnToggle sets the callback function to be called when the enabled state is
// toggled.
func (t *Tray) OnToggle(fn func(enabled bool)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onToggle = fn
}

// OnViewer sets the callback function to be called when the viewer menu item
// is clicked.
func (t *Tray) OnViewer(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onViewer = fn
}

// OnQuit sets the callback function to be called when the quit menu item is
// clicked.
func (t *Tray) OnQuit(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onQuit = fn
}

// Run starts the system tray application.
// This function blocks until systray.Quit() is called.
func (t *Tray) Run() {
	systray.Run(t.onReady, t.onExit)
}

// onReady is called when the system tray is ready.
// It sets up the menu structure.
func (t *Tray) onReady() {
	systray.SetTitle("Terraglove")
	systray.SetTooltip("Terraglove Gesture Control")

	t.menuToggle = systray.AddMenuItem("● Enabled", "Toggle gesture detection")
	systray.AddSeparator()

	t.menuLastGesture = systray.AddMenuItem("Gesture: none", "Last recognized gesture")
	t.menuLastGesture.Disable()
	systray.AddSeparator()

	menuViewer := systray.AddMenuItem("Open Viewer...", "Open the AR viewer in browser")
	systray.AddSeparator()

	menuQuit := systray.AddMenuItem("Quit", "Quit Terraglove")

	// Handle menu item clicks in a separate goroutine
	go func() {
		for {
			select {
			case <-t.menuToggle.ClickedCh:
				t.handleToggle()
			case <-menuViewer.ClickedCh:
				t.handleViewer()
			case <-menuQuit.ClickedCh:
				t.handleQuit()
				return
			}
		}
	}()
}

// onExit is called when the system tray is about to exit.
func (t *Tray) onExit() {
}

// handleToggle handles the toggle menu item click.
func (t *Tray) handleToggle() {
	t.mu.Lock()
	t.enabled = !t.enabled
	enabled := t.enabled

	if enabled {
		t.menuToggle.SetTitle("● Enabled")
	} else {
		t.menuToggle.SetTitle("○ Disabled")
	}

	callback := t.onToggle
	t.mu.Unlock()

	// Call the callback outside the lock to prevent deadlocks
	if callback != nil {
		callback(enabled)
	}
}

// handleViewer handles the viewer menu item click.
func (t *Tray) handleViewer() {
	t.mu.RLock()
	callback := t.onViewer
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}
}

// handleQuit handles the quit menu item click.
func (t *Tray) handleQuit() {
	t.mu.RLock()
	callback := t.onQuit
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}

	systray.Quit()
}

// SetLastGesture updates the last gesture display in the menu.
func (t *Tray) SetLastGesture(name string) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.menuLastGesture != nil {
		if name == "" {
			t.menuLastGesture.SetTitle("Gesture: none")
		} else {
			t.menuLastGesture.SetTitle("Gesture: " + name)
		}
	}
}

// IsEnabled returns the current enabled state.
func (t *Tray) IsEnabled() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.enabled
}
