package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/ayusman/terraglove/internal/app"
	"github.com/ayusman/terraglove/internal/gesture"
	"github.com/ayusman/terraglove/internal/server"
	"github.com/ayusman/terraglove/internal/store"
	"github.com/ayusman/terraglove/internal/tray"
)

const serverAddr = ":8080"

func main() {
	fmt.Println("Terraglove - Gesture-Controlled AR Viewer")

	// Initialize the store
	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Fatalf("Failed to get home directory: %v", err)
	}

	dbDir := filepath.Join(homeDir, ".terraglove")
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}

	dbPath := filepath.Join(dbDir, "terraglove.db")
	st, err := store.New(dbPath)
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer st.Close()

	// Build and start the gesture pipeline. A failed camera open degrades
	// to a viewer-input-only service rather than aborting.
	a := app.New(app.Config{
		Store:   st,
		Gesture: gesture.DefaultConfig(),
	})
	a.SetEnabled(true)
	if err := a.Start(); err != nil {
		log.Printf("Gesture pipeline unavailable: %v", err)
	}
	defer a.Stop()

	// Find web directory
	webDir := findWebDir()
	if webDir != "" {
		fmt.Printf("Serving viewer files from: %s\n", webDir)
	}

	// Configure and start server
	srv := server.New(server.Config{
		StaticDir: webDir,
		Store:     st,
		Camera:    a.Camera(),
		Arbiter:   a.Arbiter(),
		Object:    a.Object(),
		Emitter:   a.Emitter(),
		Session:   a.Session(),
	})
	defer srv.Close()

	go func() {
		fmt.Printf("Starting server on %s\n", serverAddr)
		if err := srv.ListenAndServe(serverAddr); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Menu-bar app owns the main thread.
	t := tray.New()
	t.OnToggle(a.SetEnabled)
	t.OnViewer(func() {
		log.Printf("Viewer running at http://localhost%s", serverAddr)
	})
	t.OnQuit(func() {
		a.Stop()
	})

	// Mirror the last recognized gesture into the menu.
	go func() {
		ticker := time.NewTicker(500 * time.Millisecond)
		defer ticker.Stop()
		last := gesture.LabelNone
		for range ticker.C {
			if current := a.Emitter().Current(); current != last {
				last = current
				t.SetLastGesture(string(current))
			}
		}
	}()

	t.Run()
}

// findWebDir searches for the web directory in common locations.
// It checks: "web", "../web", "../../web", and ~/.terraglove/web.
// Returns the first existing directory or empty string if none found.
func findWebDir() string {
	relativePaths := []string{"web", "../web", "../../web"}
	for _, p := range relativePaths {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			absPath, err := filepath.Abs(p)
			if err == nil {
				return absPath
			}
			return p
		}
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	homeWebDir := filepath.Join(homeDir, ".terraglove", "web")
	if info, err := os.Stat(homeWebDir); err == nil && info.IsDir() {
		return homeWebDir
	}

	return ""
}
