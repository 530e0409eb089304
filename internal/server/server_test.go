package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/ayusman/terraglove/internal/store"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "terraglove-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tmpDir) })

	s, err := store.New(filepath.Join(tmpDir, "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	return s
}

func TestHealthEndpoint(t *testing.T) {
	srv := New(Config{})

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp["status"] != "ok" {
		t.Errorf("expected status ok, got %v", resp["status"])
	}
	if _, ok := resp["uptime"]; !ok {
		t.Errorf("expected uptime field in response")
	}
}

func TestHealthEndpoint_MethodNotAllowed(t *testing.T) {
	srv := New(Config{})

	req := httptest.NewRequest(http.MethodPost, "/api/health", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected status 405, got %d", rec.Code)
	}
}

func TestRoutesDisabledWithoutDeps(t *testing.T) {
	srv := New(Config{})

	for _, path := range []string{"/api/settings", "/api/events", "/api/stream", "/api/viewer"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Errorf("path %s: expected status 404 without dependencies, got %d", path, rec.Code)
		}
	}
}

func TestStoreRoutesEnabled(t *testing.T) {
	srv := New(Config{Store: newTestStore(t)})

	for _, path := range []string{"/api/settings", "/api/events"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Errorf("path %s: expected status 200, got %d", path, rec.Code)
		}
	}
}

func TestStaticFilesServed(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "terraglove-web-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tmpDir) })

	content := "<html><body>viewer</body></html>"
	if err := os.WriteFile(filepath.Join(tmpDir, "index.html"), []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write index.html: %v", err)
	}

	srv := New(Config{StaticDir: tmpDir})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if rec.Body.String() != content {
		t.Errorf("expected index.html content, got %q", rec.Body.String())
	}
}
