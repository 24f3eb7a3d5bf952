package api

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig(":9090")

	if cfg.Addr != ":9090" {
		t.Errorf("Addr = %q, want :9090", cfg.Addr)
	}
	if cfg.RequestTimeout != 5*time.Second {
		t.Errorf("RequestTimeout = %s, want 5s", cfg.RequestTimeout)
	}
	if cfg.MaxConcurrent < 1 {
		t.Errorf("MaxConcurrent = %d, want >= 1", cfg.MaxConcurrent)
	}
}

func TestLoadConfigOverlay(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "server.yaml")
	// Durations are integer nanoseconds; 250000000 = 250ms.
	data := "request_timeout: 250000000\nmax_concurrent: 3\ncors_origin: https://example.org\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := LoadConfig(path, DefaultConfig(":8080"))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.RequestTimeout != 250*time.Millisecond {
		t.Errorf("RequestTimeout = %s, want 250ms", cfg.RequestTimeout)
	}
	if cfg.MaxConcurrent != 3 {
		t.Errorf("MaxConcurrent = %d, want 3", cfg.MaxConcurrent)
	}
	if cfg.CORSOrigin != "https://example.org" {
		t.Errorf("CORSOrigin = %q, want https://example.org", cfg.CORSOrigin)
	}
	// Fields absent from the file keep their defaults.
	if cfg.Addr != ":8080" {
		t.Errorf("Addr = %q, want :8080", cfg.Addr)
	}
	if cfg.ReadTimeout != 5*time.Second {
		t.Errorf("ReadTimeout = %s, want 5s", cfg.ReadTimeout)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	defaults := DefaultConfig(":8080")
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"), defaults)
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if cfg != defaults {
		t.Errorf("cfg = %+v, want defaults back on error", cfg)
	}
}

func TestMiddlewareRequestTimeout(t *testing.T) {
	cfg := DefaultConfig(":0")
	cfg.RequestTimeout = 100 * time.Millisecond
	sem := make(chan struct{}, 1)

	var deadline time.Time
	var hasDeadline bool
	wrapped := withMiddleware(func(w http.ResponseWriter, r *http.Request) {
		deadline, hasDeadline = r.Context().Deadline()
	}, sem, cfg)

	start := time.Now()
	wrapped(httptest.NewRecorder(), httptest.NewRequest("GET", "/api/v1/health", nil))

	if !hasDeadline {
		t.Fatal("request context has no deadline")
	}
	if remaining := deadline.Sub(start); remaining > cfg.RequestTimeout+50*time.Millisecond {
		t.Errorf("deadline %s after start, want about %s", remaining, cfg.RequestTimeout)
	}
}
