package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/jackzampolin/docview/internal/config"
	"github.com/jackzampolin/docview/internal/testutil"
)

func TestServer_RequireInitBeforeStart(t *testing.T) {
	srv, err := New(Config{Port: "0", Logger: testutil.NewServerConfig(t).Logger})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	tests := []struct {
		name   string
		method string
		path   string
		want   int
	}{
		{"health needs no init", "GET", "/health", http.StatusOK},
		{"status needs no init", "GET", "/status", http.StatusOK},
		{"list documents waits for init", "GET", "/api/documents", http.StatusServiceUnavailable},
		{"chat waits for init", "POST", "/api/documents/abc/chat", http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			rec := httptest.NewRecorder()
			srv.Handler().ServeHTTP(rec, req)
			if rec.Code != tt.want {
				t.Errorf("%s %s = %d, want %d", tt.method, tt.path, rec.Code, tt.want)
			}
		})
	}
}

func TestServer_DefaultProvidersWithoutConfig(t *testing.T) {
	srv, err := New(Config{Port: "0"})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if !srv.Registry().HasExtractor("mock") {
		t.Error("expected mock extractor from default config")
	}
	if !srv.Registry().HasChat("mock") {
		t.Error("expected mock chat backend from default config")
	}
	if srv.Sessions() != nil {
		t.Error("Sessions() should be nil before Start")
	}
}

func TestServer_ContextCancellation(t *testing.T) {
	cfg := testutil.NewServerConfig(t)
	srv, err := New(Config{Host: cfg.Host, Port: cfg.Port, Logger: cfg.Logger})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- srv.Start(ctx)
	}()

	if err := testutil.WaitForServer(cfg.URL(), 10*time.Second); err != nil {
		cancel()
		t.Fatalf("server did not start: %v", err)
	}

	cancel()
	if err := testutil.WaitForShutdown(done, 35*time.Second); err != nil {
		t.Fatalf("Start() returned error after cancel: %v", err)
	}
	if srv.IsRunning() {
		t.Error("IsRunning() = true after shutdown")
	}

	if _, err := testutil.HTTPClient().Get(cfg.URL() + "/health"); err == nil {
		t.Error("expected connection error after shutdown")
	}
}

func TestServer_DoubleStart(t *testing.T) {
	srv, _ := startTestServer(t)

	err := srv.Start(context.Background())
	if err == nil {
		t.Fatal("second Start() should fail")
	}
	if !strings.Contains(err.Error(), "already running") {
		t.Errorf("error = %v, want already running", err)
	}
}

func TestServer_PortInUse(t *testing.T) {
	_, baseURL := startTestServer(t)
	port := baseURL[strings.LastIndex(baseURL, ":")+1:]

	srv, err := New(Config{Host: "127.0.0.1", Port: port, Logger: testutil.NewServerConfig(t).Logger})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := srv.Start(context.Background()); err == nil {
		t.Fatal("Start() on a bound port should fail")
	}
	if srv.IsRunning() {
		t.Error("IsRunning() = true after failed start")
	}
}

func TestServer_ConfigReload(t *testing.T) {
	cfg := testutil.NewServerConfig(t)
	cfgMgr, err := config.NewManager(cfg.ConfigFile)
	if err != nil {
		t.Fatalf("config.NewManager() error = %v", err)
	}
	cfgMgr.WatchConfig()

	srv, err := New(Config{Host: cfg.Host, Port: cfg.Port, ConfigManager: cfgMgr, Logger: cfg.Logger})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- srv.Start(ctx)
	}()
	starter := testutil.StartServer{Cancel: cancel, Done: done}
	t.Cleanup(starter.Stop)

	if err := testutil.WaitForServer(cfg.URL(), 10*time.Second); err != nil {
		t.Fatalf("server did not start: %v", err)
	}
	if srv.Registry().HasExtractor("mock-slow") {
		t.Fatal("mock-slow should not exist yet")
	}

	updated := strings.Replace(testutil.MockConfig, "extractors:\n", "extractors:\n  mock-slow:\n    type: mock\n    enabled: true\n", 1)
	updated = strings.Replace(updated, "  extractor: mock\n", "  extractor: mock-slow\n", 1)
	if err := os.WriteFile(cfg.ConfigFile, []byte(updated), 0o644); err != nil {
		t.Fatalf("failed to rewrite config: %v", err)
	}

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if srv.Registry().HasExtractor("mock-slow") && srv.Sessions().Options().Extractor == "mock-slow" {
			return
		}
		time.Sleep(50 * time.Millisecond)
	}
	t.Errorf("config reload not applied: extractors = %v, default = %q",
		srv.Registry().ListExtractors(), srv.Sessions().Options().Extractor)
}
