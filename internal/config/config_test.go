package config

import (
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jackzampolin/docview/internal/upload"
)

const testConfig = `
extractors:
  mock:
    type: mock
    enabled: true
chat_backends:
  mock:
    type: mock
    enabled: true
defaults:
  extractor: mock
  chat_backend: mock
  parser: ""
upload:
  max_bytes: 1048576
  enforce_pdf_pages: true
session:
  ttl_minutes: 5
  sweep_interval_seconds: 10
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	configFile := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configFile, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return configFile
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.Extractors["landingai"].APIKey != "${VISION_AGENT_API_KEY}" {
		t.Error("expected landingai API key placeholder")
	}
	if !cfg.Extractors["landingai"].SampleFallback {
		t.Error("expected sample fallback on by default")
	}
	if cfg.Upload.MaxBytes != upload.DefaultMaxBytes {
		t.Errorf("MaxBytes = %d, want %d", cfg.Upload.MaxBytes, upload.DefaultMaxBytes)
	}
	if cfg.Upload.EnforcePDFPages {
		t.Error("page limit enforcement should default to off")
	}
	if len(cfg.EnabledChatBackends()) != 3 {
		t.Errorf("EnabledChatBackends() = %d, want 3", len(cfg.EnabledChatBackends()))
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"unknown extractor", func(c *Config) { c.Defaults.Extractor = "nope" }, "defaults.extractor"},
		{"unknown chat backend", func(c *Config) { c.Defaults.ChatBackend = "nope" }, "defaults.chat_backend"},
		{"parser must be proxy", func(c *Config) { c.Defaults.Parser = "openai" }, "must be a proxy backend"},
		{"negative size", func(c *Config) { c.Upload.MaxBytes = -1 }, "upload.max_bytes"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() error = %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestResolveEnvVars(t *testing.T) {
	t.Run("resolves environment variable", func(t *testing.T) {
		t.Setenv("TEST_API_KEY", "secret123")

		result := ResolveEnvVars("${TEST_API_KEY}")
		if result != "secret123" {
			t.Errorf("expected secret123, got %s", result)
		}
	})

	t.Run("returns empty for missing env var", func(t *testing.T) {
		result := ResolveEnvVars("${DEFINITELY_NOT_SET_12345}")
		if result != "" {
			t.Errorf("expected empty string, got %s", result)
		}
	})

	t.Run("expands inside a URL", func(t *testing.T) {
		t.Setenv("TEST_PROXY_HOST", "proxy.internal")

		result := ResolveEnvVars("https://${TEST_PROXY_HOST}/v1")
		if result != "https://proxy.internal/v1" {
			t.Errorf("expected expanded URL, got %s", result)
		}
	})

	t.Run("leaves literal values unchanged", func(t *testing.T) {
		result := ResolveEnvVars("literal-value")
		if result != "literal-value" {
			t.Errorf("expected literal-value, got %s", result)
		}
	})
}

func TestConfig_ToProviderRegistryConfig(t *testing.T) {
	t.Setenv("TEST_VISION_KEY", "va-key-123")

	cfg := &Config{
		Extractors: map[string]ExtractorCfg{
			"landingai": {Type: "landingai", APIKey: "${TEST_VISION_KEY}", TimeoutSeconds: 30, RateLimit: 10, Enabled: true},
		},
		ChatBackends: map[string]ChatBackendCfg{
			"openai": {Type: "openai", APIKey: "direct-key", Model: "gpt-4o-mini", TimeoutSeconds: 60, Enabled: true},
		},
	}

	rc := cfg.ToProviderRegistryConfig()

	ext := rc.Extractors["landingai"]
	if ext.APIKey != "va-key-123" {
		t.Errorf("APIKey = %q, want resolved env var", ext.APIKey)
	}
	if ext.Timeout != 30*time.Second {
		t.Errorf("Timeout = %v, want 30s", ext.Timeout)
	}
	if ext.RateLimit != 10 {
		t.Errorf("RateLimit = %d, want 10", ext.RateLimit)
	}

	chat := rc.ChatBackends["openai"]
	if chat.APIKey != "direct-key" || chat.Model != "gpt-4o-mini" {
		t.Errorf("unexpected chat config: %+v", chat)
	}
}

func TestConfig_ToSessionOptions(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Upload.MaxBytes = 0
	cfg.Upload.IncludeMarginalia = true

	opts := cfg.ToSessionOptions()
	if opts.Extractor != "landingai" || opts.ChatBackend != "proxy" || opts.Parser != "proxy" {
		t.Errorf("unexpected defaults: %+v", opts)
	}
	if opts.Limits.MaxBytes != upload.DefaultMaxBytes {
		t.Errorf("MaxBytes = %d, want default", opts.Limits.MaxBytes)
	}
	if !opts.IncludeMarginalia {
		t.Error("expected IncludeMarginalia")
	}
	if cfg.SessionTTL() != 2*time.Hour {
		t.Errorf("SessionTTL() = %v, want 2h", cfg.SessionTTL())
	}
}

func TestNewManager(t *testing.T) {
	t.Run("loads from config file", func(t *testing.T) {
		mgr, err := NewManager(writeConfig(t, testConfig))
		if err != nil {
			t.Fatalf("failed to create manager: %v", err)
		}

		cfg := mgr.Get()
		if cfg.Defaults.Extractor != "mock" {
			t.Errorf("expected mock extractor, got %s", cfg.Defaults.Extractor)
		}
		if cfg.Upload.MaxBytes != 1048576 || !cfg.Upload.EnforcePDFPages {
			t.Errorf("unexpected upload config: %+v", cfg.Upload)
		}
		if cfg.SweepInterval() != 10*time.Second {
			t.Errorf("SweepInterval() = %v, want 10s", cfg.SweepInterval())
		}
	})

	t.Run("rejects invalid defaults", func(t *testing.T) {
		content := strings.Replace(testConfig, "extractor: mock", "extractor: missing", 1)
		if _, err := NewManager(writeConfig(t, content)); err == nil {
			t.Error("expected error for unknown default extractor")
		}
	})

	t.Run("rejects malformed yaml", func(t *testing.T) {
		if _, err := NewManager(writeConfig(t, "extractors: [unclosed")); err == nil {
			t.Error("expected error for malformed config")
		}
	})
}

func TestManager_OnChange_Multiple(t *testing.T) {
	mgr, err := NewManager(writeConfig(t, testConfig))
	if err != nil {
		t.Fatalf("failed to create manager: %v", err)
	}

	mgr.OnChange(func(cfg *Config) {})
	mgr.OnChange(func(cfg *Config) {})
	mgr.OnChange(func(cfg *Config) {})

	mgr.mu.RLock()
	if len(mgr.callbacks) != 3 {
		t.Errorf("expected 3 callbacks, got %d", len(mgr.callbacks))
	}
	mgr.mu.RUnlock()
}

func TestManager_Get_ThreadSafe(t *testing.T) {
	mgr, err := NewManager(writeConfig(t, testConfig))
	if err != nil {
		t.Fatalf("failed to create manager: %v", err)
	}

	done := make(chan struct{})
	for i := 0; i < 10; i++ {
		go func() {
			for j := 0; j < 100; j++ {
				cfg := mgr.Get()
				_ = cfg.Defaults.Extractor
			}
			done <- struct{}{}
		}()
	}

	for i := 0; i < 10; i++ {
		<-done
	}
}

func TestManager_WatchConfig(t *testing.T) {
	configFile := writeConfig(t, testConfig)

	mgr, err := NewManager(configFile)
	if err != nil {
		t.Fatalf("failed to create manager: %v", err)
	}

	if ttl := mgr.Get().Session.TTLMinutes; ttl != 5 {
		t.Errorf("initial value mismatch: expected 5, got %d", ttl)
	}

	var callbackCount atomic.Int32
	var lastValue atomic.Int64

	mgr.OnChange(func(cfg *Config) {
		callbackCount.Add(1)
		lastValue.Store(int64(cfg.Session.TTLMinutes))
	})

	mgr.WatchConfig()

	// Give fsnotify time to set up the watcher
	time.Sleep(100 * time.Millisecond)

	newContent := strings.Replace(testConfig, "ttl_minutes: 5", "ttl_minutes: 45", 1)
	if err := os.WriteFile(configFile, []byte(newContent), 0644); err != nil {
		t.Fatalf("failed to write updated config file: %v", err)
	}

	// Wait for the watcher to detect the change (fsnotify is async)
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if callbackCount.Load() > 0 {
			break
		}
		time.Sleep(50 * time.Millisecond)
	}

	if callbackCount.Load() == 0 {
		t.Error("callback was not invoked after config file change")
	}
	if got := mgr.Get().Session.TTLMinutes; got != 45 {
		t.Errorf("config not updated: expected 45, got %d", got)
	}
	if v := lastValue.Load(); v != 45 {
		t.Errorf("callback received wrong value: expected 45, got %d", v)
	}
}

func TestWriteDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := WriteDefault(path); err != nil {
		t.Fatalf("WriteDefault() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read written config: %v", err)
	}
	content := string(data)
	if !strings.HasPrefix(content, "# docview configuration") {
		t.Error("expected header comment")
	}
	for _, key := range []string{"extractors:", "chat_backends:", "landingai:", "sample_fallback: true", "max_pdf_pages: 50"} {
		if !strings.Contains(content, key) {
			t.Errorf("written config missing %q", key)
		}
	}
}
