package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v2"

	"github.com/jackzampolin/docview/internal/providers"
	"github.com/jackzampolin/docview/internal/session"
	"github.com/jackzampolin/docview/internal/upload"
)

// Manager handles loading and hot-reloading configuration.
type Manager struct {
	mu        sync.RWMutex
	config    *Config
	callbacks []func(*Config)
	onError   func(error)
}

// NewManager creates a new config manager and loads initial config.
func NewManager(cfgFile string) (*Manager, error) {
	cm := &Manager{
		callbacks: make([]func(*Config), 0),
	}

	if err := cm.initViper(cfgFile); err != nil {
		return nil, err
	}

	cfg, err := cm.load()
	if err != nil {
		return nil, err
	}
	cm.config = cfg

	return cm, nil
}

// initViper sets up viper with defaults and config file.
func (cm *Manager) initViper(cfgFile string) error {
	defaults := DefaultConfig()
	viper.SetDefault("extractors", defaults.Extractors)
	viper.SetDefault("chat_backends", defaults.ChatBackends)
	viper.SetDefault("defaults", defaults.Defaults)
	viper.SetDefault("upload", defaults.Upload)
	viper.SetDefault("session", defaults.Session)

	// Environment variables with DOCVIEW_ prefix, e.g. DOCVIEW_DEFAULTS_EXTRACTOR
	viper.SetEnvPrefix("DOCVIEW")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Config file
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME/.docview")
	}

	// Try to read config file (not required)
	if err := viper.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	return nil
}

// load parses the current viper state into a Config struct.
func (cm *Manager) load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Get returns the current configuration (thread-safe).
func (cm *Manager) Get() *Config {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return cm.config
}

// ConfigFile returns the path of the loaded config file, if any.
func (cm *Manager) ConfigFile() string {
	return viper.ConfigFileUsed()
}

// OnChange registers a callback for config changes.
func (cm *Manager) OnChange(fn func(*Config)) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	cm.callbacks = append(cm.callbacks, fn)
}

// OnError registers a callback for reloads that fail to parse or validate.
// The previous configuration stays active.
func (cm *Manager) OnError(fn func(error)) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	cm.onError = fn
}

// WatchConfig enables hot-reloading of configuration.
func (cm *Manager) WatchConfig() {
	viper.OnConfigChange(func(e fsnotify.Event) {
		cfg, err := cm.load()
		if err != nil {
			cm.mu.RLock()
			onError := cm.onError
			cm.mu.RUnlock()
			if onError != nil {
				onError(fmt.Errorf("reload %s: %w", e.Name, err))
			}
			return
		}

		cm.mu.Lock()
		cm.config = cfg
		callbacks := make([]func(*Config), len(cm.callbacks))
		copy(callbacks, cm.callbacks)
		cm.mu.Unlock()

		for _, fn := range callbacks {
			fn(cfg)
		}
	})
	viper.WatchConfig()
}

// Validate checks that the defaults name configured providers and the
// limits are usable.
func (c *Config) Validate() error {
	var errs []error
	if c.Defaults.Extractor != "" {
		if _, ok := c.Extractors[c.Defaults.Extractor]; !ok {
			errs = append(errs, fmt.Errorf("defaults.extractor %q is not configured", c.Defaults.Extractor))
		}
	}
	if c.Defaults.ChatBackend != "" {
		if _, ok := c.ChatBackends[c.Defaults.ChatBackend]; !ok {
			errs = append(errs, fmt.Errorf("defaults.chat_backend %q is not configured", c.Defaults.ChatBackend))
		}
	}
	if c.Defaults.Parser != "" {
		p, ok := c.ChatBackends[c.Defaults.Parser]
		switch {
		case !ok:
			errs = append(errs, fmt.Errorf("defaults.parser %q is not configured", c.Defaults.Parser))
		case p.Type != providers.ProxyName:
			errs = append(errs, fmt.Errorf("defaults.parser %q must be a proxy backend, got %q", c.Defaults.Parser, p.Type))
		}
	}
	if c.Upload.MaxBytes < 0 {
		errs = append(errs, fmt.Errorf("upload.max_bytes must not be negative"))
	}
	if c.Upload.MaxPDFPages < 0 {
		errs = append(errs, fmt.Errorf("upload.max_pdf_pages must not be negative"))
	}
	return errors.Join(errs...)
}

// ResolveEnvVars expands ${ENV_VAR} references in a string.
func ResolveEnvVars(value string) string {
	if value == "" {
		return value
	}
	return envPattern.ReplaceAllStringFunc(value, func(match string) string {
		varName := match[2 : len(match)-1]
		return os.Getenv(varName)
	})
}

var envPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// ToProviderRegistryConfig converts the config to a format suitable for providers.Registry.
// It resolves all ${ENV_VAR} references in API keys and URLs.
func (c *Config) ToProviderRegistryConfig() providers.RegistryConfig {
	cfg := providers.RegistryConfig{
		Extractors:   make(map[string]providers.ExtractorConfig),
		ChatBackends: make(map[string]providers.ChatBackendConfig),
	}

	for name, e := range c.Extractors {
		cfg.Extractors[name] = providers.ExtractorConfig{
			Type:           e.Type,
			BaseURL:        ResolveEnvVars(e.BaseURL),
			APIKey:         ResolveEnvVars(e.APIKey),
			Timeout:        seconds(e.TimeoutSeconds),
			RateLimit:      e.RateLimit,
			SampleFallback: e.SampleFallback,
			Enabled:        e.Enabled,
		}
	}

	for name, b := range c.ChatBackends {
		cfg.ChatBackends[name] = providers.ChatBackendConfig{
			Type:        b.Type,
			BaseURL:     ResolveEnvVars(b.BaseURL),
			APIKey:      ResolveEnvVars(b.APIKey),
			Model:       b.Model,
			Temperature: b.Temperature,
			Timeout:     seconds(b.TimeoutSeconds),
			RateLimit:   b.RateLimit,
			Enabled:     b.Enabled,
		}
	}

	return cfg
}

// ToSessionOptions converts the defaults and upload settings for session.Manager.
func (c *Config) ToSessionOptions() session.Options {
	limits := upload.Limits{
		MaxBytes:        c.Upload.MaxBytes,
		MaxPDFPages:     c.Upload.MaxPDFPages,
		EnforcePDFPages: c.Upload.EnforcePDFPages,
	}
	if limits.MaxBytes == 0 {
		limits.MaxBytes = upload.DefaultMaxBytes
	}
	if limits.MaxPDFPages == 0 {
		limits.MaxPDFPages = upload.DefaultMaxPDFPages
	}
	return session.Options{
		Extractor:                 c.Defaults.Extractor,
		ChatBackend:               c.Defaults.ChatBackend,
		Parser:                    c.Defaults.Parser,
		Limits:                    limits,
		IncludeMarginalia:         c.Upload.IncludeMarginalia,
		IncludeMetadataInMarkdown: c.Upload.IncludeMetadataInMarkdown,
	}
}

// SessionTTL returns the idle timeout for sessions.
func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.Session.TTLMinutes) * time.Minute
}

// SweepInterval returns how often idle sessions are swept.
func (c *Config) SweepInterval() time.Duration {
	return seconds(c.Session.SweepIntervalSeconds)
}

func seconds(n int) time.Duration {
	return time.Duration(n) * time.Second
}

// WriteDefault writes the default configuration to the specified path.
func WriteDefault(path string) error {
	cfg := DefaultConfig()
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := []byte(`# docview configuration
# API keys use ${ENV_VAR} syntax to reference environment variables
# Set these in your shell or a .env file: VISION_AGENT_API_KEY=xxx OPENAI_API_KEY=xxx

`)
	return os.WriteFile(path, append(header, data...), 0o644)
}
