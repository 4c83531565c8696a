package providers

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"
)

// Registry holds the configured extractors and chat backends.
// It supports config-driven instantiation, hot-reload, and provides thread-safe access.
type Registry struct {
	mu           sync.RWMutex
	extractors   map[string]Extractor
	chatBackends map[string]ChatBackend

	// applied configs, compared on Reload
	extractorCfgs map[string]ExtractorConfig
	chatCfgs      map[string]ChatBackendConfig

	logger *slog.Logger
}

// NewRegistry creates a new empty provider registry.
func NewRegistry() *Registry {
	return &Registry{
		extractors:    make(map[string]Extractor),
		chatBackends:  make(map[string]ChatBackend),
		extractorCfgs: make(map[string]ExtractorConfig),
		chatCfgs:      make(map[string]ChatBackendConfig),
		logger:        slog.Default(),
	}
}

// SetLogger sets the logger for the registry.
func (r *Registry) SetLogger(logger *slog.Logger) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logger = logger
}

// RegisterExtractor registers an extractor by name.
func (r *Registry) RegisterExtractor(name string, e Extractor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.extractors[name] = e
	delete(r.extractorCfgs, name)
	if r.logger != nil {
		r.logger.Info("registered extractor", "name", name)
	}
}

// RegisterChat registers a chat backend by name.
func (r *Registry) RegisterChat(name string, b ChatBackend) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.chatBackends[name] = b
	delete(r.chatCfgs, name)
	if r.logger != nil {
		r.logger.Info("registered chat backend", "name", name)
	}
}

// GetExtractor returns an extractor by name.
func (r *Registry) GetExtractor(name string) (Extractor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.extractors[name]
	if !ok {
		return nil, fmt.Errorf("extractor not found: %s", name)
	}
	return e, nil
}

// GetChat returns a chat backend by name.
func (r *Registry) GetChat(name string) (ChatBackend, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.chatBackends[name]
	if !ok {
		return nil, fmt.Errorf("chat backend not found: %s", name)
	}
	return b, nil
}

// GetParser returns the named chat backend if it can also re-parse documents.
func (r *Registry) GetParser(name string) (Parser, error) {
	b, err := r.GetChat(name)
	if err != nil {
		return nil, err
	}
	p, ok := b.(Parser)
	if !ok {
		return nil, fmt.Errorf("chat backend %s does not support parse", name)
	}
	return p, nil
}

// ListExtractors returns all registered extractor names, sorted.
func (r *Registry) ListExtractors() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.extractors))
	for name := range r.extractors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ListChat returns all registered chat backend names, sorted.
func (r *Registry) ListChat() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.chatBackends))
	for name := range r.chatBackends {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// paced is implemented by providers that pace their requests.
type paced interface {
	Limiter() *RateLimiter
}

// LimiterStatus reports the rate limiter of every paced provider, keyed
// "extractor/<name>" or "chat/<name>".
func (r *Registry) LimiterStatus() map[string]RateLimiterStatus {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]RateLimiterStatus)
	for name, e := range r.extractors {
		if p, ok := e.(paced); ok && p.Limiter() != nil {
			out["extractor/"+name] = p.Limiter().Status()
		}
	}
	for name, b := range r.chatBackends {
		if p, ok := b.(paced); ok && p.Limiter() != nil {
			out["chat/"+name] = p.Limiter().Status()
		}
	}
	return out
}

// HasExtractor checks if an extractor is registered.
func (r *Registry) HasExtractor(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.extractors[name]
	return ok
}

// HasChat checks if a chat backend is registered.
func (r *Registry) HasChat(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.chatBackends[name]
	return ok
}

// RegistryConfig defines the providers to instantiate from config.
// This mirrors the config.Config structure for provider setup.
type RegistryConfig struct {
	Extractors   map[string]ExtractorConfig
	ChatBackends map[string]ChatBackendConfig
}

// ExtractorConfig matches config.ExtractorCfg with resolved API key.
type ExtractorConfig struct {
	Type           string // "landingai", "mock"
	BaseURL        string
	APIKey         string
	Timeout        time.Duration
	RateLimit      int // Requests per minute
	SampleFallback bool
	Enabled        bool
}

// ChatBackendConfig matches config.ChatBackendCfg with resolved API key.
type ChatBackendConfig struct {
	Type        string // "proxy", "openai", "mock"
	BaseURL     string
	APIKey      string
	Model       string
	Temperature float64
	Timeout     time.Duration
	RateLimit   int // Requests per minute
	Enabled     bool
}

// NewRegistryFromConfig creates a registry with providers based on configuration.
// Only enabled providers whose type can be built are registered.
func NewRegistryFromConfig(cfg RegistryConfig) *Registry {
	r := NewRegistry()
	r.Reload(cfg)
	return r
}

// Reload updates the registry based on new configuration.
// Providers that are no longer configured will be unregistered.
// Providers with changed settings will be re-registered.
func (r *Registry) Reload(cfg RegistryConfig) {
	r.mu.Lock()
	defer r.mu.Unlock()

	wantExtractor := make(map[string]bool)
	wantChat := make(map[string]bool)

	for name, ec := range cfg.Extractors {
		if !ec.Enabled {
			continue
		}
		prev, applied := r.extractorCfgs[name]
		_, registered := r.extractors[name]
		if applied && registered && prev == ec {
			wantExtractor[name] = true
			continue
		}
		e, err := createExtractor(ec, r.logger)
		if err != nil {
			r.logf("skipping extractor", "name", name, "error", err)
			continue
		}
		wantExtractor[name] = true
		r.extractors[name] = e
		r.extractorCfgs[name] = ec
		r.logf(updatedOrRegistered(registered, "extractor"), "name", name, "type", ec.Type)
	}

	for name, bc := range cfg.ChatBackends {
		if !bc.Enabled {
			continue
		}
		prev, applied := r.chatCfgs[name]
		_, registered := r.chatBackends[name]
		if applied && registered && prev == bc {
			wantChat[name] = true
			continue
		}
		b, err := createChatBackend(bc)
		if err != nil {
			r.logf("skipping chat backend", "name", name, "error", err)
			continue
		}
		wantChat[name] = true
		r.chatBackends[name] = b
		r.chatCfgs[name] = bc
		r.logf(updatedOrRegistered(registered, "chat backend"), "name", name, "type", bc.Type)
	}

	// Only config-created providers are removed; manually registered ones stay.
	for name := range r.extractorCfgs {
		if !wantExtractor[name] {
			delete(r.extractors, name)
			delete(r.extractorCfgs, name)
			r.logf("unregistered extractor", "name", name)
		}
	}
	for name := range r.chatCfgs {
		if !wantChat[name] {
			delete(r.chatBackends, name)
			delete(r.chatCfgs, name)
			r.logf("unregistered chat backend", "name", name)
		}
	}
}

func (r *Registry) logf(msg string, args ...any) {
	if r.logger != nil {
		r.logger.Info(msg, args...)
	}
}

func updatedOrRegistered(existed bool, kind string) string {
	if existed {
		return "updated " + kind
	}
	return "registered " + kind
}

// createExtractor creates an extractor based on provider type.
func createExtractor(cfg ExtractorConfig, logger *slog.Logger) (Extractor, error) {
	switch cfg.Type {
	case LandingAIName:
		if cfg.APIKey == "" && !cfg.SampleFallback {
			return nil, fmt.Errorf("landingai extractor requires an api key")
		}
		return NewLandingAIClient(LandingAIConfig{
			APIKey:         cfg.APIKey,
			BaseURL:        cfg.BaseURL,
			Timeout:        cfg.Timeout,
			RateLimit:      cfg.RateLimit,
			SampleFallback: cfg.SampleFallback,
			Logger:         logger,
		}), nil
	case MockName:
		return NewMockExtractor(), nil
	default:
		return nil, fmt.Errorf("unknown extractor type: %q", cfg.Type)
	}
}

// createChatBackend creates a chat backend based on provider type.
func createChatBackend(cfg ChatBackendConfig) (ChatBackend, error) {
	switch cfg.Type {
	case ProxyName:
		if cfg.BaseURL == "" {
			return nil, fmt.Errorf("proxy chat backend requires base_url")
		}
		return NewProxyClient(ProxyConfig{
			BaseURL: cfg.BaseURL,
			APIKey:  cfg.APIKey,
			Timeout: cfg.Timeout,
		}), nil
	case OpenAIChatName:
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("openai chat backend requires an api key")
		}
		return NewOpenAIChatClient(OpenAIChatConfig{
			APIKey:      cfg.APIKey,
			Model:       cfg.Model,
			BaseURL:     cfg.BaseURL,
			Temperature: cfg.Temperature,
			Timeout:     cfg.Timeout,
			RateLimit:   cfg.RateLimit,
		}), nil
	case MockName:
		return NewMockChat(), nil
	default:
		return nil, fmt.Errorf("unknown chat backend type: %q", cfg.Type)
	}
}
