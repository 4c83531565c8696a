package config

// Config holds docview configuration.
// Stored at: {home}/config.yaml
type Config struct {
	Extractors   map[string]ExtractorCfg   `mapstructure:"extractors" yaml:"extractors"`
	ChatBackends map[string]ChatBackendCfg `mapstructure:"chat_backends" yaml:"chat_backends"`
	Defaults     DefaultsCfg               `mapstructure:"defaults" yaml:"defaults"`
	Upload       UploadCfg                 `mapstructure:"upload" yaml:"upload"`
	Session      SessionCfg                `mapstructure:"session" yaml:"session"`
}

// ExtractorCfg configures a document extraction service.
type ExtractorCfg struct {
	Type           string `mapstructure:"type" yaml:"type"`                       // "landingai", "mock"
	BaseURL        string `mapstructure:"base_url" yaml:"base_url,omitempty"`     // Endpoint override
	APIKey         string `mapstructure:"api_key" yaml:"api_key,omitempty"`       // API key (supports ${ENV_VAR} syntax)
	TimeoutSeconds int    `mapstructure:"timeout_seconds" yaml:"timeout_seconds"` // HTTP timeout
	RateLimit      int    `mapstructure:"rate_limit" yaml:"rate_limit"`           // Requests per minute (0 = unpaced)
	SampleFallback bool   `mapstructure:"sample_fallback" yaml:"sample_fallback"` // Serve the sample document when unreachable
	Enabled        bool   `mapstructure:"enabled" yaml:"enabled"`
}

// ChatBackendCfg configures a chat backend.
type ChatBackendCfg struct {
	Type           string  `mapstructure:"type" yaml:"type"`                   // "proxy", "openai", "mock"
	BaseURL        string  `mapstructure:"base_url" yaml:"base_url,omitempty"` // Proxy URL or OpenAI-compatible gateway
	APIKey         string  `mapstructure:"api_key" yaml:"api_key,omitempty"`   // API key (supports ${ENV_VAR} syntax)
	Model          string  `mapstructure:"model" yaml:"model,omitempty"`       // Model name (openai)
	Temperature    float64 `mapstructure:"temperature" yaml:"temperature,omitempty"`
	TimeoutSeconds int     `mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
	RateLimit      int     `mapstructure:"rate_limit" yaml:"rate_limit"` // Requests per minute
	Enabled        bool    `mapstructure:"enabled" yaml:"enabled"`
}

// DefaultsCfg specifies default provider selections.
type DefaultsCfg struct {
	Extractor   string `mapstructure:"extractor" yaml:"extractor"`
	ChatBackend string `mapstructure:"chat_backend" yaml:"chat_backend"`
	Parser      string `mapstructure:"parser" yaml:"parser"` // A chat backend of type proxy
}

// UploadCfg bounds accepted uploads and sets extraction flags.
type UploadCfg struct {
	MaxBytes                  int64 `mapstructure:"max_bytes" yaml:"max_bytes"`
	MaxPDFPages               int   `mapstructure:"max_pdf_pages" yaml:"max_pdf_pages"`
	EnforcePDFPages           bool  `mapstructure:"enforce_pdf_pages" yaml:"enforce_pdf_pages"`
	IncludeMarginalia         bool  `mapstructure:"include_marginalia" yaml:"include_marginalia"`
	IncludeMetadataInMarkdown bool  `mapstructure:"include_metadata_in_markdown" yaml:"include_metadata_in_markdown"`
}

// SessionCfg controls in-memory session lifetime.
type SessionCfg struct {
	TTLMinutes           int `mapstructure:"ttl_minutes" yaml:"ttl_minutes"`
	SweepIntervalSeconds int `mapstructure:"sweep_interval_seconds" yaml:"sweep_interval_seconds"`
}

// DefaultConfig returns configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Extractors: map[string]ExtractorCfg{
			"landingai": {
				Type:           "landingai",
				APIKey:         "${VISION_AGENT_API_KEY}",
				TimeoutSeconds: 300,
				SampleFallback: true,
				Enabled:        true,
			},
			"mock": {
				Type:    "mock",
				Enabled: true,
			},
		},
		ChatBackends: map[string]ChatBackendCfg{
			"proxy": {
				Type:           "proxy",
				BaseURL:        "http://localhost:8000",
				APIKey:         "${VISION_AGENT_API_KEY}",
				TimeoutSeconds: 120,
				Enabled:        true,
			},
			"openai": {
				Type:           "openai",
				Model:          "gpt-4o-mini",
				APIKey:         "${OPENAI_API_KEY}",
				TimeoutSeconds: 120,
				RateLimit:      60,
				Enabled:        true,
			},
			"mock": {
				Type:    "mock",
				Enabled: true,
			},
		},
		Defaults: DefaultsCfg{
			Extractor:   "landingai",
			ChatBackend: "proxy",
			Parser:      "proxy",
		},
		Upload: UploadCfg{
			MaxBytes:    250 << 20,
			MaxPDFPages: 50,
		},
		Session: SessionCfg{
			TTLMinutes:           120,
			SweepIntervalSeconds: 60,
		},
	}
}

// GetExtractor returns an extractor config by name.
func (c *Config) GetExtractor(name string) (ExtractorCfg, bool) {
	cfg, ok := c.Extractors[name]
	return cfg, ok
}

// GetChatBackend returns a chat backend config by name.
func (c *Config) GetChatBackend(name string) (ChatBackendCfg, bool) {
	cfg, ok := c.ChatBackends[name]
	return cfg, ok
}

// EnabledExtractors returns all enabled extractors.
func (c *Config) EnabledExtractors() map[string]ExtractorCfg {
	result := make(map[string]ExtractorCfg)
	for name, cfg := range c.Extractors {
		if cfg.Enabled {
			result[name] = cfg
		}
	}
	return result
}

// EnabledChatBackends returns all enabled chat backends.
func (c *Config) EnabledChatBackends() map[string]ChatBackendCfg {
	result := make(map[string]ChatBackendCfg)
	for name, cfg := range c.ChatBackends {
		if cfg.Enabled {
			result[name] = cfg
		}
	}
	return result
}
