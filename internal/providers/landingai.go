package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strconv"
	"time"

	"github.com/jackzampolin/docview/internal/types"
)

const (
	LandingAIName    = "landingai"
	LandingAIBaseURL = "https://api.va.landing.ai/v1/tools/agentic-document-analysis"
)

// LandingAIConfig holds configuration for the agentic document analysis client.
type LandingAIConfig struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
	// RateLimit is in requests per minute (0 disables pacing).
	RateLimit int
	// SampleFallback returns the embedded sample document when the
	// service is unreachable.
	SampleFallback bool
	HTTPClient     *http.Client // Optional (tests)
	Logger         *slog.Logger
}

// LandingAIClient implements Extractor against the agentic document
// analysis endpoint.
type LandingAIClient struct {
	cfg     LandingAIConfig
	limiter *RateLimiter
	client  *http.Client
	logger  *slog.Logger
}

// NewLandingAIClient creates a new extraction client.
func NewLandingAIClient(cfg LandingAIConfig) *LandingAIClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = LandingAIBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 5 * time.Minute
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var limiter *RateLimiter
	if cfg.RateLimit > 0 {
		limiter = NewRateLimiter(cfg.RateLimit)
	}

	return &LandingAIClient{
		cfg:     cfg,
		limiter: limiter,
		client:  client,
		logger:  logger,
	}
}

// Name returns the provider identifier.
func (c *LandingAIClient) Name() string {
	return LandingAIName
}

// Limiter returns the request pacer, or nil when pacing is off.
func (c *LandingAIClient) Limiter() *RateLimiter {
	return c.limiter
}

// Extract uploads the document as multipart form data.
func (c *LandingAIClient) Extract(ctx context.Context, req *ExtractRequest) (*ExtractResult, error) {
	start := time.Now()

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	body, contentType, err := encodeExtractForm(req)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", contentType)
	httpReq.Header.Set("Authorization", "Basic "+c.cfg.APIKey)
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		terr := &TransportError{Service: "extraction", Err: err}
		if c.cfg.SampleFallback && IsCORSLike(terr) {
			c.logger.Warn("extraction service unreachable, returning sample document",
				"file", req.FileName, "error", err)
			return &ExtractResult{
				Document:      *SampleDocument(),
				Sample:        true,
				ExecutionTime: time.Since(start),
			}, nil
		}
		return nil, terr
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Service: "extraction", Err: fmt.Errorf("failed to read response: %w", err)}
	}

	if resp.StatusCode == http.StatusTooManyRequests && c.limiter != nil {
		c.limiter.Record429()
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{
			Service: "extraction",
			Status:  resp.StatusCode,
			Detail:  parseDetail(resp.StatusCode, respBody),
		}
	}

	var envelope extractionEnvelope
	if err := json.Unmarshal(respBody, &envelope); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	doc := envelope.Data
	doc.Errors = append(doc.Errors, envelope.Errors...)

	return &ExtractResult{
		Document:      doc,
		ExecutionTime: time.Since(start),
	}, nil
}

// encodeExtractForm writes the document under the "pdf" or "image" field
// followed by the extraction flags.
func encodeExtractForm(req *ExtractRequest) (io.Reader, string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, req.Kind.FieldName(), req.FileName))
	header.Set("Content-Type", string(req.Kind))
	part, err := mw.CreatePart(header)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := part.Write(req.Data); err != nil {
		return nil, "", fmt.Errorf("failed to write form file: %w", err)
	}

	fields := []struct{ name, value string }{
		{"include_marginalia", strconv.FormatBool(req.IncludeMarginalia)},
		{"include_metadata_in_markdown", strconv.FormatBool(req.IncludeMetadataInMarkdown)},
	}
	if req.Pages != "" {
		fields = append(fields, struct{ name, value string }{"pages", req.Pages})
	}
	for _, f := range fields {
		if err := mw.WriteField(f.name, f.value); err != nil {
			return nil, "", fmt.Errorf("failed to write form field %s: %w", f.name, err)
		}
	}

	if err := mw.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to close form: %w", err)
	}
	return &buf, mw.FormDataContentType(), nil
}

// Extraction API types

type extractionEnvelope struct {
	Data   types.DocumentResponse `json:"data"`
	Errors []types.PageError      `json:"errors,omitempty"`
}

// Verify interface
var _ Extractor = (*LandingAIClient)(nil)
